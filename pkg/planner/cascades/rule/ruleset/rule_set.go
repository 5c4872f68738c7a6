// Copyright 2025 PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ruleset

import (
	"maps"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule/implementation"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule/join"
	eoj "github.com/pingcap/cascades/pkg/planner/cascades/rule/join/eliminate_outer_join"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule/limit"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule/projection"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule/selection"
	"github.com/pingcap/cascades/pkg/planner/pattern"
	"github.com/pingcap/errors"
)

// DefaultTransformationRules indicates the exploration rules rooted from each operand.
var DefaultTransformationRules = map[pattern.Operand][]rule.TransformationRule{
	pattern.OperandSelection: {
		selection.NewXFPushSelectionDownJoin(),
		selection.NewXFMergeAdjacentSelection(),
	},
	pattern.OperandJoin: {
		join.NewXFJoinCommutativity(),
	},
	pattern.OperandProjection: {
		projection.NewXFEliminateProjection(),
	},
	pattern.OperandAggregation: {
		eoj.NewXFEliminateOuterJoinBelowAggregation(),
	},
}

// DefaultImplementationRules indicates the implementation rules rooted from each operand.
var DefaultImplementationRules = map[pattern.Operand][]rule.ImplementationRule{
	pattern.OperandDataSource:  {implementation.NewImplDataSource()},
	pattern.OperandSelection:   {implementation.NewImplSelection()},
	pattern.OperandProjection:  {implementation.NewImplProjection()},
	pattern.OperandJoin:        {implementation.NewImplHashJoin()},
	pattern.OperandAggregation: {implementation.NewImplHashAgg(), implementation.NewImplStreamAgg()},
	pattern.OperandSort:        {implementation.NewImplSort()},
	pattern.OperandLimit:       {implementation.NewImplLimit()},
}

// DefaultRootRules are applied on the input plan before it enters the memo.
var DefaultRootRules = []rule.RootRule{
	limit.NewAddDefaultLimit(),
}

// ListRules is a list of rules.
type ListRules[T interface{ ID() uint }] []T

// Filter mask out rules which is in mask uint64.
func (l ListRules[T]) Filter(mask *bitset.BitSet) ListRules[T] {
	res := make([]T, 0, len(l))
	for _, one := range l {
		if mask.Test(one.ID()) {
			res = append(res, one)
		}
	}
	return res
}

// RuleSet holds the rules of one optimization. The rules themselves are stateless and
// shared, the enabled mask is owned by the RuleSet.
type RuleSet struct {
	transformation map[pattern.Operand][]rule.TransformationRule
	implementation map[pattern.Operand][]rule.ImplementationRule
	root           []rule.RootRule

	enabled *bitset.BitSet
}

// Option customizes the rules of a RuleSet.
type Option func(rs *RuleSet)

// WithTransformationRules registers extra exploration rules rooted from the operand. Their
// ids have to be above rule.MaxRuleType, the extra rules are enabled and can't be disabled
// by name.
func WithTransformationRules(operand pattern.Operand, rules ...rule.TransformationRule) Option {
	return func(rs *RuleSet) {
		rs.transformation = maps.Clone(rs.transformation)
		rs.transformation[operand] = append(slices.Clone(rs.transformation[operand]), rules...)
		for _, one := range rules {
			rs.enabled.Set(one.ID())
		}
	}
}

// NewRuleSet creates a RuleSet with all the default rules enabled.
func NewRuleSet(opts ...Option) *RuleSet {
	rs := &RuleSet{
		transformation: DefaultTransformationRules,
		implementation: DefaultImplementationRules,
		root:           DefaultRootRules,
		enabled:        bitset.New(uint(rule.MaxRuleType)),
	}
	for tp := rule.DefaultNone + 1; tp < rule.MaxRuleType; tp++ {
		rs.enabled.Set(uint(tp))
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Clone returns a RuleSet sharing the rules with its own enabled mask.
func (rs *RuleSet) Clone() *RuleSet {
	cloned := *rs
	cloned.enabled = rs.enabled.Clone()
	return &cloned
}

// TransformationRules returns the enabled exploration rules rooted from the operand.
func (rs *RuleSet) TransformationRules(operand pattern.Operand) []rule.TransformationRule {
	return ListRules[rule.TransformationRule](rs.transformation[operand]).Filter(rs.enabled)
}

// ImplementationRules returns the enabled implementation rules rooted from the operand.
func (rs *RuleSet) ImplementationRules(operand pattern.Operand) []rule.ImplementationRule {
	return ListRules[rule.ImplementationRule](rs.implementation[operand]).Filter(rs.enabled)
}

// RootRules returns the enabled root rules.
func (rs *RuleSet) RootRules() []rule.RootRule {
	return ListRules[rule.RootRule](rs.root).Filter(rs.enabled)
}

// IsDisabled checks whether the rule is disabled.
func (rs *RuleSet) IsDisabled(tp rule.Type) bool {
	return !rs.enabled.Test(uint(tp))
}

// DisabledRules returns the names of the disabled rules.
func (rs *RuleSet) DisabledRules() []string {
	var names []string
	for tp := rule.DefaultNone + 1; tp < rule.MaxRuleType; tp++ {
		if rs.IsDisabled(tp) {
			names = append(names, tp.String())
		}
	}
	return names
}

// Disable disables the rules by name. The returned restore puts the enabled mask back to
// what it was before the call, nothing is changed when a name is unknown.
func (rs *RuleSet) Disable(names ...string) (restore func(), err error) {
	types := make([]rule.Type, 0, len(names))
	for _, name := range names {
		tp, ok := rule.TypeByName(name)
		if !ok {
			return nil, errors.Errorf("unknown rule %s", name)
		}
		types = append(types, tp)
	}
	saved := rs.enabled.Clone()
	for _, tp := range types {
		rs.enabled.Clear(uint(tp))
	}
	return func() {
		rs.enabled = saved
	}, nil
}
