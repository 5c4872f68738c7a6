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

package rule

import (
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/pattern"
	"github.com/pingcap/cascades/pkg/planner/property"
)

// Rule regulates the common interface of all the rules in cascades.
type Rule interface {
	// ID returns the unique id of the rule, it is the bit position in the rule masks.
	ID() uint
	// String returns the name of the rule.
	String() string
	// Pattern returns the pattern that the rule is interested in.
	Pattern() *pattern.Pattern
	// Match checks whether the bound holder satisfies the rule beyond its pattern.
	Match(holder base.LogicalPlan) bool
}

// TransformationRule generates logically equivalent alternatives of a bound holder.
//
// A holder is a logical plan tree shaped like the pattern, its leaves are
// *memo.GroupExpression which stand for their whole group. An output which is a bare
// group expression means the two groups are equivalent.
type TransformationRule interface {
	Rule
	// XForm returns the alternatives, nil means nothing is generated.
	XForm(holder base.LogicalPlan) ([]base.LogicalPlan, error)
}

// ImplementationRule generates physical operators for a logical expression. The holder of an
// implementation rule is the group expression itself, the physical operators take the
// same input groups as it.
type ImplementationRule interface {
	Rule
	// Implement returns the childless physical operators.
	Implement(holder base.LogicalPlan) ([]base.PhysicalPlan, error)
}

// RootRule rewrites the whole input plan once, before the plan enters the memo.
type RootRule interface {
	ID() uint
	String() string
	// Rewrite returns the rewritten plan and whether anything changed.
	Rewrite(plan base.LogicalPlan, required *property.PhysicalProperty, vars *base.OptimizerVars) (base.LogicalPlan, bool)
}

// BaseRule is the base struct of all the rules.
type BaseRule struct {
	tp      Type
	pattern *pattern.Pattern
}

// NewBaseRule creates a new BaseRule.
func NewBaseRule(tp Type, pa *pattern.Pattern) *BaseRule {
	return &BaseRule{tp: tp, pattern: pa}
}

// ID implements the Rule interface.
func (r *BaseRule) ID() uint {
	return uint(r.tp)
}

// String implements the Rule interface.
func (r *BaseRule) String() string {
	return r.tp.String()
}

// Pattern implements the Rule interface.
func (r *BaseRule) Pattern() *pattern.Pattern {
	return r.pattern
}

// Match implements the Rule interface, the pattern is all it takes by default.
func (*BaseRule) Match(base.LogicalPlan) bool {
	return true
}
