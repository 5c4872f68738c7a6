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

package memo

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/pingcap/cascades/pkg/expression"
	base2 "github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
)

var _ base.LogicalPlan = &GroupExpression{}

// GroupExpression is a single expression from the equivalent list classes inside a group.
// it is a node in the expression tree, while it takes groups as inputs. This kind of loose
// coupling between Group and GroupExpression is the key to the success of the memory
// compact of representing a forest.
//
// A GroupExpression is also a base.LogicalPlan leaf: inside a rule binding or a rule
// output it stands for the whole group it belongs to.
type GroupExpression struct {
	// group is the Group that this GroupExpression belongs to.
	group *Group

	// Inputs stores the child groups that this GroupExpression based on.
	Inputs []GroupID

	// LogicalPlan is the logical operator of a logical expression.
	LogicalPlan base.LogicalPlan

	// PhysicalPlan is the childless physical operator of a physical expression.
	PhysicalPlan base.PhysicalPlan

	// hash64 is the unique fingerprint of the GroupExpression.
	hash64 uint64

	// mask indicates the rules that have been applied on this expression.
	mask *bitset.BitSet

	// abandoned is set once the expression is dropped by a group merge.
	abandoned bool
}

// NewGroupExpression creates a new logical GroupExpression with the given logical plan and children.
func NewGroupExpression(lp base.LogicalPlan, inputs []GroupID) *GroupExpression {
	return &GroupExpression{
		Inputs:      inputs,
		LogicalPlan: lp,
		mask:        bitset.New(1),
	}
}

// NewPhysicalGroupExpression creates a new physical GroupExpression.
func NewPhysicalGroupExpression(pp base.PhysicalPlan, inputs []GroupID) *GroupExpression {
	return &GroupExpression{
		Inputs:       inputs,
		PhysicalPlan: pp,
	}
}

// Init initializes the GroupExpression with the given hasher.
func (e *GroupExpression) Init(h base2.Hasher) {
	h.Reset()
	e.Hash64(h)
	e.hash64 = h.Sum64()
}

// Sum64 returns the cached hash64 of the GroupExpression.
func (e *GroupExpression) Sum64() uint64 {
	return e.hash64
}

// GetGroup gets the Group that this GroupExpression belongs to.
func (e *GroupExpression) GetGroup() *Group {
	return e.group
}

// IsPhysical indicates whether the expression wraps a physical operator.
func (e *GroupExpression) IsPhysical() bool {
	return e.PhysicalPlan != nil
}

// IsAbandoned indicates whether the expression has been dropped from the memo.
func (e *GroupExpression) IsAbandoned() bool {
	return e.abandoned
}

// IsRuleApplied checks whether the rule has been applied on this expression.
func (e *GroupExpression) IsRuleApplied(ruleID uint) bool {
	return e.mask.Test(ruleID)
}

// SetRuleApplied marks the rule as applied on this expression.
func (e *GroupExpression) SetRuleApplied(ruleID uint) {
	e.mask.Set(ruleID)
}

// ******************************************* start of HashEqual methods *******************************************

// Hash64 implements the HashEquals.<0th> interface.
func (e *GroupExpression) Hash64(h base2.Hasher) {
	e.LogicalPlan.Hash64(h)
	h.HashInt(len(e.Inputs))
	for _, id := range e.Inputs {
		h.HashUint64(uint64(id))
	}
}

// Equals implements the HashEquals.<1st> interface.
func (e *GroupExpression) Equals(other any) bool {
	e2, ok := other.(*GroupExpression)
	if !ok || e == nil || e2 == nil {
		return ok && e == e2
	}
	if len(e.Inputs) != len(e2.Inputs) {
		return false
	}
	for i, id := range e.Inputs {
		if id != e2.Inputs[i] {
			return false
		}
	}
	return e.LogicalPlan.Equals(e2.LogicalPlan)
}

// ******************************************* end of HashEqual methods *******************************************

// *************************** start implementation of logicalPlan interface ***************************

// TP implements the base.Plan interface.
func (e *GroupExpression) TP() string {
	if e.IsPhysical() {
		return e.PhysicalPlan.TP()
	}
	return e.LogicalPlan.TP()
}

// ExplainInfo implements the base.Plan interface.
func (e *GroupExpression) ExplainInfo() string {
	if e.IsPhysical() {
		return e.PhysicalPlan.ExplainInfo()
	}
	return e.LogicalPlan.ExplainInfo()
}

// Schema returns the schema of the group, which is shared by all the expressions inside.
func (e *GroupExpression) Schema() *expression.Schema {
	if e.group != nil && e.group.LogicalProp != nil {
		return e.group.LogicalProp.Schema
	}
	return e.LogicalPlan.Schema()
}

// Children implements the base.LogicalPlan interface, a GroupExpression is always a leaf.
func (*GroupExpression) Children() []base.LogicalPlan {
	return nil
}

// WithChildren binds the wrapped logical operator over the given children.
func (e *GroupExpression) WithChildren(children ...base.LogicalPlan) base.LogicalPlan {
	return e.LogicalPlan.WithChildren(children...)
}

// DeriveStats implements the base.LogicalPlan interface.
func (e *GroupExpression) DeriveStats(sctx base.StatsContext, childStats []*property.StatsInfo, childSchema []*expression.Schema) (*property.StatsInfo, error) {
	return e.LogicalPlan.DeriveStats(sctx, childStats, childSchema)
}

// GetWrappedLogicalPlan implements the base.LogicalPlan interface.
func (e *GroupExpression) GetWrappedLogicalPlan() base.LogicalPlan {
	return e.LogicalPlan.GetWrappedLogicalPlan()
}

// *************************** end implementation of logicalPlan interface ***************************

// String implements the fmt.Stringer interface, e.g. "Join{inner join}(G2, G3)".
func (e *GroupExpression) String() string {
	var b strings.Builder
	b.WriteString(e.TP())
	if info := e.ExplainInfo(); info != "" {
		b.WriteString("{")
		b.WriteString(info)
		b.WriteString("}")
	}
	if len(e.Inputs) > 0 {
		b.WriteString("(")
		for i, id := range e.Inputs {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("G")
			b.WriteString(strconv.FormatUint(uint64(id), 10))
		}
		b.WriteString(")")
	}
	return b.String()
}
