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
	"container/list"

	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/pattern"
	"github.com/pingcap/cascades/pkg/planner/property"
)

var _ base.HashEquals = &Group{}

// Winner is the lowest cost plan found so far for a group and a required property.
type Winner struct {
	// Expr is the winning physical expression, it is nil for an enforcer winner.
	Expr *GroupExpression
	// Enforcer is the enforcer operator, its only child is the same group under ChildProps[0].
	Enforcer plannerbase.PhysicalPlan
	// Cost is the total cost of the plan tree.
	Cost float64
	// ChildProps are the properties required from the children.
	ChildProps []*property.PhysicalProperty
	// Prop is the property the winner provides.
	Prop *property.PhysicalProperty
}

// Group is basic infra to store all the logically equivalent expressions
// for one logical operator in current context.
type Group struct {
	// groupID indicates the uniqueness of this group, also for encoding.
	GroupID GroupID

	// LogicalExpressions indicates the logical equiv classes for this group.
	LogicalExpressions *list.List

	// Operand2FirstExpr is used to locate to the first same type logical expression
	// in list above instead of traverse them all.
	Operand2FirstExpr map[pattern.Operand]*list.Element

	// expr2Elem locates the list element of a logical expression.
	expr2Elem map[*GroupExpression]*list.Element

	// PhysicalExpressions are the implementations of the logical expressions.
	PhysicalExpressions []*GroupExpression

	// winners is keyed by the hash code of the required property.
	winners map[string]*Winner

	// optimized records the required properties the group has been optimized for.
	optimized map[string]struct{}

	// LogicalProp indicates the logical property.
	LogicalProp *property.LogicalProperty

	// Explored indicates whether this group has been explored.
	Explored bool
}

// NewGroup creates a new Group with given logical prop.
func NewGroup(prop *property.LogicalProperty) *Group {
	g := &Group{
		LogicalExpressions: list.New(),
		Operand2FirstExpr:  make(map[pattern.Operand]*list.Element),
		expr2Elem:          make(map[*GroupExpression]*list.Element),
		winners:            make(map[string]*Winner),
		optimized:          make(map[string]struct{}),
		LogicalProp:        prop,
	}
	return g
}

// ******************************************* start of HashEqual methods *******************************************

// Hash64 implements the HashEquals.<0th> interface.
func (g *Group) Hash64(h base.Hasher) {
	h.HashUint64(uint64(g.GroupID))
}

// Equals implements the HashEquals.<1st> interface.
func (g *Group) Equals(other any) bool {
	if other == nil {
		return false
	}
	switch x := other.(type) {
	case *Group:
		return g.GroupID == x.GroupID
	case Group:
		return g.GroupID == x.GroupID
	default:
		return false
	}
}

// ******************************************* end of HashEqual methods *******************************************

// Insert adds a logical GroupExpression to the Group, same operands are clustered together.
// A new logical expression means the group has to be explored again.
func (g *Group) Insert(e *GroupExpression) bool {
	if e == nil {
		return false
	}
	if _, ok := g.expr2Elem[e]; ok {
		return false
	}
	operand := pattern.GetOperand(e.LogicalPlan)
	var newEquiv *list.Element
	mark, ok := g.Operand2FirstExpr[operand]
	if ok {
		// cluster same operands together.
		newEquiv = g.LogicalExpressions.InsertAfter(e, mark)
	} else {
		// otherwise, put it at the end.
		newEquiv = g.LogicalExpressions.PushBack(e)
		g.Operand2FirstExpr[operand] = newEquiv
	}
	g.expr2Elem[e] = newEquiv
	e.group = g
	g.Explored = false
	return true
}

// Delete removes a logical GroupExpression from the Group.
func (g *Group) Delete(e *GroupExpression) {
	elem, ok := g.expr2Elem[e]
	if !ok {
		return
	}
	operand := pattern.GetOperand(e.LogicalPlan)
	if g.Operand2FirstExpr[operand] == elem {
		next := elem.Next()
		if next != nil && pattern.GetOperand(next.Value.(*GroupExpression).LogicalPlan) == operand {
			g.Operand2FirstExpr[operand] = next
		} else {
			delete(g.Operand2FirstExpr, operand)
		}
	}
	g.LogicalExpressions.Remove(elem)
	delete(g.expr2Elem, e)
}

// InsertPhysical adds a physical GroupExpression to the Group.
func (g *Group) InsertPhysical(e *GroupExpression) {
	e.group = g
	g.PhysicalExpressions = append(g.PhysicalExpressions, e)
}

// ForEachGE traverse the inside logical expressions with f call on them each.
func (g *Group) ForEachGE(f func(ge *GroupExpression) bool) {
	for elem := g.LogicalExpressions.Front(); elem != nil; elem = elem.Next() {
		if !f(elem.Value.(*GroupExpression)) {
			break
		}
	}
}

// GetLogicalExpressions returns a snapshot of the logical expressions.
func (g *Group) GetLogicalExpressions() []*GroupExpression {
	res := make([]*GroupExpression, 0, g.LogicalExpressions.Len())
	g.ForEachGE(func(ge *GroupExpression) bool {
		res = append(res, ge)
		return true
	})
	return res
}

// GetFirstElem returns the first logical expression of the operand, OperandAny means any operand.
func (g *Group) GetFirstElem(operand pattern.Operand) *list.Element {
	if operand == pattern.OperandAny {
		return g.LogicalExpressions.Front()
	}
	return g.Operand2FirstExpr[operand]
}

// GetWinner returns the winner for the required property, nil if there is none yet.
func (g *Group) GetWinner(prop *property.PhysicalProperty) *Winner {
	return g.winners[prop.HashCode()]
}

// UpdateWinner records w when it's strictly cheaper than the current winner, so the first
// discovered plan wins a tie.
func (g *Group) UpdateWinner(w *Winner) bool {
	key := w.Prop.HashCode()
	if old, ok := g.winners[key]; ok && old.Cost <= w.Cost {
		return false
	}
	g.winners[key] = w
	return true
}

// Winners returns all the winners keyed by the hash code of the property.
func (g *Group) Winners() map[string]*Winner {
	return g.winners
}

// IsOptimized checks whether the group has been optimized for the required property.
func (g *Group) IsOptimized(prop *property.PhysicalProperty) bool {
	_, ok := g.optimized[prop.HashCode()]
	return ok
}

// SetOptimized marks the group as optimized for the required property.
func (g *Group) SetOptimized(prop *property.PhysicalProperty) {
	g.optimized[prop.HashCode()] = struct{}{}
}

// resetOptimized forgets every optimized property, the winners are kept.
func (g *Group) resetOptimized() {
	g.optimized = make(map[string]struct{})
}

// GetStats returns the derived statistics, nil when not derived yet.
func (g *Group) GetStats() *property.StatsInfo {
	if g.LogicalProp == nil {
		return nil
	}
	return g.LogicalProp.Stats
}

// SetStats caches the derived statistics on the group.
func (g *Group) SetStats(stats *property.StatsInfo) {
	g.LogicalProp.Stats = stats
}
