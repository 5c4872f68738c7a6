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
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/pattern"
)

// Binder enumerates the holders of a pattern rooted at one group expression.
type Binder struct {
	mm      *memo.Memo
	pattern *pattern.Pattern
	ge      *memo.GroupExpression
}

// NewBinder creates a new Binder.
func NewBinder(mm *memo.Memo, p *pattern.Pattern, ge *memo.GroupExpression) *Binder {
	return &Binder{mm: mm, pattern: p, ge: ge}
}

// Bind returns every holder matching the pattern. A pattern node without children binds
// the group expression itself as a leaf, while an inner pattern node rebuilds the
// operator over the holders of its children. Any leaf binds the first logical expression
// of the group and stands for the whole group.
func (b *Binder) Bind() []base.LogicalPlan {
	return b.bindExpr(b.pattern, b.ge)
}

func (b *Binder) bindExpr(p *pattern.Pattern, ge *memo.GroupExpression) []base.LogicalPlan {
	if ge.IsAbandoned() || !p.Match(pattern.GetOperand(ge.LogicalPlan)) {
		return nil
	}
	if len(p.Children) == 0 {
		return []base.LogicalPlan{ge}
	}
	if len(p.Children) != len(ge.Inputs) {
		return nil
	}
	childHolders := make([][]base.LogicalPlan, 0, len(p.Children))
	for i, childPattern := range p.Children {
		holders := b.bindGroup(childPattern, b.mm.GetGroup(ge.Inputs[i]))
		if len(holders) == 0 {
			return nil
		}
		childHolders = append(childHolders, holders)
	}
	var res []base.LogicalPlan
	cartesian(childHolders, make([]base.LogicalPlan, 0, len(childHolders)), func(children []base.LogicalPlan) {
		res = append(res, ge.LogicalPlan.WithChildren(children...))
	})
	return res
}

func (b *Binder) bindGroup(p *pattern.Pattern, g *memo.Group) []base.LogicalPlan {
	if g == nil {
		return nil
	}
	if p.MatchOperandAny() && len(p.Children) == 0 {
		if front := g.LogicalExpressions.Front(); front != nil {
			return []base.LogicalPlan{front.Value.(*memo.GroupExpression)}
		}
		return nil
	}
	var res []base.LogicalPlan
	for elem := g.GetFirstElem(p.Operand); elem != nil; elem = elem.Next() {
		ge := elem.Value.(*memo.GroupExpression)
		if !p.Match(pattern.GetOperand(ge.LogicalPlan)) {
			// same operands are clustered together.
			break
		}
		res = append(res, b.bindExpr(p, ge)...)
	}
	return res
}

func cartesian(lists [][]base.LogicalPlan, prefix []base.LogicalPlan, f func([]base.LogicalPlan)) {
	if len(prefix) == len(lists) {
		f(append([]base.LogicalPlan(nil), prefix...))
		return
	}
	for _, one := range lists[len(prefix)] {
		cartesian(lists, append(prefix, one), f)
	}
}
