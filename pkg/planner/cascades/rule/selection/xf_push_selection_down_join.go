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

package selection

import (
	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/pattern"
)

var _ rule.TransformationRule = &XFPushSelectionDownJoin{}

// XFPushSelectionDownJoin pushes the filters above a join into the join and its children.
// For an inner join, a filter on one side goes into that child and a filter across both
// sides becomes a join condition. For an outer join only the filters on the outer side
// are pushed, the rest stays above the join.
type XFPushSelectionDownJoin struct {
	*rule.BaseRule
}

// NewXFPushSelectionDownJoin creates a new PushSelectionDownJoin rule.
func NewXFPushSelectionDownJoin() *XFPushSelectionDownJoin {
	pa := pattern.BuildPattern(pattern.OperandSelection,
		pattern.BuildPattern(pattern.OperandJoin,
			pattern.NewPattern(pattern.OperandAny),
			pattern.NewPattern(pattern.OperandAny)))
	return &XFPushSelectionDownJoin{
		BaseRule: rule.NewBaseRule(rule.XFPushSelectionDownJoin, pa),
	}
}

// XForm implements the TransformationRule interface.
func (*XFPushSelectionDownJoin) XForm(selHolder corebase.LogicalPlan) ([]corebase.LogicalPlan, error) {
	sel := selHolder.GetWrappedLogicalPlan().(*logicalop.LogicalSelection)
	joinHolder := selHolder.Children()[0]
	join := joinHolder.GetWrappedLogicalPlan().(*logicalop.LogicalJoin)
	leftGE, rightGE := joinHolder.Children()[0], joinHolder.Children()[1]
	lSchema, rSchema := leftGE.Schema(), rightGE.Schema()

	var leftConds, rightConds, remained []expression.Expression
	eqConds := append([]*expression.ScalarFunction(nil), join.EqualConditions...)
	otherConds := append([]expression.Expression(nil), join.OtherConditions...)
	for _, cond := range sel.Conditions {
		switch {
		case join.JoinType != logicalop.RightOuterJoin && expression.ExprFromSchema(cond, lSchema):
			leftConds = append(leftConds, cond)
		case join.JoinType != logicalop.LeftOuterJoin && expression.ExprFromSchema(cond, rSchema):
			rightConds = append(rightConds, cond)
		case join.JoinType == logicalop.InnerJoin:
			if _, _, ok := expression.IsEQCondFromDifferentChild(cond, lSchema, rSchema); ok {
				eqConds = append(eqConds, cond.(*expression.ScalarFunction))
			} else {
				otherConds = append(otherConds, cond)
			}
		default:
			remained = append(remained, cond)
		}
	}
	if len(remained) == len(sel.Conditions) {
		return nil, nil
	}
	newLeft, newRight := leftGE, rightGE
	if len(leftConds) > 0 {
		newLeft = logicalop.LogicalSelection{Conditions: leftConds}.Init(leftGE)
	}
	if len(rightConds) > 0 {
		newRight = logicalop.LogicalSelection{Conditions: rightConds}.Init(rightGE)
	}
	var res corebase.LogicalPlan = logicalop.LogicalJoin{
		JoinType:        join.JoinType,
		EqualConditions: eqConds,
		OtherConditions: otherConds,
	}.Init(newLeft, newRight)
	if len(remained) > 0 {
		res = logicalop.LogicalSelection{Conditions: remained}.Init(res)
	}
	return []corebase.LogicalPlan{res}, nil
}
