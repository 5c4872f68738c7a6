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

package planner

import (
	"fmt"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/pattern"
	"github.com/pingcap/cascades/pkg/util/dbterror/plannererrors"
)

var childCount = map[pattern.Operand]int{
	pattern.OperandDataSource:  0,
	pattern.OperandSelection:   1,
	pattern.OperandProjection:  1,
	pattern.OperandJoin:        2,
	pattern.OperandAggregation: 1,
	pattern.OperandSort:        1,
	pattern.OperandLimit:       1,
}

// ValidateLogicalPlan rejects a plan the optimizer can't work on, it has to be a tree of
// supported operators whose columns are resolved against their children.
func ValidateLogicalPlan(p base.LogicalPlan) error {
	if p == nil {
		return plannererrors.ErrInvalidInputPlan.GenWithStackByArgs("nil plan")
	}
	if _, ok := p.(*memo.GroupExpression); ok {
		return plannererrors.ErrInvalidInputPlan.GenWithStackByArgs("group expression " + p.TP() + " is only allowed inside the memo")
	}
	operand := pattern.GetOperand(p)
	expected, ok := childCount[operand]
	if !ok {
		return plannererrors.ErrInvalidInputPlan.GenWithStackByArgs("unsupported operator " + p.TP())
	}
	children := p.Children()
	if len(children) != expected {
		return invalidf(p, "expects %d children, got %d", expected, len(children))
	}
	for _, child := range children {
		if err := ValidateLogicalPlan(child); err != nil {
			return err
		}
	}
	return validateColumns(p)
}

func validateColumns(p base.LogicalPlan) error {
	var input *expression.Schema
	switch len(p.Children()) {
	case 1:
		input = p.Children()[0].Schema()
	case 2:
		input = expression.MergeSchema(p.Children()[0].Schema(), p.Children()[1].Schema())
	}
	var used []*expression.Column
	switch x := p.(type) {
	case *logicalop.DataSource:
		if x.TableName == "" {
			return invalidf(p, "empty table name")
		}
		return nil
	case *logicalop.LogicalSelection:
		used = expression.ExtractColumnsFromExpressions(nil, x.Conditions...)
	case *logicalop.LogicalProjection:
		used = x.Cols
	case *logicalop.LogicalJoin:
		lSchema, rSchema := p.Children()[0].Schema(), p.Children()[1].Schema()
		for _, col := range lSchema.Columns {
			if rSchema.Contains(col) {
				return invalidf(p, "column %s is output by both sides", col)
			}
		}
		for _, cond := range x.EqualConditions {
			if _, _, ok := expression.IsEQCondFromDifferentChild(cond, lSchema, rSchema); !ok {
				return invalidf(p, "%s is not an equal condition between the two sides", cond)
			}
		}
		used = expression.ExtractColumnsFromExpressions(nil, x.OtherConditions...)
	case *logicalop.LogicalAggregation:
		used = append(used, x.GroupByItems...)
		for _, agg := range x.AggFuncs {
			if agg.Arg != nil {
				used = append(used, agg.Arg)
			}
		}
	case *logicalop.LogicalSort:
		for _, item := range x.ByItems {
			used = append(used, item.Col)
		}
	}
	for _, col := range used {
		if !input.Contains(col) {
			return invalidf(p, "column %s can't be resolved", col)
		}
	}
	return nil
}

func invalidf(p base.LogicalPlan, format string, args ...any) error {
	return plannererrors.ErrInvalidInputPlan.GenWithStackByArgs(p.TP() + ": " + fmt.Sprintf(format, args...))
}
