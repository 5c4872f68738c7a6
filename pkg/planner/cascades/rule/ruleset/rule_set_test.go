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
	"testing"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	"github.com/pingcap/cascades/pkg/planner/core"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/evaluator"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/pattern"
	"github.com/stretchr/testify/require"
)

var (
	colTa  = &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	colTb  = &expression.Column{UniqueID: 2, Table: "t", Name: "b"}
	colSa  = &expression.Column{UniqueID: 3, Table: "s", Name: "a"}
	colMax = &expression.Column{UniqueID: 10, Name: "max_b"}
	colCnt = &expression.Column{UniqueID: 11, Name: "cnt"}
)

var testData = evaluator.Dataset{
	"t": {
		{"a": 1, "b": 10},
		{"a": 2, "b": 20},
		{"a": 2},
		{"a": 3, "b": 30},
		{"b": 40},
	},
	"s": {
		{"a": 2},
		{"a": 2},
		{"a": 3},
		{"a": 4},
		{},
	},
}

func scanT() base.LogicalPlan {
	return logicalop.DataSource{TableName: "t", Columns: []*expression.Column{colTa, colTb}}.Init()
}

func joinTS(tp logicalop.JoinType) *logicalop.LogicalJoin {
	eq := expression.NewFunctionInternal(expression.EQ, colTa, colSa).(*expression.ScalarFunction)
	return logicalop.LogicalJoin{
		JoinType:        tp,
		EqualConditions: []*expression.ScalarFunction{eq},
	}.Init(scanT(), logicalop.DataSource{TableName: "s", Columns: []*expression.Column{colSa}}.Init())
}

func gt(col *expression.Column, val int64) expression.Expression {
	return expression.NewFunctionInternal(expression.GT, col, expression.NewInt64Const(val))
}

func isNull(col *expression.Column) expression.Expression {
	return expression.NewFunctionInternal(expression.IsNull, col)
}

func newSelection(child base.LogicalPlan, conds ...expression.Expression) *logicalop.LogicalSelection {
	return logicalop.LogicalSelection{Conditions: conds}.Init(child)
}

func maxAgg(child base.LogicalPlan, name string) *logicalop.LogicalAggregation {
	var arg *expression.Column
	retCol := colCnt
	if name != logicalop.AggFuncCount {
		arg, retCol = colTb, colMax
	}
	return logicalop.LogicalAggregation{
		GroupByItems: []*expression.Column{colTa},
		AggFuncs:     []*logicalop.AggFuncDesc{{Name: name, Arg: arg, RetCol: retCol}},
	}.Init(child)
}

func findTransformation(t *testing.T, tp rule.Type) rule.TransformationRule {
	for _, rules := range DefaultTransformationRules {
		for _, r := range rules {
			if r.ID() == uint(tp) {
				return r
			}
		}
	}
	require.FailNow(t, "rule not found", tp.String())
	return nil
}

// TestTransformationRulesKeepResult applies every transformation rule on the root of a plan
// and checks that the alternatives return the same rows as the plan itself.
func TestTransformationRulesKeepResult(t *testing.T) {
	cases := []struct {
		name         string
		rule         rule.Type
		plan         base.LogicalPlan
		alternatives int
	}{
		{"push filters into an inner join", rule.XFPushSelectionDownJoin,
			newSelection(joinTS(logicalop.InnerJoin), gt(colTb, 15), gt(colSa, 2)), 1},
		{"push filters into a left join", rule.XFPushSelectionDownJoin,
			newSelection(joinTS(logicalop.LeftOuterJoin), gt(colTb, 15), isNull(colSa)), 1},
		{"push filters into a right join", rule.XFPushSelectionDownJoin,
			newSelection(joinTS(logicalop.RightOuterJoin), gt(colSa, 2), isNull(colTa)), 1},
		{"keep inner side filters above a left join", rule.XFPushSelectionDownJoin,
			newSelection(joinTS(logicalop.LeftOuterJoin), isNull(colSa)), 0},
		{"merge adjacent filters", rule.XFMergeAdjacentSelection,
			newSelection(newSelection(scanT(), gt(colTa, 1)), gt(colTb, 15)), 1},
		{"swap an inner join", rule.XFJoinCommutativity,
			joinTS(logicalop.InnerJoin), 1},
		{"keep an outer join", rule.XFJoinCommutativity,
			joinTS(logicalop.LeftOuterJoin), 0},
		{"eliminate a projection", rule.XFEliminateProjection,
			logicalop.LogicalProjection{Cols: []*expression.Column{colTa, colTb}}.Init(scanT()), 1},
		{"keep a narrowing projection", rule.XFEliminateProjection,
			logicalop.LogicalProjection{Cols: []*expression.Column{colTb}}.Init(scanT()), 0},
		{"eliminate an outer join below max", rule.XFEliminateOuterJoinBelowAggregation,
			maxAgg(joinTS(logicalop.LeftOuterJoin), logicalop.AggFuncMax), 1},
		{"keep an outer join below count", rule.XFEliminateOuterJoinBelowAggregation,
			maxAgg(joinTS(logicalop.LeftOuterJoin), logicalop.AggFuncCount), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cols := c.plan.Schema().Columns
			rows, err := evaluator.EvalLogical(c.plan, testData)
			require.NoError(t, err)
			expected := evaluator.Format(rows, cols, false)

			mm := memo.NewMemo()
			root, err := mm.Init(c.plan)
			require.NoError(t, err)
			r := findTransformation(t, c.rule)
			var alternatives []base.LogicalPlan
			for _, holder := range rule.NewBinder(mm, r.Pattern(), root).Bind() {
				if !r.Match(holder) {
					continue
				}
				outputs, err := r.XForm(holder)
				require.NoError(t, err)
				alternatives = append(alternatives, outputs...)
			}
			require.Len(t, alternatives, c.alternatives)
			for _, alt := range alternatives {
				plan, err := mm.Materialize(alt)
				require.NoError(t, err)
				require.True(t, plan.Schema().SameColumnSet(c.plan.Schema()))
				rows, err := evaluator.EvalLogical(plan, testData)
				require.NoError(t, err)
				require.Equal(t, expected, evaluator.Format(rows, cols, false), core.ToString(plan))
			}
		})
	}
}

func TestRuleSetDisable(t *testing.T) {
	rs := NewRuleSet()
	require.Empty(t, rs.DisabledRules())
	require.Len(t, rs.TransformationRules(pattern.OperandJoin), 1)
	require.Len(t, rs.RootRules(), 1)

	restore, err := rs.Disable("JoinCommutativity", "AddDefaultLimit")
	require.NoError(t, err)
	require.Equal(t, []string{"JoinCommutativity", "AddDefaultLimit"}, rs.DisabledRules())
	require.Empty(t, rs.TransformationRules(pattern.OperandJoin))
	require.Empty(t, rs.RootRules())

	// a clone owns its mask.
	cloned := rs.Clone()
	restore()
	require.Empty(t, rs.DisabledRules())
	require.True(t, cloned.IsDisabled(rule.XFJoinCommutativity))

	_, err = rs.Disable("ImplHashAgg", "NoSuchRule")
	require.Error(t, err)
	require.False(t, rs.IsDisabled(rule.ImplHashAgg))
	require.Len(t, rs.ImplementationRules(pattern.OperandAggregation), 2)
}
