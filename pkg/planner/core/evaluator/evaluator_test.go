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

package evaluator

import (
	"context"
	"testing"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/core/operator/physicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/stretchr/testify/require"
)

var (
	colTa   = &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	colTb   = &expression.Column{UniqueID: 2, Table: "t", Name: "b"}
	colSa   = &expression.Column{UniqueID: 3, Table: "s", Name: "a"}
	colCnt  = &expression.Column{UniqueID: 10, Name: "cnt"}
	colCntB = &expression.Column{UniqueID: 11, Name: "cnt_b"}
	colSum  = &expression.Column{UniqueID: 12, Name: "sum_b"}
	colMax  = &expression.Column{UniqueID: 13, Name: "max_b"}
	colMin  = &expression.Column{UniqueID: 14, Name: "min_b"}
)

var testData = Dataset{
	"t": {
		{"a": 1, "b": 10},
		{"a": 2, "b": 20},
		{"a": 2},
		{"b": 40},
	},
	"s": {
		{"a": 2},
		{"a": 3},
		{},
	},
}

var testStats = statistics.MapProvider{
	"t": {Name: "t", RowCount: 1000},
	"s": {Name: "s", RowCount: 10},
}

func scanT() *logicalop.DataSource {
	return logicalop.DataSource{TableName: "t", Columns: []*expression.Column{colTa, colTb}}.Init()
}

func scanS() *logicalop.DataSource {
	return logicalop.DataSource{TableName: "s", Columns: []*expression.Column{colSa}}.Init()
}

func joinTS(tp logicalop.JoinType) *logicalop.LogicalJoin {
	eq := expression.NewFunctionInternal(expression.EQ, colTa, colSa).(*expression.ScalarFunction)
	return logicalop.LogicalJoin{
		JoinType:        tp,
		EqualConditions: []*expression.ScalarFunction{eq},
	}.Init(scanT(), scanS())
}

func evalLogical(t *testing.T, p base.LogicalPlan, ordered bool) []string {
	rows, err := EvalLogical(p, testData)
	require.NoError(t, err)
	return Format(rows, p.Schema().Columns, ordered)
}

func TestEvalJoin(t *testing.T) {
	cols := []*expression.Column{colTa, colTb, colSa}
	rows, err := EvalLogical(joinTS(logicalop.InnerJoin), testData)
	require.NoError(t, err)
	require.Equal(t, []string{"2, 20, 2", "2, NULL, 2"}, Format(rows, cols, false))

	rows, err = EvalLogical(joinTS(logicalop.LeftOuterJoin), testData)
	require.NoError(t, err)
	require.Equal(t, []string{"1, 10, NULL", "2, 20, 2", "2, NULL, 2", "NULL, 40, NULL"}, Format(rows, cols, false))

	rows, err = EvalLogical(joinTS(logicalop.RightOuterJoin), testData)
	require.NoError(t, err)
	require.Equal(t, []string{"2, 20, 2", "2, NULL, 2", "NULL, NULL, 3", "NULL, NULL, NULL"}, Format(rows, cols, false))
}

func TestEvalAggregation(t *testing.T) {
	agg := logicalop.LogicalAggregation{
		GroupByItems: []*expression.Column{colTa},
		AggFuncs: []*logicalop.AggFuncDesc{
			{Name: logicalop.AggFuncCount, RetCol: colCnt},
			{Name: logicalop.AggFuncCount, Arg: colTb, RetCol: colCntB},
			{Name: logicalop.AggFuncSum, Arg: colTb, RetCol: colSum},
			{Name: logicalop.AggFuncMax, Arg: colTb, RetCol: colMax},
			{Name: logicalop.AggFuncMin, Arg: colTb, RetCol: colMin},
		},
	}.Init(scanT())
	require.Equal(t, []string{
		"1, 1, 1, 10, 10, 10",
		"2, 2, 1, 20, 20, 20",
		"NULL, 1, 1, 40, 40, 40",
	}, evalLogical(t, agg, false))

	// a scalar aggregation over an empty input still outputs one row.
	sel := logicalop.LogicalSelection{Conditions: []expression.Expression{
		expression.NewFunctionInternal(expression.GT, colTa, expression.NewInt64Const(100)),
	}}.Init(scanT())
	scalar := logicalop.LogicalAggregation{
		AggFuncs: []*logicalop.AggFuncDesc{
			{Name: logicalop.AggFuncCount, RetCol: colCnt},
			{Name: logicalop.AggFuncSum, Arg: colTb, RetCol: colSum},
		},
	}.Init(sel)
	require.Equal(t, []string{"0, NULL"}, evalLogical(t, scalar, false))

	grouped := logicalop.LogicalAggregation{
		GroupByItems: []*expression.Column{colTa},
		AggFuncs:     []*logicalop.AggFuncDesc{{Name: logicalop.AggFuncCount, RetCol: colCnt}},
	}.Init(sel)
	require.Empty(t, evalLogical(t, grouped, false))
}

func TestEvalSortLimit(t *testing.T) {
	asc := logicalop.LogicalSort{ByItems: []property.SortItem{{Col: colTa}}}.Init(scanT())
	require.Equal(t, []string{"NULL, 40", "1, 10", "2, 20", "2, NULL"}, evalLogical(t, asc, true))

	desc := logicalop.LogicalSort{ByItems: []property.SortItem{{Col: colTa, Desc: true}}}.Init(scanT())
	require.Equal(t, []string{"2, 20", "2, NULL", "1, 10", "NULL, 40"}, evalLogical(t, desc, true))

	limit := logicalop.LogicalLimit{Offset: 1, Count: 2}.Init(asc)
	require.Equal(t, []string{"1, 10", "2, 20"}, evalLogical(t, limit, true))
	limit = logicalop.LogicalLimit{Offset: 10, Count: 2}.Init(asc)
	require.Empty(t, evalLogical(t, limit, true))

	proj := logicalop.LogicalProjection{Cols: []*expression.Column{colTb}}.Init(scanT())
	require.Equal(t, []string{"10", "20", "40", "NULL"}, evalLogical(t, proj, false))
}

func TestEvalErrors(t *testing.T) {
	_, err := EvalLogical(logicalop.DataSource{TableName: "u"}.Init(), testData)
	require.Error(t, err)

	scan := physicalop.PhysicalTableScan{Table: "t"}.Init(expression.NewSchema(colTa, colTb))
	streamAgg := physicalop.NewPhysicalStreamAgg([]*expression.Column{colTa}, nil, expression.NewSchema(colTa))
	streamAgg.SetChildren(scan)
	_, err = EvalPhysical(streamAgg, testData)
	require.ErrorContains(t, err, "isn't sorted")

	sort := physicalop.NewSortEnforcer(property.NewPhysicalProperty(property.SortItem{Col: colTa}), scan.Schema())
	sort.SetChildren(scan)
	streamAgg.SetChildren(sort)
	rows, err := EvalPhysical(streamAgg, testData)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2", "NULL"}, Format(rows, []*expression.Column{colTa}, false))
}

// TestOptimizedPlanResult checks that the optimized plans return the rows of their input.
func TestOptimizedPlanResult(t *testing.T) {
	gt := func(col *expression.Column, val int64) expression.Expression {
		return expression.NewFunctionInternal(expression.GT, col, expression.NewInt64Const(val))
	}
	isNull := func(col *expression.Column) expression.Expression {
		return expression.NewFunctionInternal(expression.IsNull, col)
	}
	cases := []struct {
		name     string
		plan     func() base.LogicalPlan
		required *property.PhysicalProperty
		ordered  bool
	}{
		{
			name: "aggregation over filtered join",
			plan: func() base.LogicalPlan {
				sel := logicalop.LogicalSelection{Conditions: []expression.Expression{gt(colTb, 15)}}.Init(joinTS(logicalop.InnerJoin))
				return logicalop.LogicalAggregation{
					GroupByItems: []*expression.Column{colTa},
					AggFuncs: []*logicalop.AggFuncDesc{
						{Name: logicalop.AggFuncCount, RetCol: colCnt},
						{Name: logicalop.AggFuncSum, Arg: colTb, RetCol: colSum},
					},
				}.Init(sel)
			},
		},
		{
			name: "filter on the inner side of an outer join",
			plan: func() base.LogicalPlan {
				return logicalop.LogicalSelection{Conditions: []expression.Expression{isNull(colSa)}}.Init(joinTS(logicalop.LeftOuterJoin))
			},
		},
		{
			name: "filter on the outer side of an outer join",
			plan: func() base.LogicalPlan {
				return logicalop.LogicalSelection{Conditions: []expression.Expression{gt(colTb, 15)}}.Init(joinTS(logicalop.LeftOuterJoin))
			},
		},
		{
			name: "aggregation over an outer join",
			plan: func() base.LogicalPlan {
				return logicalop.LogicalAggregation{
					GroupByItems: []*expression.Column{colTa},
					AggFuncs:     []*logicalop.AggFuncDesc{{Name: logicalop.AggFuncMax, Arg: colTb, RetCol: colMax}},
				}.Init(joinTS(logicalop.LeftOuterJoin))
			},
		},
		{
			name: "adjacent filters and projection",
			plan: func() base.LogicalPlan {
				inner := logicalop.LogicalSelection{Conditions: []expression.Expression{gt(colTa, 0)}}.Init(joinTS(logicalop.RightOuterJoin))
				outer := logicalop.LogicalSelection{Conditions: []expression.Expression{gt(colTb, 0)}}.Init(inner)
				return logicalop.LogicalProjection{Cols: []*expression.Column{colTa, colTb, colSa}}.Init(outer)
			},
		},
		{
			name: "required order",
			plan: func() base.LogicalPlan {
				return joinTS(logicalop.LeftOuterJoin)
			},
			required: property.NewPhysicalProperty(property.SortItem{Col: colTa, Desc: true}, property.SortItem{Col: colTb}),
			ordered:  true,
		},
		{
			name: "top n",
			plan: func() base.LogicalPlan {
				sort := logicalop.LogicalSort{ByItems: []property.SortItem{{Col: colTa}, {Col: colTb}}}.Init(scanT())
				return logicalop.LogicalLimit{Offset: 1, Count: 2}.Init(sort)
			},
			ordered: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan := c.plan()
			cols := plan.Schema().Columns
			expected, err := EvalLogical(plan, testData)
			require.NoError(t, err)
			if c.required != nil {
				expected = sortRows(expected, c.required.SortItems)
			}

			opts := []planner.OptimizeOption{planner.WithStatsProvider(testStats)}
			if c.required != nil {
				opts = append(opts, planner.WithRequiredProperty(c.required))
			}
			res, err := planner.Optimize(context.Background(), plan, opts...)
			require.NoError(t, err)
			actual, err := EvalPhysical(res.Plan, testData)
			require.NoError(t, err)
			require.Equal(t, Format(expected, cols, c.ordered), Format(actual, cols, c.ordered))
		})
	}
}
