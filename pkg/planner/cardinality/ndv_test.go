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

package cardinality_test

import (
	"fmt"
	"testing"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cardinality"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/stretchr/testify/require"
)

func TestScaleNDV(t *testing.T) {
	type TestCase struct {
		OriginalNDV  float64
		OriginalRows float64
		SelectedRows float64
		NewNDV       float64
	}
	cases := []TestCase{
		{0, 0, 0, 0},
		{10, 0, 100, 0},
		{10, 100, 100, 10},
		{10, 100, 1, 1},
		{10, 100, 2, 1.83},
		{10, 100, 10, 6.51},
		{10, 100, 50, 9.99},
		{10, 100, 80, 10.00},
		{10, 100, 90, 10.00},
	}
	for _, tc := range cases {
		newNDV := cardinality.ScaleNDV(tc.OriginalNDV, tc.OriginalRows, tc.SelectedRows)
		require.Equal(t, fmt.Sprintf("%.2f", tc.NewNDV), fmt.Sprintf("%.2f", newNDV), tc)
	}
}

func TestEstimateColumnNDV(t *testing.T) {
	tbl := &statistics.Table{
		Name:     "t",
		RowCount: 100,
		Columns:  map[string]*statistics.Column{"a": {NDV: 10}, "b": {NDV: 1000}},
	}
	require.Equal(t, 10.0, cardinality.EstimateColumnNDV(tbl, "a"))
	// capped by the row count.
	require.Equal(t, 100.0, cardinality.EstimateColumnNDV(tbl, "b"))
	// no summary.
	require.Equal(t, 80.0, cardinality.EstimateColumnNDV(tbl, "c"))
}

func TestSelectivity(t *testing.T) {
	a := &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	b := &expression.Column{UniqueID: 2, Table: "t", Name: "b", NotNull: true}
	stats := property.NewStatsInfo(1000)
	stats.ColNDVs[a.UniqueID] = 10
	stats.ColNDVs[b.UniqueID] = 100

	eqA := expression.NewFunctionInternal(expression.EQ, a, expression.NewInt64Const(1))
	eqAB := expression.NewFunctionInternal(expression.EQ, a, b)
	ltB := expression.NewFunctionInternal(expression.LT, b, expression.NewInt64Const(5))
	cases := []struct {
		conds []expression.Expression
		sel   float64
	}{
		{nil, 1},
		{[]expression.Expression{eqA}, 0.1},
		{[]expression.Expression{eqAB}, 0.01},
		{[]expression.Expression{expression.NewFunctionInternal(expression.NE, a, expression.NewInt64Const(1))}, 0.9},
		{[]expression.Expression{ltB}, 1.0 / 3},
		{[]expression.Expression{eqA, ltB}, 0.1 / 3},
		{[]expression.Expression{expression.NewFunctionInternal(expression.LogicOr, eqA, eqA)}, 0.19},
		{[]expression.Expression{expression.NewFunctionInternal(expression.IsNull, b)}, 0},
		{[]expression.Expression{expression.NewNull()}, 0},
		{[]expression.Expression{expression.NewFunctionInternal(expression.IsNull, a)}, cardinality.SelectionFactor},
	}
	for i, tc := range cases {
		require.InDelta(t, tc.sel, cardinality.Selectivity(stats, tc.conds), 1e-9, "case %d", i)
	}
}

func TestEstimateRowCount(t *testing.T) {
	a := &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	b := &expression.Column{UniqueID: 2, Table: "s", Name: "b"}
	lStats := property.NewStatsInfo(1000)
	lStats.ColNDVs[a.UniqueID] = 100
	rStats := property.NewStatsInfo(50)
	rStats.ColNDVs[b.UniqueID] = 50
	lSchema, rSchema := expression.NewSchema(a), expression.NewSchema(b)

	require.Equal(t, 500.0, cardinality.EstimateJoinRowCount(lStats, rStats, lSchema, rSchema,
		[]*expression.Column{a}, []*expression.Column{b}))
	require.Equal(t, 50000.0, cardinality.EstimateJoinRowCount(lStats, rStats, lSchema, rSchema, nil, nil))

	require.Equal(t, 100.0, cardinality.EstimateAggRowCount(lStats, lSchema, []*expression.Column{a}))
	require.Equal(t, 1.0, cardinality.EstimateAggRowCount(lStats, lSchema, nil))

	filtered := cardinality.EstimateFilterStats(lStats, []expression.Expression{
		expression.NewFunctionInternal(expression.EQ, a, expression.NewInt64Const(1)),
	})
	require.Equal(t, 10.0, filtered.RowCount)
	require.LessOrEqual(t, filtered.ColNDVs[a.UniqueID], 10.0)
}
