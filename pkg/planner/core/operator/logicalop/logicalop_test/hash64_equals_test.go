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

package logicalop

import (
	"testing"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/stretchr/testify/require"
)

func hashOf(p plannerbase.LogicalPlan) uint64 {
	h := base.NewHashEqualer()
	p.Hash64(h)
	return h.Sum64()
}

func requireSame(t *testing.T, p1, p2 plannerbase.LogicalPlan) {
	require.Equal(t, hashOf(p1), hashOf(p2))
	require.True(t, p1.Equals(p2))
}

func requireDiff(t *testing.T, p1, p2 plannerbase.LogicalPlan) {
	require.NotEqual(t, hashOf(p1), hashOf(p2))
	require.False(t, p1.Equals(p2))
}

func TestLogicalPlanHash64Equals(t *testing.T) {
	col1 := &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	col2 := &expression.Column{UniqueID: 2, Table: "t", Name: "b"}
	ds1 := logicalop.DataSource{TableName: "t", Columns: []*expression.Column{col1, col2}}.Init()
	ds2 := logicalop.DataSource{TableName: "t", Columns: []*expression.Column{col1, col2}}.Init()
	requireSame(t, ds1, ds2)
	requireDiff(t, ds1, logicalop.DataSource{TableName: "t", Columns: []*expression.Column{col1}}.Init())
	requireDiff(t, ds1, logicalop.DataSource{TableName: "t", Columns: []*expression.Column{col1, col2}, Partitions: []string{"p0"}}.Init())

	cond1 := expression.NewFunctionInternal(expression.EQ, col1, expression.NewInt64Const(1))
	cond2 := expression.NewFunctionInternal(expression.EQ, col1, expression.NewInt64Const(2))
	sel1 := logicalop.LogicalSelection{Conditions: []expression.Expression{cond1}}.Init(ds1)
	// children are not a part of the signature.
	sel2 := logicalop.LogicalSelection{Conditions: []expression.Expression{cond1}}.Init(ds2)
	requireSame(t, sel1, sel2)
	requireDiff(t, sel1, logicalop.LogicalSelection{Conditions: []expression.Expression{cond2}}.Init(ds1))
	// different operators never equal.
	require.False(t, sel1.Equals(ds1))

	lim1 := logicalop.LogicalLimit{Count: 1}.Init(ds1)
	requireSame(t, lim1, logicalop.LogicalLimit{Count: 1}.Init(ds1))
	requireDiff(t, lim1, logicalop.LogicalLimit{Count: 1, Offset: 1}.Init(ds1))

	sort1 := logicalop.LogicalSort{ByItems: []property.SortItem{{Col: col1}}}.Init(ds1)
	requireSame(t, sort1, logicalop.LogicalSort{ByItems: []property.SortItem{{Col: col1}}}.Init(ds1))
	requireDiff(t, sort1, logicalop.LogicalSort{ByItems: []property.SortItem{{Col: col1, Desc: true}}}.Init(ds1))

	ret := &expression.Column{UniqueID: 3, Name: "cnt"}
	agg1 := logicalop.LogicalAggregation{
		GroupByItems: []*expression.Column{col1},
		AggFuncs:     []*logicalop.AggFuncDesc{{Name: logicalop.AggFuncCount, RetCol: ret}},
	}.Init(ds1)
	agg2 := logicalop.LogicalAggregation{
		GroupByItems: []*expression.Column{col1},
		AggFuncs:     []*logicalop.AggFuncDesc{{Name: logicalop.AggFuncCount, RetCol: ret}},
	}.Init(ds1)
	requireSame(t, agg1, agg2)
	requireDiff(t, agg1, logicalop.LogicalAggregation{
		GroupByItems: []*expression.Column{col1},
		AggFuncs:     []*logicalop.AggFuncDesc{{Name: logicalop.AggFuncCount, Arg: col2, RetCol: ret}},
	}.Init(ds1))
	require.Equal(t, "group by:t.a, funcs:count(*)->cnt", agg1.ExplainInfo())
	require.Equal(t, 2, agg1.Schema().Len())

	proj := logicalop.LogicalProjection{Cols: []*expression.Column{col2}}.Init(ds1)
	requireSame(t, proj, logicalop.LogicalProjection{Cols: []*expression.Column{col2}}.Init(ds2))
	requireDiff(t, proj, logicalop.LogicalProjection{Cols: []*expression.Column{col1}}.Init(ds1))
}

func TestLogicalJoinWithChildren(t *testing.T) {
	a := &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	b := &expression.Column{UniqueID: 2, Table: "s", Name: "b"}
	dsT := logicalop.DataSource{TableName: "t", Columns: []*expression.Column{a}}.Init()
	dsS := logicalop.DataSource{TableName: "s", Columns: []*expression.Column{b}}.Init()
	eq := expression.NewFunctionInternal(expression.EQ, a, b).(*expression.ScalarFunction)
	join := logicalop.LogicalJoin{EqualConditions: []*expression.ScalarFunction{eq}}.Init(dsT, dsS)
	require.Equal(t, "inner join, equal:[eq(t.a, s.b)]", join.ExplainInfo())
	require.Equal(t, "Column: [t.a,s.b]", join.Schema().String())

	swapped := join.WithChildren(dsS, dsT)
	require.Equal(t, "Column: [s.b,t.a]", swapped.Schema().String())
	require.Same(t, dsS, swapped.Children()[0])
	// the original plan is untouched.
	require.Same(t, dsT, join.Children()[0])
	require.Same(t, swapped, swapped.GetWrappedLogicalPlan())
	requireSame(t, join, swapped)

	lKeys, rKeys := logicalop.GetJoinKeys(join.EqualConditions, dsS.Schema(), dsT.Schema())
	require.Equal(t, []*expression.Column{b}, lKeys)
	require.Equal(t, []*expression.Column{a}, rKeys)
}

type mockStatsContext map[string]*statistics.Table

func (m mockStatsContext) GetTableStats(table string) *statistics.Table {
	if tbl, ok := m[table]; ok {
		return tbl
	}
	return statistics.PseudoTable(table, 0)
}

func TestDeriveStats(t *testing.T) {
	a := &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	b := &expression.Column{UniqueID: 2, Table: "s", Name: "b"}
	sctx := mockStatsContext{
		"t": {
			Name:     "t",
			RowCount: 1000,
			Columns:  map[string]*statistics.Column{"a": {NDV: 100}},
			Partition: &statistics.PartitionInfo{
				Columns:    []string{"a"},
				Partitions: []statistics.PartitionStats{{Name: "p0", RowCount: 400}, {Name: "p1", RowCount: 600}},
			},
		},
		"s": {Name: "s", RowCount: 50, Columns: map[string]*statistics.Column{"b": {NDV: 50}}},
	}
	dsT := logicalop.DataSource{TableName: "t", Columns: []*expression.Column{a}}.Init()
	tStats, err := dsT.DeriveStats(sctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1000.0, tStats.RowCount)
	require.Equal(t, 100.0, tStats.ColNDVs[a.UniqueID])

	part := logicalop.DataSource{TableName: "t", Columns: []*expression.Column{a}, Partitions: []string{"p0"}}.Init()
	partStats, err := part.DeriveStats(sctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 400.0, partStats.RowCount)
	require.LessOrEqual(t, partStats.ColNDVs[a.UniqueID], 100.0)

	dsS := logicalop.DataSource{TableName: "s", Columns: []*expression.Column{b}}.Init()
	sStats, err := dsS.DeriveStats(sctx, nil, nil)
	require.NoError(t, err)

	eq := expression.NewFunctionInternal(expression.EQ, a, b).(*expression.ScalarFunction)
	join := logicalop.LogicalJoin{EqualConditions: []*expression.ScalarFunction{eq}}.Init(dsT, dsS)
	joinStats, err := join.DeriveStats(sctx, []*property.StatsInfo{tStats, sStats},
		[]*expression.Schema{dsT.Schema(), dsS.Schema()})
	require.NoError(t, err)
	require.Equal(t, 500.0, joinStats.RowCount)

	leftJoin := logicalop.LogicalJoin{JoinType: logicalop.LeftOuterJoin}.Init(dsT, dsS)
	leftStats, err := leftJoin.DeriveStats(sctx, []*property.StatsInfo{tStats, property.NewStatsInfo(0)},
		[]*expression.Schema{dsT.Schema(), dsS.Schema()})
	require.NoError(t, err)
	require.Equal(t, 1000.0, leftStats.RowCount)

	// unknown tables fall back to the pseudo statistics.
	dsU := logicalop.DataSource{TableName: "u", Columns: []*expression.Column{{UniqueID: 5, Table: "u", Name: "c"}}}.Init()
	uStats, err := dsU.DeriveStats(sctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, float64(statistics.PseudoRowCount), uStats.RowCount)

	limit := logicalop.LogicalLimit{Count: 10}.Init(dsT)
	limitStats, err := limit.DeriveStats(sctx, []*property.StatsInfo{tStats}, nil)
	require.NoError(t, err)
	require.Equal(t, 10.0, limitStats.RowCount)
}
