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
	"strings"
	"testing"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/core/operator/physicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/dbterror/plannererrors"
	"github.com/stretchr/testify/require"
)

var (
	colA = &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	colB = &expression.Column{UniqueID: 2, Table: "t", Name: "b"}
)

func newDataSource(view string) *logicalop.DataSource {
	return logicalop.DataSource{TableName: "t", Columns: []*expression.Column{colA, colB}, ViewName: view}.Init()
}

func newSelection(child base.LogicalPlan) *logicalop.LogicalSelection {
	cond := expression.NewFunctionInternal(expression.EQ, colA, expression.NewInt64Const(1))
	return logicalop.LogicalSelection{Conditions: []expression.Expression{cond}}.Init(child)
}

func TestCopyInDedup(t *testing.T) {
	mm := NewMemo()
	root, err := mm.Init(newSelection(newDataSource("")))
	require.NoError(t, err)
	require.Equal(t, 2, mm.GetGroups().Len())
	require.Equal(t, root.GetGroup(), mm.GetRootGroup())
	require.Equal(t, []GroupID{1}, root.Inputs)

	// copying in an equal tree again changes nothing.
	again, err := mm.CopyIn(nil, newSelection(newDataSource("")))
	require.NoError(t, err)
	require.Same(t, root, again)
	require.Equal(t, 2, mm.GetGroups().Len())
	require.Equal(t, 1, mm.GetRootGroup().LogicalExpressions.Len())

	_, err = mm.Init(newDataSource(""))
	require.Error(t, err)
}

func TestCopyInInvalid(t *testing.T) {
	mm := NewMemo()
	root, err := mm.Init(newSelection(newDataSource("")))
	require.NoError(t, err)
	dsGE := mm.GetGroup(1).LogicalExpressions.Front().Value.(*GroupExpression)

	// an expression can't be its own input.
	_, err = mm.CopyIn(dsGE.GetGroup(), newSelection(dsGE))
	require.Error(t, err)

	// the schema has to match the target group.
	proj := logicalop.LogicalProjection{Cols: []*expression.Column{colA}}.Init(dsGE)
	_, err = mm.CopyIn(root.GetGroup(), proj)
	require.Error(t, err)
	require.Equal(t, 1, root.GetGroup().LogicalExpressions.Len())
}

func TestMergeGroupSelfLoop(t *testing.T) {
	mm := NewMemo()
	root, err := mm.Init(newSelection(newDataSource("")))
	require.NoError(t, err)
	dsGroup := mm.GetGroup(1)
	dsGE := dsGroup.LogicalExpressions.Front().Value.(*GroupExpression)

	// the selection is proven to be a no-op, its group is merged with the child group.
	ge, err := mm.CopyIn(root.GetGroup(), dsGE)
	require.NoError(t, err)
	require.Same(t, dsGE, ge)
	require.Equal(t, 1, mm.GetGroups().Len())
	require.Equal(t, GroupID(1), mm.Find(2))
	require.Same(t, dsGroup, mm.GetGroup(2))
	require.Same(t, dsGroup, mm.GetRootGroup())
	// Selection(G1) inside G1 is a self loop and dropped.
	require.Equal(t, 1, dsGroup.LogicalExpressions.Len())
	require.True(t, root.IsAbandoned())
	require.False(t, dsGroup.Explored)
}

func TestMergeGroupCascade(t *testing.T) {
	mm := NewMemo()
	sel1, err := mm.CopyIn(nil, newSelection(newDataSource("")))
	require.NoError(t, err)
	sel2, err := mm.CopyIn(nil, newSelection(newDataSource("v")))
	require.NoError(t, err)
	require.Equal(t, 4, mm.GetGroups().Len())
	// children are copied in first: DS=G1, Sel=G2, DS(v)=G3, Sel(DS(v))=G4.
	require.Equal(t, GroupID(2), sel1.GetGroup().GroupID)
	require.Equal(t, GroupID(4), sel2.GetGroup().GroupID)

	ds2GE := mm.GetGroup(3).LogicalExpressions.Front().Value.(*GroupExpression)
	_, err = mm.CopyIn(mm.GetGroup(1), ds2GE)
	require.NoError(t, err)

	// merging G3 into G1 turns the two selections into duplicates, so G4 goes into G2.
	require.Equal(t, 2, mm.GetGroups().Len())
	require.Equal(t, GroupID(1), mm.Find(3))
	require.Equal(t, GroupID(2), mm.Find(4))
	require.Equal(t, 2, mm.GetGroup(1).LogicalExpressions.Len())
	require.Equal(t, 1, mm.GetGroup(2).LogicalExpressions.Len())
	require.True(t, sel2.IsAbandoned())
	require.False(t, sel1.IsAbandoned())
	require.Same(t, ds2GE.GetGroup(), mm.GetGroup(1))

	// a later copy of the merged tree lands in the survivor.
	ge, err := mm.CopyIn(nil, newSelection(newDataSource("v")))
	require.NoError(t, err)
	require.Same(t, sel1, ge)
}

func TestGroupInsertDelete(t *testing.T) {
	g := NewGroup(property.NewLogicalProp(expression.NewSchema(colA, colB)))
	ds1 := NewGroupExpression(newDataSource(""), nil)
	ds2 := NewGroupExpression(newDataSource("v"), nil)
	sel := NewGroupExpression(newSelection(newDataSource("")), []GroupID{2})
	require.True(t, g.Insert(ds1))
	require.True(t, g.Insert(sel))
	require.True(t, g.Insert(ds2))
	require.False(t, g.Insert(ds2))
	require.Same(t, g, ds2.GetGroup())

	// same operands are clustered.
	exprs := g.GetLogicalExpressions()
	require.Equal(t, []*GroupExpression{ds1, ds2, sel}, exprs)

	g.Delete(ds1)
	require.Equal(t, []*GroupExpression{ds2, sel}, g.GetLogicalExpressions())
	g.Delete(ds2)
	require.Equal(t, []*GroupExpression{sel}, g.GetLogicalExpressions())
	g.Delete(ds2)
	require.Equal(t, 1, g.LogicalExpressions.Len())
}

func TestWinnerRatchet(t *testing.T) {
	g := NewGroup(property.NewLogicalProp(expression.NewSchema(colA, colB)))
	empty := &property.PhysicalProperty{}
	first := &Winner{Cost: 10, Prop: empty}
	require.True(t, g.UpdateWinner(first))
	// ties keep the first discovered winner.
	require.False(t, g.UpdateWinner(&Winner{Cost: 10, Prop: nil}))
	require.Same(t, first, g.GetWinner(nil))
	require.False(t, g.UpdateWinner(&Winner{Cost: 11, Prop: empty}))
	cheaper := &Winner{Cost: 9, Prop: empty}
	require.True(t, g.UpdateWinner(cheaper))
	require.Same(t, cheaper, g.GetWinner(empty))

	sorted := property.NewPhysicalProperty(property.SortItem{Col: colA})
	require.Nil(t, g.GetWinner(sorted))
	require.False(t, g.IsOptimized(sorted))
	g.SetOptimized(sorted)
	require.True(t, g.IsOptimized(sorted))
	require.False(t, g.IsOptimized(empty))
}

func TestBestPlan(t *testing.T) {
	mm := NewMemo()
	root, err := mm.Init(newSelection(newDataSource("")))
	require.NoError(t, err)
	schema := root.Schema()
	dsGroup, selGroup := mm.GetGroup(1), root.GetGroup()
	dsGroup.SetStats(property.NewStatsInfo(100))
	selGroup.SetStats(property.NewStatsInfo(10))

	empty := &property.PhysicalProperty{}
	sortedA := property.NewPhysicalProperty(property.SortItem{Col: colA})

	scan := mm.InsertPhysical(dsGroup, physicalop.PhysicalTableScan{Table: "t"}.Init(schema), nil)
	dsGroup.UpdateWinner(&Winner{Expr: scan, Cost: 150, Prop: empty})
	sel := mm.InsertPhysical(selGroup, physicalop.PhysicalSelection{Conditions: root.LogicalPlan.(*logicalop.LogicalSelection).Conditions}.Init(schema), []GroupID{1})
	selGroup.UpdateWinner(&Winner{Expr: sel, Cost: 250, ChildProps: []*property.PhysicalProperty{empty}, Prop: empty})
	selGroup.UpdateWinner(&Winner{
		Enforcer:   physicalop.NewSortEnforcer(sortedA, schema),
		Cost:       300,
		ChildProps: []*property.PhysicalProperty{empty},
		Prop:       sortedA,
	})

	plan, err := mm.BestPlan(selGroup.GroupID, sortedA)
	require.NoError(t, err)
	require.Equal(t, "Sort", plan.TP())
	require.Equal(t, 300.0, plan.Cost())
	require.Equal(t, 10.0, plan.StatsInfo().RowCount)
	require.Len(t, plan.Children(), 1)
	child := plan.Children()[0]
	require.Equal(t, "Selection", child.TP())
	require.Equal(t, 250.0, child.Cost())
	require.Equal(t, "TableFullScan", child.Children()[0].TP())
	require.Equal(t, 100.0, child.Children()[0].StatsInfo().RowCount)
	// the memo keeps childless templates.
	require.Empty(t, sel.PhysicalPlan.Children())

	_, err = mm.BestPlan(dsGroup.GroupID, sortedA)
	require.True(t, plannererrors.ErrPlanNotFound.Equal(err))

	dump := mm.String()
	require.True(t, strings.Contains(dump, "G2 (root)"), dump)
	require.True(t, strings.Contains(dump, "logical: Selection{eq(t.a, 1)}(G1)"), dump)
	require.True(t, strings.Contains(dump, "Sort(enforcer) cost:300.00"), dump)
}

func TestMaterialize(t *testing.T) {
	mm := NewMemo()
	root, err := mm.Init(newSelection(newDataSource("")))
	require.NoError(t, err)

	plan, err := mm.Materialize(root)
	require.NoError(t, err)
	sel, ok := plan.(*logicalop.LogicalSelection)
	require.True(t, ok)
	require.IsType(t, &logicalop.DataSource{}, sel.Children()[0])

	// a new operator over a group leaf.
	dsGE := mm.GetGroup(1).LogicalExpressions.Front().Value.(*GroupExpression)
	proj := logicalop.LogicalProjection{Cols: []*expression.Column{colA}}.Init(dsGE)
	plan, err = mm.Materialize(proj)
	require.NoError(t, err)
	require.Equal(t, "t", plan.Children()[0].(*logicalop.DataSource).TableName)
	require.Equal(t, 1, plan.Schema().Len())

	_, err = mm.Materialize(NewGroupExpression(newDataSource(""), nil))
	require.Error(t, err)
}
