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

package physicalop

import (
	"testing"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/stretchr/testify/require"
)

var testFactors = &base.CostFactors{CPU: 1, Scan: 1.5, Memory: 2, Sort: 1}

func TestGetChildReqProps(t *testing.T) {
	a := &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	b := &expression.Column{UniqueID: 2, Table: "t", Name: "b"}
	schema := expression.NewSchema(a, b)
	sortedA := property.NewPhysicalProperty(property.SortItem{Col: a})
	sortedB := property.NewPhysicalProperty(property.SortItem{Col: b})

	scan := PhysicalTableScan{Table: "t"}.Init(schema)
	props, ok := scan.GetChildReqProps(nil)
	require.True(t, ok)
	require.Empty(t, props)
	_, ok = scan.GetChildReqProps(sortedA)
	require.False(t, ok)

	sel := PhysicalSelection{}.Init(schema)
	props, ok = sel.GetChildReqProps(sortedA)
	require.True(t, ok)
	require.Equal(t, sortedA.HashCode(), props[0].HashCode())

	proj := PhysicalProjection{Cols: []*expression.Column{b}}.Init(expression.NewSchema(b))
	_, ok = proj.GetChildReqProps(sortedA)
	require.False(t, ok)
	_, ok = proj.GetChildReqProps(sortedB)
	require.True(t, ok)

	join := PhysicalHashJoin{}.Init(schema)
	props, ok = join.GetChildReqProps(&property.PhysicalProperty{})
	require.True(t, ok)
	require.Len(t, props, 2)
	_, ok = join.GetChildReqProps(sortedA)
	require.False(t, ok)

	streamAgg := NewPhysicalStreamAgg([]*expression.Column{a}, nil, expression.NewSchema(a))
	props, ok = streamAgg.GetChildReqProps(nil)
	require.True(t, ok)
	require.Equal(t, sortedA.HashCode(), props[0].HashCode())
	_, ok = streamAgg.GetChildReqProps(sortedA)
	require.True(t, ok)
	_, ok = streamAgg.GetChildReqProps(sortedB)
	require.False(t, ok)

	hashAgg := NewPhysicalHashAgg([]*expression.Column{a}, nil, expression.NewSchema(a))
	_, ok = hashAgg.GetChildReqProps(sortedA)
	require.False(t, ok)

	sort := NewSortEnforcer(sortedA, schema)
	require.True(t, sort.IsEnforcer)
	props, ok = sort.GetChildReqProps(sortedA)
	require.True(t, ok)
	require.True(t, props[0].IsSortItemEmpty())
	_, ok = sort.GetChildReqProps(sortedB)
	require.False(t, ok)
}

func TestLocalCost(t *testing.T) {
	schema := expression.NewSchema(&expression.Column{UniqueID: 1, Name: "a"})
	out := property.NewStatsInfo(10)
	big, small := property.NewStatsInfo(1000), property.NewStatsInfo(100)

	scan := PhysicalTableScan{Table: "t"}.Init(schema)
	require.Equal(t, 1500.0, scan.LocalCost(testFactors, big, nil))

	join := PhysicalHashJoin{}.Init(schema)
	// building on the smaller side is cheaper.
	smallBuild := join.LocalCost(testFactors, out, []*property.StatsInfo{big, small})
	bigBuild := join.LocalCost(testFactors, out, []*property.StatsInfo{small, big})
	require.Equal(t, 2310.0, smallBuild)
	require.Less(t, smallBuild, bigBuild)

	sort := PhysicalSort{}.Init(schema)
	require.InDelta(t, 8.0, sort.LocalCost(testFactors, nil, []*property.StatsInfo{property.NewStatsInfo(4)}), 1e-9)
}

func TestClone(t *testing.T) {
	schema := expression.NewSchema(&expression.Column{UniqueID: 1, Name: "a"})
	sel := PhysicalSelection{}.Init(schema)
	sel.SetStats(property.NewStatsInfo(3))
	sel.SetChildren(PhysicalTableScan{Table: "t"}.Init(schema))
	sel.SetCost(7)

	cloned := sel.Clone()
	require.NotSame(t, sel, cloned)
	require.Empty(t, cloned.Children())
	require.Equal(t, 7.0, cloned.Cost())
	require.Same(t, sel.StatsInfo(), cloned.StatsInfo())
	cloned.SetCost(1)
	require.Equal(t, 7.0, sel.Cost())

	agg := NewPhysicalStreamAgg(nil, nil, schema)
	clonedAgg := agg.Clone().(*PhysicalStreamAgg)
	require.Equal(t, "StreamAgg", clonedAgg.TP())
}
