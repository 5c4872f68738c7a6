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
	"strings"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// LogicalSort stands for the order by plan.
type LogicalSort struct {
	BaseLogicalPlan

	ByItems []property.SortItem
}

// Init initializes LogicalSort.
func (ls LogicalSort) Init(children ...plannerbase.LogicalPlan) *LogicalSort {
	ls.BaseLogicalPlan = NewBaseLogicalPlan(plancodec.TypeSort, &ls, children...)
	return &ls
}

// ExplainByItems generates explain information for sort items.
func ExplainByItems(items []property.SortItem) string {
	strs := make([]string, 0, len(items))
	for _, item := range items {
		strs = append(strs, item.String())
	}
	return strings.Join(strs, ", ")
}

// SortItemsHash64 hashes the sort items.
func SortItemsHash64(h base.Hasher, items []property.SortItem) {
	h.HashInt(len(items))
	for _, item := range items {
		item.Col.Hash64(h)
		h.HashBool(item.Desc)
	}
}

// SortItemsEqual checks whether two lists of sort items are equal.
func SortItemsEqual(a, b []property.SortItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Col.EqualColumn(b[i].Col) || a[i].Desc != b[i].Desc {
			return false
		}
	}
	return true
}

// Schema implements the base.Plan interface.
func (ls *LogicalSort) Schema() *expression.Schema {
	return ls.childSchema(0)
}

// WithChildren implements the base.LogicalPlan interface.
func (ls *LogicalSort) WithChildren(children ...plannerbase.LogicalPlan) plannerbase.LogicalPlan {
	return (*ls).Init(children...)
}

// ExplainInfo implements Plan interface.
func (ls *LogicalSort) ExplainInfo() string {
	return ExplainByItems(ls.ByItems)
}

// Hash64 implements the base.HashEquals interface.
func (ls *LogicalSort) Hash64(h base.Hasher) {
	h.HashString(ls.TP())
	SortItemsHash64(h, ls.ByItems)
}

// Equals implements the base.HashEquals interface.
func (ls *LogicalSort) Equals(other any) bool {
	ls2, ok := other.(*LogicalSort)
	if !ok || ls == nil || ls2 == nil {
		return ok && ls == ls2
	}
	return SortItemsEqual(ls.ByItems, ls2.ByItems)
}

// DeriveStats implements base.LogicalPlan.<11th> interface.
func (*LogicalSort) DeriveStats(_ plannerbase.StatsContext, childStats []*property.StatsInfo, _ []*expression.Schema) (*property.StatsInfo, error) {
	return childStats[0], nil
}
