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

package mvs

import (
	"maps"
	"slices"

	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/util/set"
)

// Relation is the set of tables and views the query of a materialized view reads.
// The names are sorted.
type Relation struct {
	// ExpandedBaseTables includes the tables read through views.
	ExpandedBaseTables []string
	// DirectBaseTables are the tables the query references by itself.
	DirectBaseTables []string
	BaseViews        []string
}

// CollectRelation walks the plan and collects its base tables and views.
func CollectRelation(p base.LogicalPlan) Relation {
	expanded, direct, views := set.NewStringSet(), set.NewStringSet(), set.NewStringSet()
	var walk func(p base.LogicalPlan)
	walk = func(p base.LogicalPlan) {
		if ds, ok := p.(*logicalop.DataSource); ok {
			expanded.Insert(ds.TableName)
			if ds.ViewName == "" {
				direct.Insert(ds.TableName)
			} else {
				views.Insert(ds.ViewName)
			}
		}
		for _, child := range p.Children() {
			walk(child)
		}
	}
	walk(p)
	return Relation{
		ExpandedBaseTables: sortedNames(expanded),
		DirectBaseTables:   sortedNames(direct),
		BaseViews:          sortedNames(views),
	}
}

// DependsOn checks whether a change of the table affects the materialized view.
func (r Relation) DependsOn(table string) bool {
	_, found := slices.BinarySearch(r.ExpandedBaseTables, table)
	return found
}

func sortedNames(s set.StringSet) []string {
	if s.Count() == 0 {
		return nil
	}
	return slices.Sorted(maps.Keys(s))
}
