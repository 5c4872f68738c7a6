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
	"math"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// PhysicalSort is the physical operator of sort, which implements a memory sort.
type PhysicalSort struct {
	BasePhysicalPlan

	ByItems []property.SortItem
	// IsEnforcer is set when the sort is injected to provide a required order.
	IsEnforcer bool
}

// Init initializes PhysicalSort.
func (p PhysicalSort) Init(schema *expression.Schema) *PhysicalSort {
	p.BasePhysicalPlan = NewBasePhysicalPlan(plancodec.TypeSort, &p, schema)
	return &p
}

// NewSortEnforcer creates the sort which provides the required property.
func NewSortEnforcer(prop *property.PhysicalProperty, schema *expression.Schema) *PhysicalSort {
	return PhysicalSort{
		ByItems:    append([]property.SortItem(nil), prop.SortItems...),
		IsEnforcer: true,
	}.Init(schema)
}

// ExplainInfo implements Plan interface.
func (p *PhysicalSort) ExplainInfo() string {
	return logicalop.ExplainByItems(p.ByItems)
}

// GetChildReqProps implements the base.PhysicalPlan interface.
func (p *PhysicalSort) GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	if !required.SatisfiedBy(p.ByItems) {
		return nil, false
	}
	return []*property.PhysicalProperty{{}}, true
}

// LocalCost implements the base.PhysicalPlan interface.
// Sorting n rows costs n*log2(n).
func (*PhysicalSort) LocalCost(factors *base.CostFactors, _ *property.StatsInfo, childStats []*property.StatsInfo) float64 {
	rowCount := math.Max(childStats[0].RowCount, 2)
	return rowCount * math.Log2(rowCount) * factors.Sort
}

// Clone implements op.PhysicalPlan interface.
func (p *PhysicalSort) Clone() base.PhysicalPlan {
	cloned := *p
	cloned.BasePhysicalPlan = p.cloneWithSelf(&cloned)
	return &cloned
}
