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
	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
)

var (
	_ base.PhysicalPlan = &PhysicalTableScan{}
	_ base.PhysicalPlan = &PhysicalSelection{}
	_ base.PhysicalPlan = &PhysicalProjection{}
	_ base.PhysicalPlan = &PhysicalHashJoin{}
	_ base.PhysicalPlan = &PhysicalHashAgg{}
	_ base.PhysicalPlan = &PhysicalStreamAgg{}
	_ base.PhysicalPlan = &PhysicalSort{}
	_ base.PhysicalPlan = &PhysicalLimit{}
)

// BasePhysicalPlan is the common structure that used in physical plan.
type BasePhysicalPlan struct {
	tp       string
	self     base.PhysicalPlan
	children []base.PhysicalPlan
	schema   *expression.Schema
	stats    *property.StatsInfo
	cost     float64
}

// NewBasePhysicalPlan creates a new BasePhysicalPlan.
func NewBasePhysicalPlan(tp string, self base.PhysicalPlan, schema *expression.Schema) BasePhysicalPlan {
	return BasePhysicalPlan{
		tp:     tp,
		self:   self,
		schema: schema,
	}
}

// TP implements the base.Plan interface.
func (p *BasePhysicalPlan) TP() string {
	return p.tp
}

// Schema implements the base.Plan interface.
func (p *BasePhysicalPlan) Schema() *expression.Schema {
	return p.schema
}

// Children implements PhysicalPlan Children interface.
func (p *BasePhysicalPlan) Children() []base.PhysicalPlan {
	return p.children
}

// SetChildren implements PhysicalPlan SetChildren interface.
func (p *BasePhysicalPlan) SetChildren(children ...base.PhysicalPlan) {
	p.children = children
}

// StatsInfo implements the base.PhysicalPlan interface.
func (p *BasePhysicalPlan) StatsInfo() *property.StatsInfo {
	return p.stats
}

// SetStats implements the base.PhysicalPlan interface.
func (p *BasePhysicalPlan) SetStats(s *property.StatsInfo) {
	p.stats = s
}

// Cost implements the base.PhysicalPlan interface.
func (p *BasePhysicalPlan) Cost() float64 {
	return p.cost
}

// SetCost implements the base.PhysicalPlan interface.
func (p *BasePhysicalPlan) SetCost(cost float64) {
	p.cost = cost
}

// cloneWithSelf clones the base part for newSelf, the children are not copied since
// the clone is always rebuilt over new children.
func (p *BasePhysicalPlan) cloneWithSelf(newSelf base.PhysicalPlan) BasePhysicalPlan {
	return BasePhysicalPlan{
		tp:     p.tp,
		self:   newSelf,
		schema: p.schema,
		stats:  p.stats,
		cost:   p.cost,
	}
}

// passThrough is used by the operators which keep the order of their only child.
func passThrough(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	return []*property.PhysicalProperty{required.CloneEssentialFields()}, true
}

// onlyUnordered is used by the operators which can't provide any order.
func onlyUnordered(required *property.PhysicalProperty, childCount int) ([]*property.PhysicalProperty, bool) {
	if !required.IsSortItemEmpty() {
		return nil, false
	}
	props := make([]*property.PhysicalProperty, 0, childCount)
	for range childCount {
		props = append(props, &property.PhysicalProperty{})
	}
	return props, true
}
