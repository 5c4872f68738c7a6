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
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// basePhysicalAgg is the base struct of PhysicalHashAgg and PhysicalStreamAgg.
type basePhysicalAgg struct {
	BasePhysicalPlan

	GroupByItems []*expression.Column
	AggFuncs     []*logicalop.AggFuncDesc
}

// ExplainInfo implements Plan interface.
func (p *basePhysicalAgg) ExplainInfo() string {
	return logicalop.ExplainAggInfo(p.GroupByItems, p.AggFuncs)
}

// PhysicalHashAgg is hash operator of aggregate.
type PhysicalHashAgg struct {
	basePhysicalAgg
}

// NewPhysicalHashAgg creates a PhysicalHashAgg.
func NewPhysicalHashAgg(groupBy []*expression.Column, aggFuncs []*logicalop.AggFuncDesc, schema *expression.Schema) *PhysicalHashAgg {
	p := &PhysicalHashAgg{basePhysicalAgg{GroupByItems: groupBy, AggFuncs: aggFuncs}}
	p.BasePhysicalPlan = NewBasePhysicalPlan(plancodec.TypeHashAgg, p, schema)
	return p
}

// GetChildReqProps implements the base.PhysicalPlan interface.
func (*PhysicalHashAgg) GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	return onlyUnordered(required, 1)
}

// LocalCost implements the base.PhysicalPlan interface.
func (*PhysicalHashAgg) LocalCost(factors *base.CostFactors, stats *property.StatsInfo, childStats []*property.StatsInfo) float64 {
	return childStats[0].RowCount*factors.CPU + stats.RowCount*factors.Memory
}

// Clone implements op.PhysicalPlan interface.
func (p *PhysicalHashAgg) Clone() base.PhysicalPlan {
	cloned := *p
	cloned.BasePhysicalPlan = p.cloneWithSelf(&cloned)
	return &cloned
}

// PhysicalStreamAgg is stream operator of aggregate. It requires the child to be sorted by
// the group by columns, and its output keeps that order.
type PhysicalStreamAgg struct {
	basePhysicalAgg
}

// NewPhysicalStreamAgg creates a PhysicalStreamAgg.
func NewPhysicalStreamAgg(groupBy []*expression.Column, aggFuncs []*logicalop.AggFuncDesc, schema *expression.Schema) *PhysicalStreamAgg {
	p := &PhysicalStreamAgg{basePhysicalAgg{GroupByItems: groupBy, AggFuncs: aggFuncs}}
	p.BasePhysicalPlan = NewBasePhysicalPlan(plancodec.TypeStreamAgg, p, schema)
	return p
}

// GetChildReqProps implements the base.PhysicalPlan interface.
func (p *PhysicalStreamAgg) GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	childProp := property.NewPhysicalProperty(property.SortItemsFromCols(p.GroupByItems, false)...)
	if !required.IsPrefix(childProp) {
		return nil, false
	}
	return []*property.PhysicalProperty{childProp}, true
}

// LocalCost implements the base.PhysicalPlan interface.
func (*PhysicalStreamAgg) LocalCost(factors *base.CostFactors, _ *property.StatsInfo, childStats []*property.StatsInfo) float64 {
	return childStats[0].RowCount * factors.CPU
}

// Clone implements op.PhysicalPlan interface.
func (p *PhysicalStreamAgg) Clone() base.PhysicalPlan {
	cloned := *p
	cloned.BasePhysicalPlan = p.cloneWithSelf(&cloned)
	return &cloned
}
