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
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// PhysicalProjection is the physical operator of projection.
type PhysicalProjection struct {
	BasePhysicalPlan

	Cols []*expression.Column
}

// Init initializes PhysicalProjection.
func (p PhysicalProjection) Init(schema *expression.Schema) *PhysicalProjection {
	p.BasePhysicalPlan = NewBasePhysicalPlan(plancodec.TypeProj, &p, schema)
	return &p
}

// ExplainInfo implements Plan interface.
func (p *PhysicalProjection) ExplainInfo() string {
	return expression.ExplainColumnList(p.Cols)
}

// GetChildReqProps implements the base.PhysicalPlan interface.
// The order is kept only when all the sorted columns survive the projection.
func (p *PhysicalProjection) GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	if !required.AllColsFromSchema(expression.NewSchema(p.Cols...)) {
		return nil, false
	}
	return passThrough(required)
}

// LocalCost implements the base.PhysicalPlan interface.
func (*PhysicalProjection) LocalCost(factors *base.CostFactors, stats *property.StatsInfo, _ []*property.StatsInfo) float64 {
	return stats.RowCount * factors.CPU
}

// Clone implements op.PhysicalPlan interface.
func (p *PhysicalProjection) Clone() base.PhysicalPlan {
	cloned := *p
	cloned.BasePhysicalPlan = p.cloneWithSelf(&cloned)
	return &cloned
}
