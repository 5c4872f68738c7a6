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

// PhysicalSelection represents a filter.
type PhysicalSelection struct {
	BasePhysicalPlan

	Conditions []expression.Expression
}

// Init initializes PhysicalSelection.
func (p PhysicalSelection) Init(schema *expression.Schema) *PhysicalSelection {
	p.BasePhysicalPlan = NewBasePhysicalPlan(plancodec.TypeSel, &p, schema)
	return &p
}

// ExplainInfo implements Plan interface.
func (p *PhysicalSelection) ExplainInfo() string {
	return expression.ExplainExpressionList(p.Conditions)
}

// GetChildReqProps implements the base.PhysicalPlan interface.
func (*PhysicalSelection) GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	return passThrough(required)
}

// LocalCost implements the base.PhysicalPlan interface.
func (*PhysicalSelection) LocalCost(factors *base.CostFactors, _ *property.StatsInfo, childStats []*property.StatsInfo) float64 {
	return childStats[0].RowCount * factors.CPU
}

// Clone implements op.PhysicalPlan interface.
func (p *PhysicalSelection) Clone() base.PhysicalPlan {
	cloned := *p
	cloned.BasePhysicalPlan = p.cloneWithSelf(&cloned)
	return &cloned
}
