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
	"fmt"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// PhysicalLimit is the physical operator of Limit.
type PhysicalLimit struct {
	BasePhysicalPlan

	Offset uint64
	Count  uint64
}

// Init initializes PhysicalLimit.
func (p PhysicalLimit) Init(schema *expression.Schema) *PhysicalLimit {
	p.BasePhysicalPlan = NewBasePhysicalPlan(plancodec.TypeLimit, &p, schema)
	return &p
}

// ExplainInfo implements Plan interface.
func (p *PhysicalLimit) ExplainInfo() string {
	return fmt.Sprintf("offset:%v, count:%v", p.Offset, p.Count)
}

// GetChildReqProps implements the base.PhysicalPlan interface.
func (*PhysicalLimit) GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	return passThrough(required)
}

// LocalCost implements the base.PhysicalPlan interface.
func (*PhysicalLimit) LocalCost(factors *base.CostFactors, stats *property.StatsInfo, _ []*property.StatsInfo) float64 {
	return stats.RowCount * factors.CPU
}

// Clone implements op.PhysicalPlan interface.
func (p *PhysicalLimit) Clone() base.PhysicalPlan {
	cloned := *p
	cloned.BasePhysicalPlan = p.cloneWithSelf(&cloned)
	return &cloned
}
