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
	"strings"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// PhysicalTableScan represents a full table scan.
type PhysicalTableScan struct {
	BasePhysicalPlan

	Table      string
	Partitions []string
}

// Init initializes PhysicalTableScan.
func (p PhysicalTableScan) Init(schema *expression.Schema) *PhysicalTableScan {
	p.BasePhysicalPlan = NewBasePhysicalPlan(plancodec.TypeTableFullScan, &p, schema)
	return &p
}

// ExplainInfo implements Plan interface.
func (p *PhysicalTableScan) ExplainInfo() string {
	var b strings.Builder
	b.WriteString("table:")
	b.WriteString(p.Table)
	if len(p.Partitions) > 0 {
		b.WriteString(", partition:")
		b.WriteString(strings.Join(p.Partitions, ","))
	}
	b.WriteString(", keep order:false")
	return b.String()
}

// GetChildReqProps implements the base.PhysicalPlan interface.
func (*PhysicalTableScan) GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	return onlyUnordered(required, 0)
}

// LocalCost implements the base.PhysicalPlan interface.
func (*PhysicalTableScan) LocalCost(factors *base.CostFactors, stats *property.StatsInfo, _ []*property.StatsInfo) float64 {
	return stats.RowCount * factors.Scan
}

// Clone implements op.PhysicalPlan interface.
func (p *PhysicalTableScan) Clone() base.PhysicalPlan {
	cloned := *p
	cloned.BasePhysicalPlan = p.cloneWithSelf(&cloned)
	return &cloned
}
