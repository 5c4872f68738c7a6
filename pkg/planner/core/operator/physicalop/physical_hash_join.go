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

// PhysicalHashJoin represents hash join implementation of LogicalJoin.
// The right child is the build side, the left child is the outer side.
type PhysicalHashJoin struct {
	BasePhysicalPlan

	JoinType        logicalop.JoinType
	EqualConditions []*expression.ScalarFunction
	OtherConditions []expression.Expression
}

// Init initializes PhysicalHashJoin.
func (p PhysicalHashJoin) Init(schema *expression.Schema) *PhysicalHashJoin {
	p.BasePhysicalPlan = NewBasePhysicalPlan(plancodec.TypeHashJoin, &p, schema)
	return &p
}

// ExplainInfo implements Plan interface.
func (p *PhysicalHashJoin) ExplainInfo() string {
	return logicalop.ExplainJoinInfo(p.JoinType, p.EqualConditions, p.OtherConditions)
}

// GetChildReqProps implements the base.PhysicalPlan interface.
func (*PhysicalHashJoin) GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool) {
	return onlyUnordered(required, 2)
}

// LocalCost implements the base.PhysicalPlan interface.
// Every input row is hashed, the build side is kept in memory and every outer row looks up
// the hash table.
func (*PhysicalHashJoin) LocalCost(factors *base.CostFactors, stats *property.StatsInfo, childStats []*property.StatsInfo) float64 {
	outer, build := childStats[0].RowCount, childStats[1].RowCount
	return outer*2*factors.CPU + build*(factors.CPU+factors.Memory) + stats.RowCount*factors.CPU
}

// Clone implements op.PhysicalPlan interface.
func (p *PhysicalHashJoin) Clone() base.PhysicalPlan {
	cloned := *p
	cloned.BasePhysicalPlan = p.cloneWithSelf(&cloned)
	return &cloned
}
