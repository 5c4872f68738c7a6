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
	"fmt"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// LogicalLimit represents offset and limit plan.
type LogicalLimit struct {
	BaseLogicalPlan

	Offset uint64
	Count  uint64
}

// Init initializes LogicalLimit.
func (p LogicalLimit) Init(children ...plannerbase.LogicalPlan) *LogicalLimit {
	p.BaseLogicalPlan = NewBaseLogicalPlan(plancodec.TypeLimit, &p, children...)
	return &p
}

// Schema implements the base.Plan interface.
func (p *LogicalLimit) Schema() *expression.Schema {
	return p.childSchema(0)
}

// WithChildren implements the base.LogicalPlan interface.
func (p *LogicalLimit) WithChildren(children ...plannerbase.LogicalPlan) plannerbase.LogicalPlan {
	return (*p).Init(children...)
}

// ExplainInfo implements Plan interface.
func (p *LogicalLimit) ExplainInfo() string {
	return fmt.Sprintf("offset:%v, count:%v", p.Offset, p.Count)
}

// Hash64 implements the base.HashEquals interface.
func (p *LogicalLimit) Hash64(h base.Hasher) {
	h.HashString(p.TP())
	h.HashUint64(p.Offset)
	h.HashUint64(p.Count)
}

// Equals implements the base.HashEquals interface.
func (p *LogicalLimit) Equals(other any) bool {
	p2, ok := other.(*LogicalLimit)
	if !ok || p == nil || p2 == nil {
		return ok && p == p2
	}
	return p.Offset == p2.Offset && p.Count == p2.Count
}

// DeriveStats implements base.LogicalPlan.<11th> interface.
func (p *LogicalLimit) DeriveStats(_ plannerbase.StatsContext, childStats []*property.StatsInfo, _ []*expression.Schema) (*property.StatsInfo, error) {
	return childStats[0].ScaleByExpectCnt(float64(p.Count)), nil
}
