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
	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// LogicalProjection represents a select fields plan, it only picks columns of the child.
type LogicalProjection struct {
	BaseLogicalPlan

	Cols []*expression.Column

	schema *expression.Schema
}

// Init initializes LogicalProjection.
func (p LogicalProjection) Init(children ...plannerbase.LogicalPlan) *LogicalProjection {
	p.BaseLogicalPlan = NewBaseLogicalPlan(plancodec.TypeProj, &p, children...)
	p.schema = expression.NewSchema(p.Cols...)
	return &p
}

// Schema implements the base.Plan interface.
func (p *LogicalProjection) Schema() *expression.Schema {
	return p.schema
}

// WithChildren implements the base.LogicalPlan interface.
func (p *LogicalProjection) WithChildren(children ...plannerbase.LogicalPlan) plannerbase.LogicalPlan {
	return (*p).Init(children...)
}

// ExplainInfo implements Plan interface.
func (p *LogicalProjection) ExplainInfo() string {
	return expression.ExplainColumnList(p.Cols)
}

// Hash64 implements the base.HashEquals interface.
func (p *LogicalProjection) Hash64(h base.Hasher) {
	h.HashString(p.TP())
	expression.ColumnsHash64(h, p.Cols)
}

// Equals implements the base.HashEquals interface.
func (p *LogicalProjection) Equals(other any) bool {
	p2, ok := other.(*LogicalProjection)
	if !ok || p == nil || p2 == nil {
		return ok && p == p2
	}
	return expression.ColumnsEqual(p.Cols, p2.Cols)
}

// DeriveStats implements base.LogicalPlan.<11th> interface.
func (p *LogicalProjection) DeriveStats(_ plannerbase.StatsContext, childStats []*property.StatsInfo, _ []*expression.Schema) (*property.StatsInfo, error) {
	stats := property.NewStatsInfo(childStats[0].RowCount)
	for _, col := range p.Cols {
		stats.ColNDVs[col.UniqueID] = childStats[0].GetNDV(col)
	}
	return stats, nil
}
