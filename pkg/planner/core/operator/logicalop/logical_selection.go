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
	"github.com/pingcap/cascades/pkg/planner/cardinality"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// LogicalSelection represents a where or having predicate.
type LogicalSelection struct {
	BaseLogicalPlan

	// Originally the WHERE or ON condition is parsed into a single expression,
	// but after we converted to CNF(Conjunctive normal form), it can be
	// split into a list of AND conditions.
	Conditions []expression.Expression
}

// Init initializes LogicalSelection.
func (p LogicalSelection) Init(children ...plannerbase.LogicalPlan) *LogicalSelection {
	p.BaseLogicalPlan = NewBaseLogicalPlan(plancodec.TypeSel, &p, children...)
	return &p
}

// Schema implements the base.Plan interface.
func (p *LogicalSelection) Schema() *expression.Schema {
	return p.childSchema(0)
}

// WithChildren implements the base.LogicalPlan interface.
func (p *LogicalSelection) WithChildren(children ...plannerbase.LogicalPlan) plannerbase.LogicalPlan {
	return (*p).Init(children...)
}

// ExplainInfo implements Plan interface.
func (p *LogicalSelection) ExplainInfo() string {
	return expression.ExplainExpressionList(p.Conditions)
}

// Hash64 implements the base.HashEquals interface.
func (p *LogicalSelection) Hash64(h base.Hasher) {
	h.HashString(p.TP())
	expression.ExprsHash64(h, p.Conditions)
}

// Equals implements the base.HashEquals interface.
func (p *LogicalSelection) Equals(other any) bool {
	p2, ok := other.(*LogicalSelection)
	if !ok || p == nil || p2 == nil {
		return ok && p == p2
	}
	return expression.ExprsEqual(p.Conditions, p2.Conditions)
}

// DeriveStats implements base.LogicalPlan.<11th> interface.
func (p *LogicalSelection) DeriveStats(_ plannerbase.StatsContext, childStats []*property.StatsInfo, _ []*expression.Schema) (*property.StatsInfo, error) {
	return cardinality.EstimateFilterStats(childStats[0], p.Conditions), nil
}
