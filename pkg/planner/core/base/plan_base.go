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

package base

import (
	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/property"
)

// Plan is the description of an execution flow.
// It is created from ast.Node first, then optimized by the optimizer,
// finally used by the executor to create a Cursor which executes the statement.
type Plan interface {
	// TP get the plan type.
	TP() string

	// ExplainInfo returns operator information to be explained.
	ExplainInfo() string

	// Schema returns the current plan's schema.
	Schema() *expression.Schema
}

// LogicalPlan is a tree of logical operators.
// We can do a lot of logical optimizations to it, like predicate push-down and column pruning.
// A LogicalPlan is never mutated once built, rules derive new plans through WithChildren.
type LogicalPlan interface {
	Plan
	// HashEquals covers the attributes of the operator itself, the children are not included.
	base.HashEquals

	// Children returns all the children.
	Children() []LogicalPlan

	// WithChildren returns a shallow copy of the plan over the new children.
	WithChildren(children ...LogicalPlan) LogicalPlan

	// DeriveStats derives statistic info for current plan node given child stats.
	// We need selfSchema, childSchema here because it makes this method can be used in
	// cascades planner, where LogicalPlan might not record its children or schema.
	DeriveStats(sctx StatsContext, childStats []*property.StatsInfo, childSchema []*expression.Schema) (*property.StatsInfo, error)

	// GetWrappedLogicalPlan return the wrapped logical plan inside a group expression.
	// For other normal logical plan, it just returns itself.
	GetWrappedLogicalPlan() LogicalPlan
}

// PhysicalPlan is a tree of the physical operators.
type PhysicalPlan interface {
	Plan

	// Children get all the children.
	Children() []PhysicalPlan

	// SetChildren sets the children for the plan.
	SetChildren(...PhysicalPlan)

	// GetChildReqProps returns the properties the children are required to provide, and
	// whether the operator can provide the required property at all.
	GetChildReqProps(required *property.PhysicalProperty) ([]*property.PhysicalProperty, bool)

	// LocalCost is the cost of the operator itself, children excluded.
	LocalCost(factors *CostFactors, stats *property.StatsInfo, childStats []*property.StatsInfo) float64

	// Clone clones this physical plan.
	Clone() PhysicalPlan

	// StatsInfo will return the property.StatsInfo for this plan.
	StatsInfo() *property.StatsInfo

	// SetStats sets basePlan.stats inside the basePhysicalPlan.
	SetStats(s *property.StatsInfo)

	// Cost returns the total cost of the plan tree rooted here.
	Cost() float64

	// SetCost sets the total cost of the plan tree rooted here.
	SetCost(cost float64)
}
