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

package implementation

import (
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/core/operator/physicalop"
	"github.com/pingcap/cascades/pkg/planner/pattern"
)

var (
	_ rule.ImplementationRule = &ImplHashAgg{}
	_ rule.ImplementationRule = &ImplStreamAgg{}
)

// ImplHashAgg implements a LogicalAggregation as a PhysicalHashAgg.
type ImplHashAgg struct {
	*rule.BaseRule
}

// NewImplHashAgg creates a new ImplHashAgg rule.
func NewImplHashAgg() *ImplHashAgg {
	return &ImplHashAgg{rule.NewBaseRule(rule.ImplHashAgg, pattern.NewPattern(pattern.OperandAggregation))}
}

// Implement implements the ImplementationRule interface.
func (*ImplHashAgg) Implement(holder corebase.LogicalPlan) ([]corebase.PhysicalPlan, error) {
	agg := holder.GetWrappedLogicalPlan().(*logicalop.LogicalAggregation)
	return []corebase.PhysicalPlan{physicalop.NewPhysicalHashAgg(agg.GroupByItems, agg.AggFuncs, holder.Schema())}, nil
}

// ImplStreamAgg implements a LogicalAggregation as a PhysicalStreamAgg, which requires its
// child to be sorted on the group by columns.
type ImplStreamAgg struct {
	*rule.BaseRule
}

// NewImplStreamAgg creates a new ImplStreamAgg rule.
func NewImplStreamAgg() *ImplStreamAgg {
	return &ImplStreamAgg{rule.NewBaseRule(rule.ImplStreamAgg, pattern.NewPattern(pattern.OperandAggregation))}
}

// Implement implements the ImplementationRule interface.
func (*ImplStreamAgg) Implement(holder corebase.LogicalPlan) ([]corebase.PhysicalPlan, error) {
	agg := holder.GetWrappedLogicalPlan().(*logicalop.LogicalAggregation)
	return []corebase.PhysicalPlan{physicalop.NewPhysicalStreamAgg(agg.GroupByItems, agg.AggFuncs, holder.Schema())}, nil
}
