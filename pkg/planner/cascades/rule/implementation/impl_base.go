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
	_ rule.ImplementationRule = &ImplDataSource{}
	_ rule.ImplementationRule = &ImplSelection{}
	_ rule.ImplementationRule = &ImplProjection{}
	_ rule.ImplementationRule = &ImplSort{}
	_ rule.ImplementationRule = &ImplLimit{}
)

// ImplDataSource implements a DataSource as a PhysicalTableScan.
type ImplDataSource struct {
	*rule.BaseRule
}

// NewImplDataSource creates a new ImplDataSource rule.
func NewImplDataSource() *ImplDataSource {
	return &ImplDataSource{rule.NewBaseRule(rule.ImplDataSource, pattern.NewPattern(pattern.OperandDataSource))}
}

// Implement implements the ImplementationRule interface.
func (*ImplDataSource) Implement(holder corebase.LogicalPlan) ([]corebase.PhysicalPlan, error) {
	ds := holder.GetWrappedLogicalPlan().(*logicalop.DataSource)
	scan := physicalop.PhysicalTableScan{Table: ds.TableName, Partitions: ds.Partitions}.Init(holder.Schema())
	return []corebase.PhysicalPlan{scan}, nil
}

// ImplSelection implements a LogicalSelection as a PhysicalSelection.
type ImplSelection struct {
	*rule.BaseRule
}

// NewImplSelection creates a new ImplSelection rule.
func NewImplSelection() *ImplSelection {
	return &ImplSelection{rule.NewBaseRule(rule.ImplSelection, pattern.NewPattern(pattern.OperandSelection))}
}

// Implement implements the ImplementationRule interface.
func (*ImplSelection) Implement(holder corebase.LogicalPlan) ([]corebase.PhysicalPlan, error) {
	sel := holder.GetWrappedLogicalPlan().(*logicalop.LogicalSelection)
	return []corebase.PhysicalPlan{physicalop.PhysicalSelection{Conditions: sel.Conditions}.Init(holder.Schema())}, nil
}

// ImplProjection implements a LogicalProjection as a PhysicalProjection.
type ImplProjection struct {
	*rule.BaseRule
}

// NewImplProjection creates a new ImplProjection rule.
func NewImplProjection() *ImplProjection {
	return &ImplProjection{rule.NewBaseRule(rule.ImplProjection, pattern.NewPattern(pattern.OperandProjection))}
}

// Implement implements the ImplementationRule interface.
func (*ImplProjection) Implement(holder corebase.LogicalPlan) ([]corebase.PhysicalPlan, error) {
	proj := holder.GetWrappedLogicalPlan().(*logicalop.LogicalProjection)
	return []corebase.PhysicalPlan{physicalop.PhysicalProjection{Cols: proj.Cols}.Init(holder.Schema())}, nil
}

// ImplSort implements a LogicalSort as a PhysicalSort.
type ImplSort struct {
	*rule.BaseRule
}

// NewImplSort creates a new ImplSort rule.
func NewImplSort() *ImplSort {
	return &ImplSort{rule.NewBaseRule(rule.ImplSort, pattern.NewPattern(pattern.OperandSort))}
}

// Implement implements the ImplementationRule interface.
func (*ImplSort) Implement(holder corebase.LogicalPlan) ([]corebase.PhysicalPlan, error) {
	sort := holder.GetWrappedLogicalPlan().(*logicalop.LogicalSort)
	return []corebase.PhysicalPlan{physicalop.PhysicalSort{ByItems: sort.ByItems}.Init(holder.Schema())}, nil
}

// ImplLimit implements a LogicalLimit as a PhysicalLimit.
type ImplLimit struct {
	*rule.BaseRule
}

// NewImplLimit creates a new ImplLimit rule.
func NewImplLimit() *ImplLimit {
	return &ImplLimit{rule.NewBaseRule(rule.ImplLimit, pattern.NewPattern(pattern.OperandLimit))}
}

// Implement implements the ImplementationRule interface.
func (*ImplLimit) Implement(holder corebase.LogicalPlan) ([]corebase.PhysicalPlan, error) {
	limit := holder.GetWrappedLogicalPlan().(*logicalop.LogicalLimit)
	return []corebase.PhysicalPlan{physicalop.PhysicalLimit{Offset: limit.Offset, Count: limit.Count}.Init(holder.Schema())}, nil
}
