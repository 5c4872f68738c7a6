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

var _ rule.ImplementationRule = &ImplHashJoin{}

// ImplHashJoin implements a LogicalJoin as a PhysicalHashJoin, which builds the hash table
// on the right child. The other side gets its turn through the commuted join expression.
type ImplHashJoin struct {
	*rule.BaseRule
}

// NewImplHashJoin creates a new ImplHashJoin rule.
func NewImplHashJoin() *ImplHashJoin {
	return &ImplHashJoin{rule.NewBaseRule(rule.ImplHashJoin, pattern.NewPattern(pattern.OperandJoin))}
}

// Implement implements the ImplementationRule interface.
func (*ImplHashJoin) Implement(holder corebase.LogicalPlan) ([]corebase.PhysicalPlan, error) {
	join := holder.GetWrappedLogicalPlan().(*logicalop.LogicalJoin)
	hashJoin := physicalop.PhysicalHashJoin{
		JoinType:        join.JoinType,
		EqualConditions: join.EqualConditions,
		OtherConditions: join.OtherConditions,
	}.Init(holder.Schema())
	return []corebase.PhysicalPlan{hashJoin}, nil
}
