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

package selection

import (
	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/pattern"
)

var _ rule.TransformationRule = &XFMergeAdjacentSelection{}

// XFMergeAdjacentSelection merges a selection into the selection below it.
type XFMergeAdjacentSelection struct {
	*rule.BaseRule
}

// NewXFMergeAdjacentSelection creates a new MergeAdjacentSelection rule.
func NewXFMergeAdjacentSelection() *XFMergeAdjacentSelection {
	pa := pattern.BuildPattern(pattern.OperandSelection,
		pattern.BuildPattern(pattern.OperandSelection, pattern.NewPattern(pattern.OperandAny)))
	return &XFMergeAdjacentSelection{
		BaseRule: rule.NewBaseRule(rule.XFMergeAdjacentSelection, pa),
	}
}

// XForm implements the TransformationRule interface.
func (*XFMergeAdjacentSelection) XForm(selHolder corebase.LogicalPlan) ([]corebase.LogicalPlan, error) {
	upper := selHolder.GetWrappedLogicalPlan().(*logicalop.LogicalSelection)
	lowerHolder := selHolder.Children()[0]
	lower := lowerHolder.GetWrappedLogicalPlan().(*logicalop.LogicalSelection)

	conds := append([]expression.Expression(nil), lower.Conditions...)
	for _, cond := range upper.Conditions {
		dup := false
		for _, one := range conds {
			if one.Equals(cond) {
				dup = true
				break
			}
		}
		if !dup {
			conds = append(conds, cond)
		}
	}
	merged := logicalop.LogicalSelection{Conditions: conds}.Init(lowerHolder.Children()[0])
	return []corebase.LogicalPlan{merged}, nil
}
