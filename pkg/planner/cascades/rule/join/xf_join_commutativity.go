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

package join

import (
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/pattern"
)

var _ rule.TransformationRule = &XFJoinCommutativity{}

// XFJoinCommutativity swaps the two children of an inner join. Applying it twice gives the
// original expression back, which the memo dedups.
type XFJoinCommutativity struct {
	*rule.BaseRule
}

// NewXFJoinCommutativity creates a new JoinCommutativity rule.
func NewXFJoinCommutativity() *XFJoinCommutativity {
	pa := pattern.BuildPattern(pattern.OperandJoin,
		pattern.NewPattern(pattern.OperandAny),
		pattern.NewPattern(pattern.OperandAny))
	return &XFJoinCommutativity{
		BaseRule: rule.NewBaseRule(rule.XFJoinCommutativity, pa),
	}
}

// Match implements the Rule interface.
func (*XFJoinCommutativity) Match(joinHolder corebase.LogicalPlan) bool {
	return joinHolder.GetWrappedLogicalPlan().(*logicalop.LogicalJoin).JoinType == logicalop.InnerJoin
}

// XForm implements the TransformationRule interface.
func (*XFJoinCommutativity) XForm(joinHolder corebase.LogicalPlan) ([]corebase.LogicalPlan, error) {
	join := joinHolder.GetWrappedLogicalPlan().(*logicalop.LogicalJoin)
	children := joinHolder.Children()
	swapped := logicalop.LogicalJoin{
		JoinType:        join.JoinType,
		EqualConditions: join.EqualConditions,
		OtherConditions: join.OtherConditions,
	}.Init(children[1], children[0])
	return []corebase.LogicalPlan{swapped}, nil
}
