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

package eoj

import (
	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/pattern"
	"github.com/pingcap/cascades/pkg/util/set"
)

var _ rule.TransformationRule = &XFEliminateOuterJoinBelowAggregation{}

// XFEliminateOuterJoinBelowAggregation eliminates the outer join below an aggregation when
// the aggregation only reads the outer side and doesn't care about duplicated rows.
// The pattern of this rule is `Aggregation->Join->X`.
type XFEliminateOuterJoinBelowAggregation struct {
	*rule.BaseRule
}

// NewXFEliminateOuterJoinBelowAggregation creates a new EliminateOuterJoinBelowAggregation rule.
func NewXFEliminateOuterJoinBelowAggregation() *XFEliminateOuterJoinBelowAggregation {
	pa := pattern.BuildPattern(pattern.OperandAggregation,
		pattern.BuildPattern(pattern.OperandJoin,
			pattern.NewPattern(pattern.OperandAny),
			pattern.NewPattern(pattern.OperandAny)))
	return &XFEliminateOuterJoinBelowAggregation{
		BaseRule: rule.NewBaseRule(rule.XFEliminateOuterJoinBelowAggregation, pa),
	}
}

// Match implements the Rule interface.
func (*XFEliminateOuterJoinBelowAggregation) Match(aggHolder corebase.LogicalPlan) bool {
	joinType := aggHolder.Children()[0].GetWrappedLogicalPlan().(*logicalop.LogicalJoin).JoinType
	return joinType.IsOuterJoin()
}

// XForm implements the TransformationRule interface.
func (*XFEliminateOuterJoinBelowAggregation) XForm(aggHolder corebase.LogicalPlan) ([]corebase.LogicalPlan, error) {
	agg := aggHolder.GetWrappedLogicalPlan().(*logicalop.LogicalAggregation)
	joinHolder := aggHolder.Children()[0]
	join := joinHolder.GetWrappedLogicalPlan().(*logicalop.LogicalJoin)
	outerIdx := 0
	if join.JoinType == logicalop.RightOuterJoin {
		outerIdx = 1
	}
	outerGE := joinHolder.Children()[outerIdx]

	outerUniqueIDs := set.NewInt64Set()
	for _, col := range outerGE.Schema().Columns {
		outerUniqueIDs.Insert(col.UniqueID)
	}
	// only when agg only use the columns from outer table can eliminate outer join.
	usedCols := append([]*expression.Column(nil), agg.GroupByItems...)
	for _, fun := range agg.AggFuncs {
		// count and sum are sensitive to the rows duplicated by the join.
		if fun.Name != logicalop.AggFuncMax && fun.Name != logicalop.AggFuncMin {
			return nil, nil
		}
		if fun.Arg != nil {
			usedCols = append(usedCols, fun.Arg)
		}
	}
	for _, col := range usedCols {
		if !outerUniqueIDs.Exist(col.UniqueID) {
			return nil, nil
		}
	}
	newAgg := logicalop.LogicalAggregation{
		GroupByItems: agg.GroupByItems,
		AggFuncs:     agg.AggFuncs,
	}.Init(outerGE)
	return []corebase.LogicalPlan{newAgg}, nil
}
