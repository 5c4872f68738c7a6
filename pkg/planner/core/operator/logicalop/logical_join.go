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
	"math"
	"strings"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cardinality"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// JoinType contains CrossJoin, InnerJoin, LeftOuterJoin, RightOuterJoin.
type JoinType int

const (
	// InnerJoin means inner join.
	InnerJoin JoinType = iota
	// LeftOuterJoin means left join.
	LeftOuterJoin
	// RightOuterJoin means right join.
	RightOuterJoin
)

// IsOuterJoin returns if this joiner is an outer joiner
func (tp JoinType) IsOuterJoin() bool {
	return tp == LeftOuterJoin || tp == RightOuterJoin
}

// String implements fmt.Stringer interface.
func (tp JoinType) String() string {
	switch tp {
	case InnerJoin:
		return "inner join"
	case LeftOuterJoin:
		return "left outer join"
	case RightOuterJoin:
		return "right outer join"
	}
	return "unsupported join type"
}

// LogicalJoin is the logical join plan.
type LogicalJoin struct {
	BaseLogicalPlan

	JoinType JoinType
	// EqualConditions are column equalities between the two sides, the first argument may
	// come from either side.
	EqualConditions []*expression.ScalarFunction
	OtherConditions []expression.Expression
}

// Init initializes LogicalJoin.
func (p LogicalJoin) Init(children ...plannerbase.LogicalPlan) *LogicalJoin {
	p.BaseLogicalPlan = NewBaseLogicalPlan(plancodec.TypeJoin, &p, children...)
	return &p
}

// Schema implements the base.Plan interface.
func (p *LogicalJoin) Schema() *expression.Schema {
	return expression.MergeSchema(p.childSchema(0), p.childSchema(1))
}

// WithChildren implements the base.LogicalPlan interface.
func (p *LogicalJoin) WithChildren(children ...plannerbase.LogicalPlan) plannerbase.LogicalPlan {
	return (*p).Init(children...)
}

// ExplainInfo implements Plan interface.
func (p *LogicalJoin) ExplainInfo() string {
	return ExplainJoinInfo(p.JoinType, p.EqualConditions, p.OtherConditions)
}

// ExplainJoinInfo generates the explain information of a join.
func ExplainJoinInfo(tp JoinType, eqConds []*expression.ScalarFunction, otherConds []expression.Expression) string {
	var b strings.Builder
	b.WriteString(tp.String())
	if len(eqConds) > 0 {
		fmt.Fprintf(&b, ", equal:[%s]", expression.ExplainExpressionList(EqualConditionsToExprs(eqConds)))
	}
	if len(otherConds) > 0 {
		fmt.Fprintf(&b, ", other cond:%s", expression.ExplainExpressionList(otherConds))
	}
	return b.String()
}

// EqualConditionsToExprs converts the equal conditions to general expressions.
func EqualConditionsToExprs(eqConds []*expression.ScalarFunction) []expression.Expression {
	exprs := make([]expression.Expression, 0, len(eqConds))
	for _, cond := range eqConds {
		exprs = append(exprs, cond)
	}
	return exprs
}

// Hash64 implements the base.HashEquals interface.
func (p *LogicalJoin) Hash64(h base.Hasher) {
	h.HashString(p.TP())
	h.HashInt(int(p.JoinType))
	expression.ExprsHash64(h, EqualConditionsToExprs(p.EqualConditions))
	expression.ExprsHash64(h, p.OtherConditions)
}

// Equals implements the base.HashEquals interface.
func (p *LogicalJoin) Equals(other any) bool {
	p2, ok := other.(*LogicalJoin)
	if !ok || p == nil || p2 == nil {
		return ok && p == p2
	}
	return p.JoinType == p2.JoinType &&
		expression.ExprsEqual(EqualConditionsToExprs(p.EqualConditions), EqualConditionsToExprs(p2.EqualConditions)) &&
		expression.ExprsEqual(p.OtherConditions, p2.OtherConditions)
}

// GetJoinKeys extracts the join keys of both sides, ordered as (left, right).
func GetJoinKeys(eqConds []*expression.ScalarFunction, lSchema, rSchema *expression.Schema) (lKeys, rKeys []*expression.Column) {
	for _, cond := range eqConds {
		if lCol, rCol, ok := expression.IsEQCondFromDifferentChild(cond, lSchema, rSchema); ok {
			lKeys = append(lKeys, lCol)
			rKeys = append(rKeys, rCol)
		}
	}
	return
}

// DeriveStats implements base.LogicalPlan.<11th> interface.
func (p *LogicalJoin) DeriveStats(_ plannerbase.StatsContext, childStats []*property.StatsInfo, childSchema []*expression.Schema) (*property.StatsInfo, error) {
	lStats, rStats := childStats[0], childStats[1]
	lKeys, rKeys := GetJoinKeys(p.EqualConditions, childSchema[0], childSchema[1])
	count := cardinality.EstimateJoinRowCount(lStats, rStats, childSchema[0], childSchema[1], lKeys, rKeys)
	merged := property.NewStatsInfo(count)
	for id, ndv := range lStats.ColNDVs {
		merged.ColNDVs[id] = ndv
	}
	for id, ndv := range rStats.ColNDVs {
		merged.ColNDVs[id] = ndv
	}
	if len(p.OtherConditions) > 0 {
		merged.RowCount *= cardinality.Selectivity(merged, p.OtherConditions)
	}
	switch p.JoinType {
	case LeftOuterJoin:
		merged.RowCount = math.Max(merged.RowCount, lStats.RowCount)
	case RightOuterJoin:
		merged.RowCount = math.Max(merged.RowCount, rStats.RowCount)
	}
	return merged.CapNDVs(), nil
}
