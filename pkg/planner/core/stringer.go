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

package core

import (
	"fmt"
	"strings"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/core/operator/physicalop"
)

// ToString explains a Plan, returns description string.
func ToString(p base.Plan) string {
	strs, _ := toString(p, []string{}, []int{})
	return strings.Join(strs, "->")
}

func needIncludeChildrenString(plan base.Plan) bool {
	switch x := plan.(type) {
	case base.LogicalPlan:
		return len(x.Children()) > 1
	case base.PhysicalPlan:
		return len(x.Children()) > 1
	default:
		return false
	}
}

// popChildren takes the strings of the children pushed since the last mark.
func popChildren(strs []string, idxs []int) (children, remained []string, remainedIdxs []int) {
	last := len(idxs) - 1
	idx := idxs[last]
	return strs[idx:], strs[:idx], idxs[:last]
}

func joinName(tp logicalop.JoinType, name string) string {
	switch tp {
	case logicalop.LeftOuterJoin:
		return "Left" + name
	case logicalop.RightOuterJoin:
		return "Right" + name
	default:
		return name
	}
}

func eqCondsString(eqConds []*expression.ScalarFunction) string {
	var b strings.Builder
	for _, eq := range eqConds {
		args := eq.GetArgs()
		fmt.Fprintf(&b, "(%s,%s)", args[0], args[1])
	}
	return b.String()
}

func toString(in base.Plan, strs []string, idxs []int) ([]string, []int) {
	switch x := in.(type) {
	case base.LogicalPlan:
		if needIncludeChildrenString(in) {
			idxs = append(idxs, len(strs))
		}
		for _, c := range x.Children() {
			strs, idxs = toString(c, strs, idxs)
		}
	case base.PhysicalPlan:
		if needIncludeChildrenString(in) {
			idxs = append(idxs, len(strs))
		}
		for _, c := range x.Children() {
			strs, idxs = toString(c, strs, idxs)
		}
	}

	var str string
	switch x := in.(type) {
	case *memo.GroupExpression:
		if g := x.GetGroup(); g != nil {
			str = fmt.Sprintf("G%d", g.GroupID)
		} else {
			str = x.TP()
		}
	case *logicalop.DataSource:
		switch {
		case len(x.Partitions) > 0:
			str = fmt.Sprintf("Partition(%s:%s)", x.TableName, strings.Join(x.Partitions, ","))
		case x.ViewName != "":
			str = fmt.Sprintf("DataScan(%s.%s)", x.ViewName, x.TableName)
		default:
			str = fmt.Sprintf("DataScan(%s)", x.TableName)
		}
	case *physicalop.PhysicalTableScan:
		str = fmt.Sprintf("Table(%s)", x.Table)
	case *logicalop.LogicalJoin:
		var children []string
		children, strs, idxs = popChildren(strs, idxs)
		str = joinName(x.JoinType, "Join") + "{" + strings.Join(children, "->") + "}" + eqCondsString(x.EqualConditions)
	case *physicalop.PhysicalHashJoin:
		var children []string
		children, strs, idxs = popChildren(strs, idxs)
		str = joinName(x.JoinType, "HashJoin") + "{" + strings.Join(children, "->") + "}" + eqCondsString(x.EqualConditions)
	case *logicalop.LogicalSelection:
		str = fmt.Sprintf("Sel([%s])", expression.ExplainExpressionList(x.Conditions))
	case *physicalop.PhysicalSelection:
		str = fmt.Sprintf("Sel([%s])", expression.ExplainExpressionList(x.Conditions))
	case *logicalop.LogicalProjection, *physicalop.PhysicalProjection:
		str = "Projection"
	case *physicalop.PhysicalHashAgg:
		str = "HashAgg"
	case *physicalop.PhysicalStreamAgg:
		str = "StreamAgg"
	case *logicalop.LogicalAggregation:
		str = "Aggr("
		for i, aggFunc := range x.AggFuncs {
			str += aggFunc.String()
			if i != len(x.AggFuncs)-1 {
				str += ","
			}
		}
		str += ")"
	case *logicalop.LogicalSort:
		str = fmt.Sprintf("Sort(%s)", logicalop.ExplainByItems(x.ByItems))
	case *physicalop.PhysicalSort:
		str = fmt.Sprintf("Sort(%s)", logicalop.ExplainByItems(x.ByItems))
	case *logicalop.LogicalLimit:
		str = fmt.Sprintf("Limit(%d,%d)", x.Offset, x.Count)
	case *physicalop.PhysicalLimit:
		str = fmt.Sprintf("Limit(%d,%d)", x.Offset, x.Count)
	default:
		str = fmt.Sprintf("%T", in)
	}
	strs = append(strs, str)
	return strs, idxs
}
