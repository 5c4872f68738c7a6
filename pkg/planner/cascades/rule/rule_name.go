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

package rule

// Type indicates the rule type.
type Type uint

const (
	// DefaultNone indicates this is none rule.
	DefaultNone Type = iota
	// XFPushSelectionDownJoin pushes the filters below a join into its children.
	XFPushSelectionDownJoin
	// XFMergeAdjacentSelection merges two adjacent selections.
	XFMergeAdjacentSelection
	// XFJoinCommutativity swaps the children of an inner join.
	XFJoinCommutativity
	// XFEliminateProjection removes a projection which outputs the columns of its child.
	XFEliminateProjection
	// XFEliminateOuterJoinBelowAggregation removes an outer join under a duplicate agnostic aggregation.
	XFEliminateOuterJoinBelowAggregation

	// ImplDataSource implements a DataSource as a table full scan.
	ImplDataSource
	// ImplSelection implements a LogicalSelection.
	ImplSelection
	// ImplProjection implements a LogicalProjection.
	ImplProjection
	// ImplHashJoin implements a LogicalJoin as a hash join.
	ImplHashJoin
	// ImplHashAgg implements a LogicalAggregation as a hash aggregation.
	ImplHashAgg
	// ImplStreamAgg implements a LogicalAggregation as a sort based aggregation.
	ImplStreamAgg
	// ImplSort implements a LogicalSort.
	ImplSort
	// ImplLimit implements a LogicalLimit.
	ImplLimit

	// RootAddDefaultLimit puts a limit on top of a query which doesn't have one.
	RootAddDefaultLimit

	// MaxRuleType is the upper bound of the rule ids.
	MaxRuleType
)

var ruleNames = map[Type]string{
	DefaultNone:                          "DefaultNone",
	XFPushSelectionDownJoin:              "PushSelectionDownJoin",
	XFMergeAdjacentSelection:             "MergeAdjacentSelection",
	XFJoinCommutativity:                  "JoinCommutativity",
	XFEliminateProjection:                "EliminateProjection",
	XFEliminateOuterJoinBelowAggregation: "EliminateOuterJoinBelowAggregation",
	ImplDataSource:                       "ImplDataSource",
	ImplSelection:                        "ImplSelection",
	ImplProjection:                       "ImplProjection",
	ImplHashJoin:                         "ImplHashJoin",
	ImplHashAgg:                          "ImplHashAgg",
	ImplStreamAgg:                        "ImplStreamAgg",
	ImplSort:                             "ImplSort",
	ImplLimit:                            "ImplLimit",
	RootAddDefaultLimit:                  "AddDefaultLimit",
}

// String implements the fmt.Stringer interface.
func (tp Type) String() string {
	if name, ok := ruleNames[tp]; ok {
		return name
	}
	return "UnknownRule"
}

// TypeByName looks the rule type up by its name.
func TypeByName(name string) (Type, bool) {
	for tp, n := range ruleNames {
		if n == name && tp != DefaultNone {
			return tp, true
		}
	}
	return DefaultNone, false
}
