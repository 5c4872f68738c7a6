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
	"strings"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cardinality"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// List of aggregation function names.
const (
	AggFuncCount = "count"
	AggFuncSum   = "sum"
	AggFuncMax   = "max"
	AggFuncMin   = "min"
)

// AggFuncDesc describes an aggregation function.
type AggFuncDesc struct {
	Name string
	// Arg is nil for count(*).
	Arg *expression.Column
	// RetCol is the output column of the function.
	RetCol *expression.Column
}

// String implements the fmt.Stringer interface.
func (a *AggFuncDesc) String() string {
	arg := "*"
	if a.Arg != nil {
		arg = a.Arg.String()
	}
	return fmt.Sprintf("%s(%s)->%s", a.Name, arg, a.RetCol)
}

// Hash64 implements the base.HashEquals interface.
func (a *AggFuncDesc) Hash64(h base.Hasher) {
	h.HashString(a.Name)
	if a.Arg == nil {
		h.HashBool(false)
	} else {
		h.HashBool(true)
		a.Arg.Hash64(h)
	}
	a.RetCol.Hash64(h)
}

// Equals implements the base.HashEquals interface.
func (a *AggFuncDesc) Equals(other any) bool {
	a2, ok := other.(*AggFuncDesc)
	if !ok || a == nil || a2 == nil {
		return ok && a == a2
	}
	return a.Name == a2.Name && a.Arg.Equals(a2.Arg) && a.RetCol.Equals(a2.RetCol)
}

// LogicalAggregation represents an aggregate plan.
type LogicalAggregation struct {
	BaseLogicalPlan

	GroupByItems []*expression.Column
	AggFuncs     []*AggFuncDesc

	schema *expression.Schema
}

// Init initializes LogicalAggregation.
func (la LogicalAggregation) Init(children ...plannerbase.LogicalPlan) *LogicalAggregation {
	la.BaseLogicalPlan = NewBaseLogicalPlan(plancodec.TypeAgg, &la, children...)
	la.schema = AggregationSchema(la.GroupByItems, la.AggFuncs)
	return &la
}

// AggregationSchema returns the output schema of an aggregation: the group by columns
// followed by the result columns of the functions.
func AggregationSchema(groupBy []*expression.Column, aggFuncs []*AggFuncDesc) *expression.Schema {
	schema := expression.NewSchema(groupBy...)
	for _, agg := range aggFuncs {
		schema.Append(agg.RetCol)
	}
	return schema
}

// ExplainAggInfo generates the explain information of an aggregation.
func ExplainAggInfo(groupBy []*expression.Column, aggFuncs []*AggFuncDesc) string {
	var b strings.Builder
	if len(groupBy) > 0 {
		fmt.Fprintf(&b, "group by:%s, ", expression.ExplainColumnList(groupBy))
	}
	b.WriteString("funcs:")
	for i, agg := range aggFuncs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(agg.String())
	}
	return b.String()
}

// Schema implements the base.Plan interface.
func (la *LogicalAggregation) Schema() *expression.Schema {
	return la.schema
}

// WithChildren implements the base.LogicalPlan interface.
func (la *LogicalAggregation) WithChildren(children ...plannerbase.LogicalPlan) plannerbase.LogicalPlan {
	return (*la).Init(children...)
}

// ExplainInfo implements Plan interface.
func (la *LogicalAggregation) ExplainInfo() string {
	return ExplainAggInfo(la.GroupByItems, la.AggFuncs)
}

// Hash64 implements the base.HashEquals interface.
func (la *LogicalAggregation) Hash64(h base.Hasher) {
	h.HashString(la.TP())
	expression.ColumnsHash64(h, la.GroupByItems)
	h.HashInt(len(la.AggFuncs))
	for _, agg := range la.AggFuncs {
		agg.Hash64(h)
	}
}

// Equals implements the base.HashEquals interface.
func (la *LogicalAggregation) Equals(other any) bool {
	la2, ok := other.(*LogicalAggregation)
	if !ok || la == nil || la2 == nil {
		return ok && la == la2
	}
	if !expression.ColumnsEqual(la.GroupByItems, la2.GroupByItems) || len(la.AggFuncs) != len(la2.AggFuncs) {
		return false
	}
	for i, agg := range la.AggFuncs {
		if !agg.Equals(la2.AggFuncs[i]) {
			return false
		}
	}
	return true
}

// DeriveStats implements base.LogicalPlan.<11th> interface.
func (la *LogicalAggregation) DeriveStats(_ plannerbase.StatsContext, childStats []*property.StatsInfo, childSchema []*expression.Schema) (*property.StatsInfo, error) {
	rowCount := cardinality.EstimateAggRowCount(childStats[0], childSchema[0], la.GroupByItems)
	stats := property.NewStatsInfo(rowCount)
	for _, col := range la.GroupByItems {
		stats.ColNDVs[col.UniqueID] = childStats[0].GetNDV(col)
	}
	for _, agg := range la.AggFuncs {
		stats.ColNDVs[agg.RetCol.UniqueID] = rowCount
	}
	return stats.CapNDVs(), nil
}
