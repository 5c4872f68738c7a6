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

// Package evaluator executes logical and physical plans over a small in-memory dataset. It is
// the reference used to check that the plans produced by the optimizer keep the semantics of
// their input.
package evaluator

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/core/operator/physicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/errors"
)

// Dataset holds the rows of every table. A row maps the column name to its value, a missing
// column is NULL.
type Dataset map[string][]map[string]int64

// EvalLogical executes the logical plan.
func EvalLogical(p base.LogicalPlan, data Dataset) ([]expression.Row, error) {
	children := make([][]expression.Row, 0, len(p.Children()))
	for _, child := range p.Children() {
		rows, err := EvalLogical(child, data)
		if err != nil {
			return nil, err
		}
		children = append(children, rows)
	}
	switch x := p.(type) {
	case *logicalop.DataSource:
		return scan(data, x.TableName, x.Columns)
	case *logicalop.LogicalSelection:
		return filter(children[0], x.Conditions), nil
	case *logicalop.LogicalProjection:
		return project(children[0], x.Cols), nil
	case *logicalop.LogicalJoin:
		return join(x.JoinType, children[0], children[1], x.EqualConditions, x.OtherConditions), nil
	case *logicalop.LogicalAggregation:
		return aggregate(children[0], x.GroupByItems, x.AggFuncs), nil
	case *logicalop.LogicalSort:
		return sortRows(children[0], x.ByItems), nil
	case *logicalop.LogicalLimit:
		return limit(children[0], x.Offset, x.Count), nil
	}
	return nil, errors.Errorf("can't evaluate logical operator %s", p.TP())
}

// EvalPhysical executes the physical plan.
func EvalPhysical(p base.PhysicalPlan, data Dataset) ([]expression.Row, error) {
	children := make([][]expression.Row, 0, len(p.Children()))
	for _, child := range p.Children() {
		rows, err := EvalPhysical(child, data)
		if err != nil {
			return nil, err
		}
		children = append(children, rows)
	}
	switch x := p.(type) {
	case *physicalop.PhysicalTableScan:
		return scan(data, x.Table, x.Schema().Columns)
	case *physicalop.PhysicalSelection:
		return filter(children[0], x.Conditions), nil
	case *physicalop.PhysicalProjection:
		return project(children[0], x.Cols), nil
	case *physicalop.PhysicalHashJoin:
		return join(x.JoinType, children[0], children[1], x.EqualConditions, x.OtherConditions), nil
	case *physicalop.PhysicalHashAgg:
		return aggregate(children[0], x.GroupByItems, x.AggFuncs), nil
	case *physicalop.PhysicalStreamAgg:
		if !IsSorted(children[0], property.SortItemsFromCols(x.GroupByItems, false)) {
			return nil, errors.Errorf("the input of %s isn't sorted by the group by items", x.TP())
		}
		return aggregate(children[0], x.GroupByItems, x.AggFuncs), nil
	case *physicalop.PhysicalSort:
		return sortRows(children[0], x.ByItems), nil
	case *physicalop.PhysicalLimit:
		return limit(children[0], x.Offset, x.Count), nil
	}
	return nil, errors.Errorf("can't evaluate physical operator %s", p.TP())
}

// Format renders the rows over the columns, NULL is rendered as "NULL". The rows are sorted
// unless ordered is set, so two unordered results can be compared directly.
func Format(rows []expression.Row, cols []*expression.Column, ordered bool) []string {
	ret := make([]string, 0, len(rows))
	var b strings.Builder
	for _, row := range rows {
		b.Reset()
		for i, col := range cols {
			if i > 0 {
				b.WriteString(", ")
			}
			if val, ok := row[col.UniqueID]; ok {
				b.WriteString(strconv.FormatInt(val, 10))
			} else {
				b.WriteString("NULL")
			}
		}
		ret = append(ret, b.String())
	}
	if !ordered {
		slices.Sort(ret)
	}
	return ret
}

func scan(data Dataset, table string, cols []*expression.Column) ([]expression.Row, error) {
	tableRows, ok := data[table]
	if !ok {
		return nil, errors.Errorf("table %s not found in the dataset", table)
	}
	rows := make([]expression.Row, 0, len(tableRows))
	for _, tr := range tableRows {
		row := make(expression.Row, len(cols))
		for _, col := range cols {
			if val, ok := tr[col.Name]; ok {
				row[col.UniqueID] = val
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func filter(rows []expression.Row, conds []expression.Expression) []expression.Row {
	ret := make([]expression.Row, 0, len(rows))
	for _, row := range rows {
		if expression.EvalBool(conds, row) {
			ret = append(ret, row)
		}
	}
	return ret
}

func project(rows []expression.Row, cols []*expression.Column) []expression.Row {
	ret := make([]expression.Row, 0, len(rows))
	for _, row := range rows {
		nr := make(expression.Row, len(cols))
		for _, col := range cols {
			if val, ok := row[col.UniqueID]; ok {
				nr[col.UniqueID] = val
			}
		}
		ret = append(ret, nr)
	}
	return ret
}

// join is a nested loop join, the unmatched rows of the outer side are padded with NULL.
func join(tp logicalop.JoinType, left, right []expression.Row, eqConds []*expression.ScalarFunction, otherConds []expression.Expression) []expression.Row {
	conds := append(logicalop.EqualConditionsToExprs(eqConds), otherConds...)
	var ret []expression.Row
	rightMatched := make([]bool, len(right))
	for _, l := range left {
		matched := false
		for i, r := range right {
			merged := l.Clone()
			for id, val := range r {
				merged[id] = val
			}
			if expression.EvalBool(conds, merged) {
				matched = true
				rightMatched[i] = true
				ret = append(ret, merged)
			}
		}
		if !matched && tp == logicalop.LeftOuterJoin {
			ret = append(ret, l.Clone())
		}
	}
	if tp == logicalop.RightOuterJoin {
		for i, r := range right {
			if !rightMatched[i] {
				ret = append(ret, r.Clone())
			}
		}
	}
	return ret
}

type aggState struct {
	row    expression.Row
	counts []int64
	values []int64
	valid  []bool
}

func aggregate(rows []expression.Row, groupBy []*expression.Column, aggFuncs []*logicalop.AggFuncDesc) []expression.Row {
	var (
		order  []string
		groups = make(map[string]*aggState)
	)
	newState := func(row expression.Row) *aggState {
		st := &aggState{
			row:    make(expression.Row, len(groupBy)+len(aggFuncs)),
			counts: make([]int64, len(aggFuncs)),
			values: make([]int64, len(aggFuncs)),
			valid:  make([]bool, len(aggFuncs)),
		}
		for _, col := range groupBy {
			if val, ok := row[col.UniqueID]; ok {
				st.row[col.UniqueID] = val
			}
		}
		return st
	}
	for _, row := range rows {
		key := groupKey(row, groupBy)
		st, ok := groups[key]
		if !ok {
			st = newState(row)
			groups[key] = st
			order = append(order, key)
		}
		for i, agg := range aggFuncs {
			if agg.Arg == nil {
				st.counts[i]++
				continue
			}
			val, ok := row[agg.Arg.UniqueID]
			if !ok {
				continue
			}
			st.counts[i]++
			switch {
			case !st.valid[i]:
				st.values[i] = val
			case agg.Name == logicalop.AggFuncSum:
				st.values[i] += val
			case agg.Name == logicalop.AggFuncMax && val > st.values[i]:
				st.values[i] = val
			case agg.Name == logicalop.AggFuncMin && val < st.values[i]:
				st.values[i] = val
			}
			st.valid[i] = true
		}
	}
	// a scalar aggregation always outputs one row.
	if len(groupBy) == 0 && len(order) == 0 {
		groups[""] = newState(nil)
		order = append(order, "")
	}
	ret := make([]expression.Row, 0, len(order))
	for _, key := range order {
		st := groups[key]
		for i, agg := range aggFuncs {
			switch {
			case agg.Name == logicalop.AggFuncCount:
				st.row[agg.RetCol.UniqueID] = st.counts[i]
			case st.valid[i]:
				st.row[agg.RetCol.UniqueID] = st.values[i]
			}
		}
		ret = append(ret, st.row)
	}
	return ret
}

func groupKey(row expression.Row, groupBy []*expression.Column) string {
	var b strings.Builder
	for _, col := range groupBy {
		if val, ok := row[col.UniqueID]; ok {
			fmt.Fprintf(&b, "%d,", val)
		} else {
			b.WriteString("NULL,")
		}
	}
	return b.String()
}

// compareRows orders NULL before any value.
func compareRows(a, b expression.Row, items []property.SortItem) int {
	for _, item := range items {
		av, aOK := a[item.Col.UniqueID]
		bv, bOK := b[item.Col.UniqueID]
		cmp := 0
		switch {
		case !aOK && !bOK:
		case !aOK:
			cmp = -1
		case !bOK:
			cmp = 1
		case av < bv:
			cmp = -1
		case av > bv:
			cmp = 1
		}
		if item.Desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}

func sortRows(rows []expression.Row, items []property.SortItem) []expression.Row {
	ret := slices.Clone(rows)
	sort.SliceStable(ret, func(i, j int) bool {
		return compareRows(ret[i], ret[j], items) < 0
	})
	return ret
}

// IsSorted checks whether the rows are ordered by the sort items.
func IsSorted(rows []expression.Row, items []property.SortItem) bool {
	for i := 1; i < len(rows); i++ {
		if compareRows(rows[i-1], rows[i], items) > 0 {
			return false
		}
	}
	return true
}

func limit(rows []expression.Row, offset, count uint64) []expression.Row {
	n := uint64(len(rows))
	begin := min(offset, n)
	end := min(offset+count, n)
	return rows[begin:end]
}
