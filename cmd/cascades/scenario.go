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

package main

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/cascades/pkg/config"
	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/evaluator"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/pingcap/errors"
)

// scenarioFile is the toml layout of a scenario.
type scenarioFile struct {
	// Optimizer overrides the optimizer section of the config for this scenario.
	Optimizer     config.Optimizer `toml:"optimizer"`
	Tables        []*tableDef      `toml:"tables"`
	Plan          *planDef         `toml:"plan"`
	RequiredOrder []string         `toml:"required-order"`
}

type tableDef struct {
	Name    string   `toml:"name"`
	Columns []string `toml:"columns"`
	// RowCount is nil when the table has no statistics, -1 means the row count is unknown.
	RowCount    *float64                  `toml:"row-count"`
	ColumnStats map[string]columnStatsDef `toml:"column-stats"`
	Partition   *partitionDef             `toml:"partition"`
	// Rows are the sample rows used to verify the chosen plan.
	Rows []map[string]int64 `toml:"rows"`
}

type columnStatsDef struct {
	NDV       float64 `toml:"ndv"`
	NullCount float64 `toml:"null-count"`
	Min       int64   `toml:"min"`
	Max       int64   `toml:"max"`
}

type partitionDef struct {
	Columns             []string          `toml:"columns"`
	Partitions          []partitionRowDef `toml:"partitions"`
	WritesNullPartition bool              `toml:"writes-null-partition"`
}

type partitionRowDef struct {
	Name     string  `toml:"name"`
	RowCount float64 `toml:"row-count"`
}

// planDef is one operator of the logical plan, the fields used depend on Op.
type planDef struct {
	Op              string     `toml:"op"`
	Table           string     `toml:"table"`
	View            string     `toml:"view"`
	Partitions      []string   `toml:"partitions"`
	Conditions      []string   `toml:"conditions"`
	JoinType        string     `toml:"join-type"`
	EqualConditions []string   `toml:"equal-conditions"`
	Columns         []string   `toml:"columns"`
	GroupBy         []string   `toml:"group-by"`
	AggFuncs        []string   `toml:"agg-funcs"`
	OrderBy         []string   `toml:"order-by"`
	Offset          uint64     `toml:"offset"`
	Count           uint64     `toml:"count"`
	Children        []*planDef `toml:"children"`
}

type scenario struct {
	optimizer config.Optimizer
	plan      base.LogicalPlan
	required  *property.PhysicalProperty
	stats     statistics.MapProvider
	data      evaluator.Dataset
}

// loadScenario reads a scenario file, the optimizer section starts from defaults.
func loadScenario(path string, defaults *config.Optimizer) (*scenario, error) {
	file := &scenarioFile{Optimizer: *defaults}
	metaData, err := toml.DecodeFile(path, file)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return buildScenario(file, metaData, path)
}

func parseScenario(content string, defaults *config.Optimizer) (*scenario, error) {
	file := &scenarioFile{Optimizer: *defaults}
	metaData, err := toml.Decode(content, file)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return buildScenario(file, metaData, "<inline>")
}

func buildScenario(file *scenarioFile, metaData toml.MetaData, name string) (*scenario, error) {
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, item := range undecoded {
			keys = append(keys, item.String())
		}
		return nil, errors.Errorf("scenario %s contains unknown keys: %s", name, strings.Join(keys, ", "))
	}
	if file.Plan == nil {
		return nil, errors.Errorf("scenario %s has no plan", name)
	}
	b := newPlanBuilder()
	sc := &scenario{
		optimizer: file.Optimizer,
		stats:     statistics.MapProvider{},
		data:      evaluator.Dataset{},
	}
	for _, tbl := range file.Tables {
		if err := b.addTable(tbl); err != nil {
			return nil, err
		}
		if stats := tbl.stats(); stats != nil {
			sc.stats[tbl.Name] = stats
		}
		sc.data[tbl.Name] = tbl.Rows
	}
	var err error
	if sc.plan, err = b.build(file.Plan); err != nil {
		return nil, err
	}
	items, err := b.sortItems(file.RequiredOrder)
	if err != nil {
		return nil, err
	}
	sc.required = property.NewPhysicalProperty(items...)
	return sc, nil
}

func (t *tableDef) stats() *statistics.Table {
	if t.RowCount == nil {
		return nil
	}
	tbl := &statistics.Table{
		Name:     t.Name,
		RowCount: *t.RowCount,
		Columns:  make(map[string]*statistics.Column, len(t.ColumnStats)),
	}
	for name, col := range t.ColumnStats {
		tbl.Columns[name] = &statistics.Column{NDV: col.NDV, NullCount: col.NullCount, Min: col.Min, Max: col.Max}
	}
	if t.Partition != nil {
		tbl.Partition = &statistics.PartitionInfo{
			Columns:             t.Partition.Columns,
			WritesNullPartition: t.Partition.WritesNullPartition,
		}
		for _, p := range t.Partition.Partitions {
			tbl.Partition.Partitions = append(tbl.Partition.Partitions, statistics.PartitionStats{Name: p.Name, RowCount: p.RowCount})
		}
	}
	return tbl
}

// planBuilder turns the plan definitions into logical operators. Table columns are named
// "table.column", aggregation outputs by their alias.
type planBuilder struct {
	tables map[string][]*expression.Column
	cols   map[string]*expression.Column
	nextID int64
}

func newPlanBuilder() *planBuilder {
	return &planBuilder{
		tables: make(map[string][]*expression.Column),
		cols:   make(map[string]*expression.Column),
	}
}

func (b *planBuilder) newColumn(table, name string) (*expression.Column, error) {
	col := &expression.Column{Table: table, Name: name}
	if _, ok := b.cols[col.String()]; ok {
		return nil, errors.Errorf("column %s is defined twice", col)
	}
	b.nextID++
	col.UniqueID = b.nextID
	b.cols[col.String()] = col
	return col, nil
}

func (b *planBuilder) addTable(tbl *tableDef) error {
	if tbl.Name == "" {
		return errors.New("table without name")
	}
	if _, ok := b.tables[tbl.Name]; ok {
		return errors.Errorf("table %s is defined twice", tbl.Name)
	}
	cols := make([]*expression.Column, 0, len(tbl.Columns))
	for _, name := range tbl.Columns {
		col, err := b.newColumn(tbl.Name, name)
		if err != nil {
			return err
		}
		cols = append(cols, col)
	}
	b.tables[tbl.Name] = cols
	return nil
}

func (b *planBuilder) resolve(name string) (*expression.Column, error) {
	if col, ok := b.cols[name]; ok {
		return col, nil
	}
	return nil, errors.Errorf("unknown column %s", name)
}

func (b *planBuilder) resolveAll(names []string) ([]*expression.Column, error) {
	cols := make([]*expression.Column, 0, len(names))
	for _, name := range names {
		col, err := b.resolve(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func (b *planBuilder) exprs(srcs []string) ([]expression.Expression, error) {
	exprs := make([]expression.Expression, 0, len(srcs))
	for _, src := range srcs {
		expr, err := parseExpr(src, b.resolve)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// sortItems parses items like "t.a desc".
func (b *planBuilder) sortItems(srcs []string) ([]property.SortItem, error) {
	items := make([]property.SortItem, 0, len(srcs))
	for _, src := range srcs {
		fields := strings.Fields(src)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, errors.Errorf("invalid order by item %q", src)
		}
		col, err := b.resolve(fields[0])
		if err != nil {
			return nil, err
		}
		item := property.SortItem{Col: col}
		if len(fields) == 2 {
			switch strings.ToLower(fields[1]) {
			case "asc":
			case "desc":
				item.Desc = true
			default:
				return nil, errors.Errorf("invalid order by item %q", src)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// aggFunc parses items like "count(*) as cnt" or "max(t.b) as max_b".
func (b *planBuilder) aggFunc(src string) (*logicalop.AggFuncDesc, error) {
	call, alias, ok := strings.Cut(src, " as ")
	alias = strings.TrimSpace(alias)
	if !ok || alias == "" {
		return nil, errors.Errorf("aggregation %q needs an alias", src)
	}
	name, arg, ok := strings.Cut(strings.TrimSpace(call), "(")
	if !ok || !strings.HasSuffix(arg, ")") {
		return nil, errors.Errorf("invalid aggregation %q", src)
	}
	name = strings.ToLower(strings.TrimSpace(name))
	arg = strings.TrimSpace(strings.TrimSuffix(arg, ")"))
	desc := &logicalop.AggFuncDesc{Name: name}
	switch name {
	case logicalop.AggFuncCount, logicalop.AggFuncSum, logicalop.AggFuncMax, logicalop.AggFuncMin:
	default:
		return nil, errors.Errorf("aggregation function %s is not supported", name)
	}
	if arg == "*" {
		if name != logicalop.AggFuncCount {
			return nil, errors.Errorf("%s(*) is not supported", name)
		}
	} else {
		col, err := b.resolve(arg)
		if err != nil {
			return nil, err
		}
		desc.Arg = col
	}
	retCol, err := b.newColumn("", alias)
	if err != nil {
		return nil, err
	}
	desc.RetCol = retCol
	return desc, nil
}

func parseJoinType(tp string) (logicalop.JoinType, error) {
	switch strings.ToLower(tp) {
	case "", "inner":
		return logicalop.InnerJoin, nil
	case "left":
		return logicalop.LeftOuterJoin, nil
	case "right":
		return logicalop.RightOuterJoin, nil
	}
	return 0, errors.Errorf("unknown join type %s", tp)
}

func (b *planBuilder) build(def *planDef) (base.LogicalPlan, error) {
	children := make([]base.LogicalPlan, 0, len(def.Children))
	for _, childDef := range def.Children {
		child, err := b.build(childDef)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	plan, err := b.buildOperator(def, children)
	return plan, errors.Annotatef(err, "build %s", def.Op)
}

var operatorChildren = map[string]int{
	"scan":        0,
	"selection":   1,
	"projection":  1,
	"join":        2,
	"aggregation": 1,
	"sort":        1,
	"limit":       1,
}

func (b *planBuilder) buildOperator(def *planDef, children []base.LogicalPlan) (base.LogicalPlan, error) {
	op := strings.ToLower(def.Op)
	cnt, ok := operatorChildren[op]
	if !ok {
		return nil, errors.Errorf("unknown operator %q", def.Op)
	}
	if cnt != len(children) {
		return nil, errors.Errorf("%s expects %d children, got %d", op, cnt, len(children))
	}
	switch op {
	case "scan":
		cols, ok := b.tables[def.Table]
		if !ok {
			return nil, errors.Errorf("unknown table %s", def.Table)
		}
		return logicalop.DataSource{
			TableName:  def.Table,
			Columns:    cols,
			Partitions: def.Partitions,
			ViewName:   def.View,
		}.Init(), nil
	case "selection":
		conds, err := b.exprs(def.Conditions)
		if err != nil {
			return nil, err
		}
		return logicalop.LogicalSelection{Conditions: conds}.Init(children...), nil
	case "projection":
		cols, err := b.resolveAll(def.Columns)
		if err != nil {
			return nil, err
		}
		return logicalop.LogicalProjection{Cols: cols}.Init(children...), nil
	case "join":
		tp, err := parseJoinType(def.JoinType)
		if err != nil {
			return nil, err
		}
		eqExprs, err := b.exprs(def.EqualConditions)
		if err != nil {
			return nil, err
		}
		eqConds := make([]*expression.ScalarFunction, 0, len(eqExprs))
		for _, expr := range eqExprs {
			sf, ok := expr.(*expression.ScalarFunction)
			if !ok || sf.FuncName != expression.EQ {
				return nil, errors.Errorf("equal condition %s is not an eq function", expr)
			}
			eqConds = append(eqConds, sf)
		}
		otherConds, err := b.exprs(def.Conditions)
		if err != nil {
			return nil, err
		}
		return logicalop.LogicalJoin{
			JoinType:        tp,
			EqualConditions: eqConds,
			OtherConditions: otherConds,
		}.Init(children...), nil
	case "aggregation":
		groupBy, err := b.resolveAll(def.GroupBy)
		if err != nil {
			return nil, err
		}
		aggFuncs := make([]*logicalop.AggFuncDesc, 0, len(def.AggFuncs))
		for _, src := range def.AggFuncs {
			desc, err := b.aggFunc(src)
			if err != nil {
				return nil, err
			}
			aggFuncs = append(aggFuncs, desc)
		}
		return logicalop.LogicalAggregation{GroupByItems: groupBy, AggFuncs: aggFuncs}.Init(children...), nil
	case "sort":
		items, err := b.sortItems(def.OrderBy)
		if err != nil {
			return nil, err
		}
		return logicalop.LogicalSort{ByItems: items}.Init(children...), nil
	case "limit":
		return logicalop.LogicalLimit{Offset: def.Offset, Count: def.Count}.Init(children...), nil
	}
	return nil, errors.Errorf("unknown operator %q", def.Op)
}
