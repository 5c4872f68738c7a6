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
	"strings"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cardinality"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	plannerbase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/plancodec"
)

// DataSource represents a tableScan without condition push down.
type DataSource struct {
	BaseLogicalPlan

	TableName string
	// Columns are the output columns, Column.Name is the name inside the table.
	Columns []*expression.Column
	// Partitions restricts the scan to the named partitions, empty means all of them.
	Partitions []string
	// ViewName is set when the table is reached through a view.
	ViewName string

	schema *expression.Schema
}

// Init initializes DataSource.
func (ds DataSource) Init() *DataSource {
	ds.BaseLogicalPlan = NewBaseLogicalPlan(plancodec.TypeDataSource, &ds)
	ds.schema = expression.NewSchema(ds.Columns...)
	return &ds
}

// Schema implements the base.Plan interface.
func (ds *DataSource) Schema() *expression.Schema {
	return ds.schema
}

// WithChildren implements the base.LogicalPlan interface.
func (ds *DataSource) WithChildren(...plannerbase.LogicalPlan) plannerbase.LogicalPlan {
	return ds
}

// ExplainInfo implements Plan interface.
func (ds *DataSource) ExplainInfo() string {
	var b strings.Builder
	b.WriteString("table:")
	b.WriteString(ds.TableName)
	if len(ds.Partitions) > 0 {
		b.WriteString(", partition:")
		b.WriteString(strings.Join(ds.Partitions, ","))
	}
	if ds.ViewName != "" {
		b.WriteString(", view:")
		b.WriteString(ds.ViewName)
	}
	return b.String()
}

// Hash64 implements the base.HashEquals interface.
func (ds *DataSource) Hash64(h base.Hasher) {
	h.HashString(ds.TP())
	h.HashString(ds.TableName)
	expression.ColumnsHash64(h, ds.Columns)
	h.HashInt(len(ds.Partitions))
	for _, part := range ds.Partitions {
		h.HashString(part)
	}
	h.HashString(ds.ViewName)
}

// Equals implements the base.HashEquals interface.
func (ds *DataSource) Equals(other any) bool {
	ds2, ok := other.(*DataSource)
	if !ok || ds == nil || ds2 == nil {
		return ok && ds == ds2
	}
	if ds.TableName != ds2.TableName || ds.ViewName != ds2.ViewName || len(ds.Partitions) != len(ds2.Partitions) {
		return false
	}
	for i := range ds.Partitions {
		if ds.Partitions[i] != ds2.Partitions[i] {
			return false
		}
	}
	return expression.ColumnsEqual(ds.Columns, ds2.Columns)
}

// DeriveStats implements base.LogicalPlan.<11th> interface.
func (ds *DataSource) DeriveStats(sctx plannerbase.StatsContext, _ []*property.StatsInfo, _ []*expression.Schema) (*property.StatsInfo, error) {
	tbl := sctx.GetTableStats(ds.TableName)
	rowCount := tbl.RowCount
	if len(ds.Partitions) > 0 {
		if cnt, ok := tbl.SelectedRowCount(ds.Partitions); ok {
			rowCount = cnt
		}
	}
	stats := property.NewStatsInfo(rowCount)
	for _, col := range ds.Columns {
		ndv := cardinality.EstimateColumnNDV(tbl, col.Name)
		stats.ColNDVs[col.UniqueID] = cardinality.ScaleNDV(ndv, tbl.RowCount, rowCount)
	}
	return stats, nil
}
