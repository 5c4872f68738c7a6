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

package statistics

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// UnknownRowCount is reported by a source which has no statistics of the table,
// for example an external table whose split summary is empty. It is never a real count.
const UnknownRowCount = -1

// Table represents statistics for a table.
type Table struct {
	Name string
	// RowCount is the number of rows, or UnknownRowCount.
	RowCount float64
	// Columns is keyed by the column name.
	Columns map[string]*Column
	// Partition is nil for an unpartitioned table.
	Partition *PartitionInfo
	// Pseudo indicates the statistics are made up defaults.
	Pseudo bool
}

// Column represents the value distribution summary of a column.
type Column struct {
	NDV       float64
	NullCount float64
	Min       int64
	Max       int64
}

// PartitionInfo is the partition metadata of a table.
type PartitionInfo struct {
	// Columns are the partition columns.
	Columns []string
	// Partitions are the row count of every partition.
	Partitions []PartitionStats
	// WritesNullPartition indicates the source writes rows with a NULL partition value into
	// a dedicated partition instead of rejecting them.
	WritesNullPartition bool
}

// PartitionStats is the statistics of one partition.
type PartitionStats struct {
	Name     string
	RowCount float64
}

// IsRowCountUnknown checks whether the source reported no row count.
func (t *Table) IsRowCountUnknown() bool {
	return t.RowCount == UnknownRowCount
}

// GetColumn returns the statistics of the column, nil if not collected.
func (t *Table) GetColumn(name string) *Column {
	if t == nil || t.Columns == nil {
		return nil
	}
	return t.Columns[name]
}

// SelectedRowCount returns the row count of the selected partitions.
// It returns false if any of the partitions is unknown, or the table carries no partition statistics.
func (t *Table) SelectedRowCount(partitions []string) (float64, bool) {
	if t.Partition == nil || len(t.Partition.Partitions) == 0 {
		return 0, false
	}
	var count float64
	for _, name := range partitions {
		idx := slices.IndexFunc(t.Partition.Partitions, func(p PartitionStats) bool { return p.Name == name })
		if idx < 0 {
			return 0, false
		}
		count += t.Partition.Partitions[idx].RowCount
	}
	return count, true
}

// Copy copies the current table.
func (t *Table) Copy() *Table {
	nt := &Table{
		Name:     t.Name,
		RowCount: t.RowCount,
		Pseudo:   t.Pseudo,
	}
	if t.Columns != nil {
		nt.Columns = make(map[string]*Column, len(t.Columns))
		for name, col := range t.Columns {
			c := *col
			nt.Columns[name] = &c
		}
	}
	if t.Partition != nil {
		nt.Partition = &PartitionInfo{
			Columns:             slices.Clone(t.Partition.Columns),
			Partitions:          slices.Clone(t.Partition.Partitions),
			WritesNullPartition: t.Partition.WritesNullPartition,
		}
	}
	return nt
}

// String implements Stringer interface.
func (t *Table) String() string {
	return fmt.Sprintf("Table:%s RowCount:%v Pseudo:%v Columns:%v", t.Name, t.RowCount, t.Pseudo, slices.Sorted(maps.Keys(t.Columns)))
}

// Provider supplies the table statistics to the optimizer. Implementations must be safe
// for concurrent use, and the returned table must not be modified afterwards.
type Provider interface {
	TableStats(ctx context.Context, table string) (*Table, error)
}

// MapProvider is a Provider backed by a fixed map, mostly used in tests and tools.
type MapProvider map[string]*Table

// TableStats implements the Provider interface.
func (m MapProvider) TableStats(_ context.Context, table string) (*Table, error) {
	tbl, ok := m[table]
	if !ok {
		return nil, ErrTableStatsNotFound.GenWithStackByArgs(table)
	}
	return tbl, nil
}
