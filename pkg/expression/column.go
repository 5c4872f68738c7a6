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

package expression

import (
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
)

var _ Expression = &Column{}

// Column represents a column.
type Column struct {
	// UniqueID is the unique id of this column inside one plan.
	UniqueID int64
	// Table is the name of the table the column is read from, it's empty for derived columns.
	Table string
	// Name is the column name.
	Name string
	// NotNull indicates the column is declared as NOT NULL.
	NotNull bool
}

// String implements Stringer interface.
func (col *Column) String() string {
	if col.Table == "" {
		return col.Name
	}
	return col.Table + "." + col.Name
}

// EqualColumn returns whether two column are equal.
func (col *Column) EqualColumn(other *Column) bool {
	return col.UniqueID == other.UniqueID
}

// Eval implements Expression interface.
func (col *Column) Eval(row Row) (int64, bool) {
	val, ok := row[col.UniqueID]
	return val, !ok
}

// Clone implements Expression interface.
func (col *Column) Clone() Expression {
	newCol := *col
	return &newCol
}

// Hash64 implements HashEquals.<0th> interface.
func (col *Column) Hash64(h base.Hasher) {
	h.HashByte(columnFlag)
	h.HashInt64(col.UniqueID)
}

// Equals implements HashEquals.<1st> interface.
func (col *Column) Equals(other any) bool {
	col2, ok := other.(*Column)
	if !ok {
		return false
	}
	if col == nil {
		return col2 == nil
	}
	if col2 == nil {
		return false
	}
	return col.UniqueID == col2.UniqueID
}

// ColumnsHash64 hashes a slice of columns in order.
func ColumnsHash64(h base.Hasher, cols []*Column) {
	h.HashInt(len(cols))
	for _, col := range cols {
		col.Hash64(h)
	}
}

// ColumnsEqual checks whether two column slices are equal position by position.
func ColumnsEqual(a, b []*Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].EqualColumn(b[i]) {
			return false
		}
	}
	return true
}
