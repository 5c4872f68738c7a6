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
	"github.com/pingcap/errors"
)

// PseudoRowCount export for other pkg to use.
// When we haven't analyzed a table, we use pseudo statistics to estimate costs.
// It has row count 10000.
const PseudoRowCount = 10000

// ErrTableStatsNotFound is returned by a provider which knows nothing about the table.
var ErrTableStatsNotFound = errors.Normalize("statistics of table %s not found", errors.RFCCodeText("Statistics:TableStatsNotFound"))

// PseudoTable creates a pseudo table statistics with the given row count.
// A non-positive row count falls back to PseudoRowCount.
func PseudoTable(name string, rowCount float64) *Table {
	if rowCount <= 0 {
		rowCount = PseudoRowCount
	}
	return &Table{
		Name:     name,
		RowCount: rowCount,
		Pseudo:   true,
	}
}

// ResolveUnknownRowCount returns the table itself when the row count is known, otherwise
// a copy whose row count is replaced by defaultRowCount and which is marked as pseudo.
// The bool result reports whether the fallback was applied.
func ResolveUnknownRowCount(tbl *Table, defaultRowCount float64) (*Table, bool) {
	if !tbl.IsRowCountUnknown() {
		return tbl, false
	}
	nt := tbl.Copy()
	if defaultRowCount <= 0 {
		defaultRowCount = PseudoRowCount
	}
	nt.RowCount = defaultRowCount
	nt.Pseudo = true
	return nt, true
}
