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

package property

import (
	"fmt"
	"math"

	"github.com/pingcap/cascades/pkg/expression"
)

// LogicalProperty stands for logical properties such as schema of expression,
// or statistics of columns in schema for output of Group.
// All group expressions in a group share same logical property.
type LogicalProperty struct {
	Schema *expression.Schema
	Stats  *StatsInfo
}

// NewLogicalProp returns a new empty LogicalProperty.
func NewLogicalProp(schema *expression.Schema) *LogicalProperty {
	return &LogicalProperty{Schema: schema}
}

// StatsInfo stores the basic information of statistics for the plan's output. It is used for cost estimation.
type StatsInfo struct {
	RowCount float64
	// ColNDVs is the NDV of each column, keyed by the column unique id.
	ColNDVs map[int64]float64
}

// NewStatsInfo creates a StatsInfo with the row count.
func NewStatsInfo(rowCount float64) *StatsInfo {
	return &StatsInfo{RowCount: rowCount, ColNDVs: make(map[int64]float64)}
}

// String implements fmt.Stringer interface.
func (s *StatsInfo) String() string {
	return fmt.Sprintf("count %v, ColNDVs %v", s.RowCount, s.ColNDVs)
}

// Count gets the RowCount in the StatsInfo.
func (s *StatsInfo) Count() int64 {
	return int64(s.RowCount)
}

// GetNDV returns the NDV of the column, it falls back to the row count when unknown.
func (s *StatsInfo) GetNDV(col *expression.Column) float64 {
	if ndv, ok := s.ColNDVs[col.UniqueID]; ok {
		return ndv
	}
	return s.RowCount
}

// Scale receives a selectivity and multiplies it with RowCount and NDV.
func (s *StatsInfo) Scale(factor float64) *StatsInfo {
	profile := &StatsInfo{
		RowCount: s.RowCount * factor,
		ColNDVs:  make(map[int64]float64, len(s.ColNDVs)),
	}
	for id, c := range s.ColNDVs {
		profile.ColNDVs[id] = c * factor
	}
	return profile
}

// ScaleByExpectCnt tries to Scale StatsInfo to an expectCnt which must be
// smaller than the derived cnt.
func (s *StatsInfo) ScaleByExpectCnt(expectCnt float64) *StatsInfo {
	if expectCnt >= s.RowCount {
		return s
	}
	if s.RowCount > 1.0 { // if s.RowCount is too small, it will cause overflow
		return s.Scale(expectCnt / s.RowCount)
	}
	return s
}

// CapNDVs limits every NDV to the row count.
func (s *StatsInfo) CapNDVs() *StatsInfo {
	for id, ndv := range s.ColNDVs {
		s.ColNDVs[id] = math.Min(ndv, s.RowCount)
	}
	return s
}
