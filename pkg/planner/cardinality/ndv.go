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

package cardinality

import (
	"math"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"go.uber.org/zap"
)

const distinctFactor = 0.8

// EstimateColumnNDV computes estimated NDV of specified column using the table statistics.
// The NDV is scaled down to the row count when the collected summary is bigger than it.
func EstimateColumnNDV(tbl *statistics.Table, colName string) (ndv float64) {
	if col := tbl.GetColumn(colName); col != nil && col.NDV > 0 {
		ndv = col.NDV
	} else {
		ndv = tbl.RowCount * distinctFactor
	}
	return math.Max(math.Min(ndv, tbl.RowCount), 0)
}

// EstimateColsNDV returns the NDV of a couple of columns.
// We simply return the max NDV among the columns, which is a lower bound.
func EstimateColsNDV(cols []*expression.Column, schema *expression.Schema, profile *property.StatsInfo) float64 {
	ndv := 1.0
	indices := schema.ColumnsIndices(cols)
	if indices == nil {
		logutil.BgLogger().Error("column not found in schema", zap.Stringer("schema", schema))
		return ndv
	}
	for _, idx := range indices {
		// It is a very naive estimation.
		col := schema.Columns[idx]
		ndv = math.Max(ndv, profile.GetNDV(col))
	}
	return ndv
}

// ScaleNDV scales the original NDV based on the selectivity of the rows.
// It assumes the values are uniformly distributed, so a value is kept with
// probability 1-(1-selectivity)^(rows per value).
func ScaleNDV(originalNDV, originalRows, selectedRows float64) (newNDV float64) {
	if originalNDV <= 0 || originalRows <= 0 || selectedRows <= 0 {
		return 0
	}
	if selectedRows >= originalRows {
		return originalNDV
	}
	selectivity := selectedRows / originalRows
	newNDV = originalNDV * (1 - math.Pow(1-selectivity, originalRows/originalNDV))
	newNDV = math.Max(newNDV, 1)
	return math.Min(newNDV, selectedRows)
}
