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
)

// EstimateFilterStats derives the output statistics of a filter over the child statistics.
func EstimateFilterStats(child *property.StatsInfo, conds []expression.Expression) *property.StatsInfo {
	sel := Selectivity(child, conds)
	stats := property.NewStatsInfo(child.RowCount * sel)
	for id, ndv := range child.ColNDVs {
		stats.ColNDVs[id] = ScaleNDV(ndv, child.RowCount, stats.RowCount)
	}
	return stats
}

// EstimateJoinRowCount estimates the row count of an equi join:
// |L| * |R| / max(NDV(lKeys), NDV(rKeys)). A join without keys is a cartesian product.
func EstimateJoinRowCount(lStats, rStats *property.StatsInfo, lSchema, rSchema *expression.Schema,
	lKeys, rKeys []*expression.Column) float64 {
	count := lStats.RowCount * rStats.RowCount
	if len(lKeys) == 0 || len(rKeys) == 0 {
		return count
	}
	lNDV := EstimateColsNDV(lKeys, lSchema, lStats)
	rNDV := EstimateColsNDV(rKeys, rSchema, rStats)
	return count / math.Max(lNDV, rNDV)
}

// EstimateAggRowCount estimates the number of groups produced by an aggregation.
// A scalar aggregation always produces one row.
func EstimateAggRowCount(child *property.StatsInfo, schema *expression.Schema, groupBy []*expression.Column) float64 {
	if len(groupBy) == 0 {
		return 1
	}
	return math.Min(EstimateColsNDV(groupBy, schema, child), math.Max(child.RowCount, 1))
}
