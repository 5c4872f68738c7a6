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

package mvs

import (
	"context"

	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/pingcap/errors"
)

// ErrPartitionNotTrackable is returned when the partitions of a base table can't be tracked
// by the materialized view.
var ErrPartitionNotTrackable = errors.Normalize("partition column of table %s may hold NULL, which can't be tracked", errors.RFCCodeText("MV:PartitionNotTrackable"))

// PartitionColumnAllowNull reports whether the partition columns of the table are treated as
// nullable. A source writing NULL values into a dedicated partition follows allowNull: true
// allows the materialized view to be created, but the rows of that partition are missed by
// the partition tracking.
func PartitionColumnAllowNull(tbl *statistics.Table, allowNull bool) bool {
	if tbl == nil || tbl.Partition == nil || len(tbl.Partition.Columns) == 0 {
		return false
	}
	if tbl.Partition.WritesNullPartition {
		return allowNull
	}
	return true
}

// CheckPartitionTracking checks every partitioned base table of the relation can be tracked.
func CheckPartitionTracking(ctx context.Context, provider statistics.Provider, rel Relation, allowNull bool) error {
	for _, table := range rel.ExpandedBaseTables {
		tbl, err := provider.TableStats(ctx, table)
		if err != nil {
			return errors.Trace(err)
		}
		if tbl.Partition == nil {
			continue
		}
		if !PartitionColumnAllowNull(tbl, allowNull) {
			return ErrPartitionNotTrackable.GenWithStackByArgs(table)
		}
	}
	return nil
}
