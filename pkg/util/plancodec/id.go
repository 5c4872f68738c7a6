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

package plancodec

const (
	// TypeDataSource is the type of DataSource.
	TypeDataSource = "DataSource"
	// TypeSel is the type of Selection.
	TypeSel = "Selection"
	// TypeProj is the type of Projection.
	TypeProj = "Projection"
	// TypeJoin is the type of Join.
	TypeJoin = "Join"
	// TypeAgg is the type of Aggregation.
	TypeAgg = "Aggregation"
	// TypeSort is the type of Sort.
	TypeSort = "Sort"
	// TypeLimit is the type of Limit.
	TypeLimit = "Limit"
	// TypeTableFullScan is the type of TableFullScan.
	TypeTableFullScan = "TableFullScan"
	// TypeHashJoin is the type of hash join.
	TypeHashJoin = "HashJoin"
	// TypeHashAgg is the type of HashAgg.
	TypeHashAgg = "HashAgg"
	// TypeStreamAgg is the type of StreamAgg.
	TypeStreamAgg = "StreamAgg"
)
