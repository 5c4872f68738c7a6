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

package cascades

import (
	"context"

	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/statistics"
	statslogutil "github.com/pingcap/cascades/pkg/statistics/handle/logutil"
	statsmetrics "github.com/pingcap/cascades/pkg/statistics/handle/metrics"
	"github.com/pingcap/cascades/pkg/util/dbterror/plannererrors"
	"go.uber.org/zap"
)

var _ corebase.StatsContext = &statsContext{}

// statsContext resolves every table once per optimization, so all the expressions of the
// memo see the same statistics.
type statsContext struct {
	ctx             context.Context
	provider        statistics.Provider
	defaultRowCount float64
	tables          map[string]*statistics.Table
	record          func(error)
}

func newStatsContext(ctx context.Context, provider statistics.Provider, defaultRowCount float64, record func(error)) *statsContext {
	return &statsContext{
		ctx:             ctx,
		provider:        provider,
		defaultRowCount: defaultRowCount,
		tables:          make(map[string]*statistics.Table),
		record:          record,
	}
}

// GetTableStats implements the base.StatsContext interface.
func (s *statsContext) GetTableStats(table string) *statistics.Table {
	if tbl, ok := s.tables[table]; ok {
		return tbl
	}
	var (
		tbl *statistics.Table
		err error
	)
	if s.provider != nil {
		tbl, err = s.provider.TableStats(s.ctx, table)
	}
	if err == nil && tbl == nil {
		err = statistics.ErrTableStatsNotFound.GenWithStackByArgs(table)
	}
	if err != nil {
		statsmetrics.PseudoMissingStatsCounter.Inc()
		statslogutil.StatsSampleLogger().Warn("use pseudo statistics", zap.String("table", table), zap.Error(err))
		s.record(plannererrors.ErrStatisticsUnavailable.GenWithStackByArgs(table, err.Error()))
		tbl = statistics.PseudoTable(table, s.defaultRowCount)
	} else if resolved, ok := statistics.ResolveUnknownRowCount(tbl, s.defaultRowCount); ok {
		statsmetrics.PseudoUnknownRowCountCounter.Inc()
		statslogutil.StatsSampleLogger().Warn("unknown row count, use the default row count",
			zap.String("table", table), zap.Float64("defaultRowCount", resolved.RowCount))
		s.record(plannererrors.ErrStatisticsUnavailable.GenWithStackByArgs(table, "unknown row count"))
		tbl = resolved
	}
	s.tables[table] = tbl
	return tbl
}
