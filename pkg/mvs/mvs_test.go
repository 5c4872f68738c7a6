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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/metrics"
	"github.com/pingcap/cascades/pkg/planner"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/core/operator/physicalop"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

var (
	colTa = &expression.Column{UniqueID: 1, Table: "t", Name: "a"}
	colSa = &expression.Column{UniqueID: 2, Table: "s", Name: "a"}
	colUa = &expression.Column{UniqueID: 3, Table: "u", Name: "a"}
)

// mvQuery joins t with s read through view v, and with u.
func mvQuery() base.LogicalPlan {
	eq := func(l, r *expression.Column) []*expression.ScalarFunction {
		return []*expression.ScalarFunction{expression.NewFunctionInternal(expression.EQ, l, r).(*expression.ScalarFunction)}
	}
	ts := logicalop.LogicalJoin{JoinType: logicalop.InnerJoin, EqualConditions: eq(colTa, colSa)}.Init(
		logicalop.DataSource{TableName: "t", Columns: []*expression.Column{colTa}}.Init(),
		logicalop.DataSource{TableName: "s", Columns: []*expression.Column{colSa}, ViewName: "v"}.Init(),
	)
	return logicalop.LogicalJoin{JoinType: logicalop.InnerJoin, EqualConditions: eq(colTa, colUa)}.Init(
		ts,
		logicalop.DataSource{TableName: "u", Columns: []*expression.Column{colUa}}.Init(),
	)
}

func TestCollectRelation(t *testing.T) {
	rel := CollectRelation(mvQuery())
	require.Equal(t, []string{"s", "t", "u"}, rel.ExpandedBaseTables)
	require.Equal(t, []string{"t", "u"}, rel.DirectBaseTables)
	require.Equal(t, []string{"v"}, rel.BaseViews)
	require.True(t, rel.DependsOn("s"))
	require.False(t, rel.DependsOn("v"))

	rel = CollectRelation(logicalop.DataSource{TableName: "t", Columns: []*expression.Column{colTa}}.Init())
	require.Equal(t, []string{"t"}, rel.DirectBaseTables)
	require.Nil(t, rel.BaseViews)
}

func TestPartitionColumnAllowNull(t *testing.T) {
	unpartitioned := &statistics.Table{Name: "t", RowCount: 10}
	tracked := &statistics.Table{Name: "s", RowCount: 10, Partition: &statistics.PartitionInfo{Columns: []string{"a"}}}
	nullWriting := &statistics.Table{Name: "u", RowCount: 10, Partition: &statistics.PartitionInfo{
		Columns:             []string{"a"},
		WritesNullPartition: true,
	}}
	require.False(t, PartitionColumnAllowNull(unpartitioned, true))
	require.True(t, PartitionColumnAllowNull(tracked, false))
	require.True(t, PartitionColumnAllowNull(nullWriting, true))
	require.False(t, PartitionColumnAllowNull(nullWriting, false))

	provider := statistics.MapProvider{"t": unpartitioned, "s": tracked, "u": nullWriting}
	rel := CollectRelation(mvQuery())
	ctx := context.Background()
	require.NoError(t, CheckPartitionTracking(ctx, provider, rel, true))
	err := CheckPartitionTracking(ctx, provider, rel, false)
	require.True(t, ErrPartitionNotTrackable.Equal(err), "%v", err)

	delete(provider, "s")
	require.True(t, statistics.ErrTableStatsNotFound.Equal(CheckPartitionTracking(ctx, provider, rel, true)))
}

func TestOptimizeForRefresh(t *testing.T) {
	provider := statistics.MapProvider{
		"t": {Name: "t", RowCount: 1000},
		"s": {Name: "s", RowCount: 100},
		"u": {Name: "u", RowCount: 10},
	}
	vars := base.DefaultOptimizerVars()
	vars.DefaultLimit = 100
	opts := []planner.OptimizeOption{planner.WithStatsProvider(provider), planner.WithOptimizerVars(vars)}

	okBefore := testutil.ToFloat64(metrics.MVRefreshOptimizeOKCounter)
	refresh, err := OptimizeForRefresh(context.Background(), "mv1", mvQuery(), opts...)
	require.NoError(t, err)
	require.Equal(t, "mv1", refresh.Name)
	require.Equal(t, []string{"v"}, refresh.Relation.BaseViews)
	require.IsType(t, &physicalop.PhysicalHashJoin{}, refresh.Result.Plan)
	require.Equal(t, okBefore+1, testutil.ToFloat64(metrics.MVRefreshOptimizeOKCounter))

	// the suppression doesn't outlive the refresh planning.
	res, err := planner.Optimize(context.Background(), mvQuery(), opts...)
	require.NoError(t, err)
	require.IsType(t, &physicalop.PhysicalLimit{}, res.Plan)

	errBefore := testutil.ToFloat64(metrics.MVRefreshOptimizeErrorCounter)
	_, err = OptimizeForRefresh(context.Background(), "mv2", nil, opts...)
	require.Error(t, err)
	require.Equal(t, errBefore+1, testutil.ToFloat64(metrics.MVRefreshOptimizeErrorCounter))
}

func TestRefreshExecutor(t *testing.T) {
	jobEvents := func(event string) float64 {
		return testutil.ToFloat64(metrics.MVRefreshJobCounter.WithLabelValues(event))
	}
	completedBefore := jobEvents(metrics.MVRefreshJobCompleted)
	failedBefore := jobEvents(metrics.MVRefreshJobFailed)
	rejectedBefore := jobEvents(metrics.MVRefreshJobRejected)

	exec := NewRefreshExecutor(context.Background(), 2, 0)
	require.True(t, exec.Run())
	require.False(t, exec.Run())

	var (
		mu      sync.Mutex
		planned = make(map[string]float64)
	)
	provider := statistics.MapProvider{
		"t": {Name: "t", RowCount: 1000},
		"s": {Name: "s", RowCount: 100},
		"u": {Name: "u", RowCount: 10},
	}
	for _, name := range []string{"mv1", "mv2", "mv3", "mv4", "mv5"} {
		exec.Submit(name, func(ctx context.Context) error {
			refresh, err := OptimizeForRefresh(ctx, name, mvQuery(), planner.WithStatsProvider(provider))
			if err != nil {
				return err
			}
			mu.Lock()
			planned[name] = refresh.Result.Cost
			mu.Unlock()
			return nil
		})
	}
	exec.Submit("failed", func(context.Context) error {
		return errors.New("mock error")
	})
	exec.Submit("panicked", func(context.Context) error {
		panic("mock panic")
	})
	exec.Wait()
	require.Len(t, planned, 5)
	for _, cost := range planned {
		require.Equal(t, planned["mv1"], cost)
	}
	require.Equal(t, int64(7), exec.metrics.completedCount.Load())
	require.Equal(t, int64(2), exec.metrics.failedCount.Load())
	require.Equal(t, completedBefore+7, jobEvents(metrics.MVRefreshJobCompleted))
	require.Equal(t, failedBefore+2, jobEvents(metrics.MVRefreshJobFailed))

	require.True(t, exec.Close())
	require.False(t, exec.Close())
	exec.Submit("late", func(context.Context) error { return nil })
	require.Equal(t, int64(1), exec.metrics.rejectedCount.Load())
	require.Equal(t, rejectedBefore+1, jobEvents(metrics.MVRefreshJobRejected))
}

func TestRefreshExecutorTimeout(t *testing.T) {
	exec := NewRefreshExecutor(context.Background(), 1, 10*time.Millisecond)
	exec.Run()
	defer exec.Close()

	var cancelled atomic.Bool
	exec.Submit("slow", func(ctx context.Context) error {
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	})
	exec.Wait()
	require.True(t, cancelled.Load())
	require.Equal(t, int64(1), exec.metrics.timeoutCount.Load())
}

func TestJobQueue(t *testing.T) {
	var q jobQueue
	for i := range 6 {
		q.push(refreshJob{name: string(rune('a' + i))})
	}
	for i := range 3 {
		job, ok := q.pop()
		require.True(t, ok)
		require.Equal(t, string(rune('a'+i)), job.name)
	}
	// wrap around the ring before growing again.
	for i := 6; i < 10; i++ {
		q.push(refreshJob{name: string(rune('a' + i))})
	}
	for i := 3; i < 10; i++ {
		job, ok := q.pop()
		require.True(t, ok)
		require.Equal(t, string(rune('a'+i)), job.name)
	}
	_, ok := q.pop()
	require.False(t, ok)
	q.push(refreshJob{name: "x"})
	require.Equal(t, 1, q.clear())
	require.Equal(t, 0, q.size)
}
