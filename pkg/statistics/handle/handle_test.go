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

package handle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

type countingProvider struct {
	mu     sync.Mutex
	tables statistics.MapProvider
	loads  atomic.Int64
	gate   chan struct{}
}

func (c *countingProvider) TableStats(ctx context.Context, table string) (*statistics.Table, error) {
	c.loads.Inc()
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tables.TableStats(ctx, table)
}

func TestCachedProvider(t *testing.T) {
	src := &countingProvider{tables: statistics.MapProvider{
		"t": {Name: "t", RowCount: 100},
	}}
	p := NewCachedProvider(src, time.Minute, 0)
	p.Start()
	defer p.Stop()

	ctx := context.Background()
	tbl, err := p.TableStats(ctx, "t")
	require.NoError(t, err)
	require.Equal(t, 100.0, tbl.RowCount)
	tbl2, err := p.TableStats(ctx, "t")
	require.NoError(t, err)
	require.Same(t, tbl, tbl2)
	require.Equal(t, int64(1), src.loads.Load())
	require.Equal(t, int64(1), p.Hits())
	require.Equal(t, int64(1), p.Misses())

	// the cached snapshot is a copy of the source.
	src.mu.Lock()
	src.tables["t"].RowCount = 200
	src.mu.Unlock()
	tbl, err = p.TableStats(ctx, "t")
	require.NoError(t, err)
	require.Equal(t, 100.0, tbl.RowCount)

	p.Invalidate("t")
	tbl, err = p.TableStats(ctx, "t")
	require.NoError(t, err)
	require.Equal(t, 200.0, tbl.RowCount)
	require.Equal(t, int64(2), src.loads.Load())

	_, err = p.TableStats(ctx, "s")
	require.True(t, statistics.ErrTableStatsNotFound.Equal(err))
}

func TestCachedProviderExpire(t *testing.T) {
	src := &countingProvider{tables: statistics.MapProvider{
		"t": {Name: "t", RowCount: 100},
	}}
	p := NewCachedProvider(src, 10*time.Millisecond, 0)
	ctx := context.Background()
	_, err := p.TableStats(ctx, "t")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, err := p.TableStats(ctx, "t")
		require.NoError(t, err)
		return src.loads.Load() == 2
	}, time.Second, 20*time.Millisecond)
}

func TestCachedProviderConcurrentLoad(t *testing.T) {
	src := &countingProvider{
		tables: statistics.MapProvider{"t": {Name: "t", RowCount: 100}},
		gate:   make(chan struct{}),
	}
	p := NewCachedProvider(src, time.Minute, 0)

	const workers = 8
	var started sync.WaitGroup
	started.Add(workers)
	var eg errgroup.Group
	for range workers {
		eg.Go(func() error {
			started.Done()
			tbl, err := p.TableStats(context.Background(), "t")
			if err != nil {
				return err
			}
			require.Equal(t, 100.0, tbl.RowCount)
			return nil
		})
	}
	started.Wait()
	// give the workers a chance to join the in-flight load before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	require.NoError(t, eg.Wait())
	require.LessOrEqual(t, src.loads.Load(), int64(workers))
	require.Equal(t, int64(workers), p.Hits()+p.Misses())
}
