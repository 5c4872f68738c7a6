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
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pingcap/cascades/pkg/metrics"
	"github.com/pingcap/cascades/pkg/statistics"
	statslogutil "github.com/pingcap/cascades/pkg/statistics/handle/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultCacheCapacity = 4096

var _ statistics.Provider = &CachedProvider{}

// CachedProvider caches the table statistics of a slower source, it is shared by all the
// concurrently running optimizations. Every loaded table is copied once and then handed out
// as a read-only snapshot.
type CachedProvider struct {
	source statistics.Provider
	cache  *ttlcache.Cache[string, *statistics.Table]
	// loadSF makes the concurrent misses of one table share a single load.
	loadSF singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64

	startOnce sync.Once
	started   atomic.Bool
	wg        sync.WaitGroup
}

// NewCachedProvider creates a CachedProvider on top of source.
func NewCachedProvider(source statistics.Provider, ttl time.Duration, capacity uint64) *CachedProvider {
	if capacity == 0 {
		capacity = defaultCacheCapacity
	}
	cache := ttlcache.New[string, *statistics.Table](
		ttlcache.WithTTL[string, *statistics.Table](ttl),
		ttlcache.WithCapacity[string, *statistics.Table](capacity),
		ttlcache.WithDisableTouchOnHit[string, *statistics.Table](),
	)
	return &CachedProvider{
		source: source,
		cache:  cache,
	}
}

// Start is used to start the background task which cleans up the expired snapshots.
func (p *CachedProvider) Start() {
	p.startOnce.Do(func() {
		p.started.Store(true)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.cache.Start()
		}()
	})
}

// Stop stops the background task of CachedProvider.
func (p *CachedProvider) Stop() {
	if !p.started.CompareAndSwap(true, false) {
		return
	}
	p.cache.Stop()
	p.wg.Wait()
}

// TableStats implements the statistics.Provider interface.
func (p *CachedProvider) TableStats(ctx context.Context, table string) (*statistics.Table, error) {
	if item := p.cache.Get(table); item != nil {
		p.hits.Inc()
		metrics.StatsCacheHitCounter.Inc()
		return item.Value(), nil
	}
	p.misses.Inc()
	metrics.StatsCacheMissCounter.Inc()
	v, err, _ := p.loadSF.Do(table, func() (any, error) {
		tbl, err := p.source.TableStats(ctx, table)
		if err != nil {
			return nil, err
		}
		if tbl == nil {
			return nil, statistics.ErrTableStatsNotFound.GenWithStackByArgs(table)
		}
		snapshot := tbl.Copy()
		p.cache.Set(table, snapshot, ttlcache.DefaultTTL)
		statslogutil.StatsLogger().Debug("table statistics loaded",
			zap.String("table", table),
			zap.Float64("rowCount", snapshot.RowCount))
		return snapshot, nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return v.(*statistics.Table), nil
}

// Invalidate drops the cached snapshot of the table, the next access reloads it.
func (p *CachedProvider) Invalidate(table string) {
	p.cache.Delete(table)
}

// Hits returns the number of cache hits.
func (p *CachedProvider) Hits() int64 {
	return p.hits.Load()
}

// Misses returns the number of cache misses.
func (p *CachedProvider) Misses() int64 {
	return p.misses.Load()
}
