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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pseudo estimation reasons.
const (
	PseudoUnknownRowCount = "unknown_row_count"
	PseudoMissingStats    = "missing_stats"
)

// Stats metrics.
var (
	StatsCacheCounter *prometheus.CounterVec
	PseudoEstimation  *prometheus.CounterVec

	StatsCacheHitCounter  prometheus.Counter
	StatsCacheMissCounter prometheus.Counter
)

// InitStatsMetrics initializes stats metrics.
func InitStatsMetrics() {
	StatsCacheCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cascades",
			Subsystem: "statistics",
			Name:      "stats_cache_op",
			Help:      "Counter for statsCache operation",
		}, []string{LblType})

	PseudoEstimation = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cascades",
			Subsystem: "statistics",
			Name:      "pseudo_estimation_total",
			Help:      "Counter of estimations falling back to default statistics.",
		}, []string{LblType})

	StatsCacheHitCounter = StatsCacheCounter.WithLabelValues(LblHit)
	StatsCacheMissCounter = StatsCacheCounter.WithLabelValues(LblMiss)
}
