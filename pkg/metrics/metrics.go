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

// metrics labels.
const (
	LblType   = "type"
	LblResult = "result"
	LblRule   = "rule"

	LblOK    = "ok"
	LblError = "error"
	LblHit   = "hit"
	LblMiss  = "miss"
)

var constLabels prometheus.Labels

func init() {
	InitMetrics()
}

// SetConstLabels sets constant labels for metrics. It must be called before InitMetrics.
func SetConstLabels(kv ...string) {
	kvCount := len(kv) / 2
	constLabels = make(prometheus.Labels, kvCount)
	for i := range kvCount {
		constLabels[kv[i*2]] = kv[i*2+1]
	}
}

// InitMetrics is used to initialize metrics.
func InitMetrics() {
	InitOptimizerMetrics()
	InitStatsMetrics()
	InitMVMetrics()
}

// RegisterMetrics registers all the metrics to the default registerer.
func RegisterMetrics() {
	RegisterMetricsTo(prometheus.DefaultRegisterer)
}

// RegisterMetricsTo registers all the metrics to r.
func RegisterMetricsTo(r prometheus.Registerer) {
	r.MustRegister(OptimizeDuration)
	r.MustRegister(TaskCounter)
	r.MustRegister(RuleApplicationFailedCounter)
	r.MustRegister(BudgetExceededCounter)
	r.MustRegister(MemoGroupHistogram)
	r.MustRegister(StatsCacheCounter)
	r.MustRegister(PseudoEstimation)
	r.MustRegister(MVRefreshOptimizeCounter)
	r.MustRegister(MVRefreshJobCounter)
}

// NewCounter wraps a prometheus.NewCounter.
func NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	opts.ConstLabels = constLabels
	return prometheus.NewCounter(opts)
}

// NewCounterVec wraps a prometheus.NewCounterVec.
func NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	opts.ConstLabels = constLabels
	return prometheus.NewCounterVec(opts, labelNames)
}

// NewHistogram wraps a prometheus.NewHistogram.
func NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	opts.ConstLabels = constLabels
	return prometheus.NewHistogram(opts)
}

// NewHistogramVec wraps a prometheus.NewHistogramVec.
func NewHistogramVec(opts prometheus.HistogramOpts, labelNames []string) *prometheus.HistogramVec {
	opts.ConstLabels = constLabels
	return prometheus.NewHistogramVec(opts, labelNames)
}
