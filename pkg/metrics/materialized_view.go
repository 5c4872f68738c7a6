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

// Metrics for materialized view planning.
var (
	MVRefreshOptimizeCounter *prometheus.CounterVec

	MVRefreshOptimizeOKCounter    prometheus.Counter
	MVRefreshOptimizeErrorCounter prometheus.Counter

	MVRefreshJobCounter *prometheus.CounterVec
)

// Job event types of MVRefreshJobCounter.
const (
	MVRefreshJobSubmitted = "submitted"
	MVRefreshJobCompleted = "completed"
	MVRefreshJobFailed    = "failed"
	MVRefreshJobTimeout   = "timeout"
	MVRefreshJobRejected  = "rejected"
)

// InitMVMetrics initializes metrics for materialized view planning.
func InitMVMetrics() {
	MVRefreshOptimizeCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cascades",
			Subsystem: "mv",
			Name:      "refresh_optimize_total",
			Help:      "Counter of optimizations run for materialized view refresh.",
		}, []string{LblResult})

	MVRefreshOptimizeOKCounter = MVRefreshOptimizeCounter.WithLabelValues(LblOK)
	MVRefreshOptimizeErrorCounter = MVRefreshOptimizeCounter.WithLabelValues(LblError)

	MVRefreshJobCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cascades",
			Subsystem: "mv",
			Name:      "refresh_job_total",
			Help:      "Counter of materialized view refresh jobs by event.",
		}, []string{LblType})
}
