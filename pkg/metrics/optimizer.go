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

// Budget kinds.
const (
	BudgetTypeTasks = "tasks"
	BudgetTypeTime  = "time"
)

// Optimizer metrics.
var (
	OptimizeDuration             *prometheus.HistogramVec
	TaskCounter                  *prometheus.CounterVec
	RuleApplicationFailedCounter *prometheus.CounterVec
	BudgetExceededCounter        *prometheus.CounterVec
	MemoGroupHistogram           prometheus.Histogram

	OptimizeDurationOK    prometheus.Observer
	OptimizeDurationError prometheus.Observer
)

// InitOptimizerMetrics initializes optimizer metrics.
func InitOptimizerMetrics() {
	OptimizeDuration = NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cascades",
			Subsystem: "optimizer",
			Name:      "optimize_duration_seconds",
			Help:      "Bucketed histogram of processing time (s) of one optimization.",
			Buckets:   prometheus.ExponentialBuckets(0.00004, 2, 20), // 40us ~ 20s
		}, []string{LblResult})

	TaskCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cascades",
			Subsystem: "optimizer",
			Name:      "task_total",
			Help:      "Counter of executed optimizer tasks.",
		}, []string{LblType})

	RuleApplicationFailedCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cascades",
			Subsystem: "optimizer",
			Name:      "rule_application_failed_total",
			Help:      "Counter of rule applications whose output was discarded.",
		}, []string{LblRule})

	BudgetExceededCounter = NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cascades",
			Subsystem: "optimizer",
			Name:      "budget_exceeded_total",
			Help:      "Counter of optimizations aborted by the task or time budget.",
		}, []string{LblType})

	MemoGroupHistogram = NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cascades",
			Subsystem: "optimizer",
			Name:      "memo_groups",
			Help:      "Bucketed histogram of the number of memo groups after one optimization.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16), // 1 ~ 32768
		})

	OptimizeDurationOK = OptimizeDuration.WithLabelValues(LblOK)
	OptimizeDurationError = OptimizeDuration.WithLabelValues(LblError)
}
