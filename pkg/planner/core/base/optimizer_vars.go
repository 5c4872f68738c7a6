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

package base

import (
	"time"

	"github.com/pingcap/cascades/pkg/config"
	"github.com/pingcap/cascades/pkg/statistics"
)

// StatsContext provides the statistics of base tables to stats derivation.
type StatsContext interface {
	// GetTableStats never returns nil, the pseudo statistics are returned when the
	// statistics are unavailable.
	GetTableStats(table string) *statistics.Table
}

// CostFactors are the weights of the cost model.
type CostFactors struct {
	CPU    float64
	Scan   float64
	Memory float64
	Sort   float64
}

// OptimizerVars are the knobs of one optimization.
type OptimizerVars struct {
	// MaxTasks is the maximum number of executed tasks, 0 means unlimited.
	MaxTasks int
	// MaxDuration is the wall clock budget, 0 means unlimited.
	MaxDuration time.Duration
	// DefaultRowCount replaces an unknown table row count.
	DefaultRowCount float64
	// DefaultLimit is the limit added on the root by the default limit rule, 0 disables it.
	DefaultLimit uint64
	// DisabledRules are suppressed for the whole optimization.
	DisabledRules []string
	CostFactors   CostFactors
}

// NewOptimizerVars builds the optimizer vars from the config.
func NewOptimizerVars(cfg *config.Optimizer) *OptimizerVars {
	return &OptimizerVars{
		MaxTasks:        cfg.MaxTasks,
		MaxDuration:     cfg.MaxDuration,
		DefaultRowCount: cfg.DefaultRowCount,
		DefaultLimit:    cfg.DefaultLimit,
		DisabledRules:   append([]string(nil), cfg.DisabledRules...),
		CostFactors: CostFactors{
			CPU:    cfg.CPUFactor,
			Scan:   cfg.ScanFactor,
			Memory: cfg.MemoryFactor,
			Sort:   cfg.SortFactor,
		},
	}
}

// DefaultOptimizerVars returns the vars built from the default config.
func DefaultOptimizerVars() *OptimizerVars {
	return NewOptimizerVars(&config.NewConfig().Optimizer)
}
