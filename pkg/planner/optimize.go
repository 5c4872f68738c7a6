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

package planner

import (
	"context"
	"time"

	"github.com/pingcap/cascades/pkg/config"
	"github.com/pingcap/cascades/pkg/metrics"
	"github.com/pingcap/cascades/pkg/planner/cascades"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// OptimizeConfig stores the knobs of one Optimize call.
type OptimizeConfig struct {
	Required      *property.PhysicalProperty
	DisabledRules []string
	Provider      statistics.Provider
	Vars          *base.OptimizerVars
}

// OptimizeOption defines the type for passing optional arguments to Optimize.
type OptimizeOption func(c *OptimizeConfig)

// WithRequiredProperty sets the physical property the result has to provide.
func WithRequiredProperty(prop *property.PhysicalProperty) OptimizeOption {
	return func(c *OptimizeConfig) {
		c.Required = prop
	}
}

// WithDisabledRules suppresses the named rules for this optimization only.
func WithDisabledRules(names ...string) OptimizeOption {
	return func(c *OptimizeConfig) {
		c.DisabledRules = append(c.DisabledRules, names...)
	}
}

// WithStatsProvider sets the source of the table statistics.
func WithStatsProvider(provider statistics.Provider) OptimizeOption {
	return func(c *OptimizeConfig) {
		c.Provider = provider
	}
}

// WithOptimizerVars overrides the vars built from the global config.
func WithOptimizerVars(vars *base.OptimizerVars) OptimizeOption {
	return func(c *OptimizeConfig) {
		c.Vars = vars
	}
}

// Result is the outcome of one optimization.
type Result struct {
	// Plan is the cheapest physical plan, it may be set along with an exceeded budget error.
	Plan base.PhysicalPlan
	Cost float64
	// Memo is the explored memo, read-only after Optimize returns.
	Memo *memo.Memo
	// Diagnostics combines the isolated faults met during the optimization.
	Diagnostics error
}

// Optimize does the cost based optimization of the logical plan.
func Optimize(ctx context.Context, plan base.LogicalPlan, opts ...OptimizeOption) (res *Result, err error) {
	cfg := &OptimizeConfig{Provider: statistics.MapProvider{}}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Vars == nil {
		cfg.Vars = base.NewOptimizerVars(&config.GetGlobalConfig().Optimizer)
	}
	if err := ValidateLogicalPlan(plan); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		if err != nil {
			metrics.OptimizeDurationError.Observe(time.Since(start).Seconds())
		} else {
			metrics.OptimizeDurationOK.Observe(time.Since(start).Seconds())
		}
	}()

	optimizer, err := cascades.NewOptimizer(ctx, cfg.Provider, cfg.Vars)
	if err != nil {
		return nil, err
	}
	defer optimizer.Destroy()
	octx := optimizer.Context()
	res = &Result{Memo: octx.GetMemo()}
	err = octx.WithDisabledRules(cfg.DisabledRules, func() error {
		var err error
		res.Plan, err = optimizer.Optimize(plan, cfg.Required)
		return err
	})
	res.Diagnostics = multierr.Combine(octx.Failures()...)
	metrics.MemoGroupHistogram.Observe(float64(res.Memo.GetGroups().Len()))
	if res.Plan != nil {
		res.Cost = res.Plan.Cost()
	}
	if err != nil {
		logutil.Logger(ctx).Warn("optimization failed",
			zap.Int("executedTasks", octx.GetScheduler().ExecutedTasks()),
			zap.Bool("partialPlan", res.Plan != nil),
			zap.Error(err))
		return res, err
	}
	if res.Diagnostics != nil {
		logutil.Logger(ctx).Debug("optimization finished with isolated faults", zap.Error(res.Diagnostics))
	}
	return res, nil
}
