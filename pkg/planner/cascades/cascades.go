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

	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/cascades/base/cascadesctx"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule/ruleset"
	"github.com/pingcap/cascades/pkg/planner/cascades/task"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/statistics"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

var _ cascadesctx.Context = &Context{}

// Optimizer is a basic cascades search framework portal, driven by Context.
type Optimizer struct {
	ctx *Context
}

// NewOptimizer returns a new optimizer instance. The disabled rules of vars are suppressed
// for the whole lifetime of the optimizer.
func NewOptimizer(ctx context.Context, provider statistics.Provider, vars *corebase.OptimizerVars, opts ...ruleset.Option) (*Optimizer, error) {
	if vars == nil {
		vars = corebase.DefaultOptimizerVars()
	}
	cctx := NewContext(ctx, provider, vars, opts...)
	if _, err := cctx.ruleSet.Disable(vars.DisabledRules...); err != nil {
		cctx.Destroy()
		return nil, err
	}
	return &Optimizer{ctx: cctx}, nil
}

// Context returns the context of the optimizer.
func (opt *Optimizer) Context() *Context {
	return opt.ctx
}

// Optimize searches the cheapest physical plan of logic satisfying the required property.
// When the budget runs out, the best plan found so far is returned along with the error.
func (opt *Optimizer) Optimize(logic corebase.LogicalPlan, required *property.PhysicalProperty) (corebase.PhysicalPlan, error) {
	for _, one := range opt.ctx.ruleSet.RootRules() {
		var changed bool
		logic, changed = one.Rewrite(logic, required, opt.ctx.vars)
		if changed {
			logutil.Logger(opt.ctx.ctx).Debug("root rule applied", zap.String("rule", one.String()))
		}
	}
	mm := opt.ctx.memo
	if _, err := mm.Init(logic); err != nil {
		return nil, errors.Trace(err)
	}
	// a group merge resets the root, it has to be optimized again.
	for {
		root := mm.GetRootGroup()
		if root.Explored && root.IsOptimized(required) {
			break
		}
		opt.ctx.PushTask(task.NewOptGroupTask(opt.ctx, root.GroupID, required))
		if err := opt.ctx.scheduler.ExecuteTasks(); err != nil {
			plan, _ := mm.BestPlan(mm.GetRootGroup().GroupID, required)
			return plan, err
		}
	}
	return mm.BestPlan(mm.GetRootGroup().GroupID, required)
}

// Destroy resets the optimizer.
func (opt *Optimizer) Destroy() {
	opt.ctx.Destroy()
}

// Context includes all the context stuff when go through memo optimizing.
type Context struct {
	ctx       context.Context
	memo      *memo.Memo
	ruleSet   *ruleset.RuleSet
	scheduler *task.SimpleTaskScheduler
	statsCtx  *statsContext
	vars      *corebase.OptimizerVars
	failures  []error
}

// NewContext returns a new memo context responsible for manage all the stuff in cascades opt.
func NewContext(ctx context.Context, provider statistics.Provider, vars *corebase.OptimizerVars, opts ...ruleset.Option) *Context {
	c := &Context{
		ctx:       ctx,
		memo:      memo.NewMemo(),
		ruleSet:   ruleset.NewRuleSet(opts...),
		scheduler: task.NewSimpleTaskScheduler(vars.MaxTasks, vars.MaxDuration),
		vars:      vars,
	}
	c.statsCtx = newStatsContext(ctx, provider, vars.DefaultRowCount, c.RecordFailure)
	return c
}

// WithDisabledRules runs f with the rules suppressed, the suppression is lifted on every
// exit path of f.
func (c *Context) WithDisabledRules(names []string, f func() error) error {
	restore, err := c.ruleSet.Disable(names...)
	if err != nil {
		return err
	}
	defer restore()
	return f()
}

// Destroy the context.
func (c *Context) Destroy() {
	// when a memo optimizing is about to end, we should release the resources.
	if c.scheduler != nil {
		c.scheduler.Destroy()
	}
}

// GetScheduler returns the scheduler.
func (c *Context) GetScheduler() base.Scheduler {
	return c.scheduler
}

// PushTask puts a task into the scheduler.
func (c *Context) PushTask(task base.Task) {
	c.scheduler.PushTask(task)
}

// GetMemo returns the memo.
func (c *Context) GetMemo() *memo.Memo {
	return c.memo
}

// GetRuleSet returns the rule set.
func (c *Context) GetRuleSet() *ruleset.RuleSet {
	return c.ruleSet
}

// GetStatsContext returns the statistics used in this optimization.
func (c *Context) GetStatsContext() corebase.StatsContext {
	return c.statsCtx
}

// GetOptimizerVars returns the optimizer vars.
func (c *Context) GetOptimizerVars() *corebase.OptimizerVars {
	return c.vars
}

// RecordFailure records an isolated fault.
func (c *Context) RecordFailure(err error) {
	c.failures = append(c.failures, err)
}

// Failures returns the recorded faults.
func (c *Context) Failures() []error {
	return c.failures
}
