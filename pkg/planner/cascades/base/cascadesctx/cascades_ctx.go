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

package cascadesctx

import (
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule/ruleset"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
)

// Context is the context of one cascades optimization, it is shared by all the tasks.
type Context interface {
	// Destroy releases the resources held by the context.
	Destroy()
	// GetScheduler returns the task scheduler.
	GetScheduler() base.Scheduler
	// PushTask pushes a task into the scheduler.
	PushTask(task base.Task)
	// GetMemo returns the memo.
	GetMemo() *memo.Memo
	// GetRuleSet returns the rule set of this optimization.
	GetRuleSet() *ruleset.RuleSet
	// GetStatsContext returns the statistics used in the derivation.
	GetStatsContext() corebase.StatsContext
	// GetOptimizerVars returns the optimizer variables.
	GetOptimizerVars() *corebase.OptimizerVars
	// RecordFailure records a fault which is isolated from the optimization.
	RecordFailure(err error)
}
