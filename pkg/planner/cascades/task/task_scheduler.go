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

package task

import (
	"fmt"
	"time"

	"github.com/pingcap/cascades/pkg/metrics"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/util/dbterror/plannererrors"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"go.uber.org/zap"
)

var _ base.Scheduler = &SimpleTaskScheduler{}

// SimpleTaskScheduler is defined for serializing scheduling of memo tasks.
type SimpleTaskScheduler struct {
	stack base.Stack

	// maxTasks and maxDuration are the budget, 0 means unlimited.
	maxTasks    int
	maxDuration time.Duration
	executed    int
	start       time.Time
}

// ExecuteTasks implements the interface of TaskScheduler. The budget is checked between
// two tasks, the clock starts with the first call.
func (s *SimpleTaskScheduler) ExecuteTasks() error {
	if s.start.IsZero() {
		s.start = time.Now()
	}
	for !s.stack.Empty() {
		if err := s.checkBudget(); err != nil {
			return err
		}
		// when use customized stack to drive the tasks, the call-chain state is dived in the stack.
		task := s.stack.Pop()
		s.executed++
		metrics.TaskCounter.WithLabelValues(task.TaskType()).Inc()
		if err := task.Execute(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SimpleTaskScheduler) checkBudget() error {
	var budgetType, reason string
	if s.maxTasks > 0 && s.executed >= s.maxTasks {
		budgetType, reason = metrics.BudgetTypeTasks, fmt.Sprintf("executed %d tasks", s.executed)
	} else if s.maxDuration > 0 {
		if elapsed := time.Since(s.start); elapsed > s.maxDuration {
			budgetType, reason = metrics.BudgetTypeTime, fmt.Sprintf("elapsed %s", elapsed)
		}
	}
	if budgetType == "" {
		return nil
	}
	metrics.BudgetExceededCounter.WithLabelValues(budgetType).Inc()
	logutil.BgLogger().Warn("optimization budget exceeded",
		zap.String("budget", budgetType),
		zap.Int("executedTasks", s.executed),
		zap.Int("pendingTasks", s.stack.Len()))
	return plannererrors.ErrOptimizationBudgetExceeded.GenWithStackByArgs(reason)
}

// Destroy release all the allocated elements inside stack.
func (s *SimpleTaskScheduler) Destroy() {
	// when step out of the scheduler, if the stack is empty, clean and release it.
	stack := s.stack
	if stack == nil {
		return
	}
	// release parent pointer ref.
	s.stack = nil
	stack.Destroy()
}

// PushTask implements the scheduler's interface, add another task into scheduler.
func (s *SimpleTaskScheduler) PushTask(task base.Task) {
	s.stack.Push(task)
}

// ExecutedTasks implements the scheduler's interface.
func (s *SimpleTaskScheduler) ExecutedTasks() int {
	return s.executed
}

// PendingTasks returns the number of tasks in the stack.
func (s *SimpleTaskScheduler) PendingTasks() int {
	return s.stack.Len()
}

// NewSimpleTaskScheduler return a simple task scheduler, init logic included.
func NewSimpleTaskScheduler(maxTasks int, maxDuration time.Duration) *SimpleTaskScheduler {
	return &SimpleTaskScheduler{
		stack:       stackPool.Get().(base.Stack),
		maxTasks:    maxTasks,
		maxDuration: maxDuration,
	}
}
