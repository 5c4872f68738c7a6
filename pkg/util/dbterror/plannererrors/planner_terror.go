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

package plannererrors

import (
	"github.com/pingcap/errors"
)

// error definitions.
var (
	// ErrInvalidInputPlan is returned when the plan handed to the optimizer is rejected
	// before optimization starts.
	ErrInvalidInputPlan = errors.Normalize("invalid input plan: %s", errors.RFCCodeText("Optimizer:InvalidInputPlan"))
	// ErrRuleApplication is recorded when a rule returns an invalid output. It never aborts
	// the optimization by itself.
	ErrRuleApplication = errors.Normalize("rule %s produced invalid output: %s", errors.RFCCodeText("Optimizer:RuleApplication"))
	// ErrPlanNotFound is returned when no costed physical plan exists for a group and property.
	ErrPlanNotFound = errors.Normalize("can't find a proper physical plan for group %d with required property [%s]", errors.RFCCodeText("Optimizer:PlanNotFound"))
	// ErrOptimizationBudgetExceeded is returned when the task budget or the time budget runs out.
	ErrOptimizationBudgetExceeded = errors.Normalize("optimization budget exceeded: %s", errors.RFCCodeText("Optimizer:BudgetExceeded"))
	// ErrStatisticsUnavailable is recorded when the statistics of a table cannot be used and
	// default estimates are applied instead.
	ErrStatisticsUnavailable = errors.Normalize("statistics of table %s unavailable: %s", errors.RFCCodeText("Optimizer:StatisticsUnavailable"))
)
