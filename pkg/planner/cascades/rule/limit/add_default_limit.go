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

package limit

import (
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
)

var _ rule.RootRule = &AddDefaultLimit{}

// AddDefaultLimit caps the rows returned by a query without a limit of its own to the
// configured default limit. A zero default limit turns it off. The limit sits above the
// required order, so it keeps the first rows of the ordered result.
type AddDefaultLimit struct{}

// NewAddDefaultLimit creates a new AddDefaultLimit rule.
func NewAddDefaultLimit() *AddDefaultLimit {
	return &AddDefaultLimit{}
}

// ID implements the RootRule interface.
func (*AddDefaultLimit) ID() uint {
	return uint(rule.RootAddDefaultLimit)
}

// String implements the RootRule interface.
func (*AddDefaultLimit) String() string {
	return rule.RootAddDefaultLimit.String()
}

// Rewrite implements the RootRule interface.
func (*AddDefaultLimit) Rewrite(plan corebase.LogicalPlan, required *property.PhysicalProperty, vars *corebase.OptimizerVars) (corebase.LogicalPlan, bool) {
	if vars == nil || vars.DefaultLimit == 0 {
		return plan, false
	}
	switch plan.GetWrappedLogicalPlan().(type) {
	case *logicalop.LogicalLimit:
		return plan, false
	case *logicalop.LogicalSort:
		// the query orders its result itself.
	default:
		if !required.IsSortItemEmpty() && required.AllColsFromSchema(plan.Schema()) {
			plan = logicalop.LogicalSort{ByItems: required.SortItems}.Init(plan)
		}
	}
	return logicalop.LogicalLimit{Count: vars.DefaultLimit}.Init(plan), true
}
