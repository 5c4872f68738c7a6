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
	"strconv"

	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/cascades/base/cascadesctx"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/cascades/util"
	"github.com/pingcap/cascades/pkg/planner/pattern"
	"github.com/pingcap/cascades/pkg/planner/property"
)

var _ base.Task = &OptGroupTask{}

// OptGroupTask finds the cheapest plan of a group for a required property. The group is
// fully explored first, then every logical expression is implemented, every physical
// expression is costed and the property is enforced.
type OptGroupTask struct {
	BaseTask

	groupID memo.GroupID
	prop    *property.PhysicalProperty
}

// NewOptGroupTask returns a new optimizing group task.
func NewOptGroupTask(ctx cascadesctx.Context, groupID memo.GroupID, prop *property.PhysicalProperty) base.Task {
	return &OptGroupTask{
		BaseTask: BaseTask{ctx: ctx},
		groupID:  groupID,
		prop:     prop,
	}
}

// Execute implements the task.Execute interface.
func (g *OptGroupTask) Execute() error {
	group := g.ctx.GetMemo().GetGroup(g.groupID)
	if group == nil {
		return nil
	}
	if group.Explored && group.IsOptimized(g.prop) {
		return nil
	}
	if !group.Explored {
		// come back after the exploration.
		g.Push(g)
		g.Push(NewExploreGroupTask(g.ctx, group.GroupID))
		return nil
	}
	group.SetOptimized(g.prop)
	// the enforcer runs last, so it competes with every native plan.
	g.Push(NewEnforcePropertyTask(g.ctx, group.GroupID, g.prop))
	for _, pge := range group.PhysicalExpressions {
		g.Push(NewCostGroupExpressionTask(g.ctx, pge, g.prop))
	}
	ruleSet := g.ctx.GetRuleSet()
	group.ForEachGE(func(ge *memo.GroupExpression) bool {
		for _, one := range ruleSet.ImplementationRules(pattern.GetOperand(ge.LogicalPlan)) {
			if !ge.IsRuleApplied(one.ID()) {
				g.Push(NewApplyRuleTask(g.ctx, ge, one, g.prop))
			}
		}
		return true
	})
	return nil
}

// Desc implements the task.Desc interface.
func (g *OptGroupTask) Desc(w util.StrBufferWriter) {
	w.WriteString("OptGroupTask{group:G" + strconv.FormatUint(uint64(g.groupID), 10) + ", prop:" + g.prop.String() + "}")
}

// TaskType implements the task.TaskType interface.
func (*OptGroupTask) TaskType() string {
	return TypeOptGroup
}
