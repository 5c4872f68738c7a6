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
	"github.com/pingcap/cascades/pkg/planner/core/operator/physicalop"
	"github.com/pingcap/cascades/pkg/planner/property"
)

var _ base.Task = &EnforcePropertyTask{}

// EnforcePropertyTask puts a sort enforcer on the cheapest plan of the group without any
// order requirement. The enforced plan competes with the native plans of the group.
type EnforcePropertyTask struct {
	BaseTask

	groupID   memo.GroupID
	prop      *property.PhysicalProperty
	requested bool
}

// NewEnforcePropertyTask returns a new property enforcing task.
func NewEnforcePropertyTask(ctx cascadesctx.Context, groupID memo.GroupID, prop *property.PhysicalProperty) *EnforcePropertyTask {
	return &EnforcePropertyTask{
		BaseTask: BaseTask{ctx: ctx},
		groupID:  groupID,
		prop:     prop,
	}
}

// Execute implements the task.Execute interface.
func (e *EnforcePropertyTask) Execute() error {
	if e.prop.IsSortItemEmpty() {
		return nil
	}
	group := e.ctx.GetMemo().GetGroup(e.groupID)
	if group == nil || !e.prop.AllColsFromSchema(group.LogicalProp.Schema) {
		return nil
	}
	relaxed := &property.PhysicalProperty{}
	winner := group.GetWinner(relaxed)
	if winner == nil {
		if e.requested {
			return nil
		}
		e.requested = true
		e.Push(e)
		e.Push(NewOptGroupTask(e.ctx, group.GroupID, relaxed))
		return nil
	}
	stats := statsOrDefault(group.GetStats(), e.ctx)
	enforcer := physicalop.NewSortEnforcer(e.prop, group.LogicalProp.Schema)
	cost := enforcer.LocalCost(&e.ctx.GetOptimizerVars().CostFactors, stats, []*property.StatsInfo{stats}) + winner.Cost
	group.UpdateWinner(&memo.Winner{
		Enforcer:   enforcer,
		Cost:       cost,
		ChildProps: []*property.PhysicalProperty{relaxed},
		Prop:       e.prop,
	})
	return nil
}

// Desc implements the task.Desc interface.
func (e *EnforcePropertyTask) Desc(w util.StrBufferWriter) {
	w.WriteString("EnforcePropertyTask{group:G" + strconv.FormatUint(uint64(e.groupID), 10) + ", prop:" + e.prop.String() + "}")
}

// TaskType implements the task.TaskType interface.
func (*EnforcePropertyTask) TaskType() string {
	return TypeEnforceProperty
}
