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
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/cascades/base/cascadesctx"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/cascades/util"
	"github.com/pingcap/cascades/pkg/planner/property"
)

var _ base.Task = &CostGroupExpressionTask{}

// CostGroupExpressionTask costs one physical expression for a required property. It waits
// for the statistics of its group and for the winners of its children, each of them is
// asked for once, then the expression competes for the winner of its group.
type CostGroupExpressionTask struct {
	BaseTask

	gE   *memo.GroupExpression
	prop *property.PhysicalProperty

	statsRequested bool
	childRequested []bool
}

// NewCostGroupExpressionTask returns a new costing task.
func NewCostGroupExpressionTask(ctx cascadesctx.Context, gE *memo.GroupExpression, prop *property.PhysicalProperty) *CostGroupExpressionTask {
	return &CostGroupExpressionTask{
		BaseTask:       BaseTask{ctx: ctx},
		gE:             gE,
		prop:           prop,
		childRequested: make([]bool, len(gE.Inputs)),
	}
}

// Execute implements the task.Execute interface.
func (c *CostGroupExpressionTask) Execute() error {
	childProps, ok := c.gE.PhysicalPlan.GetChildReqProps(c.prop)
	if !ok {
		return nil
	}
	group := c.gE.GetGroup()
	if group.GetStats() == nil && !c.statsRequested {
		c.statsRequested = true
		c.Push(c)
		c.Push(NewDeriveStatsTask(c.ctx, group.GroupID))
		return nil
	}
	mm := c.ctx.GetMemo()
	var childCost float64
	childStats := make([]*property.StatsInfo, 0, len(c.gE.Inputs))
	for i, input := range c.gE.Inputs {
		child := mm.GetGroup(input)
		winner := child.GetWinner(childProps[i])
		if winner == nil {
			if c.childRequested[i] {
				// the child can't provide the property.
				return nil
			}
			c.childRequested[i] = true
			c.Push(c)
			c.Push(NewOptGroupTask(c.ctx, child.GroupID, childProps[i]))
			return nil
		}
		childCost += winner.Cost
		childStats = append(childStats, statsOrDefault(child.GetStats(), c.ctx))
	}
	stats := statsOrDefault(group.GetStats(), c.ctx)
	cost := c.gE.PhysicalPlan.LocalCost(&c.ctx.GetOptimizerVars().CostFactors, stats, childStats) + childCost
	group.UpdateWinner(&memo.Winner{
		Expr:       c.gE,
		Cost:       cost,
		ChildProps: childProps,
		Prop:       c.prop,
	})
	return nil
}

func statsOrDefault(stats *property.StatsInfo, ctx cascadesctx.Context) *property.StatsInfo {
	if stats != nil {
		return stats
	}
	return property.NewStatsInfo(ctx.GetOptimizerVars().DefaultRowCount)
}

// Desc implements the task.Desc interface.
func (c *CostGroupExpressionTask) Desc(w util.StrBufferWriter) {
	w.WriteString("CostGroupExpressionTask{gE:" + c.gE.String() + ", prop:" + c.prop.String() + "}")
}

// TaskType implements the task.TaskType interface.
func (*CostGroupExpressionTask) TaskType() string {
	return TypeCostGroupExpr
}
