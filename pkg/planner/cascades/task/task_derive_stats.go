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

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/cascades/base/cascadesctx"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/cascades/util"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"go.uber.org/zap"
)

var _ base.Task = &DeriveStatsTask{}

// DeriveStatsTask derives the statistics of a group from its first logical expression,
// after the statistics of the child groups.
type DeriveStatsTask struct {
	BaseTask

	groupID           memo.GroupID
	childrenRequested bool
}

// NewDeriveStatsTask returns a new deriving statistics task.
func NewDeriveStatsTask(ctx cascadesctx.Context, groupID memo.GroupID) *DeriveStatsTask {
	return &DeriveStatsTask{
		BaseTask: BaseTask{ctx: ctx},
		groupID:  groupID,
	}
}

// Execute implements the task.Execute interface.
func (d *DeriveStatsTask) Execute() error {
	mm := d.ctx.GetMemo()
	group := mm.GetGroup(d.groupID)
	if group == nil || group.GetStats() != nil {
		return nil
	}
	front := group.LogicalExpressions.Front()
	if front == nil {
		group.SetStats(property.NewStatsInfo(d.ctx.GetOptimizerVars().DefaultRowCount))
		return nil
	}
	ge := front.Value.(*memo.GroupExpression)
	if !d.childrenRequested {
		d.childrenRequested = true
		pushed := false
		for _, input := range ge.Inputs {
			if mm.GetGroup(input).GetStats() == nil {
				if !pushed {
					d.Push(d)
					pushed = true
				}
				d.Push(NewDeriveStatsTask(d.ctx, input))
			}
		}
		if pushed {
			return nil
		}
	}
	childStats := make([]*property.StatsInfo, 0, len(ge.Inputs))
	childSchema := make([]*expression.Schema, 0, len(ge.Inputs))
	for _, input := range ge.Inputs {
		child := mm.GetGroup(input)
		childStats = append(childStats, statsOrDefault(child.GetStats(), d.ctx))
		childSchema = append(childSchema, child.LogicalProp.Schema)
	}
	stats, err := ge.DeriveStats(d.ctx.GetStatsContext(), childStats, childSchema)
	if err != nil || stats == nil {
		logutil.BgLogger().Warn("derive statistics failed, use the default row count",
			zap.Stringer("groupExpr", ge), zap.Error(err))
		stats = property.NewStatsInfo(d.ctx.GetOptimizerVars().DefaultRowCount)
	}
	group.SetStats(stats)
	return nil
}

// Desc implements the task.Desc interface.
func (d *DeriveStatsTask) Desc(w util.StrBufferWriter) {
	w.WriteString("DeriveStatsTask{group:G" + strconv.FormatUint(uint64(d.groupID), 10) + "}")
}

// TaskType implements the task.TaskType interface.
func (*DeriveStatsTask) TaskType() string {
	return TypeDeriveStats
}
