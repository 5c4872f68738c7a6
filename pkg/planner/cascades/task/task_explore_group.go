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
)

var _ base.Task = &ExploreGroupTask{}

// ExploreGroupTask applies the transformation rules on all the logical expressions of a
// group, until no more new logical expression is generated into it.
type ExploreGroupTask struct {
	BaseTask

	groupID memo.GroupID
}

// NewExploreGroupTask returns a new exploring group task.
func NewExploreGroupTask(ctx cascadesctx.Context, groupID memo.GroupID) base.Task {
	return &ExploreGroupTask{
		BaseTask: BaseTask{ctx: ctx},
		groupID:  groupID,
	}
}

// Execute implements the task.Execute interface.
func (e *ExploreGroupTask) Execute() error {
	group := e.ctx.GetMemo().GetGroup(e.groupID)
	if group == nil || group.Explored {
		return nil
	}
	group.Explored = true
	// a new logical expression clears the flag, then the group is explored again.
	e.Push(e)
	group.ForEachGE(func(ge *memo.GroupExpression) bool {
		e.Push(NewOptGroupExpressionTask(e.ctx, ge))
		return true
	})
	return nil
}

// Desc implements the task.Desc interface.
func (e *ExploreGroupTask) Desc(w util.StrBufferWriter) {
	w.WriteString("ExploreGroupTask{group:G" + strconv.FormatUint(uint64(e.groupID), 10) + "}")
}

// TaskType implements the task.TaskType interface.
func (*ExploreGroupTask) TaskType() string {
	return TypeExploreGroup
}
