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
	"github.com/pingcap/cascades/pkg/metrics"
	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/cascades/pkg/planner/cascades/base/cascadesctx"
	"github.com/pingcap/cascades/pkg/planner/cascades/memo"
	"github.com/pingcap/cascades/pkg/planner/cascades/rule"
	"github.com/pingcap/cascades/pkg/planner/cascades/util"
	corebase "github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/property"
	"github.com/pingcap/cascades/pkg/util/dbterror/plannererrors"
	"github.com/pingcap/cascades/pkg/util/logutil"
	"github.com/pingcap/errors"
	"github.com/pingcap/failpoint"
	"go.uber.org/zap"
)

var _ base.Task = &ApplyRuleTask{}

// ApplyRuleTask applies one rule on one logical group expression. An invalid rule output
// is recorded and skipped, it never fails the optimization.
type ApplyRuleTask struct {
	BaseTask

	gE   *memo.GroupExpression
	rule rule.Rule
	// prop is the property the new physical expressions are costed for.
	prop *property.PhysicalProperty
}

// NewApplyRuleTask return a new apply rule task.
func NewApplyRuleTask(ctx cascadesctx.Context, gE *memo.GroupExpression, r rule.Rule, prop *property.PhysicalProperty) *ApplyRuleTask {
	return &ApplyRuleTask{
		BaseTask: BaseTask{ctx: ctx},
		gE:       gE,
		rule:     r,
		prop:     prop,
	}
}

// Execute implements the task.Execute interface.
func (a *ApplyRuleTask) Execute() error {
	if a.gE.IsAbandoned() || a.gE.IsRuleApplied(a.rule.ID()) {
		return nil
	}
	a.gE.SetRuleApplied(a.rule.ID())
	mm := a.ctx.GetMemo()
	holders := rule.NewBinder(mm, a.rule.Pattern(), a.gE).Bind()
	for _, holder := range holders {
		if a.gE.IsAbandoned() {
			// a former output merged it away.
			return nil
		}
		if !a.rule.Match(holder) {
			continue
		}
		var err error
		switch r := a.rule.(type) {
		case rule.TransformationRule:
			err = a.transform(r, holder)
		case rule.ImplementationRule:
			err = a.implement(r, holder)
		default:
			err = errors.Errorf("rule %s can't be applied in the memo", a.rule)
		}
		if err != nil {
			a.recordFailure(err)
		}
	}
	return nil
}

func (a *ApplyRuleTask) transform(r rule.TransformationRule, holder corebase.LogicalPlan) error {
	outputs, err := r.XForm(holder)
	failpoint.Inject("mockRuleApplicationError", func(val failpoint.Value) {
		if val.(string) == r.String() {
			err = errors.New("mock rule application error")
		}
	})
	if err != nil {
		return err
	}
	mm := a.ctx.GetMemo()
	for _, output := range outputs {
		if output == nil {
			return errors.New("nil output")
		}
		if _, err := mm.CopyIn(a.gE.GetGroup(), output); err != nil {
			return err
		}
	}
	return nil
}

func (a *ApplyRuleTask) implement(r rule.ImplementationRule, holder corebase.LogicalPlan) error {
	outputs, err := r.Implement(holder)
	if err != nil {
		return err
	}
	mm := a.ctx.GetMemo()
	for _, output := range outputs {
		if output == nil || len(output.Children()) != 0 {
			return errors.New("physical output has to be a childless operator")
		}
		pge := mm.InsertPhysical(a.gE.GetGroup(), output, a.gE.Inputs)
		a.Push(NewCostGroupExpressionTask(a.ctx, pge, a.prop))
	}
	return nil
}

func (a *ApplyRuleTask) recordFailure(err error) {
	metrics.RuleApplicationFailedCounter.WithLabelValues(a.rule.String()).Inc()
	logutil.BgLogger().Warn("rule application failed",
		zap.String("rule", a.rule.String()),
		zap.Stringer("groupExpr", a.gE),
		zap.Error(err))
	a.ctx.RecordFailure(plannererrors.ErrRuleApplication.GenWithStackByArgs(a.rule.String(), err.Error()))
}

// Desc implements the task.Desc interface.
func (a *ApplyRuleTask) Desc(w util.StrBufferWriter) {
	w.WriteString("ApplyRuleTask{gE:" + a.gE.String() + ", rule:" + a.rule.String() + "}")
}

// TaskType implements the task.TaskType interface.
func (*ApplyRuleTask) TaskType() string {
	return TypeApplyRule
}
