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

package logicalop

import (
	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/core/base"
)

// BaseLogicalPlan is the common structure that used in logical plan.
type BaseLogicalPlan struct {
	tp       string
	self     base.LogicalPlan
	children []base.LogicalPlan
}

// NewBaseLogicalPlan is the basic constructor of BaseLogicalPlan.
func NewBaseLogicalPlan(tp string, self base.LogicalPlan, children ...base.LogicalPlan) BaseLogicalPlan {
	return BaseLogicalPlan{
		tp:       tp,
		self:     self,
		children: children,
	}
}

// TP implements the base.Plan interface.
func (p *BaseLogicalPlan) TP() string {
	return p.tp
}

// Children implements base.LogicalPlan.<17th> interface.
func (p *BaseLogicalPlan) Children() []base.LogicalPlan {
	return p.children
}

// GetWrappedLogicalPlan implements the base.LogicalPlan interface.
func (p *BaseLogicalPlan) GetWrappedLogicalPlan() base.LogicalPlan {
	return p.self
}

// childSchema returns the schema of the idx-th child, nil when the child is absent.
func (p *BaseLogicalPlan) childSchema(idx int) *expression.Schema {
	if idx >= len(p.children) || p.children[idx] == nil {
		return nil
	}
	return p.children[idx].Schema()
}
