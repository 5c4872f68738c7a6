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

package pattern

import (
	"strings"

	"github.com/pingcap/cascades/pkg/planner/core/base"
	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
)

// Operand is the node of a pattern tree, it represents a logical expression operator.
// Different from logical plan operator which holds the full information about an expression
// operator, Operand only stores the type information.
// An Operand may correspond to a concrete logical plan operator, or it can has special meaning,
// e.g, a placeholder for any logical plan operator.
type Operand int

const (
	// OperandAny is a placeholder for any Operand.
	OperandAny Operand = iota
	// OperandDataSource is the operand for DataSource.
	OperandDataSource
	// OperandSelection is the operand for LogicalSelection.
	OperandSelection
	// OperandProjection is the operand for LogicalProjection.
	OperandProjection
	// OperandJoin is the operand for LogicalJoin.
	OperandJoin
	// OperandAggregation is the operand for LogicalAggregation.
	OperandAggregation
	// OperandSort is the operand for LogicalSort.
	OperandSort
	// OperandLimit is the operand for LogicalLimit.
	OperandLimit
	// OperandUnsupported is the operand for unsupported operators.
	OperandUnsupported
)

// GetOperand maps logical plan operator to Operand.
func GetOperand(p base.LogicalPlan) Operand {
	switch p.GetWrappedLogicalPlan().(type) {
	case *logicalop.DataSource:
		return OperandDataSource
	case *logicalop.LogicalSelection:
		return OperandSelection
	case *logicalop.LogicalProjection:
		return OperandProjection
	case *logicalop.LogicalJoin:
		return OperandJoin
	case *logicalop.LogicalAggregation:
		return OperandAggregation
	case *logicalop.LogicalSort:
		return OperandSort
	case *logicalop.LogicalLimit:
		return OperandLimit
	default:
		return OperandUnsupported
	}
}

// Match checks if current Operand matches specified one.
func (o Operand) Match(t Operand) bool {
	if o == OperandAny || t == OperandAny {
		return true
	}
	return o == t
}

// String implements fmt.Stringer interface.
func (o Operand) String() string {
	switch o {
	case OperandAny:
		return "Any"
	case OperandDataSource:
		return "DataSource"
	case OperandSelection:
		return "Selection"
	case OperandProjection:
		return "Projection"
	case OperandJoin:
		return "Join"
	case OperandAggregation:
		return "Aggregation"
	case OperandSort:
		return "Sort"
	case OperandLimit:
		return "Limit"
	}
	return "Unsupported"
}

// Pattern defines the match pattern for a rule. It's a tree-like structure
// which is a piece of a logical expression. Each node in the Pattern tree is
// defined by an Operand.
type Pattern struct {
	Operand
	Children []*Pattern
}

// Match checks whether the operand matches the pattern.
func (p *Pattern) Match(o Operand) bool {
	return p.Operand.Match(o)
}

// MatchOperandAny checks whether the pattern's Operand is OperandAny.
func (p *Pattern) MatchOperandAny() bool {
	return p.Operand == OperandAny
}

// SetChildren sets the Children information for a pattern node.
func (p *Pattern) SetChildren(children ...*Pattern) {
	p.Children = children
}

// String implements fmt.Stringer interface, e.g. "Selection(Join(Any, Any))".
func (p *Pattern) String() string {
	if len(p.Children) == 0 {
		return p.Operand.String()
	}
	strs := make([]string, 0, len(p.Children))
	for _, child := range p.Children {
		strs = append(strs, child.String())
	}
	return p.Operand.String() + "(" + strings.Join(strs, ", ") + ")"
}

// NewPattern creates a pattern node according to the Operand.
func NewPattern(operand Operand) *Pattern {
	return &Pattern{Operand: operand}
}

// BuildPattern builds a Pattern from Operand and child Patterns.
// Used in GetPattern() of Transformation interface to generate a Pattern.
func BuildPattern(operand Operand, children ...*Pattern) *Pattern {
	p := &Pattern{Operand: operand}
	p.Children = children
	return p
}
