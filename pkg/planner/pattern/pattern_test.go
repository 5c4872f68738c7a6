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
	"testing"

	"github.com/pingcap/cascades/pkg/planner/core/operator/logicalop"
	"github.com/stretchr/testify/require"
)

func TestGetOperand(t *testing.T) {
	require.Equal(t, OperandJoin, GetOperand(logicalop.LogicalJoin{}.Init()))
	require.Equal(t, OperandAggregation, GetOperand(logicalop.LogicalAggregation{}.Init()))
	require.Equal(t, OperandProjection, GetOperand(logicalop.LogicalProjection{}.Init()))
	require.Equal(t, OperandSelection, GetOperand(logicalop.LogicalSelection{}.Init()))
	require.Equal(t, OperandDataSource, GetOperand(logicalop.DataSource{}.Init()))
	require.Equal(t, OperandSort, GetOperand(logicalop.LogicalSort{}.Init()))
	require.Equal(t, OperandLimit, GetOperand(logicalop.LogicalLimit{}.Init()))
}

func TestOperandMatch(t *testing.T) {
	require.True(t, OperandAny.Match(OperandLimit))
	require.True(t, OperandAny.Match(OperandSelection))
	require.True(t, OperandAny.Match(OperandJoin))
	require.True(t, OperandAny.Match(OperandAny))

	require.True(t, OperandLimit.Match(OperandAny))
	require.True(t, OperandSelection.Match(OperandAny))
	require.True(t, OperandJoin.Match(OperandAny))

	require.True(t, OperandLimit.Match(OperandLimit))
	require.True(t, OperandSelection.Match(OperandSelection))
	require.True(t, OperandJoin.Match(OperandJoin))

	require.False(t, OperandLimit.Match(OperandSelection))
	require.False(t, OperandLimit.Match(OperandJoin))
	require.False(t, OperandJoin.Match(OperandDataSource))
}

func TestNewPattern(t *testing.T) {
	p := NewPattern(OperandAny)
	require.Equal(t, OperandAny, p.Operand)
	require.True(t, p.MatchOperandAny())
	require.Nil(t, p.Children)

	p = NewPattern(OperandJoin)
	require.Equal(t, OperandJoin, p.Operand)
	require.False(t, p.MatchOperandAny())
	require.Nil(t, p.Children)
}

func TestPatternSetChildren(t *testing.T) {
	p := NewPattern(OperandAny)
	p.SetChildren(NewPattern(OperandLimit))
	require.Len(t, p.Children, 1)
	require.Equal(t, OperandLimit, p.Children[0].Operand)
	require.Nil(t, p.Children[0].Children)

	p = NewPattern(OperandJoin)
	p.SetChildren(NewPattern(OperandProjection), NewPattern(OperandSelection))
	require.Len(t, p.Children, 2)
	require.Equal(t, OperandProjection, p.Children[0].Operand)
	require.Nil(t, p.Children[0].Children)
	require.Equal(t, OperandSelection, p.Children[1].Operand)
	require.Nil(t, p.Children[1].Children)
}

func TestBuildPattern(t *testing.T) {
	p := BuildPattern(OperandSelection, BuildPattern(OperandJoin, NewPattern(OperandAny), NewPattern(OperandAny)))
	require.Equal(t, "Selection(Join(Any, Any))", p.String())
	require.True(t, p.Match(OperandSelection))
	require.False(t, p.Match(OperandJoin))
}
