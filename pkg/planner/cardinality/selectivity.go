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

package cardinality

import (
	"math"

	"github.com/pingcap/cascades/pkg/expression"
	"github.com/pingcap/cascades/pkg/planner/property"
)

const (
	// SelectionFactor is the default factor of the selectivity.
	// For example, If we have no idea how to estimate the selectivity
	// of a Selection or a JoinCondition, we can use this default value.
	SelectionFactor = 0.8
	// pseudoLessRate is the divisor used for a range predicate.
	pseudoLessRate = 3
)

// Selectivity computes the selectivity of the CNF conditions on the input stats.
// Columns are assumed independent, the result is always within [0, 1].
func Selectivity(stats *property.StatsInfo, conds []expression.Expression) float64 {
	ret := 1.0
	for _, cond := range conds {
		ret *= exprSelectivity(stats, cond)
	}
	return clampSelectivity(ret)
}

func exprSelectivity(stats *property.StatsInfo, expr expression.Expression) float64 {
	switch x := expr.(type) {
	case *expression.Constant:
		if x.IsNull || x.Value == 0 {
			return 0
		}
		return 1
	case *expression.Column:
		return SelectionFactor
	case *expression.ScalarFunction:
		return funcSelectivity(stats, x)
	}
	return SelectionFactor
}

func funcSelectivity(stats *property.StatsInfo, sf *expression.ScalarFunction) float64 {
	args := sf.GetArgs()
	switch sf.FuncName {
	case expression.LogicAnd:
		return exprSelectivity(stats, args[0]) * exprSelectivity(stats, args[1])
	case expression.LogicOr:
		s1, s2 := exprSelectivity(stats, args[0]), exprSelectivity(stats, args[1])
		return clampSelectivity(s1 + s2 - s1*s2)
	case expression.UnaryNot:
		return clampSelectivity(1 - exprSelectivity(stats, args[0]))
	case expression.EQ:
		return eqSelectivity(stats, args[0], args[1])
	case expression.NE:
		return clampSelectivity(1 - eqSelectivity(stats, args[0], args[1]))
	case expression.LT, expression.LE, expression.GT, expression.GE:
		return 1.0 / pseudoLessRate
	case expression.IsNull:
		if col, ok := args[0].(*expression.Column); ok && col.NotNull {
			return 0
		}
	}
	return SelectionFactor
}

func eqSelectivity(stats *property.StatsInfo, lhs, rhs expression.Expression) float64 {
	lCol, lIsCol := lhs.(*expression.Column)
	rCol, rIsCol := rhs.(*expression.Column)
	switch {
	case lIsCol && rIsCol:
		return 1 / math.Max(1, math.Max(stats.GetNDV(lCol), stats.GetNDV(rCol)))
	case lIsCol:
		return 1 / math.Max(1, stats.GetNDV(lCol))
	case rIsCol:
		return 1 / math.Max(1, stats.GetNDV(rCol))
	}
	return SelectionFactor
}

func clampSelectivity(sel float64) float64 {
	return math.Max(0, math.Min(1, sel))
}
