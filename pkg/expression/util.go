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

package expression

import "strings"

// ExtractColumns extracts all columns from an expression.
func ExtractColumns(expr Expression) []*Column {
	return extractColumns(make([]*Column, 0, 4), expr)
}

// ExtractColumnsFromExpressions extracts all columns from expressions, duplicated ones included.
func ExtractColumnsFromExpressions(result []*Column, exprs ...Expression) []*Column {
	for _, expr := range exprs {
		result = extractColumns(result, expr)
	}
	return result
}

func extractColumns(result []*Column, expr Expression) []*Column {
	switch v := expr.(type) {
	case *Column:
		result = append(result, v)
	case *ScalarFunction:
		for _, arg := range v.GetArgs() {
			result = extractColumns(result, arg)
		}
	}
	return result
}

// SplitCNFItems splits CNF items.
// CNF means conjunctive normal form, e.g. "a and b and c".
func SplitCNFItems(onExpr Expression) []Expression {
	return splitNormalFormItems(onExpr, LogicAnd)
}

// SplitDNFItems splits DNF items.
// DNF means disjunctive normal form, e.g. "a or b or c".
func SplitDNFItems(onExpr Expression) []Expression {
	return splitNormalFormItems(onExpr, LogicOr)
}

func splitNormalFormItems(onExpr Expression, funcName string) []Expression {
	if sf, ok := onExpr.(*ScalarFunction); ok && sf.FuncName == funcName {
		ret := make([]Expression, 0, len(sf.GetArgs()))
		for _, arg := range sf.GetArgs() {
			ret = append(ret, splitNormalFormItems(arg, funcName)...)
		}
		return ret
	}
	return []Expression{onExpr}
}

// ComposeCNFCondition composes CNF items into a balance deep CNF tree, which benefits a lot for pb decoder/encoder.
func ComposeCNFCondition(conditions ...Expression) Expression {
	return composeConditionWithBinaryOp(conditions, LogicAnd)
}

// ComposeDNFCondition composes DNF items into a balance deep DNF tree.
func ComposeDNFCondition(conditions ...Expression) Expression {
	return composeConditionWithBinaryOp(conditions, LogicOr)
}

func composeConditionWithBinaryOp(conditions []Expression, funcName string) Expression {
	length := len(conditions)
	if length == 0 {
		return nil
	}
	if length == 1 {
		return conditions[0]
	}
	return NewFunctionInternal(funcName,
		composeConditionWithBinaryOp(conditions[:length/2], funcName),
		composeConditionWithBinaryOp(conditions[length/2:], funcName))
}

// IsEQCondFromDifferentChild checks whether the expression is an equal condition whose two sides
// are columns coming from the left and the right schema respectively.
// The returned columns are ordered as (left, right).
func IsEQCondFromDifferentChild(expr Expression, lSchema, rSchema *Schema) (lCol, rCol *Column, ok bool) {
	sf, isFunc := expr.(*ScalarFunction)
	if !isFunc || sf.FuncName != EQ {
		return nil, nil, false
	}
	c0, ok0 := sf.GetArgs()[0].(*Column)
	c1, ok1 := sf.GetArgs()[1].(*Column)
	if !ok0 || !ok1 {
		return nil, nil, false
	}
	if lSchema.Contains(c0) && rSchema.Contains(c1) {
		return c0, c1, true
	}
	if lSchema.Contains(c1) && rSchema.Contains(c0) {
		return c1, c0, true
	}
	return nil, nil, false
}

// ExplainExpressionList generates explain information for a list of expressions.
func ExplainExpressionList(exprs []Expression) string {
	strs := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		strs = append(strs, expr.String())
	}
	return strings.Join(strs, ", ")
}

// ExplainColumnList generates explain information for a list of columns.
func ExplainColumnList(cols []*Column) string {
	strs := make([]string, 0, len(cols))
	for _, col := range cols {
		strs = append(strs, col.String())
	}
	return strings.Join(strs, ", ")
}
