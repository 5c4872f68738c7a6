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

import (
	"fmt"

	"github.com/pingcap/cascades/pkg/planner/cascades/base"
)

// Row is one tuple flowing between operators, keyed by the column unique id.
// A column missing from the row is NULL.
type Row map[int64]int64

// Clone copies the row.
func (r Row) Clone() Row {
	ret := make(Row, len(r))
	for k, v := range r {
		ret[k] = v
	}
	return ret
}

// Expression represents all scalar expression in SQL.
type Expression interface {
	fmt.Stringer
	base.HashEquals

	// Eval evaluates an expression through a row.
	Eval(row Row) (val int64, isNull bool)

	// Clone copies an expression totally.
	Clone() Expression
}

// Expression kinds, used as the first hashed value so that different kinds never collide.
const (
	columnFlag   byte = 1
	constantFlag byte = 2
	scalarFlag   byte = 3
)

// EvalBool evaluates expression list to a boolean value, NULL counts as false.
func EvalBool(exprList []Expression, row Row) bool {
	for _, expr := range exprList {
		val, isNull := expr.Eval(row)
		if isNull || val == 0 {
			return false
		}
	}
	return true
}

// CloneExprs clones a slice of expressions.
func CloneExprs(exprs []Expression) []Expression {
	if exprs == nil {
		return nil
	}
	ret := make([]Expression, 0, len(exprs))
	for _, expr := range exprs {
		ret = append(ret, expr.Clone())
	}
	return ret
}

// ExprsHash64 hashes a slice of expressions in order.
func ExprsHash64(h base.Hasher, exprs []Expression) {
	h.HashInt(len(exprs))
	for _, expr := range exprs {
		expr.Hash64(h)
	}
}

// ExprsEqual checks whether two expression slices are equal position by position.
func ExprsEqual(a, b []Expression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}
