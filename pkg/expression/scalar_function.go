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
	"strings"

	"github.com/pingcap/cascades/pkg/planner/cascades/base"
	"github.com/pingcap/errors"
)

// List scalar function names.
const (
	EQ       = "eq"
	NE       = "ne"
	LT       = "lt"
	LE       = "le"
	GT       = "gt"
	GE       = "ge"
	LogicAnd = "and"
	LogicOr  = "or"
	UnaryNot = "not"
	IsNull   = "isnull"
	Plus     = "plus"
	Minus    = "minus"
	Mul      = "mul"
)

const binaryArity = 2

var funcArgCount = map[string]int{
	EQ:       binaryArity,
	NE:       binaryArity,
	LT:       binaryArity,
	LE:       binaryArity,
	GT:       binaryArity,
	GE:       binaryArity,
	LogicAnd: binaryArity,
	LogicOr:  binaryArity,
	UnaryNot: 1,
	IsNull:   1,
	Plus:     binaryArity,
	Minus:    binaryArity,
	Mul:      binaryArity,
}

var _ Expression = &ScalarFunction{}

// ScalarFunction is the function that returns a value.
type ScalarFunction struct {
	FuncName string
	args     []Expression
}

// NewFunction creates a new scalar function.
func NewFunction(funcName string, args ...Expression) (Expression, error) {
	argCnt, ok := funcArgCount[funcName]
	if !ok {
		return nil, errors.Errorf("function %s is not supported", funcName)
	}
	if argCnt != len(args) {
		return nil, errors.Errorf("function %s expects %d arguments, got %d", funcName, argCnt, len(args))
	}
	return &ScalarFunction{FuncName: funcName, args: args}, nil
}

// NewFunctionInternal is used to create scalar function in plan rewriting,
// it panics on a wrong argument count.
func NewFunctionInternal(funcName string, args ...Expression) Expression {
	expr, err := NewFunction(funcName, args...)
	if err != nil {
		panic(err)
	}
	return expr
}

// GetArgs gets arguments of function.
func (sf *ScalarFunction) GetArgs() []Expression {
	return sf.args
}

// String implements fmt.Stringer interface.
func (sf *ScalarFunction) String() string {
	var buffer strings.Builder
	buffer.WriteString(sf.FuncName)
	buffer.WriteString("(")
	for i, arg := range sf.args {
		if i > 0 {
			buffer.WriteString(", ")
		}
		buffer.WriteString(arg.String())
	}
	buffer.WriteString(")")
	return buffer.String()
}

// Clone implements Expression interface.
func (sf *ScalarFunction) Clone() Expression {
	return &ScalarFunction{FuncName: sf.FuncName, args: CloneExprs(sf.args)}
}

// Hash64 implements HashEquals.<0th> interface.
func (sf *ScalarFunction) Hash64(h base.Hasher) {
	h.HashByte(scalarFlag)
	h.HashString(sf.FuncName)
	ExprsHash64(h, sf.args)
}

// Equals implements HashEquals.<1st> interface.
func (sf *ScalarFunction) Equals(other any) bool {
	sf2, ok := other.(*ScalarFunction)
	if !ok || sf2 == nil {
		return false
	}
	return sf.FuncName == sf2.FuncName && ExprsEqual(sf.args, sf2.args)
}

// Eval implements Expression interface. Booleans are represented as 1 and 0,
// logic functions follow the three valued logic.
func (sf *ScalarFunction) Eval(row Row) (int64, bool) {
	switch sf.FuncName {
	case LogicAnd:
		l, lNull := sf.args[0].Eval(row)
		r, rNull := sf.args[1].Eval(row)
		if (!lNull && l == 0) || (!rNull && r == 0) {
			return 0, false
		}
		if lNull || rNull {
			return 0, true
		}
		return 1, false
	case LogicOr:
		l, lNull := sf.args[0].Eval(row)
		r, rNull := sf.args[1].Eval(row)
		if (!lNull && l != 0) || (!rNull && r != 0) {
			return 1, false
		}
		if lNull || rNull {
			return 0, true
		}
		return 0, false
	case UnaryNot:
		v, isNull := sf.args[0].Eval(row)
		if isNull {
			return 0, true
		}
		return boolToInt64(v == 0), false
	case IsNull:
		_, isNull := sf.args[0].Eval(row)
		return boolToInt64(isNull), false
	}
	l, lNull := sf.args[0].Eval(row)
	r, rNull := sf.args[1].Eval(row)
	if lNull || rNull {
		return 0, true
	}
	switch sf.FuncName {
	case EQ:
		return boolToInt64(l == r), false
	case NE:
		return boolToInt64(l != r), false
	case LT:
		return boolToInt64(l < r), false
	case LE:
		return boolToInt64(l <= r), false
	case GT:
		return boolToInt64(l > r), false
	case GE:
		return boolToInt64(l >= r), false
	case Plus:
		return l + r, false
	case Minus:
		return l - r, false
	case Mul:
		return l * r, false
	}
	return 0, true
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}
