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
	"strconv"

	"github.com/pingcap/cascades/pkg/planner/cascades/base"
)

var _ Expression = &Constant{}

// Constant stands for a constant value.
type Constant struct {
	Value  int64
	IsNull bool
}

// NewInt64Const stands for constant of a given number.
func NewInt64Const(num int64) *Constant {
	return &Constant{Value: num}
}

// NewNull stands for null constant.
func NewNull() *Constant {
	return &Constant{IsNull: true}
}

// String implements fmt.Stringer interface.
func (c *Constant) String() string {
	if c.IsNull {
		return "<nil>"
	}
	return strconv.FormatInt(c.Value, 10)
}

// Eval implements Expression interface.
func (c *Constant) Eval(Row) (int64, bool) {
	return c.Value, c.IsNull
}

// Clone implements Expression interface.
func (c *Constant) Clone() Expression {
	con := *c
	return &con
}

// Hash64 implements HashEquals.<0th> interface.
func (c *Constant) Hash64(h base.Hasher) {
	h.HashByte(constantFlag)
	h.HashBool(c.IsNull)
	h.HashInt64(c.Value)
}

// Equals implements HashEquals.<1st> interface.
func (c *Constant) Equals(other any) bool {
	c2, ok := other.(*Constant)
	if !ok || c2 == nil {
		return false
	}
	return c.IsNull == c2.IsNull && c.Value == c2.Value
}
