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

package util

import "strings"

// StrBufferWriter is the interface used to desc the memo, tasks and plans.
type StrBufferWriter interface {
	WriteString(s string) (int, error)
	String() string
}

// NewStrBuffer returns a ready to use StrBufferWriter.
func NewStrBuffer() StrBufferWriter {
	return &strings.Builder{}
}
