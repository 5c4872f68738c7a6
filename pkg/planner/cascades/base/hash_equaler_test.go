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

package base

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasher(t *testing.T) {
	h := NewHashEqualer()
	h.HashString("ab")
	h.HashString("c")
	sum1 := h.Sum64()

	h.Reset()
	h.HashString("a")
	h.HashString("bc")
	sum2 := h.Sum64()
	require.NotEqual(t, sum1, sum2)

	h.Reset()
	h.HashString("ab")
	h.HashString("c")
	require.Equal(t, sum1, h.Sum64())

	h.Reset()
	h.HashInt64(1)
	h.HashBool(true)
	h.HashFloat64(1.5)
	sum3 := h.Sum64()
	h.Reset()
	h.HashInt64(1)
	h.HashBool(false)
	h.HashFloat64(1.5)
	require.NotEqual(t, sum3, h.Sum64())
}
