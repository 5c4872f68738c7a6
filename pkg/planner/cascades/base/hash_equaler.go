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
	"encoding/binary"
	"math"

	"github.com/dgryski/go-farm"
)

// Hasher is the interface for computing hash values of different types.
// Values are appended to an internal buffer in order, Sum64 fingerprints the whole buffer.
type Hasher interface {
	HashBool(val bool)
	HashInt(val int)
	HashInt64(val int64)
	HashUint64(val uint64)
	HashFloat64(val float64)
	HashString(val string)
	HashByte(val byte)
	HashBytes(val []byte)
	Reset()
	Sum64() uint64
}

// HashEquals is the interface for hash64 and equals inside parser pkg.
type HashEquals interface {
	// Hash64 returns the uint64 digest of an object.
	Hash64(h Hasher)
	// Equals checks whether two base objects are equal.
	Equals(other any) bool
}

// hasher is the default implementation of Hasher.
type hasher struct {
	buf []byte
}

const defaultHashBufSize = 64

// NewHashEqualer creates a new Hasher.
func NewHashEqualer() Hasher {
	return &hasher{
		buf: make([]byte, 0, defaultHashBufSize),
	}
}

// HashBool implements the Hasher interface.
func (h *hasher) HashBool(val bool) {
	if val {
		h.buf = append(h.buf, 1)
	} else {
		h.buf = append(h.buf, 0)
	}
}

// HashInt implements the Hasher interface.
func (h *hasher) HashInt(val int) {
	h.HashInt64(int64(val))
}

// HashInt64 implements the Hasher interface.
func (h *hasher) HashInt64(val int64) {
	h.buf = binary.BigEndian.AppendUint64(h.buf, uint64(val))
}

// HashUint64 implements the Hasher interface.
func (h *hasher) HashUint64(val uint64) {
	h.buf = binary.BigEndian.AppendUint64(h.buf, val)
}

// HashFloat64 implements the Hasher interface.
func (h *hasher) HashFloat64(val float64) {
	h.buf = binary.BigEndian.AppendUint64(h.buf, math.Float64bits(val))
}

// HashString implements the Hasher interface.
// The length is hashed first so that adjacent strings can not be confused.
func (h *hasher) HashString(val string) {
	h.HashInt(len(val))
	h.buf = append(h.buf, val...)
}

// HashByte implements the Hasher interface.
func (h *hasher) HashByte(val byte) {
	h.buf = append(h.buf, val)
}

// HashBytes implements the Hasher interface.
func (h *hasher) HashBytes(val []byte) {
	h.HashInt(len(val))
	h.buf = append(h.buf, val...)
}

// Reset implements the Hasher interface.
func (h *hasher) Reset() {
	h.buf = h.buf[:0]
}

// Sum64 implements the Hasher interface.
func (h *hasher) Sum64() uint64 {
	return farm.Fingerprint64(h.buf)
}
