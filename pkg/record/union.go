// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package record

import (
	"encoding/binary"
	"math"
)

// Union is a byte span of four or eight bytes which can be read and written
// either as an unsigned integer or as an IEEE-754 float of the same width.
// Both interpretations share the span: writing one and reading the other
// reinterprets the bits without any conversion or copy.
type Union []byte

// NewUnion constructs a zeroed union of a given width (4 or 8).
func NewUnion(width int) (Union, error) {
	return UnionOf(make([]byte, width))
}

// UnionOf views an existing span of 4 or 8 bytes as a union.  The union aliases
// the span.
func UnionOf(span []byte) (Union, error) {
	switch len(span) {
	case 4, 8:
		return Union(span), nil
	case 0, 1, 2, 3:
		return nil, &LengthError{"union", 4, len(span)}
	default:
		return nil, &LengthError{"union", 8, len(span)}
	}
}

// Width returns the number of bytes in this union.
func (u Union) Width() int {
	return len(u)
}

// AsInteger reads the span as a little endian unsigned integer.
func (u Union) AsInteger() uint64 {
	if len(u) == 4 {
		return uint64(binary.LittleEndian.Uint32(u))
	}

	return binary.LittleEndian.Uint64(u)
}

// AsFloat reads the span as a little endian IEEE-754 float.
func (u Union) AsFloat() float64 {
	if len(u) == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(u)))
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(u))
}

// SetInteger writes an unsigned integer into the span.
func (u Union) SetInteger(value uint64) error {
	if len(u) == 4 {
		if value > math.MaxUint32 {
			return ErrOverflow
		}
		//
		binary.LittleEndian.PutUint32(u, uint32(value))
	} else {
		binary.LittleEndian.PutUint64(u, value)
	}

	return nil
}

// SetFloat writes a float into the span.  A four byte union holds a single
// precision float, so the value is rounded accordingly.
func (u Union) SetFloat(value float64) {
	if len(u) == 4 {
		binary.LittleEndian.PutUint32(u, math.Float32bits(float32(value)))
	} else {
		binary.LittleEndian.PutUint64(u, math.Float64bits(value))
	}
}
