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
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrLengthMismatch indicates a byte span whose width differs from that of the
// layout (or union) it is being decoded with.
var ErrLengthMismatch = errors.New("length mismatch")

// ErrOverflow indicates a field value which does not fit the width of the
// field.
var ErrOverflow = errors.New("value does not fit field")

// LengthError records the expected and actual widths of a mismatched span.
type LengthError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s: expected %d bytes, got %d", e.Name, e.Expected, e.Actual)
}

// Is allows errors.Is(err, ErrLengthMismatch) to match a LengthError.
func (e *LengthError) Is(target error) bool {
	return target == ErrLengthMismatch
}

// Kind determines the encoding of a single field.  All kinds are fixed width
// and little endian.
type Kind uint8

const (
	// Uint8 is a one byte unsigned integer.
	Uint8 Kind = iota
	// Uint16 is a two byte unsigned integer.
	Uint16
	// Uint32 is a four byte unsigned integer.
	Uint32
	// Float32 is a four byte IEEE-754 single precision float.
	Float32
)

// Width returns the number of bytes occupied by a field of this kind.
func (k Kind) Width() int {
	switch k {
	case Uint8:
		return 1
	case Uint16:
		return 2
	case Uint32, Float32:
		return 4
	}
	//
	panic(fmt.Sprintf("unknown field kind %d", k))
}

func (k Kind) String() string {
	switch k {
	case Uint8:
		return "u8"
	case Uint16:
		return "u16"
	case Uint32:
		return "u32"
	case Float32:
		return "f32"
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// max returns the largest raw value a field of this kind can hold.
func (k Kind) max() uint64 {
	return uint64(1)<<(8*k.Width()) - 1
}

// Field is a named, typed member of a layout.
type Field struct {
	Name string
	Kind Kind
}

// Layout describes the byte exact representation of a record.  Fields are
// packed densely in declaration order, so the offset of a field is the sum of
// the widths of all fields before it.  Nothing depends on how Go itself would
// lay out an equivalent struct.
type Layout struct {
	name    string
	fields  []Field
	offsets []int
	width   int
}

// NewLayout constructs a layout from a sequence of fields.  Field names must be
// unique.
func NewLayout(name string, fields ...Field) *Layout {
	offsets := make([]int, len(fields))
	width := 0
	//
	for i, f := range fields {
		for _, g := range fields[:i] {
			if g.Name == f.Name {
				panic(fmt.Sprintf("duplicate field %s in layout %s", f.Name, name))
			}
		}
		//
		offsets[i] = width
		width += f.Kind.Width()
	}
	//
	return &Layout{name, fields, offsets, width}
}

// Name returns the name of this layout.
func (l *Layout) Name() string {
	return l.name
}

// Width returns the number of bytes in a packed record of this layout.
func (l *Layout) Width() int {
	return l.width
}

// Fields returns the fields of this layout in declaration order.
func (l *Layout) Fields() []Field {
	return l.fields
}

// Offset returns the byte offset of the ith field.
func (l *Layout) Offset(i int) int {
	return l.offsets[i]
}

// Index returns the position of a named field.
func (l *Layout) Index(name string) (int, bool) {
	for i, f := range l.fields {
		if f.Name == name {
			return i, true
		}
	}

	return 0, false
}

func (l *Layout) String() string {
	var builder strings.Builder
	//
	builder.WriteString(l.name)
	builder.WriteString("{")
	//
	for i, f := range l.fields {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, "%s:%s@%d", f.Name, f.Kind, l.offsets[i])
	}
	//
	builder.WriteString("}")

	return builder.String()
}

// Record constructs a record of this layout from the raw value of each field,
// given in declaration order.  Float fields take their IEEE-754 bits (see
// FloatBits).
func (l *Layout) Record(values ...uint64) (Record, error) {
	if len(values) != len(l.fields) {
		return Record{}, fmt.Errorf("%s: expected %d fields, got %d", l.name, len(l.fields), len(values))
	}
	//
	for i, v := range values {
		if v > l.fields[i].Kind.max() {
			return Record{}, fmt.Errorf("%s.%s: %w (%d)", l.name, l.fields[i].Name, ErrOverflow, v)
		}
	}
	//
	return Record{l, append([]uint64(nil), values...)}, nil
}

// Pack serialises a record into exactly Width() bytes.
func (l *Layout) Pack(r Record) ([]byte, error) {
	if r.layout != l {
		return nil, &LengthError{l.name, l.width, r.Width()}
	}
	//
	raw := make([]byte, l.width)
	//
	for i, f := range l.fields {
		put(f.Kind, raw[l.offsets[i]:], r.values[i])
	}
	//
	return raw, nil
}

// Unpack deserialises a record from exactly Width() bytes.
func (l *Layout) Unpack(raw []byte) (Record, error) {
	if len(raw) != l.width {
		return Record{}, &LengthError{l.name, l.width, len(raw)}
	}
	//
	values := make([]uint64, len(l.fields))
	//
	for i, f := range l.fields {
		values[i] = get(f.Kind, raw[l.offsets[i]:])
	}
	//
	return Record{l, values}, nil
}

// View reinterprets a byte span of exactly Width() bytes as a record of this
// layout, without copying it.
func (l *Layout) View(raw []byte) (View, error) {
	if len(raw) != l.width {
		return View{}, &LengthError{l.name, l.width, len(raw)}
	}

	return View{l, raw}, nil
}

// FloatBits returns the raw representation of a float field value.
func FloatBits(f float32) uint64 {
	return uint64(math.Float32bits(f))
}

func put(kind Kind, raw []byte, value uint64) {
	switch kind {
	case Uint8:
		raw[0] = uint8(value)
	case Uint16:
		binary.LittleEndian.PutUint16(raw, uint16(value))
	default:
		binary.LittleEndian.PutUint32(raw, uint32(value))
	}
}

func get(kind Kind, raw []byte) uint64 {
	switch kind {
	case Uint8:
		return uint64(raw[0])
	case Uint16:
		return uint64(binary.LittleEndian.Uint16(raw))
	default:
		return uint64(binary.LittleEndian.Uint32(raw))
	}
}
