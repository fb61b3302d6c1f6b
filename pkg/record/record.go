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
	"fmt"
	"math"
	"slices"
	"strings"
)

// Record is a decoded instance of a layout: one raw value per field.  Records
// are immutable, and only exist as a view over bytes read from (or about to be
// written to) a device.
type Record struct {
	layout *Layout
	values []uint64
}

// Layout returns the layout of this record.
func (r Record) Layout() *Layout {
	return r.layout
}

// Width returns the packed width of this record (0 for the zero record).
func (r Record) Width() int {
	if r.layout == nil {
		return 0
	}

	return r.layout.width
}

// Uint returns the raw value of a named field.
func (r Record) Uint(name string) uint64 {
	return r.values[r.index(name)]
}

// Float returns the value of a named float field.
func (r Record) Float(name string) float32 {
	return math.Float32frombits(uint32(r.values[r.index(name)]))
}

// Values returns a copy of the raw field values in declaration order.
func (r Record) Values() []uint64 {
	return slices.Clone(r.values)
}

// Equal determines whether two records have the same layout and field values.
func (r Record) Equal(other Record) bool {
	return r.layout == other.layout && slices.Equal(r.values, other.values)
}

func (r Record) String() string {
	if r.layout == nil {
		return "{}"
	}
	//
	var builder strings.Builder
	//
	builder.WriteString(r.layout.name)
	builder.WriteString("{")
	//
	for i, f := range r.layout.fields {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		if f.Kind == Float32 {
			fmt.Fprintf(&builder, "%s=%g", f.Name, math.Float32frombits(uint32(r.values[i])))
		} else {
			fmt.Fprintf(&builder, "%s=%d", f.Name, r.values[i])
		}
	}
	//
	builder.WriteString("}")

	return builder.String()
}

func (r Record) index(name string) int {
	if r.layout != nil {
		if i, ok := r.layout.Index(name); ok {
			return i
		}
	}
	//
	panic(fmt.Sprintf("unknown field %s in record %s", name, r))
}

// View is a byte span seen through a layout.  Reading a field decodes it from
// the span, and setting a field encodes it straight into the span, so the raw
// bytes and the fields are two interpretations of the same storage (as with a
// C union of a struct and a byte array).
type View struct {
	layout *Layout
	raw    []byte
}

// Raw returns the underlying byte span (not a copy).
func (v View) Raw() []byte {
	return v.raw
}

// Uint decodes a named field from the span.
func (v View) Uint(name string) uint64 {
	i := v.index(name)
	//
	return get(v.layout.fields[i].Kind, v.raw[v.layout.offsets[i]:])
}

// SetUint encodes a value into a named field of the span.
func (v View) SetUint(name string, value uint64) error {
	i := v.index(name)
	f := v.layout.fields[i]
	//
	if value > f.Kind.max() {
		return fmt.Errorf("%s.%s: %w (%d)", v.layout.name, f.Name, ErrOverflow, value)
	}
	//
	put(f.Kind, v.raw[v.layout.offsets[i]:], value)

	return nil
}

// Float decodes a named float field from the span.
func (v View) Float(name string) float32 {
	return math.Float32frombits(uint32(v.Uint(name)))
}

// SetFloat encodes a float into a named field of the span.
func (v View) SetFloat(name string, value float32) {
	i := v.index(name)
	put(Float32, v.raw[v.layout.offsets[i]:], FloatBits(value))
}

// Record decodes every field of the span.
func (v View) Record() Record {
	r, _ := v.layout.Unpack(v.raw)
	return r
}

func (v View) index(name string) int {
	if i, ok := v.layout.Index(name); ok {
		return i
	}
	//
	panic(fmt.Sprintf("unknown field %s in layout %s", name, v.layout.name))
}
