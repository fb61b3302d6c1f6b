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
	"errors"
	"math/rand"
	"testing"

	"github.com/consensys/go-eeprom/pkg/util/assert"
)

func Test_Layout_01(t *testing.T) {
	assert.Equal(t, 4, CellLayout.Width())
	assert.Equal(t, 7, SampleLayout.Width())
	assert.Equal(t, 10, SensorLayout.Width())
	// Dense packing, no alignment padding
	assert.Equal(t, "sample{address:u16@0, value:u8@2, timestamp:u32@3}", SampleLayout.String())
	assert.Equal(t, 1, CellLayout.Offset(1))
	assert.Equal(t, 3, CellLayout.Offset(2))
}

func Test_Layout_02(t *testing.T) {
	raw, err := CellLayout.Pack(Cell{1, 0x1234, 0xAB}.Record())
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x34, 0x12, 0xAB}, raw)
	//
	raw, err = SampleLayout.Pack(Sample{0x0102, 7, 0x11223344}.Record())
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x01, 0x07, 0x44, 0x33, 0x22, 0x11}, raw)
}

func Test_Layout_03(t *testing.T) {
	_, err := CellLayout.Unpack([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	//
	_, err = CellLayout.Unpack([]byte{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrLengthMismatch)
	//
	var lerr *LengthError
	//
	assert.True(t, errors.As(err, &lerr))
	assert.Equal(t, 4, lerr.Expected)
	assert.Equal(t, 5, lerr.Actual)
	// Packing a record of another layout
	_, err = CellLayout.Pack(Sample{}.Record())
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = CellOf(Sample{}.Record())
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func Test_Layout_04(t *testing.T) {
	_, err := CellLayout.Record(1, 2)
	assert.True(t, err != nil)
	//
	_, err = CellLayout.Record(256, 0, 0)
	assert.ErrorIs(t, err, ErrOverflow)
	//
	r, err := CellLayout.Record(255, 65535, 255)
	assert.NoError(t, err)
	assert.True(t, r.Equal(Cell{255, 65535, 255}.Record()))
	assert.Equal(t, "cell{id=255, value=65535, flag=255}", r.String())
}

func Test_RoundTrip_01(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	//
	for n := 0; n < 1000; n++ {
		cell := Cell{uint8(rng.Uint32()), uint16(rng.Uint32()), uint8(rng.Uint32())}
		checkRoundTrip(t, CellLayout, cell.Record())
	}
}

func Test_RoundTrip_02(t *testing.T) {
	rng := rand.New(rand.NewSource(34))
	//
	for n := 0; n < 1000; n++ {
		sample := Sample{uint16(rng.Uint32()), uint8(rng.Uint32()), rng.Uint32()}
		checkRoundTrip(t, SampleLayout, sample.Record())
	}
}

func Test_RoundTrip_03(t *testing.T) {
	sensor := Sensor{123, 36.5, 78.2}
	raw := checkRoundTrip(t, SensorLayout, sensor.Record())
	//
	r, err := SensorLayout.Unpack(raw)
	assert.NoError(t, err)
	back, err := SensorOf(r)
	assert.NoError(t, err)
	assert.Equal(t, sensor, back)
	assert.Equal(t, float32(36.5), r.Float("temperature"))
}

func Test_View_01(t *testing.T) {
	raw := []byte{0, 0, 0, 0}
	view, err := CellLayout.View(raw)
	assert.NoError(t, err)
	// Writing through the field view is visible in the raw view
	assert.NoError(t, view.SetUint("value", 0xBEEF))
	assert.Equal(t, []byte{0, 0xEF, 0xBE, 0}, raw)
	// And vice versa
	raw[0] = 9
	assert.Equal(t, uint64(9), view.Uint("id"))
	assert.ErrorIs(t, view.SetUint("flag", 256), ErrOverflow)
	//
	cell, err := CellOf(view.Record())
	assert.NoError(t, err)
	assert.Equal(t, Cell{9, 0xBEEF, 0}, cell)
	//
	_, err = CellLayout.View(raw[:3])
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func Test_View_02(t *testing.T) {
	raw := make([]byte, SensorLayout.Width())
	view, _ := SensorLayout.View(raw)
	view.SetFloat("humidity", 100)
	// 100.0 is 0x42C80000
	assert.Equal(t, []byte{0x00, 0x00, 0xC8, 0x42}, raw[6:])
	assert.Equal(t, float32(100), view.Float("humidity"))
}

func Test_Union_01(t *testing.T) {
	u, err := NewUnion(4)
	assert.NoError(t, err)
	assert.NoError(t, u.SetInteger(0x42C80000))
	assert.Equal(t, 100.0, u.AsFloat())
	// Write float, read integer
	u.SetFloat(100.0)
	assert.Equal(t, uint64(0x42C80000), u.AsInteger())
}

func Test_Union_02(t *testing.T) {
	span := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	u, err := UnionOf(span)
	assert.NoError(t, err)
	assert.Equal(t, 8, u.Width())
	u.SetFloat(1.0)
	// The union aliases the span
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F}, span)
	assert.Equal(t, uint64(0x3FF0000000000000), u.AsInteger())
	//
	_, err = UnionOf(span[:3])
	assert.ErrorIs(t, err, ErrLengthMismatch)
	//
	u4, _ := NewUnion(4)
	assert.ErrorIs(t, u4.SetInteger(1<<32), ErrOverflow)
}

func Test_Union_03(t *testing.T) {
	for _, tc := range []struct {
		width    int
		expected int
	}{{0, 4}, {3, 4}, {5, 8}, {7, 8}, {9, 8}, {16, 8}} {
		_, err := UnionOf(make([]byte, tc.width))
		//
		var lerr *LengthError
		//
		assert.True(t, errors.As(err, &lerr), "width %d accepted", tc.width)
		assert.Equal(t, tc.expected, lerr.Expected)
		assert.Equal(t, tc.width, lerr.Actual)
	}
}

func Test_Lookup_01(t *testing.T) {
	assert.Equal(t, []string{"cell", "sample", "sensor"}, Names())
	l, ok := Lookup("sample")
	assert.True(t, ok)
	assert.True(t, l == SampleLayout)
	_, ok = Lookup("bogus")
	assert.False(t, ok)
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkRoundTrip(t *testing.T, layout *Layout, r Record) []byte {
	t.Helper()
	//
	raw, err := layout.Pack(r)
	assert.NoError(t, err)
	assert.Equal(t, layout.Width(), len(raw))
	//
	back, err := layout.Unpack(raw)
	assert.NoError(t, err)
	//
	if !back.Equal(r) {
		t.Fatalf("round trip failed: %s became %s", r, back)
	}

	return raw
}
