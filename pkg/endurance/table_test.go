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
package endurance

import (
	"errors"
	"testing"

	"github.com/consensys/go-eeprom/pkg/memory"
	"github.com/consensys/go-eeprom/pkg/util/assert"
)

func Test_CounterWidth_01(t *testing.T) {
	assert.Equal(t, 1, CounterWidth(1))
	assert.Equal(t, 1, CounterWidth(255))
	assert.Equal(t, 2, CounterWidth(256))
	assert.Equal(t, 2, CounterWidth(1000))
	assert.Equal(t, 2, CounterWidth(65535))
	assert.Equal(t, 4, CounterWidth(65536))
	assert.Equal(t, 1024, StoreSize(1024, 100))
	assert.Equal(t, 2048, StoreSize(1024, 1000))
}

func Test_Table_01(t *testing.T) {
	table := newTestTable(t, 8, 3)
	//
	for i := uint(1); i <= 3; i++ {
		assert.True(t, table.CanWrite(2))
		count, err := table.RecordWrite(2)
		assert.NoError(t, err)
		assert.Equal(t, i, count)
	}
	// The ceiling has been reached
	assert.False(t, table.CanWrite(2))
	count, err := table.RecordWrite(2)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, uint(3), count)
	// Other cells are unaffected
	assert.True(t, table.CanWrite(1))
	assert.Equal(t, uint(0), table.Count(1))
}

func Test_Table_02(t *testing.T) {
	table := newTestTable(t, 8, 2)
	//
	assert.NoError(t, table.RecordWrites(4, 2))
	assert.NoError(t, table.RecordWrites(5, 1))
	// Cell 5 is now exhausted, so the whole range is refused
	err := table.RecordWrites(3, 3)
	//
	var exhausted *ExhaustedError
	//
	assert.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 5, exhausted.Address)
	assert.Equal(t, uint(2), exhausted.Count)
	assert.Equal(t, uint(0), table.Count(3))
	assert.Equal(t, uint(1), table.Count(4))
	//
	addr, ok := table.CanWriteRange(0, 8)
	assert.False(t, ok)
	assert.Equal(t, 5, addr)
	// Out of range
	assert.ErrorIs(t, table.RecordWrites(7, 2), memory.ErrOutOfRange)
}

func Test_Table_03(t *testing.T) {
	buf := memory.NewBuffer(StoreSize(4, 1000))
	table, err := NewTable(buf, 4, 1000)
	assert.NoError(t, err)
	// Counts above 255 survive a reload
	for n := 0; n < 300; n++ {
		_, err := table.RecordWrite(1)
		assert.NoError(t, err)
	}
	//
	assert.Equal(t, []byte{0, 0, 44, 1, 0, 0, 0, 0}, buf.Bytes())
	//
	reloaded, err := NewTable(buf, 4, 1000)
	assert.NoError(t, err)
	assert.Equal(t, uint(300), reloaded.Count(1))
	// Reset zeroes and persists
	assert.NoError(t, reloaded.Reset())
	assert.Equal(t, make([]byte, 8), buf.Bytes())
	assert.Equal(t, uint(0), reloaded.Count(1))
}

func Test_Table_04(t *testing.T) {
	buf := memory.NewBuffer(4)
	table, err := NewTable(buf, 4, 10)
	assert.NoError(t, err)
	//
	assert.NoError(t, table.RecordAll([]int{0, 3}))
	assert.Equal(t, []byte{1, 0, 0, 1}, buf.Bytes())
	//
	_, err = NewTable(buf, 4, 1000)
	assert.True(t, err != nil, "mismatched store size accepted")
}

func Test_Table_05(t *testing.T) {
	table := newTestTable(t, 4, 1)
	assert.NoError(t, table.RecordAll([]int{1}))
	// Nothing recorded when one cell is exhausted
	err := table.RecordAll([]int{0, 1, 2})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, uint(0), table.Count(0))
	assert.Equal(t, uint(0), table.Count(2))
}

func Test_Table_06(t *testing.T) {
	table := newTestTable(t, 16, 10)
	// Addresses just outside the table
	for _, addr := range []int{-1, 16} {
		count, err := table.RecordWrite(addr)
		assert.ErrorIs(t, err, memory.ErrOutOfRange)
		assert.Equal(t, uint(0), count)
		assert.Equal(t, uint(0), table.Count(addr))
		assert.False(t, table.CanWrite(addr))
	}
	// Nothing was recorded
	for i := 0; i < 16; i++ {
		assert.Equal(t, uint(0), table.Count(i))
	}
}

func Test_Table_07(t *testing.T) {
	// Two byte counters, written under a ceiling of 1000
	old := newTestTable(t, 4, 1000)
	assert.NoError(t, old.RecordAll([]int{0, 1, 1, 3}))
	//
	for n := 0; n < 300; n++ {
		_, err := old.RecordWrite(2)
		assert.NoError(t, err)
	}
	//
	width, ok := WidthOf(old.store.Size(), 4)
	assert.True(t, ok)
	assert.Equal(t, 2, width)
	//
	counts, err := ReadCounts(old.store, 4)
	assert.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 300, 1}, counts)
	// Restored into one byte counters, capped at the new ceiling
	table := newTestTable(t, 4, 200)
	assert.NoError(t, table.Restore(counts))
	assert.Equal(t, uint(2), table.Count(1))
	assert.Equal(t, uint(200), table.Count(2))
	assert.False(t, table.CanWrite(2))
	assert.Equal(t, []byte{1, 2, 200, 1}, table.store.(*memory.Buffer).Bytes())
	//
	_, ok = WidthOf(7, 4)
	assert.False(t, ok)
	_, err = ReadCounts(memory.NewBuffer(7), 4)
	assert.True(t, err != nil)
}

// ===================================================================
// Test Helpers
// ===================================================================

func newTestTable(t *testing.T, capacity int, ceiling uint) *Table {
	table, err := NewTable(memory.NewBuffer(StoreSize(capacity, ceiling)), capacity, ceiling)
	assert.NoError(t, err)

	return table
}
