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
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/consensys/go-eeprom/pkg/memory"
	pkgErrors "github.com/pkg/errors"
)

// ErrExhausted indicates a write was refused because the cell had already
// reached the endurance ceiling.
var ErrExhausted = errors.New("endurance exhausted")

// ExhaustedError identifies the cell which refused a write.
type ExhaustedError struct {
	Address int
	Count   uint
	Ceiling uint
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("endurance exhausted at address %d (%d/%d writes)", e.Address, e.Count, e.Ceiling)
}

// Is allows errors.Is(err, ErrExhausted) to match an ExhaustedError.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// CounterWidth returns the number of bytes needed to persist a counter for a
// given ceiling.  Ceilings up to 255 need one byte per address, such that the
// store has exactly the same size as the image.
func CounterWidth(ceiling uint) int {
	switch {
	case ceiling <= math.MaxUint8:
		return 1
	case ceiling <= math.MaxUint16:
		return 2
	default:
		return 4
	}
}

// StoreSize returns the size of the store needed to hold a table for a given
// capacity and ceiling.
func StoreSize(capacity int, ceiling uint) int {
	return capacity * CounterWidth(ceiling)
}

// Table records how many writes each address of a device has received, and
// refuses writes to cells which have reached the ceiling.  Counts are persisted
// as little endian integers of CounterWidth() bytes each, one after the other
// in address order.  The table assumes a single owner: a check followed by a
// record must not be interleaved with other mutations.
type Table struct {
	store   memory.Store
	counts  []uint
	ceiling uint
	width   int
}

// NewTable constructs a table over a given store, loading any counts it
// already holds.  The store must have exactly StoreSize(capacity, ceiling)
// bytes.
func NewTable(store memory.Store, capacity int, ceiling uint) (*Table, error) {
	width := CounterWidth(ceiling)
	//
	if capacity < 0 || store.Size() != capacity*width {
		return nil, pkgErrors.Errorf("endurance store has %d bytes, expected %d", store.Size(), capacity*width)
	}
	//
	raw := make([]byte, store.Size())
	//
	if _, err := store.ReadAt(raw, 0); err != nil && len(raw) > 0 {
		return nil, pkgErrors.Wrap(err, "reading endurance store")
	}
	//
	table := &Table{store, make([]uint, capacity), ceiling, width}
	//
	for i := range table.counts {
		table.counts[i] = table.decode(raw[i*width:])
	}

	return table, nil
}

// WidthOf determines the counter width of a store holding a table for a given
// capacity, or false if its size fits no counter width.
func WidthOf(size int, capacity int) (int, bool) {
	if capacity <= 0 {
		return 0, false
	}
	//
	for _, width := range []int{1, 2, 4} {
		if size == capacity*width {
			return width, true
		}
	}

	return 0, false
}

// ReadCounts decodes the counts held by a store for a given capacity, whatever
// counter width it was written with.
func ReadCounts(store memory.Store, capacity int) ([]uint, error) {
	width, ok := WidthOf(store.Size(), capacity)
	if !ok {
		return nil, pkgErrors.Errorf("endurance store has %d bytes, not a table of %d counters", store.Size(), capacity)
	}
	//
	raw := make([]byte, store.Size())
	//
	if _, err := store.ReadAt(raw, 0); err != nil {
		return nil, pkgErrors.Wrap(err, "reading endurance store")
	}
	//
	reader := Table{width: width}
	counts := make([]uint, capacity)
	//
	for i := range counts {
		counts[i] = reader.decode(raw[i*width:])
	}

	return counts, nil
}

// Restore replaces every count of this table, and persists them.  Counts
// beyond the ceiling are capped at it, leaving those cells exhausted.
func (p *Table) Restore(counts []uint) error {
	if len(counts) != len(p.counts) {
		return pkgErrors.Errorf("restoring %d counts into table of %d", len(counts), len(p.counts))
	}
	//
	for i, c := range counts {
		p.counts[i] = min(c, p.ceiling)
	}
	//
	return p.persist(0, len(p.counts))
}

// Capacity returns the number of addresses tracked by this table.
func (p *Table) Capacity() int {
	return len(p.counts)
}

// Ceiling returns the maximum number of writes permitted for any address.
func (p *Table) Ceiling() uint {
	return p.ceiling
}

// Count returns the number of writes recorded for a given address, or zero for
// an address outside the table.
func (p *Table) Count(address int) uint {
	if address < 0 || address >= len(p.counts) {
		return 0
	}

	return p.counts[address]
}

// CanWrite determines whether a given address can accept another write.  An
// address outside the table cannot.
func (p *Table) CanWrite(address int) bool {
	if address < 0 || address >= len(p.counts) {
		return false
	}

	return p.counts[address] < p.ceiling
}

// CanWriteRange determines whether every address in a given range can accept
// another write.  If not, the first exhausted address is returned.
func (p *Table) CanWriteRange(address, length int) (int, bool) {
	for i := address; i < address+length; i++ {
		if !p.CanWrite(i) {
			return i, false
		}
	}

	return 0, true
}

// Exhausted constructs the error reported for a write refused at a given
// address.
func (p *Table) Exhausted(address int) error {
	return &ExhaustedError{address, p.Count(address), p.ceiling}
}

// RecordWrite records one write to a given address, and returns the new count.
func (p *Table) RecordWrite(address int) (uint, error) {
	if err := p.RecordWrites(address, 1); err != nil {
		return 0, err
	}

	return p.counts[address], nil
}

// RecordWrites records one write to every address in a contiguous range, and
// persists the affected counts.  Nothing is recorded if any cell in the range
// is exhausted.
func (p *Table) RecordWrites(address, length int) error {
	if err := memory.CheckRange(address, length, len(p.counts)); err != nil {
		return err
	} else if addr, ok := p.CanWriteRange(address, length); !ok {
		return p.Exhausted(addr)
	}
	//
	for i := address; i < address+length; i++ {
		p.counts[i]++
	}
	//
	if err := p.persist(address, length); err != nil {
		for i := address; i < address+length; i++ {
			p.counts[i]--
		}

		return err
	}

	return nil
}

// RecordAll records one write to every given address (in any order), and
// persists the table.  Nothing is recorded if any cell is exhausted.
func (p *Table) RecordAll(addresses []int) error {
	for _, addr := range addresses {
		if err := memory.CheckRange(addr, 1, len(p.counts)); err != nil {
			return err
		} else if !p.CanWrite(addr) {
			return p.Exhausted(addr)
		}
	}
	//
	for _, addr := range addresses {
		p.counts[addr]++
	}
	//
	if err := p.persist(0, len(p.counts)); err != nil {
		for _, addr := range addresses {
			p.counts[addr]--
		}

		return err
	}

	return nil
}

// Reset zeroes every count and persists the table.
func (p *Table) Reset() error {
	clear(p.counts)
	//
	return p.persist(0, len(p.counts))
}

// Close releases the underlying store.
func (p *Table) Close() error {
	return p.store.Close()
}

// Write the counts of a given address range through to the store.
func (p *Table) persist(address, length int) error {
	if length == 0 {
		return nil
	}
	//
	raw := make([]byte, length*p.width)
	//
	for i := 0; i < length; i++ {
		p.encode(raw[i*p.width:], p.counts[address+i])
	}
	//
	if _, err := p.store.WriteAt(raw, int64(address*p.width)); err != nil {
		return pkgErrors.Wrap(err, "writing endurance store")
	}

	return p.store.Sync()
}

func (p *Table) decode(raw []byte) uint {
	switch p.width {
	case 1:
		return uint(raw[0])
	case 2:
		return uint(binary.LittleEndian.Uint16(raw))
	default:
		return uint(binary.LittleEndian.Uint32(raw))
	}
}

func (p *Table) encode(raw []byte, count uint) {
	switch p.width {
	case 1:
		raw[0] = uint8(count)
	case 2:
		binary.LittleEndian.PutUint16(raw, uint16(count))
	default:
		binary.LittleEndian.PutUint32(raw, uint32(count))
	}
}
