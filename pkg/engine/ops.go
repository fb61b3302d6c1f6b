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
package engine

import (
	"bytes"
	"fmt"

	"github.com/consensys/go-eeprom/pkg/audit"
	"github.com/consensys/go-eeprom/pkg/checksum"
	"github.com/consensys/go-eeprom/pkg/memory"
	"github.com/consensys/go-eeprom/pkg/record"
	"github.com/consensys/go-eeprom/pkg/text"
)

// WriteByteAt writes a single byte.
func (e *Engine) WriteByteAt(address int, value byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return err
	} else if err := e.program(address, []byte{value}); err != nil {
		return e.report(err)
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("WRITE address=%d value=0x%02X cycles=%d", address, value, e.wear.Count(address)))

	return nil
}

// ReadByteAt reads a single byte.
func (e *Engine) ReadByteAt(address int) (byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	data, err := e.read(address, 1)
	if err != nil {
		return 0, err
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("READ address=%d value=0x%02X", address, data[0]))

	return data[0], nil
}

// WriteBlock writes a contiguous block of bytes.  The block is written as a
// whole: if any cell in it is out of range or exhausted, nothing is written.
func (e *Engine) WriteBlock(address int, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return err
	} else if err := e.program(address, data); err != nil {
		return e.report(err)
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("WRITE_BLOCK start=%d length=%d", address, len(data)))

	return nil
}

// ReadBlock reads a contiguous block of bytes.
func (e *Engine) ReadBlock(address, length int) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	data, err := e.read(address, length)
	if err != nil {
		return nil, err
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("READ_BLOCK start=%d length=%d", address, length))

	return data, nil
}

// WriteString writes some text followed by the terminator.  Both must fit on
// the device, otherwise nothing is written.
func (e *Engine) WriteString(address int, s string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return err
	}
	//
	data, err := text.EncodeTerminated(s)
	if err != nil {
		return e.report(err)
	} else if err = e.program(address, data); err != nil {
		return e.report(err)
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("WRITE_STRING '%s' at %d", s, address))

	return nil
}

// ReadString reads length bytes and returns the printable characters among
// them.  Reading does not stop at a terminator: the full length is scanned.
func (e *Engine) ReadString(address, length int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	data, err := e.read(address, length)
	if err != nil {
		return "", err
	}
	//
	s := text.Decode(data)
	e.sink.Record(audit.Info, fmt.Sprintf("READ_STRING '%s' from %d", s, address))

	return s, nil
}

// WriteRecord packs a record and writes it at a given address.
func (e *Engine) WriteRecord(address int, r record.Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return err
	} else if r.Layout() == nil {
		return e.report(fmt.Errorf("%w: record has no layout", record.ErrLengthMismatch))
	}
	//
	data, err := r.Layout().Pack(r)
	if err != nil {
		return e.report(err)
	} else if err = e.program(address, data); err != nil {
		return e.report(err)
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("WRITE_RECORD %s at %d", r, address))

	return nil
}

// ReadRecord reads and unpacks a record of a given layout.
func (e *Engine) ReadRecord(address int, layout *record.Layout) (record.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return record.Record{}, err
	} else if layout == nil {
		return record.Record{}, e.report(fmt.Errorf("%w: no layout given", record.ErrLengthMismatch))
	}
	//
	data, err := e.read(address, layout.Width())
	if err != nil {
		return record.Record{}, err
	}
	//
	r, err := layout.Unpack(data)
	if err != nil {
		return record.Record{}, e.report(err)
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("READ_RECORD %s from %d", r, address))

	return r, nil
}

// Checksum returns the sum, modulo 256, of a block of bytes.
func (e *Engine) Checksum(address, length int) (byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	data, err := e.read(address, length)
	if err != nil {
		return 0, err
	}
	//
	sum := checksum.Sum(data)
	e.sink.Record(audit.Info, fmt.Sprintf("CHECKSUM start=%d length=%d value=0x%02X", address, length, sum))

	return sum, nil
}

// Dump returns a block of bytes for display.
func (e *Engine) Dump(address, length int) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	data, err := e.read(address, length)
	if err != nil {
		return nil, err
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("Dumped EEPROM section %d-%d", address, address+length-1))

	return data, nil
}

// DeleteByte erases a single byte.  This is a write, hence it counts against
// the endurance of the cell.
func (e *Engine) DeleteByte(address int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return err
	} else if err := e.program(address, []byte{memory.Erased}); err != nil {
		return e.report(err)
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("Deleted single byte at address %d", address))

	return nil
}

// DeleteRange erases a contiguous block of bytes, as WriteBlock would.
func (e *Engine) DeleteRange(address, length int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return err
	} else if err := memory.CheckRange(address, length, e.config.Capacity); err != nil {
		return e.report(err)
	} else if err := e.program(address, bytes.Repeat([]byte{memory.Erased}, length)); err != nil {
		return e.report(err)
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("Deleted %d bytes from address %d", length, address))

	return nil
}

// DeleteAll erases every cell which does not already hold the erased value,
// and returns how many were erased.  Only those cells count a write.  If any
// of them is exhausted, nothing is erased.
func (e *Engine) DeleteAll() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return 0, err
	}
	//
	data, err := e.image.Read(0, e.config.Capacity)
	if err != nil {
		return 0, e.report(err)
	}
	//
	var written []int
	//
	for i, b := range data {
		if b != memory.Erased {
			if !e.wear.CanWrite(i) {
				return 0, e.report(e.wear.Exhausted(i))
			}
			//
			written = append(written, i)
			data[i] = memory.Erased
		}
	}
	//
	if len(written) > 0 {
		if err = e.image.Write(0, data); err != nil {
			return 0, e.report(err)
		} else if err = e.wear.RecordAll(written); err != nil {
			return 0, e.report(err)
		}
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("Deleted %d bytes of written data", len(written)))

	return len(written), nil
}

// ResetDevice erases the whole device, writes the seed text and zeroes every
// write count.
func (e *Engine) ResetDevice() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return err
	} else if err := e.image.Fill(memory.Erased, e.seed); err != nil {
		return e.report(err)
	} else if err := e.wear.Reset(); err != nil {
		return e.report(err)
	}
	//
	e.sink.Record(audit.Info, fmt.Sprintf("EEPROM fully reset with default text: '%s'", e.config.SeedText))

	return nil
}

// SeedText returns the text written by ResetDevice.
func (e *Engine) SeedText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	return e.config.SeedText
}

// SetSeedText changes the text written by subsequent resets.  The device
// itself is not modified.
func (e *Engine) SetSeedText(seed string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return err
	}
	//
	encoded, err := encodeSeed(seed, e.config.Capacity)
	if err != nil {
		return e.report(err)
	}
	//
	e.seed, e.config.SeedText = encoded, seed
	e.sink.Record(audit.Info, fmt.Sprintf("Default text changed to: '%s'", seed))

	return nil
}

// Wear summarises the endurance table of a device.
type Wear struct {
	// Ceiling is the maximum writes per cell.
	Ceiling uint
	// Total is the number of writes across all cells.
	Total uint64
	// Max is the highest count of any one cell.
	Max uint
	// Exhausted is the number of cells which accept no more writes.
	Exhausted int
}

// WriteCount returns the number of writes recorded for a given address.
func (e *Engine) WriteCount(address int) (uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return 0, err
	} else if err := memory.CheckRange(address, 1, e.config.Capacity); err != nil {
		return 0, err
	}
	//
	return e.wear.Count(address), nil
}

// Wear summarises how worn the device is.
func (e *Engine) Wear() (Wear, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	if err := e.ready(); err != nil {
		return Wear{}, err
	}
	//
	wear := Wear{Ceiling: e.wear.Ceiling()}
	//
	for i := 0; i < e.wear.Capacity(); i++ {
		count := e.wear.Count(i)
		wear.Total += uint64(count)
		wear.Max = max(wear.Max, count)
		//
		if !e.wear.CanWrite(i) {
			wear.Exhausted++
		}
	}
	//
	return wear, nil
}

// Write a contiguous range.  The range and the endurance of every cell in it
// are checked before anything is written; then the bytes are written, and
// finally the new counts are persisted.
func (e *Engine) program(address int, data []byte) error {
	if err := memory.CheckRange(address, len(data), e.config.Capacity); err != nil {
		return err
	} else if addr, ok := e.wear.CanWriteRange(address, len(data)); !ok {
		return e.wear.Exhausted(addr)
	} else if err := e.image.Write(address, data); err != nil {
		return err
	}
	//
	return e.wear.RecordWrites(address, len(data))
}

// Read a contiguous range, reporting failures.
func (e *Engine) read(address, length int) ([]byte, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	//
	data, err := e.image.Read(address, length)
	if err != nil {
		return nil, e.report(err)
	}
	//
	return data, nil
}
