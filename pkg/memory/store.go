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
package memory

import (
	"io"
)

// Store is the persistent medium underneath a device.  A store has a fixed
// size and never grows.  Sync must not return until every completed WriteAt
// is durable.  The memory-mapped files in pkg/mmap satisfy this interface.
type Store interface {
	io.ReaderAt
	io.WriterAt
	// Size returns the number of bytes held in this store.
	Size() int
	// Sync makes all completed writes durable.
	Sync() error
	// Close releases the store.
	Close() error
}

// Buffer is a volatile Store held in memory.
type Buffer struct {
	data []byte
}

// NewBuffer constructs a zeroed buffer of a given size.
func NewBuffer(size int) *Buffer {
	return &Buffer{make([]byte, size)}
}

// Size implementation for Store interface.
func (b *Buffer) Size() int {
	return len(b.data)
}

// Bytes returns the underlying bytes of this buffer (not a copy).
func (b *Buffer) Bytes() []byte {
	return b.data
}

// ReadAt implementation for io.ReaderAt interface.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b.data)) {
		return 0, io.EOF
	}

	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// WriteAt implementation for io.WriterAt interface.
func (b *Buffer) WriteAt(p []byte, off int64) (int, error) {
	if err := CheckRange(int(off), len(p), len(b.data)); err != nil {
		return 0, err
	}

	return copy(b.data[off:], p), nil
}

// Sync implementation for Store interface.
func (b *Buffer) Sync() error {
	return nil
}

// Close implementation for Store interface.  A buffer retains its contents
// after being closed, so it can be handed to a new device.
func (b *Buffer) Close() error {
	return nil
}
