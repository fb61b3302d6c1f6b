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
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/consensys/go-eeprom/pkg/memory"
	"github.com/consensys/go-eeprom/pkg/mmap"
	pkgErrors "github.com/pkg/errors"
)

// ImageStore names the store holding the contents of the device.
const ImageStore = "eeprom.bin"

// EnduranceStore names the store holding the write counts of the device.
const EnduranceStore = "write_cycles.bin"

// Backend provides the named stores persisting a device.
type Backend interface {
	// Load opens an existing store, which must have exactly size bytes.  A
	// missing store is reported with an error matching fs.ErrNotExist, and one
	// of the wrong size with a StoreError.
	Load(name string, size int) (memory.Store, error)
	// Create creates (or replaces) a store of size zero bytes.
	Create(name string, size int) (memory.Store, error)
}

// FileBackend keeps each store in a memory-mapped file within a directory.
type FileBackend struct {
	Dir string
}

// Path returns the file holding a given store.
func (p FileBackend) Path(name string) string {
	return filepath.Join(p.Dir, name)
}

// Load implementation for the Backend interface.
func (p FileBackend) Load(name string, size int) (memory.Store, error) {
	path := p.Path(name)
	//
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	} else if info.Size() != int64(size) {
		return nil, &StoreError{path, info.Size(), size}
	}
	//
	file, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// Create implementation for the Backend interface.
func (p FileBackend) Create(name string, size int) (memory.Store, error) {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to create directory %#v", p.Dir)
	}
	//
	file, err := mmap.Create(p.Path(name), size)
	if err != nil {
		return nil, err
	}

	return file, nil
}

// MemoryBackend keeps stores in process memory.  Stores survive the engine
// which created them, so a later engine over the same backend sees the
// previous contents, as if reopening files.
type MemoryBackend struct {
	mu     sync.Mutex
	stores map[string]*memory.Buffer
}

// NewMemoryBackend constructs an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{stores: make(map[string]*memory.Buffer)}
}

// Load implementation for the Backend interface.
func (p *MemoryBackend) Load(name string, size int) (memory.Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	buf, ok := p.stores[name]
	if !ok {
		return nil, &fs.PathError{Op: "load", Path: name, Err: fs.ErrNotExist}
	} else if buf.Size() != size {
		return nil, &StoreError{name, int64(buf.Size()), size}
	}
	//
	return buf, nil
}

// Create implementation for the Backend interface.
func (p *MemoryBackend) Create(name string, size int) (memory.Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	buf := memory.NewBuffer(size)
	p.stores[name] = buf
	//
	return buf, nil
}

// Put replaces the contents of a store.
func (p *MemoryBackend) Put(name string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	buf := memory.NewBuffer(len(data))
	copy(buf.Bytes(), data)
	p.stores[name] = buf
}

// Bytes returns the current contents of a store, or nil if it does not exist.
func (p *MemoryBackend) Bytes(name string) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	if buf, ok := p.stores[name]; ok {
		return buf.Bytes()
	}
	//
	return nil
}
