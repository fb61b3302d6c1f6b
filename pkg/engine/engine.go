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
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/consensys/go-eeprom/pkg/audit"
	"github.com/consensys/go-eeprom/pkg/endurance"
	"github.com/consensys/go-eeprom/pkg/memory"
	log "github.com/sirupsen/logrus"
)

type state uint8

const (
	uninitialised state = iota
	ready
	closed
)

// Engine is an emulated EEPROM.  It owns the image of the device and the
// endurance table tracking how often each cell was written, and exposes the
// byte, block, string and record operations over them.  An engine starts out
// uninitialised, becomes ready once opened and is closed for good by Close.
//
// Every operation holds a single lock for its whole duration, so the check of
// the endurance table and the write that follows it cannot be interleaved.
// Only one engine may use a given backend at a time: nothing guards against
// another process opening the same files.
type Engine struct {
	mu      sync.Mutex
	config  Config
	backend Backend
	sink    audit.Sink
	state   state
	// Encoded seed text, plus terminator
	seed      []byte
	image     *memory.Image
	wear      *endurance.Table
	recovered error
}

// New constructs an uninitialised engine.  Activity is reported to the given
// sink, which may be nil.
func New(config Config, backend Backend, sink audit.Sink) *Engine {
	if sink == nil {
		sink = audit.Discard
	}
	//
	return &Engine{config: config, backend: backend, sink: sink}
}

// Open constructs an engine and opens it.
func Open(config Config, backend Backend, sink audit.Sink) (*Engine, error) {
	e := New(config, backend, sink)
	//
	if err := e.Open(); err != nil {
		return nil, err
	}
	//
	return e, nil
}

// Open loads the device from its backend, initialising it first when no
// stores exist.  An endurance store written under a ceiling of another counter
// width is migrated to the configured one.  Stores of any other wrong size are
// treated as missing, discarding their contents, unless the configuration is
// strict in which case ErrCorruptStore is returned.
func (e *Engine) Open() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	switch e.state {
	case ready:
		return errors.New("engine already open")
	case closed:
		return ErrClosed
	}
	//
	if err := e.config.Validate(); err != nil {
		return err
	}
	// Validated above
	e.seed, _ = e.config.seed()
	//
	switch err := e.load(); {
	case err == nil:
		log.Debugf("loaded %d byte device", e.config.Capacity)
		e.sink.Record(audit.Info, "EEPROM loaded successfully")
	case errors.Is(err, ErrCorruptStore) && e.config.Strict:
		return err
	case errors.Is(err, ErrCorruptStore) || errors.Is(err, fs.ErrNotExist):
		if errors.Is(err, ErrCorruptStore) {
			log.Warnf("%v (reinitialising device)", err)
			e.sink.Record(audit.Warning, fmt.Sprintf("Discarding corrupt store: %v", err))
			e.recovered = err
		}
		//
		if err = e.create(); err != nil {
			return err
		}
		//
		log.Debugf("initialised %d byte device", e.config.Capacity)
		e.sink.Record(audit.Info, fmt.Sprintf("EEPROM initialized fresh with default text: '%s'", e.config.SeedText))
	default:
		return err
	}
	//
	e.state = ready

	return nil
}

// Load both stores, failing if either is missing or of the wrong size.
func (e *Engine) load() error {
	capacity := e.config.Capacity
	//
	imageStore, err := e.backend.Load(ImageStore, capacity)
	if err != nil {
		return err
	}
	//
	wear, err := e.loadWear()
	if err != nil {
		_ = imageStore.Close()
		return err
	}
	//
	e.image, e.wear = memory.NewImage(imageStore), wear

	return nil
}

// Load the endurance table.  A table persisted with another counter width (i.e.
// under a different ceiling) is migrated rather than reported as corrupt.
func (e *Engine) loadWear() (*endurance.Table, error) {
	capacity, ceiling := e.config.Capacity, e.config.EnduranceCeiling
	//
	store, err := e.backend.Load(EnduranceStore, endurance.StoreSize(capacity, ceiling))
	//
	var serr *StoreError
	//
	if errors.As(err, &serr) {
		if _, ok := endurance.WidthOf(int(serr.Size), capacity); ok {
			return e.migrateWear(int(serr.Size))
		}
	}
	//
	if err != nil {
		return nil, err
	}
	//
	wear, err := endurance.NewTable(store, capacity, ceiling)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return wear, nil
}

// Rewrite an endurance store of a given size with the counter width of the
// configured ceiling, keeping every count (capped at the ceiling).
func (e *Engine) migrateWear(size int) (*endurance.Table, error) {
	capacity, ceiling := e.config.Capacity, e.config.EnduranceCeiling
	//
	old, err := e.backend.Load(EnduranceStore, size)
	if err != nil {
		return nil, err
	}
	// Counts must be read out before the store is replaced
	counts, err := endurance.ReadCounts(old, capacity)
	if cerr := old.Close(); err == nil {
		err = cerr
	}
	//
	if err != nil {
		return nil, err
	}
	//
	store, err := e.backend.Create(EnduranceStore, endurance.StoreSize(capacity, ceiling))
	if err != nil {
		return nil, err
	}
	//
	wear, err := endurance.NewTable(store, capacity, ceiling)
	if err == nil {
		err = wear.Restore(counts)
	}
	//
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	//
	width := endurance.CounterWidth(ceiling)
	log.Infof("migrated endurance store from %d to %d byte counters", size/capacity, width)
	e.sink.Record(audit.Warning, fmt.Sprintf("Endurance store migrated to %d byte counters for ceiling %d",
		width, ceiling))

	return wear, nil
}

// Create both stores afresh: an erased (and seeded) image, and a zeroed table.
func (e *Engine) create() error {
	capacity, ceiling := e.config.Capacity, e.config.EnduranceCeiling
	//
	imageStore, err := e.backend.Create(ImageStore, capacity)
	if err != nil {
		return err
	}
	//
	image := memory.NewImage(imageStore)
	//
	if err = image.Fill(memory.Erased, e.seed); err != nil {
		_ = image.Close()
		return err
	}
	//
	wearStore, err := e.backend.Create(EnduranceStore, endurance.StoreSize(capacity, ceiling))
	if err != nil {
		_ = image.Close()
		return err
	}
	//
	wear, err := endurance.NewTable(wearStore, capacity, ceiling)
	if err == nil {
		err = wear.Reset()
	}
	//
	if err != nil {
		_ = image.Close()
		_ = wearStore.Close()

		return err
	}
	//
	e.image, e.wear = image, wear

	return nil
}

// Close releases the stores of this engine.  Every later operation fails with
// ErrClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	switch e.state {
	case closed:
		return ErrClosed
	case uninitialised:
		e.state = closed
		return nil
	}
	//
	e.state = closed
	err := e.image.Close()
	//
	if werr := e.wear.Close(); err == nil {
		err = werr
	}
	//
	e.sink.Record(audit.Info, "EEPROM closed")

	return err
}

// Recovered returns the reason the device was reinitialised when it was
// opened, or nil if its stores were loaded (or did not exist yet).
func (e *Engine) Recovered() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	return e.recovered
}

// Config returns the configuration of this engine.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	//
	return e.config
}

// Capacity returns the number of addressable bytes on the device.
func (e *Engine) Capacity() int {
	return e.config.Capacity
}

// Check the engine is open.
func (e *Engine) ready() error {
	if e.state != ready {
		return ErrClosed
	}

	return nil
}

// Report a failed operation to the activity log, then return the error.
// Running out of endurance is a warning, anything else an error.
func (e *Engine) report(err error) error {
	switch {
	case err == nil || errors.Is(err, ErrClosed):
	case errors.Is(err, endurance.ErrExhausted):
		log.Warn(err)
		e.sink.Record(audit.Warning, err.Error())
	default:
		log.Debug(err)
		e.sink.Record(audit.Error, err.Error())
	}
	//
	return err
}
