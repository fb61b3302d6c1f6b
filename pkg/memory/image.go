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
	"github.com/pkg/errors"
)

// Erased is the value held by a cell which has never been written, mirroring
// the state of an EEPROM cell after an erase cycle.
const Erased byte = 0xFF

// Image is the flat, byte addressable contents of an emulated device.  Every
// access is bounds checked against the capacity before the store is touched,
// so a rejected access never changes the image.  Writes are synchronous: they
// return only once the store has made them durable.
type Image struct {
	store    Store
	capacity int
}

// NewImage constructs an image over a given store, whose size determines the
// capacity of the device.
func NewImage(store Store) *Image {
	return &Image{store, store.Size()}
}

// Capacity returns the number of addressable bytes in this image.
func (p *Image) Capacity() int {
	return p.capacity
}

// Read returns a copy of length bytes starting at a given address.
func (p *Image) Read(address, length int) ([]byte, error) {
	if err := CheckRange(address, length, p.capacity); err != nil {
		return nil, err
	}
	//
	data := make([]byte, length)
	//
	if _, err := p.store.ReadAt(data, int64(address)); err != nil {
		return nil, errors.Wrapf(err, "reading %d bytes at %d", length, address)
	}

	return data, nil
}

// Write writes the given bytes starting at a given address.  Either the whole
// range is written, or the image is left untouched.
func (p *Image) Write(address int, data []byte) error {
	if err := CheckRange(address, len(data), p.capacity); err != nil {
		return err
	} else if len(data) == 0 {
		return nil
	}
	//
	if n, err := p.store.WriteAt(data, int64(address)); err != nil {
		return errors.Wrapf(err, "writing %d bytes at %d", len(data), address)
	} else if n != len(data) {
		return errors.Errorf("short write of %d/%d bytes at %d", n, len(data), address)
	}

	return p.store.Sync()
}

// Fill overwrites the whole image with a given value, except for a leading
// prefix which is written verbatim.  This is used to erase the device, and
// optionally seed it at the same time.
func (p *Image) Fill(value byte, prefix []byte) error {
	if len(prefix) > p.capacity {
		return &RangeError{0, len(prefix), p.capacity}
	}
	//
	data := make([]byte, p.capacity)
	//
	for i := copy(data, prefix); i < len(data); i++ {
		data[i] = value
	}
	//
	return p.Write(0, data)
}

// Close releases the underlying store.
func (p *Image) Close() error {
	return p.store.Close()
}
