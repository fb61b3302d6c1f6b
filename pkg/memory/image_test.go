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
	"testing"

	"github.com/consensys/go-eeprom/pkg/util/assert"
)

func Test_Image_01(t *testing.T) {
	image := NewImage(NewBuffer(1024))
	assert.Equal(t, 1024, image.Capacity())
	// Every byte value round trips at a spread of addresses
	for _, addr := range []int{0, 1, 511, 1023} {
		for v := 0; v < 256; v++ {
			assert.NoError(t, image.Write(addr, []byte{byte(v)}))
			data, err := image.Read(addr, 1)
			assert.NoError(t, err)
			assert.Equal(t, byte(v), data[0])
		}
	}
}

func Test_Image_02(t *testing.T) {
	buf := NewBuffer(1024)
	image := NewImage(buf)
	// Capacity 1024, writing at 1024 is out of range
	err := image.Write(1024, []byte{5})
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, make([]byte, 1024), buf.Bytes())
	// Ranges straddling the end are rejected whole
	err = image.Write(1020, []byte{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, make([]byte, 1024), buf.Bytes())
	// Negative addresses and lengths
	_, err = image.Read(-1, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = image.Read(0, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = image.Read(0, 1025)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func Test_Image_03(t *testing.T) {
	image := NewImage(NewBuffer(16))
	assert.NoError(t, image.Fill(Erased, []byte("hi\x00")))
	data, err := image.Read(0, 16)
	assert.NoError(t, err)
	assert.Equal(t, []byte{'h', 'i', 0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, data)
	// Prefix larger than device
	err = image.Fill(Erased, make([]byte, 17))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func Test_Image_04(t *testing.T) {
	image := NewImage(NewBuffer(16))
	// Empty ranges at the very end are fine
	data, err := image.Read(16, 0)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(data))
	assert.NoError(t, image.Write(16, nil))
	// Reads return copies
	data, _ = image.Read(0, 4)
	data[0] = 42
	again, _ := image.Read(0, 4)
	assert.Equal(t, byte(0), again[0])
}

func Test_RangeError_01(t *testing.T) {
	var rerr *RangeError
	//
	err := CheckRange(10, 1, 8)
	assert.True(t, err != nil)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, "address 10 out of range [0,8)", err.Error())
	//
	err = CheckRange(4, 6, 8)
	assert.Equal(t, "range 4+6 out of range [0,8)", err.Error())
	//
	if r, ok := err.(*RangeError); ok {
		rerr = r
	}
	//
	assert.Equal(t, 4, rerr.Address)
	assert.Equal(t, 6, rerr.Length)
	assert.NoError(t, CheckRange(0, 8, 8))
}
