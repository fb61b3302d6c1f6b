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
	"errors"
	"fmt"
)

// ErrOutOfRange indicates an access outside the address space of a device.
var ErrOutOfRange = errors.New("address out of range")

// RangeError describes an access which does not fit within a device of a
// given capacity.
type RangeError struct {
	Address  int
	Length   int
	Capacity int
}

func (e *RangeError) Error() string {
	if e.Length == 1 {
		return fmt.Sprintf("address %d out of range [0,%d)", e.Address, e.Capacity)
	}

	return fmt.Sprintf("range %d+%d out of range [0,%d)", e.Address, e.Length, e.Capacity)
}

// Is allows errors.Is(err, ErrOutOfRange) to match a RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// CheckRange returns a RangeError unless [address, address+length) lies within
// [0, capacity).
func CheckRange(address, length, capacity int) error {
	if address < 0 || length < 0 || address > capacity || length > capacity-address {
		return &RangeError{address, length, capacity}
	}

	return nil
}
