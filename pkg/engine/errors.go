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
)

// ErrClosed is returned by every operation on an engine which is not open.
var ErrClosed = errors.New("engine closed")

// ErrCorruptStore indicates a persisted store whose size does not match the
// configured device.
var ErrCorruptStore = errors.New("corrupt store")

// StoreError describes a store found with the wrong size.
type StoreError struct {
	Name string
	Size int64
	Want int
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store has %d bytes, expected %d", e.Name, e.Size, e.Want)
}

// Is allows errors.Is(err, ErrCorruptStore) to match a StoreError.
func (e *StoreError) Is(target error) bool {
	return target == ErrCorruptStore
}
