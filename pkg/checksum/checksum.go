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
// Package checksum provides the coarse integrity digest used to verify blocks
// of a device: the sum of the bytes modulo 256.  It detects accidental
// corruption of a block only; it offers no protection against deliberate
// tampering.
package checksum

// Sum returns the sum of the given bytes modulo 256.
func Sum(data []byte) byte {
	var sum byte
	// Overflow of byte arithmetic is the reduction modulo 256
	for _, b := range data {
		sum += b
	}
	//
	return sum
}

// Combine returns the checksum of the concatenation of two blocks, given the
// checksum of each.
func Combine(first, second byte) byte {
	return first + second
}

// Erased returns the checksum of n bytes all holding a given value, without
// materialising them.
func Erased(n int, value byte) byte {
	return byte((uint64(n) % 256) * uint64(value) % 256)
}
