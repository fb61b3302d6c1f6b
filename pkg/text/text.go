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
package text

import (
	"errors"
	"fmt"
	"strings"
)

// Terminator marks the end of a string stored on a device.
const Terminator byte = 0x00

// ErrUnencodable indicates text containing a character which has no single
// byte representation.
var ErrUnencodable = errors.New("unencodable character")

// Encode maps each character of some text to one byte.  Only characters in the
// range U+0001 to U+00FF can be stored: anything above that has no single
// byte form, and U+0000 would be read back as the terminator.  Such text is
// rejected rather than truncated, so encoding is lossless for everything it
// accepts.
func Encode(text string) ([]byte, error) {
	bytes := make([]byte, 0, len(text))
	//
	for i, r := range text {
		if r == 0 || r > 0xFF {
			return nil, fmt.Errorf("%w %q at offset %d", ErrUnencodable, r, i)
		}
		//
		bytes = append(bytes, byte(r))
	}
	//
	return bytes, nil
}

// EncodeTerminated encodes some text followed by the terminator.
func EncodeTerminated(text string) ([]byte, error) {
	bytes, err := Encode(text)
	if err != nil {
		return nil, err
	}

	return append(bytes, Terminator), nil
}

// IsPrintable determines whether a byte is printable ASCII.
func IsPrintable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

// Decode reconstructs text from raw bytes by keeping the printable ones.  The
// whole input is scanned: terminators, erased cells and any other
// non-printable byte are dropped as noise rather than ending the text.
func Decode(raw []byte) string {
	var builder strings.Builder
	//
	for _, b := range raw {
		if IsPrintable(b) {
			builder.WriteByte(b)
		}
	}
	//
	return builder.String()
}

// Run is a maximal sequence of printable bytes found in a dump.
type Run struct {
	Address int
	Text    string
}

// Runs finds every maximal run of printable bytes in some raw data, which was
// read from a given base address.
func Runs(base int, raw []byte) []Run {
	var (
		runs  []Run
		start = -1
	)
	//
	for i := 0; i <= len(raw); i++ {
		if i < len(raw) && IsPrintable(raw[i]) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			runs = append(runs, Run{base + start, string(raw[start:i])})
			start = -1
		}
	}
	//
	return runs
}
