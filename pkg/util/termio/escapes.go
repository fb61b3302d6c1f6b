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
package termio

import (
	"fmt"
	"strings"
)

// Colour identifies one of the eight standard terminal colours.
type Colour uint

// TERM_RED represents red
const TERM_RED = Colour(1)

// TERM_GREEN represents green
const TERM_GREEN = Colour(2)

// TERM_YELLOW represents yellow
const TERM_YELLOW = Colour(3)

// TERM_BLUE represents blue
const TERM_BLUE = Colour(4)

// TERM_CYAN represents cyan
const TERM_CYAN = Colour(6)

// AnsiEscape is a "select graphic rendition" escape, built up from a sequence
// of attribute codes.
type AnsiEscape struct {
	codes []uint
}

// NewAnsiEscape constructs an escape with no attributes.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{}
}

// ResetAnsiEscape constructs an escape which clears all attributes.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{[]uint{0}}
}

// Bold adds the bold attribute.
func (p AnsiEscape) Bold() AnsiEscape {
	return p.with(1)
}

// FgColour sets the foreground colour.
func (p AnsiEscape) FgColour(col Colour) AnsiEscape {
	return p.with(30 + uint(col))
}

// Build constructs the final escape.
func (p AnsiEscape) Build() string {
	codes := make([]string, len(p.codes))
	for i, c := range p.codes {
		codes[i] = fmt.Sprintf("%d", c)
	}
	//
	return "\033[" + strings.Join(codes, ";") + "m"
}

func (p AnsiEscape) with(code uint) AnsiEscape {
	codes := make([]uint, len(p.codes), len(p.codes)+1)
	copy(codes, p.codes)
	//
	return AnsiEscape{append(codes, code)}
}
