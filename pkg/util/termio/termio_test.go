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
	"bytes"
	"testing"

	"github.com/consensys/go-eeprom/pkg/util/assert"
)

func Test_Escape_01(t *testing.T) {
	assert.Equal(t, "\033[32m", NewAnsiEscape().FgColour(TERM_GREEN).Build())
	assert.Equal(t, "\033[1;31m", NewAnsiEscape().Bold().FgColour(TERM_RED).Build())
	assert.Equal(t, "\033[0m", ResetAnsiEscape().Build())
}

func Test_Printer_01(t *testing.T) {
	var buf bytes.Buffer
	//
	plain := NewPrinter(&buf, false)
	plain.Infof("wrote %d", 5)
	plain.Warnf("careful")
	assert.Equal(t, "wrote 5\ncareful\n", buf.String())
	//
	buf.Reset()
	NewPrinter(&buf, true).Errorf("bad")
	assert.Equal(t, "\033[31mbad\033[0m\n", buf.String())
}

func Test_Table_01(t *testing.T) {
	var buf bytes.Buffer
	//
	table := NewTablePrinter(3, 2)
	table.SetRow(0, "a", "bbb", "c")
	table.SetRow(1, "dd", "e", "ffff")
	table.SetEscape(0, 0, NewAnsiEscape().FgColour(TERM_CYAN).Build())
	table.AnsiEscapes(false)
	table.Print(&buf)
	assert.Equal(t, "a  | bbb | c\ndd | e   | ffff\n", buf.String())
}

func Test_Table_02(t *testing.T) {
	var buf bytes.Buffer
	//
	table := NewTablePrinter(2, 2)
	table.SetAlign(0, Right)
	table.SetRow(0, "7", "x")
	table.SetRow(1, "100", "yy")
	table.SetEscape(1, 1, NewAnsiEscape().FgColour(TERM_RED).Build())
	table.Print(&buf)
	assert.Equal(t, "  7 | x\n100 | \033[31myy\033[0m\n", buf.String())
}
