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
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal determines whether a given file is attached to a terminal, in
// which case ANSI escapes can be used when writing to it.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

// Printer writes status messages, coloured by severity when escapes are
// enabled: green for information, yellow for warnings and red for errors.
type Printer struct {
	out           io.Writer
	enableEscapes bool
}

// NewPrinter constructs a printer writing to a given destination.
func NewPrinter(out io.Writer, enableEscapes bool) *Printer {
	return &Printer{out, enableEscapes}
}

// Writer returns the destination of this printer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// AnsiEscapes reports whether escapes are enabled for this printer.
func (p *Printer) AnsiEscapes() bool {
	return p.enableEscapes
}

// Infof prints an informational message.
func (p *Printer) Infof(format string, args ...any) {
	p.printf(TERM_GREEN, format, args...)
}

// Warnf prints a warning.
func (p *Printer) Warnf(format string, args ...any) {
	p.printf(TERM_YELLOW, format, args...)
}

// Errorf prints an error.
func (p *Printer) Errorf(format string, args ...any) {
	p.printf(TERM_RED, format, args...)
}

func (p *Printer) printf(colour Colour, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	//
	if p.enableEscapes {
		msg = NewAnsiEscape().FgColour(colour).Build() + msg + ResetAnsiEscape().Build()
	}
	//
	fmt.Fprintln(p.out, msg)
}
