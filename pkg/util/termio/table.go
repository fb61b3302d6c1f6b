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
	"strings"
)

// Alignment determines how cells are padded within their column.
type Alignment bool

const (
	// Left pads cells on the right.
	Left Alignment = false
	// Right pads cells on the left.
	Right Alignment = true
)

// TablePrinter lays out rows of cells in columns, separated by bars.  Every
// column is as wide as its widest cell.
type TablePrinter struct {
	widths        []int
	align         []Alignment
	rows          [][]string
	escapes       [][]string
	enableEscapes bool
}

// NewTablePrinter constructs a table with a given number of columns and rows.
func NewTablePrinter(width uint, height uint) *TablePrinter {
	rows := make([][]string, height)
	escapes := make([][]string, height)
	//
	for i := range rows {
		rows[i] = make([]string, width)
		escapes[i] = make([]string, width)
	}
	//
	return &TablePrinter{make([]int, width), make([]Alignment, width), rows, escapes, true}
}

// SetAlign sets the alignment of a given column.
func (p *TablePrinter) SetAlign(col uint, align Alignment) {
	p.align[col] = align
}

// SetEscape sets the escape (e.g. a colour) used when printing a given cell.
func (p *TablePrinter) SetEscape(col uint, row uint, escape string) {
	p.escapes[row][col] = escape
}

// AnsiEscapes enables or disables the use of ANSI escapes.  Disabling escapes
// is useful when output is redirected to a file.
func (p *TablePrinter) AnsiEscapes(enable bool) {
	p.enableEscapes = enable
}

// SetRow sets the contents of an entire row in this table
func (p *TablePrinter) SetRow(row uint, vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	//
	for i, v := range vals {
		p.widths[i] = max(p.widths[i], len(v))
	}
	//
	p.rows[row] = vals
}

// Print the table.  A left aligned last column is not padded, so lines carry
// no trailing spaces.
func (p *TablePrinter) Print(out io.Writer) {
	reset := ResetAnsiEscape().Build()
	//
	for i, row := range p.rows {
		var line strings.Builder
		//
		for j, cell := range row {
			if j != 0 {
				line.WriteString(" | ")
			}
			//
			escape := p.escapes[i][j]
			if p.enableEscapes && escape != "" {
				line.WriteString(escape)
			}
			//
			switch {
			case p.align[j] == Right:
				fmt.Fprintf(&line, "%*s", p.widths[j], cell)
			case j == len(row)-1:
				line.WriteString(cell)
			default:
				fmt.Fprintf(&line, "%-*s", p.widths[j], cell)
			}
			//
			if p.enableEscapes && escape != "" {
				line.WriteString(reset)
			}
		}
		//
		fmt.Fprintln(out, line.String())
	}
}
