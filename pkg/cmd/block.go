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
package cmd

import (
	"fmt"
	"strings"

	"github.com/consensys/go-eeprom/pkg/text"
	"github.com/consensys/go-eeprom/pkg/util/termio"
	"github.com/spf13/cobra"
)

// Number of bytes shown on each row of a dump.
const dumpWidth = 16

var writeBlockCmd = &cobra.Command{
	Use:   "write-block [flags] address values...",
	Short: "write a block of bytes.",
	Long: `Write a sequence of byte values starting at a given address.  Values
	can be given as separate arguments, or as a comma separated list.  Either
	the whole block is written, or nothing is.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 2, 1<<16, writeBlock)
	},
}

var readBlockCmd = &cobra.Command{
	Use:   "read-block [flags] address length",
	Short: "read a block of bytes.",
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 2, 2, readBlock)
	},
}

var checksumCmd = &cobra.Command{
	Use:   "checksum [flags] address length",
	Short: "compute the additive checksum of a block.",
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 2, 2, checksumBlock)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] [address [length]]",
	Short: "show the contents of the device.",
	Long: `Show a section of the device (by default, all of it) in hexadecimal
	and ASCII, followed by any printable strings detected in it.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 0, 2, dump)
	},
}

func writeBlock(s *session, args []string) error {
	address, err := parseInt(args[0], "address")
	if err != nil {
		return err
	}
	//
	data, err := parseBytes(args[1:])
	if err != nil {
		return err
	} else if err := s.engine.WriteBlock(address, data); err != nil {
		return err
	}
	//
	s.out.Infof("Wrote %d byte(s) from address %d", len(data), address)
	//
	return nil
}

func readBlock(s *session, args []string) error {
	address, length, err := parseRange(args)
	if err != nil {
		return err
	}
	//
	data, err := s.engine.ReadBlock(address, length)
	if err != nil {
		return err
	}
	//
	s.out.Infof("%v", data)
	//
	return nil
}

func checksumBlock(s *session, args []string) error {
	address, length, err := parseRange(args)
	if err != nil {
		return err
	}
	//
	sum, err := s.engine.Checksum(address, length)
	if err != nil {
		return err
	}
	//
	s.out.Infof("Checksum of %d+%d: %d (0x%02X)", address, length, sum, sum)
	//
	return nil
}

func dump(s *session, args []string) error {
	address, err := optionalInt(args, 0, "address", 0)
	if err != nil {
		return err
	}
	//
	length, err := optionalInt(args, 1, "length", max(0, s.engine.Capacity()-address))
	if err != nil {
		return err
	}
	//
	data, err := s.engine.Dump(address, length)
	if err != nil {
		return err
	}
	//
	tp := dumpTable(address, data)
	tp.AnsiEscapes(s.out.AnsiEscapes())
	tp.Print(s.out.Writer())
	//
	for _, run := range text.Runs(address, data) {
		s.out.Infof("String at %d: '%s'", run.Address, run.Text)
	}
	//
	return nil
}

// Lay out a section of the device as rows of addresses, hexadecimal bytes and
// their printable characters.
func dumpTable(address int, data []byte) *termio.TablePrinter {
	rows := (len(data) + dumpWidth - 1) / dumpWidth
	tp := termio.NewTablePrinter(3, uint(rows))
	escape := termio.NewAnsiEscape().FgColour(termio.TERM_BLUE).Build()
	//
	for row := 0; row < rows; row++ {
		start := row * dumpWidth
		end := min(start+dumpWidth, len(data))
		line := data[start:end]
		//
		hex := make([]string, len(line))
		ascii := make([]byte, len(line))
		//
		for i, b := range line {
			hex[i] = fmt.Sprintf("%02X", b)
			//
			if text.IsPrintable(b) {
				ascii[i] = b
			} else {
				ascii[i] = '.'
			}
		}
		//
		tp.SetRow(uint(row), fmt.Sprintf("0x%04X", address+start), strings.Join(hex, " "), string(ascii))
		tp.SetEscape(0, uint(row), escape)
	}
	//
	return tp
}

func parseRange(args []string) (int, int, error) {
	address, err := parseInt(args[0], "address")
	if err != nil {
		return 0, 0, err
	}
	//
	length, err := parseInt(args[1], "length")
	//
	return address, length, err
}

func init() {
	rootCmd.AddCommand(writeBlockCmd)
	rootCmd.AddCommand(readBlockCmd)
	rootCmd.AddCommand(checksumCmd)
	rootCmd.AddCommand(dumpCmd)
}
