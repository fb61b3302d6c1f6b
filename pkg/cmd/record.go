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
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/consensys/go-eeprom/pkg/record"
	"github.com/consensys/go-eeprom/pkg/util/termio"
	"github.com/spf13/cobra"
)

var writeRecordCmd = &cobra.Command{
	Use:   "write-record [flags] layout address field=value...",
	Short: "write a fixed layout record.",
	Long: `Write a record of a named layout (cell, sample or sensor) at a given
	address.  Fields are given as name=value pairs, and any field not given is
	zero (except the timestamp of a sample, which defaults to now).`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 2, 1<<16, writeRecord)
	},
}

var readRecordCmd = &cobra.Command{
	Use:   "read-record [flags] layout address",
	Short: "read a fixed layout record.",
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 2, 2, readRecord)
	},
}

var unionCmd = &cobra.Command{
	Use:   "union [flags] [value]",
	Short: "reinterpret bits as an integer and as a float.",
	Long: `Show how the same four (or eight) bytes read as an unsigned integer
	and as an IEEE-754 float.  The bytes come either from a given value
	(an integer, or a float with --float) or, with --address, from the device.`,
	Run: func(cmd *cobra.Command, args []string) {
		width := int(getUint(cmd, "width"))
		//
		if cmd.Flags().Changed("address") {
			address := int(getUint(cmd, "address"))
			runAction(cmd, args, 0, 0, func(s *session, _ []string) error {
				return readUnion(s, address, width)
			})
			//
			return
		} else if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		out := termio.NewPrinter(os.Stdout, getFlag(cmd, "ansi-escapes") && termio.IsTerminal(os.Stdout))
		//
		if err := showUnion(out, args[0], width, getFlag(cmd, "float")); err != nil {
			out.Errorf("%s", err)
			os.Exit(3)
		}
	},
}

func writeRecord(s *session, args []string) error {
	layout, err := lookupLayout(args[0])
	if err != nil {
		return err
	}
	//
	address, err := parseInt(args[1], "address")
	if err != nil {
		return err
	}
	//
	r, err := parseRecord(layout, args[2:], time.Now())
	if err != nil {
		return err
	} else if err := s.engine.WriteRecord(address, r); err != nil {
		return err
	}
	//
	s.out.Infof("Wrote %s at address %d", r, address)
	//
	return nil
}

func readRecord(s *session, args []string) error {
	layout, err := lookupLayout(args[0])
	if err != nil {
		return err
	}
	//
	address, err := parseInt(args[1], "address")
	if err != nil {
		return err
	}
	//
	r, err := s.engine.ReadRecord(address, layout)
	if err != nil {
		return err
	}
	//
	s.out.Infof("%s", r)
	//
	return nil
}

func readUnion(s *session, address int, width int) error {
	data, err := s.engine.ReadBlock(address, width)
	if err != nil {
		return err
	}
	//
	u, err := record.UnionOf(data)
	if err != nil {
		return err
	}
	//
	printUnion(s.out, u)
	//
	return nil
}

func showUnion(out *termio.Printer, arg string, width int, float bool) error {
	u, err := record.NewUnion(width)
	if err != nil {
		return err
	}
	//
	if float {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("invalid float \"%s\"", arg)
		}
		//
		u.SetFloat(f)
	} else {
		n, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid integer \"%s\"", arg)
		} else if err := u.SetInteger(n); err != nil {
			return err
		}
	}
	//
	printUnion(out, u)
	//
	return nil
}

func printUnion(out *termio.Printer, u record.Union) {
	out.Infof("bytes:   % X", []byte(u))
	out.Infof("integer: %d (0x%0*X)", u.AsInteger(), 2*u.Width(), u.AsInteger())
	out.Infof("float:   %g", u.AsFloat())
}

func lookupLayout(name string) (*record.Layout, error) {
	layout, ok := record.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown layout \"%s\" (expected one of %s)", name,
			strings.Join(record.Names(), ", "))
	}
	//
	return layout, nil
}

// Construct a record from a list of field=value assignments.  Unassigned fields
// are zero, except for a "timestamp" field which takes the given time.
func parseRecord(layout *record.Layout, assignments []string, now time.Time) (record.Record, error) {
	var (
		fields   = layout.Fields()
		values   = make([]uint64, len(fields))
		assigned = make([]bool, len(fields))
	)
	//
	for _, assignment := range assignments {
		name, value, ok := strings.Cut(assignment, "=")
		if !ok {
			return record.Record{}, fmt.Errorf("invalid assignment \"%s\" (expected field=value)", assignment)
		}
		//
		index, ok := layout.Index(name)
		if !ok {
			return record.Record{}, fmt.Errorf("%s has no field \"%s\"", layout.Name(), name)
		} else if assigned[index] {
			return record.Record{}, fmt.Errorf("field \"%s\" assigned twice", name)
		}
		//
		v, err := parseField(fields[index], value)
		if err != nil {
			return record.Record{}, err
		}
		//
		values[index], assigned[index] = v, true
	}
	//
	if index, ok := layout.Index("timestamp"); ok && !assigned[index] {
		values[index] = uint64(now.Unix())
	}
	//
	return layout.Record(values...)
}

func parseField(field record.Field, value string) (uint64, error) {
	if field.Kind == record.Float32 {
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid value \"%s\" for %s", value, field.Name)
		}
		//
		return record.FloatBits(float32(f)), nil
	}
	//
	n, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value \"%s\" for %s", value, field.Name)
	}
	//
	return n, nil
}

func init() {
	rootCmd.AddCommand(writeRecordCmd)
	rootCmd.AddCommand(readRecordCmd)
	rootCmd.AddCommand(unionCmd)
	unionCmd.Flags().Bool("float", false, "interpret the value as a float")
	unionCmd.Flags().Uint("width", 4, "number of bytes (4 or 8)")
	unionCmd.Flags().Uint("address", 0, "read the bytes from this address of the device")
}
