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

	"github.com/consensys/go-eeprom/pkg/memory"
	"github.com/consensys/go-eeprom/pkg/util/termio"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset [flags]",
	Short: "fully reset the device.",
	Long: `Erase the whole device, clear the endurance of every cell and write the
	default text at address 0.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 0, 0, reset)
	},
}

var deleteAllCmd = &cobra.Command{
	Use:   "delete-all [flags]",
	Short: "erase all written data.",
	Long: `Erase every cell which does not already hold 0xFF.  Only erased cells
	count as written.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 0, 0, deleteAll)
	},
}

var wearCmd = &cobra.Command{
	Use:   "wear [flags] [address [length]]",
	Short: "show how worn the device is.",
	Long: `Without arguments, summarise the endurance of the whole device.
	Otherwise, show the write count of each cell in a range.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 0, 2, wear)
	},
}

var logResetCmd = &cobra.Command{
	Use:   "log-reset [flags]",
	Short: "clear the activity log.",
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 0, 0, logReset)
	},
}

func reset(s *session, _ []string) error {
	if err := s.engine.ResetDevice(); err != nil {
		return err
	}
	//
	s.out.Infof("Device reset with default text '%s'", s.engine.SeedText())
	//
	return nil
}

func deleteAll(s *session, _ []string) error {
	n, err := s.engine.DeleteAll()
	if err != nil {
		return err
	}
	//
	s.out.Infof("Erased %d byte(s) of written data", n)
	//
	return nil
}

func wear(s *session, args []string) error {
	if len(args) == 0 {
		w, err := s.engine.Wear()
		if err != nil {
			return err
		}
		//
		s.out.Infof("ceiling %d, total writes %d, most worn cell %d, exhausted cells %d",
			w.Ceiling, w.Total, w.Max, w.Exhausted)
		//
		if w.Exhausted > 0 {
			s.out.Warnf("%d cell(s) can no longer be written", w.Exhausted)
		}
		//
		return nil
	}
	//
	address, err := parseInt(args[0], "address")
	if err != nil {
		return err
	}
	//
	length, err := optionalInt(args, 1, "length", 1)
	if err != nil {
		return err
	} else if err := memory.CheckRange(address, length, s.engine.Capacity()); err != nil {
		return err
	}
	//
	ceiling := s.engine.Config().EnduranceCeiling
	tp := termio.NewTablePrinter(2, uint(length))
	tp.SetAlign(0, termio.Right)
	exhausted := termio.NewAnsiEscape().FgColour(termio.TERM_RED).Build()
	//
	for i := 0; i < length; i++ {
		count, err := s.engine.WriteCount(address + i)
		if err != nil {
			return err
		}
		//
		tp.SetRow(uint(i), fmt.Sprintf("%d", address+i), fmt.Sprintf("%d/%d", count, ceiling))
		//
		if count >= ceiling {
			tp.SetEscape(1, uint(i), exhausted)
		}
	}
	//
	tp.AnsiEscapes(s.out.AnsiEscapes())
	tp.Print(s.out.Writer())
	//
	return nil
}

func logReset(s *session, _ []string) error {
	if err := s.log.Reset(); err != nil {
		return err
	}
	//
	s.out.Infof("Log %s reset", s.log.Path())
	//
	return nil
}

func init() {
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(deleteAllCmd)
	rootCmd.AddCommand(wearCmd)
	rootCmd.AddCommand(logResetCmd)
}
