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
	"strings"

	"github.com/spf13/cobra"
)

var writeStringCmd = &cobra.Command{
	Use:   "write-string [flags] address text...",
	Short: "write a terminated string.",
	Long: `Write a string (followed by a 0x00 terminator) starting at a given
	address.  Multiple arguments are joined with single spaces.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 2, 1<<16, writeString)
	},
}

var readStringCmd = &cobra.Command{
	Use:   "read-string [flags] address length",
	Short: "read the printable characters of a range.",
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 2, 2, readString)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed [flags] [text...]",
	Short: "show or change the default text.",
	Long: `Show the default text written at address 0 whenever the device is
	initialised or reset or, when text is given, change it.  The new text is
	saved alongside the device, and used from then on.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 0, 1<<16, seed)
	},
}

func writeString(s *session, args []string) error {
	address, err := parseInt(args[0], "address")
	if err != nil {
		return err
	}
	//
	str := strings.Join(args[1:], " ")
	//
	if err := s.engine.WriteString(address, str); err != nil {
		return err
	}
	//
	s.out.Infof("Wrote '%s' at address %d", str, address)
	//
	return nil
}

func readString(s *session, args []string) error {
	address, length, err := parseRange(args)
	if err != nil {
		return err
	}
	//
	str, err := s.engine.ReadString(address, length)
	if err != nil {
		return err
	}
	//
	s.out.Infof("'%s'", str)
	//
	return nil
}

func seed(s *session, args []string) error {
	if len(args) == 0 {
		s.out.Infof("Default text: '%s'", s.engine.SeedText())
		return nil
	}
	//
	str := strings.Join(args, " ")
	//
	if err := s.engine.SetSeedText(str); err != nil {
		return err
	} else if err := writeSeed(s.dir, str); err != nil {
		return err
	}
	//
	s.out.Infof("Default text changed to '%s'", str)
	//
	return nil
}

func init() {
	rootCmd.AddCommand(writeStringCmd)
	rootCmd.AddCommand(readStringCmd)
	rootCmd.AddCommand(seedCmd)
}
