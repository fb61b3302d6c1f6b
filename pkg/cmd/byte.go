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
	"github.com/spf13/cobra"
)

var writeByteCmd = &cobra.Command{
	Use:   "write-byte [flags] address value",
	Short: "write a single byte.",
	Long:  `Write a single byte value (0-255) at a given address.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 2, 2, writeByte)
	},
}

var readByteCmd = &cobra.Command{
	Use:   "read-byte [flags] address",
	Short: "read a single byte.",
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 1, 1, readByte)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [flags] address [length]",
	Short: "erase a byte or a range of bytes.",
	Long: `Erase (i.e. reset to 0xFF) either the byte at a given address or, when
	a length is given, the range starting there.  Erasing counts as a write.`,
	Run: func(cmd *cobra.Command, args []string) {
		runAction(cmd, args, 1, 2, deleteBytes)
	},
}

func writeByte(s *session, args []string) error {
	address, err := parseInt(args[0], "address")
	if err != nil {
		return err
	}
	//
	value, err := parseByte(args[1])
	if err != nil {
		return err
	} else if err := s.engine.WriteByteAt(address, value); err != nil {
		return err
	}
	//
	count, err := s.engine.WriteCount(address)
	if err != nil {
		return err
	}
	//
	s.out.Infof("Wrote %d (0x%02X) at address %d (%d/%d cycles used)", value, value, address,
		count, s.engine.Config().EnduranceCeiling)
	//
	return nil
}

func readByte(s *session, args []string) error {
	address, err := parseInt(args[0], "address")
	if err != nil {
		return err
	}
	//
	value, err := s.engine.ReadByteAt(address)
	if err != nil {
		return err
	}
	//
	s.out.Infof("Address %d: %d (0x%02X)", address, value, value)
	//
	return nil
}

func deleteBytes(s *session, args []string) error {
	address, err := parseInt(args[0], "address")
	if err != nil {
		return err
	}
	//
	length, err := optionalInt(args, 1, "length", 1)
	if err != nil {
		return err
	} else if len(args) == 1 {
		if err := s.engine.DeleteByte(address); err != nil {
			return err
		}
	} else if err := s.engine.DeleteRange(address, length); err != nil {
		return err
	}
	//
	s.out.Infof("Erased %d byte(s) from address %d", length, address)
	//
	return nil
}

func init() {
	rootCmd.AddCommand(writeByteCmd)
	rootCmd.AddCommand(readByteCmd)
	rootCmd.AddCommand(deleteCmd)
}
