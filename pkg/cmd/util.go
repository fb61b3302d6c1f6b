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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/consensys/go-eeprom/pkg/audit"
	"github.com/consensys/go-eeprom/pkg/engine"
	"github.com/consensys/go-eeprom/pkg/util"
	"github.com/consensys/go-eeprom/pkg/util/termio"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Name of the file (in the device directory) holding the default text.
const seedFile = "default_text.txt"

// Name of the file (in the device directory) holding the activity log.
const logFile = "eeprom_log.txt"

// Session bundles an open device with its log and the printer used to report
// on it.
type session struct {
	dir    string
	engine *engine.Engine
	log    *audit.Log
	out    *termio.Printer
}

// Open the device described by the flags of a given command, along with its
// activity log.
func openSession(cmd *cobra.Command, out io.Writer) (*session, error) {
	dir := getString(cmd, "dir")
	config := engine.Config{
		Capacity:         int(getUint(cmd, "capacity")),
		EnduranceCeiling: getUint(cmd, "ceiling"),
		Strict:           getFlag(cmd, "strict"),
	}
	//
	if cmd.Flags().Changed("seed") {
		config.SeedText = getString(cmd, "seed")
	} else if seed, err := readSeed(dir); err != nil {
		return nil, err
	} else {
		config.SeedText = seed
	}
	//
	escapes := getFlag(cmd, "ansi-escapes")
	if f, ok := out.(*os.File); !ok || !termio.IsTerminal(f) {
		escapes = false
	}
	//
	return newSession(dir, config, termio.NewPrinter(out, escapes))
}

func newSession(dir string, config engine.Config, out *termio.Printer) (*session, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	//
	auditLog, err := audit.OpenLog(filepath.Join(dir, logFile))
	if err != nil {
		return nil, err
	}
	//
	eng, err := engine.Open(config, engine.FileBackend{Dir: dir}, auditLog)
	if err != nil {
		auditLog.Close()
		return nil, err
	}
	//
	if cause := eng.Recovered(); cause != nil {
		out.Warnf("device reinitialised: %s", cause)
	}
	//
	return &session{dir, eng, auditLog, out}, nil
}

func (s *session) close() error {
	return errors.Join(s.engine.Close(), s.log.Close())
}

// Read the default text saved in a given directory.  If none was saved, the
// standard default text is returned.
func readSeed(dir string) (string, error) {
	bytes, err := os.ReadFile(filepath.Join(dir, seedFile))
	//
	if errors.Is(err, fs.ErrNotExist) {
		return engine.DefaultSeedText, nil
	} else if err != nil {
		return "", err
	}
	//
	return strings.TrimRight(string(bytes), "\r\n"), nil
}

// Save the default text for a given directory.
func writeSeed(dir string, seed string) error {
	return os.WriteFile(filepath.Join(dir, seedFile), []byte(seed+"\n"), 0644)
}

// Run an action against the device described by the flags of a given command.
// The number of arguments is checked first, and any failure is reported before
// exiting.
func runAction(cmd *cobra.Command, args []string, minArgs, maxArgs int,
	action func(*session, []string) error) {
	//
	if len(args) < minArgs || len(args) > maxArgs {
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	//
	stats := util.NewPerfStats()
	//
	s, err := openSession(cmd, os.Stdout)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	err = action(s, args)
	//
	if cerr := s.close(); err == nil {
		err = cerr
	}
	//
	stats.Log(cmd.Name())
	//
	if err != nil {
		s.out.Errorf("%s", err)
		os.Exit(3)
	}
}

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned integer, or panic if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string, or panic if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Parse a non-negative integer argument, which may be given in decimal, or in
// hexadecimal with a "0x" prefix.
func parseInt(arg string, what string) (int, error) {
	n, err := strconv.ParseInt(arg, 0, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s \"%s\"", what, arg)
	}
	//
	log.Debugf("parsed %s %s as %d", what, arg, n)
	//
	return int(n), nil
}

// Parse a byte value argument.
func parseByte(arg string) (byte, error) {
	n, err := strconv.ParseUint(arg, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte value \"%s\" (expected 0-255)", arg)
	}
	//
	return byte(n), nil
}

// Parse a sequence of byte values, where each argument may itself be a comma
// separated list.
func parseBytes(args []string) ([]byte, error) {
	var bytes []byte
	//
	for _, arg := range args {
		for _, item := range strings.Split(arg, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			//
			b, err := parseByte(item)
			if err != nil {
				return nil, err
			}
			//
			bytes = append(bytes, b)
		}
	}
	//
	return bytes, nil
}

// Parse an optional integer argument at a given position.
func optionalInt(args []string, index int, what string, dflt int) (int, error) {
	if index >= len(args) {
		return dflt, nil
	}
	//
	return parseInt(args[index], what)
}
