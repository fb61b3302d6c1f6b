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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/consensys/go-eeprom/pkg/engine"
	"github.com/consensys/go-eeprom/pkg/memory"
	"github.com/consensys/go-eeprom/pkg/record"
	"github.com/consensys/go-eeprom/pkg/util/assert"
	"github.com/consensys/go-eeprom/pkg/util/termio"
)

func Test_Cli_01(t *testing.T) {
	s, out := openTestSession(t, t.TempDir())
	//
	assert.NoError(t, writeByte(s, []string{"5", "42"}))
	assert.Equal(t, "Wrote 42 (0x2A) at address 5 (1/1000 cycles used)\n", out.String())
	out.Reset()
	//
	assert.NoError(t, readByte(s, []string{"0x05"}))
	assert.Equal(t, "Address 5: 42 (0x2A)\n", out.String())
	// Address outside of the device
	assert.ErrorIs(t, readByte(s, []string{"1024"}), memory.ErrOutOfRange)
	// Malformed arguments
	assert.True(t, writeByte(s, []string{"5", "256"}) != nil)
	assert.True(t, writeByte(s, []string{"-1", "0"}) != nil)
}

func Test_Cli_02(t *testing.T) {
	s, out := openTestSession(t, t.TempDir())
	//
	assert.NoError(t, writeBlock(s, []string{"10", "1,2,3", "4"}))
	out.Reset()
	assert.NoError(t, readBlock(s, []string{"10", "4"}))
	assert.Equal(t, "[1 2 3 4]\n", out.String())
	out.Reset()
	assert.NoError(t, checksumBlock(s, []string{"10", "4"}))
	assert.Equal(t, "Checksum of 10+4: 10 (0x0A)\n", out.String())
	// Block running off the end is refused in full
	assert.ErrorIs(t, writeBlock(s, []string{"1022", "1,2,3"}), memory.ErrOutOfRange)
	//
	data, err := s.engine.ReadBlock(1022, 2)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xFF}, data)
}

func Test_Cli_03(t *testing.T) {
	s, out := openTestSession(t, t.TempDir())
	//
	assert.NoError(t, writeString(s, []string{"100", "HELLO", "WORLD"}))
	out.Reset()
	assert.NoError(t, readString(s, []string{"100", "20"}))
	assert.Equal(t, "'HELLO WORLD'\n", out.String())
}

func Test_Cli_04(t *testing.T) {
	dir := t.TempDir()
	s, out := openTestSession(t, dir)
	// Change the default text, which is saved with the device
	assert.NoError(t, seed(s, []string{"Hello", "there"}))
	assert.Equal(t, "Default text changed to 'Hello there'\n", out.String())
	//
	saved, err := readSeed(dir)
	assert.NoError(t, err)
	assert.Equal(t, "Hello there", saved)
	// Resetting uses the new text
	assert.NoError(t, reset(s, nil))
	//
	str, err := s.engine.ReadString(0, 16)
	assert.NoError(t, err)
	assert.Equal(t, "Hello there", str)
}

func Test_Cli_05(t *testing.T) {
	seed, err := readSeed(t.TempDir())
	assert.NoError(t, err)
	assert.Equal(t, engine.DefaultSeedText, seed)
}

func Test_Cli_06(t *testing.T) {
	s, out := openTestSession(t, t.TempDir())
	//
	assert.NoError(t, writeRecord(s, []string{"cell", "0x20", "id=7", "value=0xBEEF", "flag=1"}))
	out.Reset()
	assert.NoError(t, readRecord(s, []string{"cell", "32"}))
	assert.Equal(t, "cell{id=7, value=48879, flag=1}\n", out.String())
	// Unknown layouts and fields
	assert.True(t, readRecord(s, []string{"widget", "0"}) != nil)
	assert.True(t, writeRecord(s, []string{"cell", "0", "colour=1"}) != nil)
	// Overflowing field
	assert.ErrorIs(t, writeRecord(s, []string{"cell", "0", "id=256"}), record.ErrOverflow)
}

func Test_Cli_07(t *testing.T) {
	now := time.Unix(1700000000, 0)
	//
	r, err := parseRecord(record.SampleLayout, []string{"address=12", "value=200"}, now)
	assert.NoError(t, err)
	assert.Equal(t, uint64(12), r.Uint("address"))
	assert.Equal(t, uint64(200), r.Uint("value"))
	assert.Equal(t, uint64(1700000000), r.Uint("timestamp"))
	//
	r, err = parseRecord(record.SensorLayout, []string{"id=3", "temperature=21.5"}, now)
	assert.NoError(t, err)
	assert.Equal(t, float32(21.5), r.Float("temperature"))
	assert.Equal(t, float32(0), r.Float("humidity"))
	//
	_, err = parseRecord(record.CellLayout, []string{"id=1", "id=2"}, now)
	assert.True(t, err != nil)
	_, err = parseRecord(record.CellLayout, []string{"id"}, now)
	assert.True(t, err != nil)
}

func Test_Cli_08(t *testing.T) {
	var buf bytes.Buffer
	out := termio.NewPrinter(&buf, false)
	//
	assert.NoError(t, showUnion(out, "0x42C80000", 4, false))
	assert.Equal(t, "bytes:   00 00 C8 42\ninteger: 1120403456 (0x42C80000)\nfloat:   100\n", buf.String())
	buf.Reset()
	//
	assert.NoError(t, showUnion(out, "1.5", 4, true))
	assert.True(t, strings.Contains(buf.String(), "integer: 1069547520 (0x3FC00000)"))
	// Too wide for four bytes
	assert.ErrorIs(t, showUnion(out, "0x100000000", 4, false), record.ErrOverflow)
	assert.True(t, showUnion(out, "1", 3, false) != nil)
}

func Test_Cli_09(t *testing.T) {
	s, out := openTestSession(t, t.TempDir())
	//
	assert.NoError(t, dump(s, []string{"0", "32"}))
	//
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "0x0000 | 4D 69 73 73 69 6F 6E 20 43 6F 6D 70 6C 65 74 65 | Mission Complete", lines[0])
	assert.Equal(t, "0x0010 | 00 FF FF FF FF FF FF FF FF FF FF FF FF FF FF FF | ................", lines[1])
	assert.Equal(t, "String at 0: 'Mission Complete'", lines[2])
}

func Test_Cli_10(t *testing.T) {
	s, out := openTestSession(t, t.TempDir())
	//
	assert.NoError(t, writeByte(s, []string{"100", "1"}))
	assert.NoError(t, deleteBytes(s, []string{"100"}))
	out.Reset()
	assert.NoError(t, wear(s, []string{"99", "2"}))
	assert.Equal(t, " 99 | 0/1000\n100 | 2/1000\n", out.String())
	out.Reset()
	// Seed text (17 bytes) is all that remains written
	assert.NoError(t, deleteAll(s, nil))
	assert.Equal(t, "Erased 17 byte(s) of written data\n", out.String())
	out.Reset()
	//
	assert.NoError(t, wear(s, nil))
	assert.Equal(t, "ceiling 1000, total writes 19, most worn cell 2, exhausted cells 0\n", out.String())
}

func Test_Cli_11(t *testing.T) {
	dir := t.TempDir()
	s, _ := openTestSession(t, dir)
	//
	assert.NoError(t, writeByte(s, []string{"1", "1"}))
	assert.NoError(t, logReset(s, nil))
	assert.NoError(t, writeByte(s, []string{"2", "2"}))
	//
	contents, err := os.ReadFile(filepath.Join(dir, logFile))
	assert.NoError(t, err)
	//
	lines := strings.Split(strings.TrimSpace(string(contents)), "\n")
	assert.Equal(t, 2, len(lines))
	assert.True(t, strings.HasSuffix(lines[0], "] INFO Log file reset"))
	assert.True(t, strings.HasSuffix(lines[1], "] INFO WRITE address=2 value=0x02 cycles=1"))
}

func Test_Cli_12(t *testing.T) {
	b, err := parseBytes([]string{"1, 2,,0x03", "255"})
	assert.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 255}, b)
	//
	_, err = parseBytes([]string{"1,300"})
	assert.True(t, err != nil)
}

// ===================================================================
// Test Helpers
// ===================================================================

func openTestSession(t *testing.T, dir string) (*session, *bytes.Buffer) {
	t.Helper()
	//
	var buf bytes.Buffer
	//
	seed, err := readSeed(dir)
	assert.NoError(t, err)
	//
	config := engine.DefaultConfig()
	config.SeedText = seed
	//
	s, err := newSession(dir, config, termio.NewPrinter(&buf, false))
	assert.NoError(t, err)
	//
	t.Cleanup(func() { s.close() })
	//
	return s, &buf
}
