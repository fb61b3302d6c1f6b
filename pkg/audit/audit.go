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
package audit

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	pkgErrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TimestampFormat is the layout of timestamps in the activity log.
const TimestampFormat = "2006-01-02 15:04:05"

// Level classifies an event.  Levels map directly onto logrus levels.
type Level = logrus.Level

// Levels used for activity events.
const (
	Info    = logrus.InfoLevel
	Warning = logrus.WarnLevel
	Error   = logrus.ErrorLevel
)

// Event is a single entry of the activity log.
type Event struct {
	Time    time.Time
	Level   Level
	Message string
}

// String renders an event as one line of the activity log (without the
// trailing newline).
func (e Event) String() string {
	return fmt.Sprintf("[%s] %s %s", e.Time.Format(TimestampFormat), strings.ToUpper(e.Level.String()), e.Message)
}

// Sink receives activity events.  A sink is write-only: nothing recorded is
// ever read back by the device.
type Sink interface {
	Record(level Level, message string)
}

// Discard is a sink which drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Level, string) {}

// Recorder is a sink which retains events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record implementation for the Sink interface.
func (p *Recorder) Record(level Level, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	p.events = append(p.events, Event{time.Now(), level, message})
}

// Events returns a copy of the events recorded so far.
func (p *Recorder) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	//
	return append([]Event(nil), p.events...)
}

// Messages returns the message of every event recorded so far.
func (p *Recorder) Messages() []string {
	events := p.Events()
	messages := make([]string, len(events))
	//
	for i, e := range events {
		messages[i] = e.Message
	}
	//
	return messages
}

// Formatter renders logrus entries in the activity log format, one line per
// entry: "[timestamp] LEVEL message".  Entry fields are ignored.
type Formatter struct{}

// Format implementation for the logrus.Formatter interface.
func (Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	line := Event{entry.Time, entry.Level, entry.Message}.String()
	//
	return append([]byte(line), '\n'), nil
}

// Log is a sink which appends events to a text file through a dedicated logrus
// logger.
type Log struct {
	path   string
	file   *os.File
	logger *logrus.Logger
}

// OpenLog opens (or creates) an activity log for appending.
func OpenLog(path string) (*Log, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to open activity log %#v", path)
	}
	//
	logger := logrus.New()
	logger.SetOutput(file)
	logger.SetFormatter(Formatter{})
	logger.SetLevel(logrus.InfoLevel)

	return &Log{path, file, logger}, nil
}

// Path returns the location of this log.
func (p *Log) Path() string {
	return p.path
}

// Record implementation for the Sink interface.
func (p *Log) Record(level Level, message string) {
	p.logger.Log(level, message)
}

// Reset discards every entry in the log, then notes that it was reset.
func (p *Log) Reset() error {
	if err := p.file.Truncate(0); err != nil {
		return pkgErrors.Wrapf(err, "failed to reset activity log %#v", p.path)
	}
	//
	p.Record(Info, "Log file reset")

	return nil
}

// Close closes the underlying file.
func (p *Log) Close() error {
	return p.file.Close()
}
