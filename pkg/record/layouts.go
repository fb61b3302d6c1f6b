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
package record

import (
	"math"
	"sort"
)

// CellLayout is the four byte register record: an identifier, a value and a
// flag.
var CellLayout = NewLayout("cell",
	Field{"id", Uint8},
	Field{"value", Uint16},
	Field{"flag", Uint8})

// SampleLayout is the seven byte logged sample: the address sampled, the value
// found there and when it was taken (seconds since the Unix epoch).
var SampleLayout = NewLayout("sample",
	Field{"address", Uint16},
	Field{"value", Uint8},
	Field{"timestamp", Uint32})

// SensorLayout is the ten byte sensor reading.
var SensorLayout = NewLayout("sensor",
	Field{"id", Uint16},
	Field{"temperature", Float32},
	Field{"humidity", Float32})

var layouts = map[string]*Layout{
	CellLayout.Name():   CellLayout,
	SampleLayout.Name(): SampleLayout,
	SensorLayout.Name(): SensorLayout,
}

// Lookup returns the predefined layout of a given name.
func Lookup(name string) (*Layout, bool) {
	l, ok := layouts[name]
	return l, ok
}

// Names returns the names of all predefined layouts, sorted.
func Names() []string {
	names := make([]string, 0, len(layouts))
	//
	for n := range layouts {
		names = append(names, n)
	}
	//
	sort.Strings(names)

	return names
}

// Cell is the typed form of a CellLayout record.
type Cell struct {
	ID    uint8
	Value uint16
	Flag  uint8
}

// Record converts this cell into a generic record.
func (c Cell) Record() Record {
	return Record{CellLayout, []uint64{uint64(c.ID), uint64(c.Value), uint64(c.Flag)}}
}

// CellOf converts a generic record into a cell.
func CellOf(r Record) (Cell, error) {
	if r.layout != CellLayout {
		return Cell{}, &LengthError{CellLayout.name, CellLayout.width, r.Width()}
	}

	return Cell{uint8(r.values[0]), uint16(r.values[1]), uint8(r.values[2])}, nil
}

// Sample is the typed form of a SampleLayout record.
type Sample struct {
	Address   uint16
	Value     uint8
	Timestamp uint32
}

// Record converts this sample into a generic record.
func (s Sample) Record() Record {
	return Record{SampleLayout, []uint64{uint64(s.Address), uint64(s.Value), uint64(s.Timestamp)}}
}

// SampleOf converts a generic record into a sample.
func SampleOf(r Record) (Sample, error) {
	if r.layout != SampleLayout {
		return Sample{}, &LengthError{SampleLayout.name, SampleLayout.width, r.Width()}
	}

	return Sample{uint16(r.values[0]), uint8(r.values[1]), uint32(r.values[2])}, nil
}

// Sensor is the typed form of a SensorLayout record.
type Sensor struct {
	ID          uint16
	Temperature float32
	Humidity    float32
}

// Record converts this reading into a generic record.
func (s Sensor) Record() Record {
	return Record{SensorLayout, []uint64{uint64(s.ID), FloatBits(s.Temperature), FloatBits(s.Humidity)}}
}

// SensorOf converts a generic record into a sensor reading.
func SensorOf(r Record) (Sensor, error) {
	if r.layout != SensorLayout {
		return Sensor{}, &LengthError{SensorLayout.name, SensorLayout.width, r.Width()}
	}

	return Sensor{
		uint16(r.values[0]),
		math.Float32frombits(uint32(r.values[1])),
		math.Float32frombits(uint32(r.values[2])),
	}, nil
}
