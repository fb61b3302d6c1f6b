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
package engine

import (
	"errors"
	"fmt"

	"github.com/consensys/go-eeprom/pkg/text"
)

// DefaultCapacity is the size of the emulated device in bytes (1KB).
const DefaultCapacity = 1024

// DefaultEnduranceCeiling is the number of writes each cell tolerates.
const DefaultEnduranceCeiling = 1000

// DefaultSeedText is written at the start of a freshly initialised device.
const DefaultSeedText = "Mission Complete"

// Config captures everything needed to open a device.
type Config struct {
	// Number of addressable bytes.
	Capacity int
	// Maximum number of writes permitted to any single address.
	EnduranceCeiling uint
	// Text (plus terminator) written at address 0 whenever the device is
	// initialised or reset.  Empty means the device is left fully erased.
	SeedText string
	// When set, a store found with the wrong size causes Open to fail with
	// ErrCorruptStore, rather than the device being silently reinitialised.
	Strict bool
}

// DefaultConfig returns the configuration of the standard 1KB device.
func DefaultConfig() Config {
	return Config{
		Capacity:         DefaultCapacity,
		EnduranceCeiling: DefaultEnduranceCeiling,
		SeedText:         DefaultSeedText,
	}
}

// Validate checks this configuration describes a usable device.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("invalid capacity %d", c.Capacity)
	} else if c.EnduranceCeiling == 0 {
		return errors.New("endurance ceiling must be positive")
	}
	//
	_, err := c.seed()

	return err
}

// seed returns the bytes written at address 0 when the device is initialised.
func (c Config) seed() ([]byte, error) {
	return encodeSeed(c.SeedText, c.Capacity)
}

func encodeSeed(seed string, capacity int) ([]byte, error) {
	if seed == "" {
		return nil, nil
	}
	//
	bytes, err := text.EncodeTerminated(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed text: %w", err)
	} else if len(bytes) > capacity {
		return nil, fmt.Errorf("seed text of %d bytes does not fit capacity %d", len(bytes)-1, capacity)
	}
	//
	return bytes, nil
}
