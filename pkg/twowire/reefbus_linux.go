// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build linux

package twowire

import (
	"fmt"

	"github.com/reef-pi/rpi/i2c"
)

// ReefBus adapts the reef-pi i2c-dev bus (/dev/i2c-1) to drivers.I2C
type ReefBus struct {
	bus i2c.Bus
}

// OpenReefBus opens the Linux i2c-dev bus
func OpenReefBus() (*ReefBus, error) {
	bus, err := i2c.New()
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus: %w", err)
	}
	return NewReefBus(bus), nil
}

// NewReefBus wraps an already opened reef-pi bus
func NewReefBus(bus i2c.Bus) *ReefBus {
	return &ReefBus{bus: bus}
}

// Tx implements drivers.I2C. A write and a read are issued as two
// separate messages.
func (b *ReefBus) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7F {
		return fmt.Errorf("address 0x%X is not a 7-bit address", addr)
	}

	if len(w) > 0 || len(r) == 0 {
		if err := b.bus.WriteBytes(byte(addr), w); err != nil {
			return err
		}
	}

	if len(r) > 0 {
		data, err := b.bus.ReadBytes(byte(addr), len(r))
		if err != nil {
			return err
		}
		copy(r, data)
	}
	return nil
}

// Close releases the bus
func (b *ReefBus) Close() error {
	return b.bus.Close()
}
