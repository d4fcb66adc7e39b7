// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build !linux

package twowire

import "errors"

// ReefBus is only available on Linux
type ReefBus struct{}

// OpenReefBus reports that i2c-dev is unavailable on this platform
func OpenReefBus() (*ReefBus, error) {
	return nil, errors.New("i2c-dev bus requires linux")
}

// Tx implements drivers.I2C
func (b *ReefBus) Tx(addr uint16, w, r []byte) error {
	return errors.New("i2c-dev bus requires linux")
}

// Close releases the bus
func (b *ReefBus) Close() error {
	return nil
}
