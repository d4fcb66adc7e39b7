// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package twowire

import (
	"sync"
)

// Tx is one write recorded by SimBus
type Tx struct {
	Addr uint16
	Data []byte
}

// SimBus is an in-memory drivers.I2C. Writes to an address with no attached
// device fail with AddressNack; otherwise scripted statuses are returned in
// order, then Success.
type SimBus struct {
	mu      sync.Mutex
	devices map[uint16]bool
	script  []Status
	log     []Tx
}

// NewSimBus creates a bus with devices attached at addrs
func NewSimBus(addrs ...uint16) *SimBus {
	b := &SimBus{devices: make(map[uint16]bool)}
	for _, a := range addrs {
		b.devices[a] = true
	}
	return b
}

// Script queues statuses returned by the next transactions
func (b *SimBus) Script(statuses ...Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.script = append(b.script, statuses...)
}

// Tx implements drivers.I2C
func (b *SimBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.devices[addr] {
		return &StatusError{Status: AddressNack}
	}

	status := Success
	if len(b.script) > 0 {
		status = b.script[0]
		b.script = b.script[1:]
	}
	if status != Success {
		return &StatusError{Status: status}
	}

	b.log = append(b.log, Tx{Addr: addr, Data: append([]byte(nil), w...)})
	for i := range r {
		r[i] = 0
	}
	return nil
}

// Transactions returns a copy of the successful writes so far
func (b *SimBus) Transactions() []Tx {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Tx, len(b.log))
	copy(out, b.log)
	return out
}

// Reset clears recorded writes and pending script entries
func (b *SimBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = nil
	b.script = nil
}
