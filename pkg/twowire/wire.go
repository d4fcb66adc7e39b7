// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package twowire

import (
	"errors"

	"tinygo.org/x/drivers"
)

// BufferSize is the number of bytes one transaction can carry
const BufferSize = 32

// ErrBufferFull is returned by WriteByte and Write once the transaction
// buffer is exhausted. EndTransmission then reports DataTooLong.
var ErrBufferFull = errors.New("twowire: transmit buffer full")

// ErrNoTransaction is returned when writing outside Begin/End
var ErrNoTransaction = errors.New("twowire: no transaction in progress")

// Wire buffers one write transaction at a time and sends it on
// EndTransmission. It is not safe for concurrent use.
type Wire struct {
	bus      drivers.I2C
	addr     uint16
	buf      [BufferSize]byte
	n        int
	active   bool
	overflow bool
}

// New creates a Wire on top of bus
func New(bus drivers.I2C) *Wire {
	return &Wire{bus: bus}
}

// BeginTransmission starts a write transaction to the 7-bit address addr,
// discarding anything buffered by an unfinished transaction.
func (w *Wire) BeginTransmission(addr uint16) {
	w.addr = addr
	w.n = 0
	w.active = true
	w.overflow = false
}

// WriteByte queues one byte
func (w *Wire) WriteByte(b byte) error {
	if !w.active {
		return ErrNoTransaction
	}
	if w.n >= BufferSize {
		w.overflow = true
		return ErrBufferFull
	}
	w.buf[w.n] = b
	w.n++
	return nil
}

// Write queues p in order. It returns the number of bytes that fit.
func (w *Wire) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := w.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// Buffered returns a copy of the bytes queued in the current transaction
func (w *Wire) Buffered() []byte {
	out := make([]byte, w.n)
	copy(out, w.buf[:w.n])
	return out
}

// EndTransmission sends the queued bytes and returns the completion code.
// An overflowed transaction is not sent.
func (w *Wire) EndTransmission() Status {
	if !w.active {
		return OtherError
	}
	w.active = false

	if w.overflow {
		return DataTooLong
	}
	if w.addr > 0x7F {
		return OtherError
	}

	return Classify(w.bus.Tx(w.addr, w.buf[:w.n], nil))
}
