// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package twowire

import (
	"time"

	"github.com/Thermoquad/maxbridge/pkg/maxproto"
)

// Outcome is the result of one bus transaction
type Outcome struct {
	Status   Status
	Payload  []byte // bytes handed to the bus
	Duration time.Duration
}

// Transmitter writes interpreted operations to a fixed device address
type Transmitter struct {
	wire    *Wire
	address uint16
}

// NewTransmitter creates a transmitter for the device at address
func NewTransmitter(wire *Wire, address uint16) *Transmitter {
	return &Transmitter{wire: wire, address: address}
}

// Address returns the device address
func (t *Transmitter) Address() uint16 {
	return t.address
}

// Transmit opens a transaction, writes the encoded operation and closes it.
// The status from the bus is returned verbatim.
func (t *Transmitter) Transmit(op maxproto.Operation) Outcome {
	payload, err := maxproto.EncodeOperation(op)
	if err != nil {
		return Outcome{Status: OtherError}
	}

	start := time.Now()
	t.wire.BeginTransmission(t.address)
	// An overflow is reported by EndTransmission
	_, _ = t.wire.Write(payload)
	status := t.wire.EndTransmission()

	return Outcome{
		Status:   status,
		Payload:  payload,
		Duration: time.Since(start),
	}
}
