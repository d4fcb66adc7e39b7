// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package twowire

import (
	"bytes"
	"testing"

	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransmitter_Relay(t *testing.T) {
	bus := NewSimBus(maxproto.DeviceAddress)
	tx := NewTransmitter(New(bus), maxproto.DeviceAddress)

	out := tx.Transmit(maxproto.RelayBytes{Payload: []byte("PING")})
	require.Equal(t, Success, out.Status)
	assert.Equal(t, []byte("PING"), out.Payload)

	txs := bus.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, tx.Address(), txs[0].Addr)
	assert.Equal(t, uint16(0x68), txs[0].Addr)
	assert.Equal(t, []byte("PING"), txs[0].Data)
}

func TestTransmitter_Frequency(t *testing.T) {
	bus := NewSimBus(maxproto.DeviceAddress)
	tx := NewTransmitter(New(bus), maxproto.DeviceAddress)

	out := tx.Transmit(maxproto.SetFrequency{Value: 2400})
	require.Equal(t, Success, out.Status)
	assert.Equal(t, []byte{0x51, 0x09, 0x60}, bus.Transactions()[0].Data)
}

func TestTransmitter_FrequencyTruncated(t *testing.T) {
	bus := NewSimBus(maxproto.DeviceAddress)
	tx := NewTransmitter(New(bus), maxproto.DeviceAddress)

	tx.Transmit(maxproto.SetFrequency{Value: 65536 + 2400})
	assert.Equal(t, []byte{0x51, 0x09, 0x60}, bus.Transactions()[0].Data)
}

func TestTransmitter_StatusPassThrough(t *testing.T) {
	for _, status := range []Status{DataTooLong, AddressNack, DataNack, OtherError, Timeout} {
		t.Run(status.String(), func(t *testing.T) {
			bus := NewSimBus(maxproto.DeviceAddress)
			bus.Script(status)
			tx := NewTransmitter(New(bus), maxproto.DeviceAddress)

			out := tx.Transmit(maxproto.RelayBytes{Payload: []byte("X")})
			assert.Equal(t, status, out.Status)
		})
	}
}

func TestTransmitter_RelayTooLong(t *testing.T) {
	bus := NewSimBus(maxproto.DeviceAddress)
	tx := NewTransmitter(New(bus), maxproto.DeviceAddress)

	out := tx.Transmit(maxproto.RelayBytes{Payload: bytes.Repeat([]byte("A"), 40)})
	assert.Equal(t, DataTooLong, out.Status)
	assert.Empty(t, bus.Transactions())
}

func TestTransmitter_NilOperation(t *testing.T) {
	tx := NewTransmitter(New(NewSimBus(0x68)), 0x68)
	assert.Equal(t, OtherError, tx.Transmit(nil).Status)
}

func TestSimBus_ScriptConsumedInOrder(t *testing.T) {
	bus := NewSimBus(0x68)
	bus.Script(AddressNack, Timeout)
	w := New(bus)

	var got []Status
	for i := 0; i < 3; i++ {
		w.BeginTransmission(0x68)
		_ = w.WriteByte(byte(i))
		got = append(got, w.EndTransmission())
	}

	assert.Equal(t, []Status{AddressNack, Timeout, Success}, got)
	assert.Len(t, bus.Transactions(), 1)

	bus.Reset()
	assert.Empty(t, bus.Transactions())
}
