// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package twowire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errBus fails every transaction with err
type errBus struct {
	err   error
	calls int
}

func (b *errBus) Tx(addr uint16, w, r []byte) error {
	b.calls++
	return b.err
}

func TestWire_SendsBufferedBytes(t *testing.T) {
	bus := NewSimBus(0x68)
	w := New(bus)

	w.BeginTransmission(0x68)
	require.NoError(t, w.WriteByte(0x51))
	n, err := w.Write([]byte{0x09, 0x60})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{0x51, 0x09, 0x60}, w.Buffered())

	assert.Equal(t, Success, w.EndTransmission())

	txs := bus.Transactions()
	require.Len(t, txs, 1)
	assert.Equal(t, uint16(0x68), txs[0].Addr)
	assert.Equal(t, []byte{0x51, 0x09, 0x60}, txs[0].Data)
}

func TestWire_Overflow(t *testing.T) {
	bus := NewSimBus(0x68)
	w := New(bus)

	w.BeginTransmission(0x68)
	n, err := w.Write(bytes.Repeat([]byte{0xAA}, BufferSize+1))
	assert.ErrorIs(t, err, ErrBufferFull)
	assert.Equal(t, BufferSize, n)

	assert.Equal(t, DataTooLong, w.EndTransmission())
	assert.Empty(t, bus.Transactions(), "overflowed transaction must not reach the bus")
}

func TestWire_ExactBuffer(t *testing.T) {
	bus := NewSimBus(0x68)
	w := New(bus)

	w.BeginTransmission(0x68)
	_, err := w.Write(bytes.Repeat([]byte{0x01}, BufferSize))
	require.NoError(t, err)
	assert.Equal(t, Success, w.EndTransmission())
}

func TestWire_WriteOutsideTransaction(t *testing.T) {
	w := New(NewSimBus(0x68))
	assert.ErrorIs(t, w.WriteByte(0x01), ErrNoTransaction)
	assert.Equal(t, OtherError, w.EndTransmission())
}

func TestWire_BeginDiscardsPrevious(t *testing.T) {
	bus := NewSimBus(0x68)
	w := New(bus)

	w.BeginTransmission(0x68)
	_, _ = w.Write([]byte("stale"))
	w.BeginTransmission(0x68)
	_, _ = w.Write([]byte("ok"))
	require.Equal(t, Success, w.EndTransmission())

	assert.Equal(t, []byte("ok"), bus.Transactions()[0].Data)
}

func TestWire_AddressNack(t *testing.T) {
	bus := NewSimBus(0x68)
	w := New(bus)

	w.BeginTransmission(0x60)
	_, _ = w.Write([]byte("PING"))
	assert.Equal(t, AddressNack, w.EndTransmission())
}

func TestWire_TenBitAddressRejected(t *testing.T) {
	bus := &errBus{}
	w := New(bus)

	w.BeginTransmission(0x1FF)
	assert.Equal(t, OtherError, w.EndTransmission())
	assert.Zero(t, bus.calls)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, Success},
		{"status error", &StatusError{Status: DataNack}, DataNack},
		{"wrapped status error", fmt.Errorf("bus: %w", &StatusError{Status: Timeout}), Timeout},
		{"enxio", &os.PathError{Op: "write", Path: "/dev/i2c-1", Err: syscall.ENXIO}, AddressNack},
		{"eio", syscall.EIO, DataNack},
		{"etimedout", syscall.ETIMEDOUT, Timeout},
		{"deadline", context.DeadlineExceeded, Timeout},
		{"emsgsize", syscall.EMSGSIZE, DataTooLong},
		{"other", errors.New("boom"), OtherError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWire_ClassifiesBackendErrors(t *testing.T) {
	w := New(&errBus{err: &os.PathError{Op: "write", Path: "/dev/i2c-1", Err: syscall.ENXIO}})
	w.BeginTransmission(0x68)
	_, _ = w.Write([]byte("PING"))
	assert.Equal(t, AddressNack, w.EndTransmission())
}

func TestStatus_Codes(t *testing.T) {
	assert.Equal(t, 0, Success.Code())
	assert.Equal(t, 1, DataTooLong.Code())
	assert.Equal(t, 2, AddressNack.Code())
	assert.Equal(t, 3, DataNack.Code())
	assert.Equal(t, 4, OtherError.Code())
	assert.Equal(t, 5, Timeout.Code())
	assert.Equal(t, "address_nack", AddressNack.String())
}
