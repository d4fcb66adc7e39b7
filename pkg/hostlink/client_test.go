// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package hostlink

import (
	"context"
	"testing"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/Thermoquad/maxbridge/pkg/serialline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Exchange(t *testing.T) {
	port := serialline.NewMemPort()
	client, err := New(port, 0)
	require.NoError(t, err)

	port.Feed("SUCCESS: Frequency set to: 2400\r\n")
	report, err := client.Exchange(context.Background(), "SETFREQ 2400", 50*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, maxproto.SuccessReport("Frequency set to: 2400"), report)
	assert.Equal(t, []string{"SETFREQ 2400"}, port.Lines())
}

func TestClient_ExchangeError(t *testing.T) {
	port := serialline.NewMemPort()
	client, err := New(port, 0)
	require.NoError(t, err)

	port.Feed("ERROR: I2C transmission failed | Error Code: 2\n")
	report, err := client.Exchange(context.Background(), "PING", 50*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, report.IsBusFailure())
	assert.Equal(t, 2, report.Code)
}

func TestClient_ExchangeGarbage(t *testing.T) {
	port := serialline.NewMemPort()
	client, err := New(port, 0)
	require.NoError(t, err)

	port.Feed("hello\n")
	_, err = client.Exchange(context.Background(), "PING", 50*time.Millisecond)
	assert.ErrorContains(t, err, "unexpected response")
}

func TestClient_Timeout(t *testing.T) {
	client, err := New(serialline.NewMemPort(), 0)
	require.NoError(t, err)

	_, err = client.ReadLine(context.Background(), 5*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_ReadLineCancelled(t *testing.T) {
	client, err := New(serialline.NewMemPort(), 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.ReadLine(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Drain(t *testing.T) {
	port := serialline.NewMemPort()
	client, err := New(port, 0)
	require.NoError(t, err)

	port.Feed("SUCCESS: " + maxproto.MsgReady + "\nSUCCESS: extra\n")
	lines, err := client.Drain(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []string{"SUCCESS: " + maxproto.MsgReady, "SUCCESS: extra"}, lines)
}
