// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 9600, cfg.Baud)
	assert.Equal(t, "relay", cfg.Mode)
	assert.Equal(t, uint16(0x68), cfg.Address)
	assert.Equal(t, 10*time.Second, cfg.ReadyTimeout)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
port: /dev/ttyGS0
mode: frequency
bus: sim
address: 0x60
ready_timeout: 3s
idle_flush: 1s
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyGS0", cfg.Port)
	assert.Equal(t, 9600, cfg.Baud, "unset keys keep defaults")
	assert.Equal(t, uint16(0x60), cfg.Address)
	assert.Equal(t, 3*time.Second, cfg.ReadyTimeout)
	assert.Equal(t, time.Second, cfg.IdleFlush)

	mode, err := cfg.BridgeMode()
	require.NoError(t, err)
	assert.Equal(t, maxproto.ModeFrequency, mode)
	assert.NoError(t, cfg.Validate())
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("baudrate: 9600\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maxbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: ws://bench/link\nbus: sim\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://bench/link", cfg.URL)
	assert.NoError(t, cfg.Validate())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Port = "/dev/ttyGS0"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no link", func(c *Config) { c.Port = "" }},
		{"bad baud", func(c *Config) { c.Baud = 0 }},
		{"bad mode", func(c *Config) { c.Mode = "spi" }},
		{"bad bus", func(c *Config) { c.Bus = "usb" }},
		{"ten-bit address", func(c *Config) { c.Address = 0x80 }},
		{"zero ready timeout", func(c *Config) { c.ReadyTimeout = 0 }},
		{"negative idle flush", func(c *Config) { c.IdleFlush = -time.Second }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
