// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config holds the bridge settings loaded from a YAML file and
// overridden by command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/logging"
	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"gopkg.in/yaml.v3"
)

// Bus backends
const (
	BusReefPi = "reefpi"
	BusSim    = "sim"
)

// Config is the full bridge configuration
type Config struct {
	// Host link
	Port        string `yaml:"port"`
	Baud        int    `yaml:"baud"`
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	NoSSLVerify bool   `yaml:"no_ssl_verify"`

	// Bridge
	Mode         string        `yaml:"mode"`
	Bus          string        `yaml:"bus"`
	Address      uint16        `yaml:"address"`
	ReadyTimeout time.Duration `yaml:"ready_timeout"`
	WaitDSR      bool          `yaml:"wait_dsr"`
	IdleFlush    time.Duration `yaml:"idle_flush"`

	// Ambient
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Baud:         maxproto.DefaultBaudRate,
		Mode:         maxproto.ModeRelay.String(),
		Bus:          BusReefPi,
		Address:      maxproto.DeviceAddress,
		ReadyTimeout: 10 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads a YAML file on top of the defaults
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for a bridge run
func (c Config) Validate() error {
	if c.Port == "" && c.URL == "" {
		return errors.New("either port or url must be specified")
	}
	if c.Port != "" && c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if _, err := c.BridgeMode(); err != nil {
		return err
	}
	switch c.Bus {
	case BusReefPi, BusSim:
	default:
		return fmt.Errorf("unknown bus %q (use %s or %s)", c.Bus, BusReefPi, BusSim)
	}
	if c.Address > 0x7F {
		return fmt.Errorf("address 0x%X is not a 7-bit address", c.Address)
	}
	if c.ReadyTimeout <= 0 {
		return fmt.Errorf("ready timeout must be positive, got %s", c.ReadyTimeout)
	}
	if c.IdleFlush < 0 {
		return fmt.Errorf("idle flush must not be negative, got %s", c.IdleFlush)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// BridgeMode returns the parsed mode
func (c Config) BridgeMode() (maxproto.Mode, error) {
	return maxproto.ParseMode(c.Mode)
}
