// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/bridge"
	"github.com/Thermoquad/maxbridge/pkg/config"
	"github.com/Thermoquad/maxbridge/pkg/logging"
	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/Thermoquad/maxbridge/pkg/serialline"
	"github.com/Thermoquad/maxbridge/pkg/twowire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"tinygo.org/x/drivers"
)

var (
	serveConfigPath   string
	serveMode         string
	serveBus          string
	serveAddress      uint16
	serveReadyTimeout time.Duration
	serveWaitDSR      bool
	serveIdleFlush    time.Duration
	serveMetricsAddr  string
	serveLogLevel     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bridge between the host link and the synthesizer",
	Long: `Run the command bridge.

The bridge waits for the host link to become ready, announces itself with a
SUCCESS line and then handles one command per line:

  relay mode:      the line is written to the synthesizer verbatim
                   (up to the first NUL byte)
  frequency mode:  "<token> <frequency>" is written as [0x51, high, low]

Every command is answered with exactly one line:
  SUCCESS: <confirmation>
  ERROR: <message> | Error Code: <n>

Bus backends:
  reefpi - Linux i2c-dev (/dev/i2c-1)
  sim    - in-memory bus with a device at --address (bench testing)

Readiness: a serial link is ready as soon as the port is open, and a
WebSocket link once it is connected, so the startup wait returns at once.
Only with --wait-dsr does the bridge wait (up to --ready-timeout) for the
host to assert DSR on the serial line.

Settings can be read from a YAML file with --config; flags given on the
command line take precedence.

Exit codes:
  0 - Stopped by signal
  1 - Startup failed or host link lost`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	defaults := config.Default()
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "YAML configuration file")
	serveCmd.Flags().StringVarP(&serveMode, "mode", "m", defaults.Mode, "Command vocabulary: relay or frequency")
	serveCmd.Flags().StringVar(&serveBus, "bus", defaults.Bus, "Bus backend: reefpi or sim")
	serveCmd.Flags().Uint16Var(&serveAddress, "address", defaults.Address, "7-bit I2C address of the synthesizer")
	serveCmd.Flags().DurationVar(&serveReadyTimeout, "ready-timeout", defaults.ReadyTimeout, "Maximum wait for the host link at startup")
	serveCmd.Flags().BoolVar(&serveWaitDSR, "wait-dsr", false, "Treat the serial link as ready only once DSR is asserted")
	serveCmd.Flags().DurationVar(&serveIdleFlush, "idle-flush", 0, "End an unterminated command after this much idle time (0 waits for newline)")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :2112)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
}

// loadServeConfig merges the config file with flags set on the command line
func loadServeConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if serveConfigPath != "" {
		var err error
		cfg, err = config.Load(serveConfigPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = portName
	}
	if flags.Changed("baud") {
		cfg.Baud = baudRate
	}
	if flags.Changed("url") {
		cfg.URL = wsURL
	}
	if flags.Changed("username") {
		cfg.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		cfg.NoSSLVerify = wsNoSSLVerify
	}
	if flags.Changed("mode") {
		cfg.Mode = serveMode
	}
	if flags.Changed("bus") {
		cfg.Bus = serveBus
	}
	if flags.Changed("address") {
		cfg.Address = serveAddress
	}
	if flags.Changed("ready-timeout") {
		cfg.ReadyTimeout = serveReadyTimeout
	}
	if flags.Changed("wait-dsr") {
		cfg.WaitDSR = serveWaitDSR
	}
	if flags.Changed("idle-flush") {
		cfg.IdleFlush = serveIdleFlush
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = serveMetricsAddr
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = serveLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openBus opens the configured bus backend. The returned function releases it.
func openBus(cfg config.Config) (drivers.I2C, func() error, error) {
	switch cfg.Bus {
	case config.BusSim:
		return twowire.NewSimBus(cfg.Address), func() error { return nil }, nil
	case config.BusReefPi:
		bus, err := twowire.OpenReefBus()
		if err != nil {
			return nil, nil, err
		}
		return bus, bus.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown bus %q", cfg.Bus)
	}
}

// startMetricsServer serves reg on addr until ctx is done
func startMetricsServer(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level)
	mode, _ := cfg.BridgeMode()

	// Open host link (serial or WebSocket)
	conn, connInfo, err := openLink(linkOptions{
		port:        cfg.Port,
		baud:        cfg.Baud,
		url:         cfg.URL,
		username:    cfg.Username,
		noSSLVerify: cfg.NoSSLVerify,
		waitDSR:     cfg.WaitDSR,
	})
	if err != nil {
		return err
	}
	defer conn.Close()

	bus, closeBus, err := openBus(cfg)
	if err != nil {
		return err
	}
	defer closeBus()

	lines, err := serialline.New(conn, serialline.Config{IdleFlush: cfg.IdleFlush})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []bridge.Option{
		bridge.WithLogger(logger),
		bridge.WithReadyCheck(conn.Ready, cfg.ReadyTimeout, 0),
	}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts = append(opts, bridge.WithMetrics(bridge.NewMetrics(reg)))
		startMetricsServer(ctx, cfg.MetricsAddr, reg, logger)
	}

	tx := twowire.NewTransmitter(twowire.New(bus), cfg.Address)
	b := bridge.New(lines, maxproto.NewInterpreter(mode), tx, opts...)

	logger.Info("starting bridge",
		"link", connInfo,
		"mode", mode.String(),
		"bus", cfg.Bus,
		"address", fmt.Sprintf("0x%02X", tx.Address()),
	)

	if err := b.Start(ctx); err != nil {
		return err
	}
	if err := b.Run(ctx); err != nil {
		return err
	}

	logger.Info("bridge stopped")
	return nil
}
