// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package bridge runs the command loop between the host link and the
// synthesizer bus: read a line, interpret it, transmit it, report the outcome.
//
// Exactly one report is written per command. Commands are handled strictly
// in arrival order and no failure stops the loop.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/logging"
	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/Thermoquad/maxbridge/pkg/twowire"
)

// ErrNotReady is returned by Start when the host link never became ready
var ErrNotReady = errors.New("host link not ready")

// LineSource is the host side of the bridge
type LineSource interface {
	Poll() (maxproto.RawCommand, bool, error)
	WriteLine(s string) error
}

// Transmitter performs one bus transaction for an operation
type Transmitter interface {
	Transmit(op maxproto.Operation) twowire.Outcome
}

// ReadyFunc reports whether the host link is ready
type ReadyFunc func() (bool, error)

// Defaults
const (
	DefaultReadyTimeout  = 10 * time.Second
	DefaultReadyInterval = 50 * time.Millisecond
	readErrorBackoff     = 100 * time.Millisecond
)

// Bridge connects a LineSource to a Transmitter
type Bridge struct {
	lines         LineSource
	interp        maxproto.Interpreter
	tx            Transmitter
	logger        *slog.Logger
	metrics       *Metrics
	ready         ReadyFunc
	readyTimeout  time.Duration
	readyInterval time.Duration
}

// Option configures a Bridge
type Option func(*Bridge)

// WithLogger sets the diagnostic logger
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) { b.logger = l }
}

// WithMetrics records cycle and bus metrics
func WithMetrics(m *Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// WithReadyCheck makes Start wait until ready reports true, for at most
// timeout, probing every interval.
func WithReadyCheck(ready ReadyFunc, timeout, interval time.Duration) Option {
	return func(b *Bridge) {
		b.ready = ready
		if timeout > 0 {
			b.readyTimeout = timeout
		}
		if interval > 0 {
			b.readyInterval = interval
		}
	}
}

// New creates a Bridge
func New(lines LineSource, interp maxproto.Interpreter, tx Transmitter, opts ...Option) *Bridge {
	b := &Bridge{
		lines:         lines,
		interp:        interp,
		tx:            tx,
		logger:        logging.NewNop(),
		readyTimeout:  DefaultReadyTimeout,
		readyInterval: DefaultReadyInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start waits for the host link and announces readiness to the host
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.waitReady(ctx); err != nil {
		return err
	}

	if err := b.lines.WriteLine(maxproto.SuccessReport(maxproto.MsgReady).String()); err != nil {
		return fmt.Errorf("failed to announce readiness: %w", err)
	}
	b.logger.Info("bridge ready")
	return nil
}

func (b *Bridge) waitReady(ctx context.Context) error {
	if b.ready == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.readyTimeout)
	defer cancel()

	ticker := time.NewTicker(b.readyInterval)
	defer ticker.Stop()

	for {
		ok, err := b.ready()
		if err != nil {
			b.logger.Debug("ready probe failed", "error", err)
		} else if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w after %s", ErrNotReady, b.readyTimeout)
		case <-ticker.C:
		}
	}
}

// Run polls the host link and handles commands until ctx is cancelled or
// the link is closed.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		raw, ok, err := b.lines.Poll()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("host link closed: %w", err)
			}
			b.logger.Warn("read failed", "error", err)
			time.Sleep(readErrorBackoff)
			continue
		}
		if !ok {
			continue
		}

		report := b.Cycle(raw)
		if err := b.lines.WriteLine(report.String()); err != nil {
			b.logger.Error("failed to write report", "report", report.String(), "error", err)
			if b.metrics != nil {
				b.metrics.WriteFails.Inc()
			}
		}
	}
}

// Cycle handles one command and returns its report
func (b *Bridge) Cycle(raw maxproto.RawCommand) maxproto.Report {
	op, err := b.interp.Interpret(raw)
	if err != nil {
		var verr *maxproto.ValidationError
		report := maxproto.ErrorReport(err.Error(), maxproto.CodeValidation)
		if errors.As(err, &verr) {
			report = verr.Report()
		}
		b.logger.Debug("command rejected", "input", raw.String(), "error", err)
		b.countCycle(OutcomeRejected)
		return report
	}

	out := b.tx.Transmit(op)
	if b.metrics != nil {
		b.metrics.BusStatus.WithLabelValues(out.Status.String()).Inc()
		b.metrics.BusLatency.Observe(out.Duration.Seconds())
	}

	if out.Status != twowire.Success {
		b.logger.Warn("bus transaction failed",
			"status", out.Status.String(),
			"code", out.Status.Code(),
			"payload", maxproto.FormatBytes(out.Payload),
		)
		b.countCycle(OutcomeBusError)
		return maxproto.ErrorReport(maxproto.MsgTransmitFailed, out.Status.Code())
	}

	b.logger.Debug("bus transaction", "payload", maxproto.FormatBytes(out.Payload), "duration", out.Duration)
	b.countCycle(OutcomeSuccess)
	return maxproto.SuccessReport(op.Describe())
}

func (b *Bridge) countCycle(outcome string) {
	if b.metrics != nil {
		b.metrics.Cycles.WithLabelValues(outcome).Inc()
	}
}
