// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package hostlink is the host side of the bridge link: send a command line,
// wait for the bridge's report line.
package hostlink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/Thermoquad/maxbridge/pkg/serialline"
)

// ErrTimeout is returned when no line arrives in time
var ErrTimeout = errors.New("timed out waiting for bridge response")

// DefaultSettle is the pause between sending a command and reading its report
const DefaultSettle = 100 * time.Millisecond

// Client exchanges commands and reports with a bridge
type Client struct {
	lines  *serialline.Listener
	settle time.Duration
}

// New creates a client on port. settle is the pause after each command
// before reading; zero disables it.
func New(port serialline.Port, settle time.Duration) (*Client, error) {
	lines, err := serialline.New(port, serialline.Config{})
	if err != nil {
		return nil, err
	}
	return &Client{lines: lines, settle: settle}, nil
}

// Send writes one command line
func (c *Client) Send(command string) error {
	return c.lines.WriteLine(command)
}

// ReadLine waits up to timeout for the next line
func (c *Client) ReadLine(ctx context.Context, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)

	for {
		raw, ok, err := c.lines.Poll()
		if err != nil {
			return "", err
		}
		if ok {
			return raw.String(), nil
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if time.Now().After(deadline) {
			return "", ErrTimeout
		}
	}
}

// ReadReport waits up to timeout for the next line and parses it. The raw
// line is returned even when it does not parse.
func (c *Client) ReadReport(ctx context.Context, timeout time.Duration) (maxproto.Report, string, error) {
	line, err := c.ReadLine(ctx, timeout)
	if err != nil {
		return maxproto.Report{}, "", err
	}
	report, err := maxproto.ParseReport(line)
	return report, line, err
}

// Exchange sends command and returns the bridge's report
func (c *Client) Exchange(ctx context.Context, command string, timeout time.Duration) (maxproto.Report, error) {
	if err := c.Send(command); err != nil {
		return maxproto.Report{}, err
	}

	if c.settle > 0 {
		select {
		case <-time.After(c.settle):
		case <-ctx.Done():
			return maxproto.Report{}, ctx.Err()
		}
	}

	report, line, err := c.ReadReport(ctx, timeout)
	if err != nil {
		if line != "" {
			return maxproto.Report{}, fmt.Errorf("unexpected response %q: %w", line, err)
		}
		return maxproto.Report{}, err
	}
	return report, nil
}

// Drain reads and returns every line that arrives within window
func (c *Client) Drain(ctx context.Context, window time.Duration) ([]string, error) {
	var lines []string
	deadline := time.Now().Add(window)

	for time.Now().Before(deadline) {
		line, err := c.ReadLine(ctx, time.Until(deadline))
		if errors.Is(err, ErrTimeout) {
			break
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
