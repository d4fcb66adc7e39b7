// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/hostlink"
	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/spf13/cobra"
)

var (
	monitorStatsInterval int
)

// Read error handling for monitor
const (
	monitorBackoffMin    = 100 * time.Millisecond
	monitorBackoffMax    = 2 * time.Second
	monitorMaxReadErrors = 10
)

// readBackoff spaces out retries after consecutive read errors
type readBackoff struct {
	failures int
}

// failed records a read error and returns the delay before the next read.
// ok is false once monitorMaxReadErrors errors occurred in a row.
func (b *readBackoff) failed() (delay time.Duration, ok bool) {
	b.failures++
	if b.failures >= monitorMaxReadErrors {
		return 0, false
	}
	delay = monitorBackoffMin << (b.failures - 1)
	if delay > monitorBackoffMax {
		delay = monitorBackoffMax
	}
	return delay, true
}

// succeeded resets the error count
func (b *readBackoff) succeeded() {
	b.failures = 0
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Display report lines from a bridge in human-readable format",
	Long: `Continuously read and display bridge report lines as they arrive.

Each line is shown with a timestamp and its class (SUCCESS, REJECTED or
BUS_ERROR). Lines that are not valid reports are shown as malformed. A
statistics summary is printed periodically and on exit.

Supports both serial and WebSocket connections.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().IntVar(&monitorStatsInterval, "stats-interval", 30, "Seconds between statistics summaries (0 disables)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Maxbridge - Report Monitor\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	client, err := hostlink.New(conn, 0)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats := maxproto.NewStatistics()
	lastStats := time.Now()
	var backoff readBackoff

	for {
		line, err := client.ReadLine(ctx, time.Second)
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Print("\n" + stats.String())
			return nil
		case errors.Is(err, io.EOF):
			log.Printf("Connection closed")
			fmt.Print(stats.String())
			return nil
		case errors.Is(err, hostlink.ErrTimeout):
			// Nothing received, fall through to stats check
			backoff.succeeded()
		case err != nil:
			log.Printf("Read error: %v", err)
			delay, ok := backoff.failed()
			if !ok {
				fmt.Print(stats.String())
				return fmt.Errorf("giving up after %d consecutive read errors: %w", monitorMaxReadErrors, err)
			}
			select {
			case <-ctx.Done():
			case <-time.After(delay):
			}
		default:
			backoff.succeeded()
			report, parseErr := maxproto.ParseReport(line)
			stats.Update(report, parseErr)
			if parseErr != nil {
				fmt.Printf("[%s] MALFORMED %q\n", time.Now().Format("15:04:05.000"), line)
			} else {
				fmt.Print(maxproto.FormatReport(report, time.Now()))
			}
		}

		if monitorStatsInterval > 0 && time.Since(lastStats) >= time.Duration(monitorStatsInterval)*time.Second {
			fmt.Print(stats.String())
			lastStats = time.Now()
		}
	}
}
