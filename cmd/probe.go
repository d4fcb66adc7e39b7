// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/hostlink"
	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/spf13/cobra"
)

var (
	probeTimeout int
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Test connection by waiting for a bridge report line",
	Long: `Wait for a valid report line on the connection until timeout.

Open the link and wait for the bridge's readiness announcement (or any other
SUCCESS/ERROR line). Lines that are not valid reports are skipped.

Exit codes:
  0 - Report received before timeout
  1 - Timeout reached without receiving a valid report
  2 - Connection error

Useful right after resetting the bridge.`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().IntVar(&probeTimeout, "timeout", 10, "Timeout in seconds to wait for a report")
}

func runProbe(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	fmt.Printf("Maxbridge - Probe\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Timeout: %d seconds\n", probeTimeout)
	fmt.Printf("Waiting for a report line...\n\n")

	client, err := hostlink.New(conn, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}

	deadline := time.Now().Add(time.Duration(probeTimeout) * time.Second)
	skipped := 0

	for time.Now().Before(deadline) {
		report, line, err := client.ReadReport(context.Background(), time.Until(deadline))
		if errors.Is(err, hostlink.ErrTimeout) {
			break
		}
		if err != nil && line == "" {
			fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
			os.Exit(2)
		}
		if err != nil {
			// Not a report line, keep waiting
			skipped++
			continue
		}

		if skipped > 0 {
			fmt.Printf("(skipped %d lines that were not reports)\n", skipped)
		}
		fmt.Printf("SUCCESS: Received report\n")
		fmt.Printf("  Kind: %s\n", maxproto.FormatErrorClass(report))
		fmt.Printf("  Message: %s\n", report.Message)
		if !report.IsSuccess() {
			fmt.Printf("  Code: %d (%s)\n", report.Code, maxproto.FormatBusStatus(report.Code))
		}
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "TIMEOUT: No report received within %d seconds\n", probeTimeout)
	os.Exit(1)
	return nil
}
