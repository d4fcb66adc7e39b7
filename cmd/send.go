// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/hostlink"
	"github.com/spf13/cobra"
)

const sendDrainWindow = 200 * time.Millisecond

var (
	sendTimeout time.Duration
	sendCount   int
	sendSettle  time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send <command...>",
	Short: "Send one command to a bridge and print its report",
	Long: `Send a command line to a running bridge and wait for its report.

Arguments are joined with single spaces, so both of these send the same line:
  maxbridge send -p /dev/ttyUSB0 SETFREQ 2400
  maxbridge send -p /dev/ttyUSB0 "SETFREQ 2400"

With --count the same command is sent repeatedly and a summary is printed.

Exit codes:
  0 - Every command was answered with SUCCESS
  1 - One or more commands failed or timed out
  2 - Connection error`,
	Args: cobra.ArbitraryArgs,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", time.Second, "Time to wait for each report")
	sendCmd.Flags().IntVar(&sendCount, "count", 1, "Number of times to send the command")
	sendCmd.Flags().DurationVar(&sendSettle, "settle", hostlink.DefaultSettle, "Pause between sending and reading")
}

func runSend(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")

	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer conn.Close()

	client, err := hostlink.New(conn, sendSettle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}

	if sendCount > 1 {
		fmt.Printf("Connection: %s\n", connInfo)
		fmt.Printf("Command: %q x %d\n\n", command, sendCount)
	}

	successCount, failCount, err := sendCommands(context.Background(), client, os.Stdout, command, sendCount, sendTimeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}

	if sendCount > 1 {
		fmt.Printf("\n--- Send statistics ---\n")
		fmt.Printf("%d commands sent, %d succeeded, %.0f%% failed\n",
			sendCount, successCount, float64(failCount)/float64(sendCount)*100)
	}

	if failCount > 0 {
		os.Exit(1)
	}
	return nil
}

// sendCommands discards any pending lines (such as the readiness
// announcement of a bridge that just started), then sends command count
// times and prints each report to out.
func sendCommands(ctx context.Context, client exchanger, out io.Writer, command string, count int, timeout time.Duration) (successCount, failCount int, err error) {
	if _, err := client.Drain(ctx, sendDrainWindow); err != nil {
		return 0, 0, err
	}

	for i := 1; i <= count; i++ {
		report, err := client.Exchange(ctx, command, timeout)
		switch {
		case err != nil:
			fmt.Fprintf(out, "FAILED: %v\n", err)
			failCount++
		case report.IsSuccess():
			fmt.Fprintln(out, report.String())
			successCount++
		default:
			fmt.Fprintln(out, report.String())
			failCount++
		}
	}
	return successCount, failCount, nil
}
