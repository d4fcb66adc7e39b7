// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/hostlink"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	consoleTimeout time.Duration
	consoleSettle  time.Duration
	consolePlain   bool
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive console for sending commands to a bridge",
	Long: `Type commands and see the bridge's report for each one.

Each command is sent as one line. After a short settle delay the console waits
for the report line and shows it. Type "exit" to quit.

When stdout is a terminal an interactive TUI is used (Up/Down recall earlier
commands, Ctrl+C quits). With --plain, or when output is redirected, a simple
line prompt is used instead.

Supports both serial and WebSocket connections.`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().DurationVar(&consoleTimeout, "timeout", time.Second, "Time to wait for each report")
	consoleCmd.Flags().DurationVar(&consoleSettle, "settle", hostlink.DefaultSettle, "Pause between sending and reading")
	consoleCmd.Flags().BoolVar(&consolePlain, "plain", false, "Use a plain line prompt instead of the TUI")
}

func runConsole(cmd *cobra.Command, args []string) error {
	// Open connection (serial or WebSocket)
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := hostlink.New(conn, consoleSettle)
	if err != nil {
		return err
	}

	if consolePlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlainConsole(client, connInfo, os.Stdin, os.Stdout)
	}

	p := tea.NewProgram(initialConsoleModel(client, connInfo, consoleTimeout), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// runPlainConsole is the line-prompt console used without a terminal
func runPlainConsole(client *hostlink.Client, connInfo string, in io.Reader, out io.Writer) error {
	ctx := context.Background()
	fmt.Fprintf(out, "Connected: %s\n", connInfo)

	// Show anything the bridge already said (its readiness line)
	pending, err := client.Drain(ctx, 200*time.Millisecond)
	if err != nil {
		return err
	}
	for _, line := range pending {
		fmt.Fprintf(out, "Bridge response: %s\n", line)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter a command or 'exit' to quit: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		command := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(command), "exit") {
			fmt.Fprintln(out, "Exiting...")
			return nil
		}

		fmt.Fprintf(out, "Sending command: %s\n", command)
		report, err := client.Exchange(ctx, command, consoleTimeout)
		if err != nil {
			fmt.Fprintf(out, "Error sending command: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "Bridge response: %s\n", report.String())
	}
}
