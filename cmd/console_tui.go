// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/hostlink"
	"github.com/Thermoquad/maxbridge/pkg/maxproto"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// consoleEntry is one line in the console log
type consoleEntry struct {
	timestamp time.Time
	sent      string // command, empty for unsolicited lines
	report    maxproto.Report
	err       error
}

// exchanger is the part of hostlink.Client used by the console
type exchanger interface {
	Exchange(ctx context.Context, command string, timeout time.Duration) (maxproto.Report, error)
	Drain(ctx context.Context, window time.Duration) ([]string, error)
}

// consoleModel is the Bubble Tea model for the console TUI
type consoleModel struct {
	client   exchanger
	connInfo string
	timeout  time.Duration

	input      textinput.Model
	history    []string
	historyPos int
	busy       bool // an exchange or the startup drain owns the client

	log           []consoleEntry
	maxLogEntries int
	stats         *maxproto.Statistics

	width    int
	height   int
	quitting bool
}

// Messages
type consoleTickMsg time.Time
type exchangeDoneMsg struct {
	command string
	report  maxproto.Report
	err     error
}
type drainDoneMsg struct {
	lines []string
	err   error
}

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialConsoleModel(client *hostlink.Client, connInfo string, timeout time.Duration) consoleModel {
	return newConsoleModel(client, connInfo, timeout)
}

func newConsoleModel(client exchanger, connInfo string, timeout time.Duration) consoleModel {
	ti := textinput.New()
	ti.Placeholder = "SETFREQ 2400"
	ti.CharLimit = 256
	ti.Width = 50
	ti.Prompt = "> "
	ti.Focus()

	return consoleModel{
		client:        client,
		connInfo:      connInfo,
		timeout:       timeout,
		input:         ti,
		busy:          true,
		log:           make([]consoleEntry, 0),
		maxLogEntries: 200,
		stats:         maxproto.NewStatistics(),
		width:         80,
		height:        24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		consoleTickCmd(),
		m.drainCmd(),
	)
}

func consoleTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return consoleTickMsg(t)
	})
}

func (m consoleModel) drainCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		lines, err := client.Drain(context.Background(), 200*time.Millisecond)
		return drainDoneMsg{lines: lines, err: err}
	}
}

func (m consoleModel) exchangeCmd(command string) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		report, err := client.Exchange(context.Background(), command, timeout)
		return exchangeDoneMsg{command: command, report: report, err: err}
	}
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-6)

	case consoleTickMsg:
		m.stats.CalculateRates()
		return m, consoleTickCmd()

	case drainDoneMsg:
		m.busy = false
		for _, line := range msg.lines {
			report, err := maxproto.ParseReport(line)
			m.stats.Update(report, err)
			m.addEntry(consoleEntry{timestamp: time.Now(), report: report, err: err})
		}
		if msg.err != nil {
			m.addEntry(consoleEntry{timestamp: time.Now(), err: msg.err})
		}

	case exchangeDoneMsg:
		m.busy = false
		m.stats.Update(msg.report, msg.err)
		m.addEntry(consoleEntry{timestamp: time.Now(), sent: msg.command, report: msg.report, err: msg.err})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m consoleModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		command := m.input.Value()
		if strings.EqualFold(strings.TrimSpace(command), "exit") {
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.input.SetValue("")
		if command != "" {
			m.history = append(m.history, command)
		}
		m.historyPos = len(m.history)
		return m, m.exchangeCmd(command)

	case "up":
		if m.historyPos > 0 {
			m.historyPos--
			m.input.SetValue(m.history[m.historyPos])
			m.input.CursorEnd()
		}
		return m, nil

	case "down":
		if m.historyPos < len(m.history)-1 {
			m.historyPos++
			m.input.SetValue(m.history[m.historyPos])
			m.input.CursorEnd()
		} else {
			m.historyPos = len(m.history)
			m.input.SetValue("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) addEntry(e consoleEntry) {
	m.log = append(m.log, e)
	if len(m.log) > m.maxLogEntries {
		m.log = m.log[len(m.log)-m.maxLogEntries:]
	}
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

func (m consoleModel) View() string {
	if m.quitting {
		return "Exiting...\n"
	}

	var s strings.Builder

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	statsLabelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	statsValueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	// Header
	s.WriteString(titleStyle.Render("MAXBRIDGE CONSOLE"))
	s.WriteString(" ")
	s.WriteString(headerStyle.Render(fmt.Sprintf("| %s | Enter=send Up/Down=history exit=quit", m.connInfo)))
	s.WriteString("\n\n")

	// Stats line
	s.WriteString(fmt.Sprintf(" %s %s  %s %s  %s %s  %s %s\n\n",
		statsLabelStyle.Render("Sent:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalReports)),
		statsLabelStyle.Render("OK:"), statsValueStyle.Render(fmt.Sprintf("%d", m.stats.Successes)),
		statsLabelStyle.Render("Rejected:"), warningStyle.Render(fmt.Sprintf("%d", m.stats.Rejected)),
		statsLabelStyle.Render("Bus errors:"), errorStyle.Render(fmt.Sprintf("%d", m.stats.BusErrors)),
	))

	// Log, newest at the bottom, trimmed to the window
	visible := max(1, m.height-10)
	start := max(0, len(m.log)-visible)

	var logLines []string
	for _, e := range m.log[start:] {
		logLines = append(logLines, m.renderEntry(e, headerStyle, statsValueStyle, warningStyle, errorStyle))
	}
	if len(logLines) == 0 {
		logLines = append(logLines, headerStyle.Render("No commands sent yet"))
	}
	s.WriteString(boxStyle.Width(max(20, m.width-2)).Render(strings.Join(logLines, "\n")))
	s.WriteString("\n")

	// Input
	if m.busy {
		s.WriteString(warningStyle.Render("Waiting for bridge..."))
		s.WriteString("\n")
	}
	s.WriteString(m.input.View())
	s.WriteString("\n")

	return s.String()
}

func (m consoleModel) renderEntry(e consoleEntry, headerStyle, okStyle, warningStyle, errorStyle lipgloss.Style) string {
	ts := headerStyle.Render(e.timestamp.Format("15:04:05"))

	var prefix string
	if e.sent != "" {
		prefix = fmt.Sprintf("%s → ", e.sent)
	}

	switch {
	case e.err != nil:
		return fmt.Sprintf("%s %s%s", ts, prefix, errorStyle.Render(e.err.Error()))
	case e.report.IsSuccess():
		return fmt.Sprintf("%s %s%s", ts, prefix, okStyle.Render(e.report.String()))
	case e.report.IsBusFailure():
		return fmt.Sprintf("%s %s%s (%s)", ts, prefix, errorStyle.Render(e.report.String()), maxproto.FormatBusStatus(e.report.Code))
	default:
		return fmt.Sprintf("%s %s%s", ts, prefix, warningStyle.Render(e.report.String()))
	}
}
