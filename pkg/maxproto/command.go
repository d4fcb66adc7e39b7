// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package maxproto

import "strconv"

// RawCommand is one unparsed line received from the host, terminator removed.
type RawCommand struct {
	Text []byte
}

// NewRawCommand copies s into a RawCommand
func NewRawCommand(s string) RawCommand {
	return RawCommand{Text: []byte(s)}
}

// Len returns the number of bytes in the command
func (c RawCommand) Len() int {
	return len(c.Text)
}

// String returns the command text
func (c RawCommand) String() string {
	return string(c.Text)
}

// Operation is the result of interpreting a RawCommand. It is one of
// RelayBytes or SetFrequency.
type Operation interface {
	// Describe returns the confirmation text used in a success report
	Describe() string
	operation()
}

// RelayBytes forwards its payload to the bus verbatim
type RelayBytes struct {
	Payload []byte
}

func (RelayBytes) operation() {}

// Describe echoes the relayed command
func (r RelayBytes) Describe() string {
	return MsgRelaySent + string(r.Payload)
}

// SetFrequency programs a frequency word. Value is always positive once
// produced by an Interpreter.
type SetFrequency struct {
	Value int32
}

func (SetFrequency) operation() {}

// Describe echoes the accepted frequency
func (f SetFrequency) Describe() string {
	return MsgFrequencySet + strconv.FormatInt(int64(f.Value), 10)
}
