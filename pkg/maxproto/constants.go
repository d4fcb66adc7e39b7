// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package maxproto implements the line-oriented text protocol spoken between a
// host and the MAX2870 bridge.
//
// The host sends one command per line. The bridge answers every command with
// exactly one report line, either "SUCCESS: <text>" or
// "ERROR: <text> | Error Code: <n>". This package interprets command lines
// into bus operations, encodes those operations into the bytes written to the
// synthesizer, and formats and parses report lines.
package maxproto

// Bus framing
const (
	DeviceAddress   = 0x68 // MAX2870 7-bit I2C address
	OpSetFrequency  = 0x51 // command identifier for a frequency word
	FrequencyMask   = 0xFFFF
	FrequencyFrameN = 3 // opcode + high byte + low byte
)

// Serial link defaults
const (
	DefaultBaudRate = 9600
	LineTerminator  = '\n'
)

// Report wire format
const (
	SuccessPrefix   = "SUCCESS: "
	ErrorPrefix     = "ERROR: "
	ErrorCodeMarker = " | Error Code: "
)

// Fixed report messages
const (
	MsgReady            = "Bridge is ready to receive commands..."
	MsgRelaySent        = "I2C transmission successful, command sent: "
	MsgFrequencySet     = "Frequency set to: "
	MsgTransmitFailed   = "I2C transmission failed"
	MsgNoCommand        = "No command received"
	MsgMissingSeparator = "Invalid command format, expected: <TOKEN> <frequency>"
	MsgNotANumber       = "Frequency is not a valid number"
	MsgInvalidFrequency = "Frequency must be greater than zero"
)

// Sentinel codes carried by validation reports. Bus failures report the
// transaction status instead.
const (
	CodeNoCommand  = 0
	CodeValidation = 1
)
