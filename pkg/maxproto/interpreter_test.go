// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package maxproto

import (
	"bytes"
	"errors"
	"testing"
)

func TestRelayInterpreter(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []byte
	}{
		{name: "plain text", input: []byte("PING"), want: []byte("PING")},
		{name: "binary bytes", input: []byte{0x01, 0xFF, 0x7E}, want: []byte{0x01, 0xFF, 0x7E}},
		{name: "null in middle", input: []byte("AB\x00CD"), want: []byte("AB")},
		{name: "null first", input: []byte("\x00CD"), want: []byte{}},
		{name: "trailing null", input: []byte("REG\x00"), want: []byte("REG")},
		{name: "spaces kept", input: []byte("SET 1 2"), want: []byte("SET 1 2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := RelayInterpreter{}.Interpret(RawCommand{Text: tt.input})
			if err != nil {
				t.Fatalf("Interpret() error = %v", err)
			}
			relay, ok := op.(RelayBytes)
			if !ok {
				t.Fatalf("Interpret() = %T, want RelayBytes", op)
			}
			if !bytes.Equal(relay.Payload, tt.want) {
				t.Errorf("Payload = %q, want %q", relay.Payload, tt.want)
			}
		})
	}
}

func TestRelayInterpreter_PayloadIsCopy(t *testing.T) {
	input := []byte("ABC")
	op, err := RelayInterpreter{}.Interpret(RawCommand{Text: input})
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	input[0] = 'Z'
	if got := op.(RelayBytes).Payload; string(got) != "ABC" {
		t.Errorf("Payload changed with input: %q", got)
	}
}

func TestInterpreters_EmptyCommand(t *testing.T) {
	for _, mode := range []Mode{ModeRelay, ModeFrequency} {
		t.Run(mode.String(), func(t *testing.T) {
			op, err := NewInterpreter(mode).Interpret(RawCommand{})
			if op != nil {
				t.Errorf("Interpret() op = %v, want nil", op)
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Interpret() error = %v, want *ValidationError", err)
			}
			if verr.Kind != EmptyCommand {
				t.Errorf("Kind = %v, want %v", verr.Kind, EmptyCommand)
			}
			if got := verr.Report().String(); got != "ERROR: No command received | Error Code: 0" {
				t.Errorf("Report() = %q", got)
			}
		})
	}
}

func TestFrequencyInterpreter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     int32
		wantKind ValidationKind
		wantErr  bool
	}{
		{name: "valid", input: "SETFREQ 2400", want: 2400},
		{name: "leading token ignored", input: "X 1", want: 1},
		{name: "trailing carriage return", input: "SETFREQ 2400\r", want: 2400},
		{name: "explicit plus sign", input: "F +7", want: 7},
		{name: "above 16 bits accepted", input: "F 70000", want: 70000},
		{name: "max int32", input: "F 2147483647", want: 2147483647},
		{name: "no separator", input: "SETFREQ2400", wantErr: true, wantKind: MissingSeparator},
		{name: "single word", input: "PING", wantErr: true, wantKind: MissingSeparator},
		{name: "not a number", input: "SETFREQ abc", wantErr: true, wantKind: NotANumber},
		{name: "empty token", input: "SETFREQ ", wantErr: true, wantKind: NotANumber},
		{name: "digits then letters", input: "SETFREQ 12abc", wantErr: true, wantKind: NotANumber},
		{name: "only text after first space", input: "SETFREQ 1 2", wantErr: true, wantKind: NotANumber},
		{name: "overflow int32", input: "F 2147483648", wantErr: true, wantKind: NotANumber},
		{name: "explicit zero", input: "SETFREQ 0", wantErr: true, wantKind: InvalidFrequency},
		{name: "padded zero", input: "SETFREQ  0", wantErr: true, wantKind: InvalidFrequency},
		{name: "negative zero", input: "SETFREQ -0", wantErr: true, wantKind: InvalidFrequency},
		{name: "negative", input: "SETFREQ -5", wantErr: true, wantKind: InvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := FrequencyInterpreter{}.Interpret(NewRawCommand(tt.input))

			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("Interpret() error = %v, want *ValidationError", err)
				}
				if verr.Kind != tt.wantKind {
					t.Errorf("Kind = %v, want %v", verr.Kind, tt.wantKind)
				}
				if verr.Input != tt.input {
					t.Errorf("Input = %q, want %q", verr.Input, tt.input)
				}
				return
			}

			if err != nil {
				t.Fatalf("Interpret() error = %v", err)
			}
			freq, ok := op.(SetFrequency)
			if !ok {
				t.Fatalf("Interpret() = %T, want SetFrequency", op)
			}
			if freq.Value != tt.want {
				t.Errorf("Value = %d, want %d", freq.Value, tt.want)
			}
		})
	}
}

func TestValidationKind_Codes(t *testing.T) {
	tests := []struct {
		kind ValidationKind
		code int
		msg  string
	}{
		{EmptyCommand, 0, "No command received"},
		{MissingSeparator, 1, MsgMissingSeparator},
		{NotANumber, 1, "Frequency is not a valid number"},
		{InvalidFrequency, 1, MsgInvalidFrequency},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Code(); got != tt.code {
				t.Errorf("Code() = %d, want %d", got, tt.code)
			}
			if got := tt.kind.Message(); got != tt.msg {
				t.Errorf("Message() = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		token string
		want  ParseResult
	}{
		{"0", ParseResult{Value: 0, OK: true}},
		{" 42 ", ParseResult{Value: 42, OK: true}},
		{"-1", ParseResult{Value: -1, OK: true}},
		{"abc", ParseResult{}},
		{"", ParseResult{}},
		{"0x10", ParseResult{}},
		{"12abc", ParseResult{}},
		{"  0", ParseResult{Value: 0, OK: true}},
	}

	for _, tt := range tests {
		if got := ParseFrequency(tt.token); got != tt.want {
			t.Errorf("ParseFrequency(%q) = %+v, want %+v", tt.token, got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"relay", ModeRelay, false},
		{"RAW", ModeRelay, false},
		{"frequency", ModeFrequency, false},
		{" freq ", ModeFrequency, false},
		{"spi", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOperation_Describe(t *testing.T) {
	if got := (SetFrequency{Value: 2400}).Describe(); got != "Frequency set to: 2400" {
		t.Errorf("SetFrequency.Describe() = %q", got)
	}
	if got := (RelayBytes{Payload: []byte("PING")}).Describe(); got != "I2C transmission successful, command sent: PING" {
		t.Errorf("RelayBytes.Describe() = %q", got)
	}
}
