// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package maxproto

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Interpreter turns one RawCommand into an Operation or a *ValidationError
type Interpreter interface {
	Interpret(raw RawCommand) (Operation, error)
}

// Mode selects the command vocabulary accepted by the bridge
type Mode int

// Bridge modes
const (
	ModeRelay Mode = iota
	ModeFrequency
)

// String returns the mode name used in flags and config files
func (m Mode) String() string {
	switch m {
	case ModeRelay:
		return "relay"
	case ModeFrequency:
		return "frequency"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relay", "raw":
		return ModeRelay, nil
	case "frequency", "freq":
		return ModeFrequency, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (use relay or frequency)", s)
	}
}

// NewInterpreter returns the interpreter for a mode
func NewInterpreter(m Mode) Interpreter {
	if m == ModeFrequency {
		return FrequencyInterpreter{}
	}
	return RelayInterpreter{}
}

// RelayInterpreter accepts any non-empty command and relays its bytes up to
// the first NUL.
type RelayInterpreter struct{}

// Interpret implements Interpreter
func (RelayInterpreter) Interpret(raw RawCommand) (Operation, error) {
	if raw.Len() == 0 {
		return nil, newValidationError(EmptyCommand, raw)
	}

	text := raw.Text
	if i := bytes.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}

	payload := make([]byte, len(text))
	copy(payload, text)
	return RelayBytes{Payload: payload}, nil
}

// FrequencyInterpreter accepts "<token> <frequency>". Only the text after the
// first space is interpreted.
type FrequencyInterpreter struct{}

// Interpret implements Interpreter
func (FrequencyInterpreter) Interpret(raw RawCommand) (Operation, error) {
	if raw.Len() == 0 {
		return nil, newValidationError(EmptyCommand, raw)
	}

	text := raw.String()
	sep := strings.IndexByte(text, ' ')
	if sep < 0 {
		return nil, newValidationError(MissingSeparator, raw)
	}

	// Parse failure and semantic rejection are separate tiers
	result := ParseFrequency(text[sep+1:])
	if !result.OK {
		return nil, newValidationError(NotANumber, raw)
	}
	if result.Value <= 0 {
		return nil, newValidationError(InvalidFrequency, raw)
	}

	return SetFrequency{Value: result.Value}, nil
}

// ParseResult is the outcome of parsing a frequency token. OK is false when
// the token is not a base-10 integer; Value is meaningful only when OK.
type ParseResult struct {
	Value int32
	OK    bool
}

// ParseFrequency parses a frequency token as a signed 32-bit base-10 integer.
// Surrounding whitespace (including a trailing carriage return) is ignored.
// The whole token must be numeric: unlike atol-style parsing of a leading
// digit prefix, "12abc" fails rather than yielding 12.
func ParseFrequency(token string) ParseResult {
	token = strings.TrimSpace(token)
	if token == "" {
		return ParseResult{}
	}

	v, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		return ParseResult{}
	}
	return ParseResult{Value: int32(v), OK: true}
}
