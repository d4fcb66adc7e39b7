// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package maxproto

import "fmt"

// ValidationKind identifies why a command was rejected before reaching the bus
type ValidationKind int

// Validation kinds
const (
	EmptyCommand ValidationKind = iota
	MissingSeparator
	NotANumber
	InvalidFrequency
)

// String returns the kind name
func (k ValidationKind) String() string {
	switch k {
	case EmptyCommand:
		return "EMPTY_COMMAND"
	case MissingSeparator:
		return "MISSING_SEPARATOR"
	case NotANumber:
		return "NOT_A_NUMBER"
	case InvalidFrequency:
		return "INVALID_FREQUENCY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(k))
	}
}

// Message returns the report text for the kind
func (k ValidationKind) Message() string {
	switch k {
	case EmptyCommand:
		return MsgNoCommand
	case MissingSeparator:
		return MsgMissingSeparator
	case NotANumber:
		return MsgNotANumber
	case InvalidFrequency:
		return MsgInvalidFrequency
	default:
		return "Invalid command"
	}
}

// Code returns the sentinel code reported for the kind
func (k ValidationKind) Code() int {
	if k == EmptyCommand {
		return CodeNoCommand
	}
	return CodeValidation
}

// ValidationError is returned by an Interpreter when a command is rejected
type ValidationError struct {
	Kind  ValidationKind
	Input string
}

func newValidationError(kind ValidationKind, raw RawCommand) *ValidationError {
	return &ValidationError{Kind: kind, Input: raw.String()}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Kind.Message()
}

// Report converts the error into its report line
func (e *ValidationError) Report() Report {
	return ErrorReport(e.Kind.Message(), e.Kind.Code())
}
