// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package maxproto

import (
	"fmt"
	"strconv"
	"strings"
)

// ReportKind distinguishes success and error reports
type ReportKind int

// Report kinds
const (
	ReportSuccess ReportKind = iota
	ReportError
)

// Report is the single line sent to the host at the end of a command cycle.
// Code is only meaningful for ReportError.
type Report struct {
	Kind    ReportKind
	Message string
	Code    int
}

// SuccessReport creates a success report
func SuccessReport(message string) Report {
	return Report{Kind: ReportSuccess, Message: message}
}

// ErrorReport creates an error report
func ErrorReport(message string, code int) Report {
	return Report{Kind: ReportError, Message: message, Code: code}
}

// IsSuccess reports whether r is a success report
func (r Report) IsSuccess() bool {
	return r.Kind == ReportSuccess
}

// String returns the wire form of the report, without line terminator
func (r Report) String() string {
	if r.Kind == ReportSuccess {
		return SuccessPrefix + r.Message
	}
	return ErrorPrefix + r.Message + ErrorCodeMarker + strconv.Itoa(r.Code)
}

// IsBusFailure reports whether r describes a failed bus transaction rather
// than a rejected command.
func (r Report) IsBusFailure() bool {
	return r.Kind == ReportError && r.Message == MsgTransmitFailed
}

// ParseReport decodes one report line received from the bridge
func ParseReport(line string) (Report, error) {
	line = strings.TrimRight(line, "\r\n")

	if rest, ok := strings.CutPrefix(line, SuccessPrefix); ok {
		return SuccessReport(rest), nil
	}

	rest, ok := strings.CutPrefix(line, ErrorPrefix)
	if !ok {
		return Report{}, fmt.Errorf("unrecognized report line: %q", line)
	}

	i := strings.LastIndex(rest, ErrorCodeMarker)
	if i < 0 {
		return Report{}, fmt.Errorf("error report missing code: %q", line)
	}

	code, err := strconv.Atoi(strings.TrimSpace(rest[i+len(ErrorCodeMarker):]))
	if err != nil {
		return Report{}, fmt.Errorf("invalid error code in %q: %w", line, err)
	}

	return ErrorReport(rest[:i], code), nil
}
