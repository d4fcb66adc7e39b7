// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package maxproto

import (
	"fmt"
	"time"
)

// FormatReport formats a report received at ts for terminal display
func FormatReport(r Report, ts time.Time) string {
	timestamp := ts.Format("15:04:05.000")

	if r.IsSuccess() {
		return fmt.Sprintf("[%s] SUCCESS %s\n", timestamp, r.Message)
	}
	return fmt.Sprintf("[%s] %s (code %d) %s\n", timestamp, FormatErrorClass(r), r.Code, r.Message)
}

// FormatErrorClass names the class of an error report
func FormatErrorClass(r Report) string {
	switch {
	case r.IsSuccess():
		return "SUCCESS"
	case r.IsBusFailure():
		return "BUS_ERROR"
	default:
		return "REJECTED"
	}
}

// FormatBusStatus returns the name of an I2C completion code
func FormatBusStatus(code int) string {
	switch code {
	case 0:
		return "SUCCESS"
	case 1:
		return "DATA_TOO_LONG"
	case 2:
		return "ADDRESS_NACK"
	case 3:
		return "DATA_NACK"
	case 4:
		return "OTHER_ERROR"
	case 5:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// FormatBytes returns a hex dump of a bus payload
func FormatBytes(payload []byte) string {
	if len(payload) == 0 {
		return "(empty)"
	}

	result := ""
	for i, b := range payload {
		if i > 0 {
			result += " "
		}
		result += fmt.Sprintf("%02X", b)
	}
	return result
}
