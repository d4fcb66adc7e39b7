// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package maxproto

import (
	"fmt"
	"sort"
	"time"
)

// Statistics tracks report counts seen on the host side of the link
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalReports     uint64
	Successes        uint64
	Rejected         uint64
	BusErrors        uint64
	MalformedLines   uint64
	BusErrorsPerCode map[int]uint64

	// Rates (calculated)
	ReportRate float64 // reports/sec
	ErrorRate  float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:        now,
		LastUpdateTime:   now,
		BusErrorsPerCode: make(map[int]uint64),
	}
}

// Update records one received line. parseErr is the error from ParseReport,
// in which case r is ignored.
func (s *Statistics) Update(r Report, parseErr error) {
	s.TotalReports++

	switch {
	case parseErr != nil:
		s.MalformedLines++
	case r.IsSuccess():
		s.Successes++
	case r.IsBusFailure():
		s.BusErrors++
		s.BusErrorsPerCode[r.Code]++
	default:
		s.Rejected++
	}

	s.LastUpdateTime = time.Now()
}

// CalculateRates calculates report and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.ReportRate = float64(s.TotalReports) / elapsed
		s.ErrorRate = float64(s.errorCount()) / elapsed
	}
}

func (s *Statistics) errorCount() uint64 {
	return s.Rejected + s.BusErrors + s.MalformedLines
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var successPercent, rejectedPercent, busPercent, malformedPercent float64
	if s.TotalReports > 0 {
		successPercent = float64(s.Successes) * 100.0 / float64(s.TotalReports)
		rejectedPercent = float64(s.Rejected) * 100.0 / float64(s.TotalReports)
		busPercent = float64(s.BusErrors) * 100.0 / float64(s.TotalReports)
		malformedPercent = float64(s.MalformedLines) * 100.0 / float64(s.TotalReports)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Reports:   %8d\n", s.TotalReports)
	result += fmt.Sprintf("Successes:       %8d (%.1f%%)\n", s.Successes, successPercent)

	if s.Rejected > 0 {
		result += fmt.Sprintf("Rejected:        %8d (%.1f%%)\n", s.Rejected, rejectedPercent)
	}
	if s.BusErrors > 0 {
		result += fmt.Sprintf("Bus Errors:      %8d (%.1f%%)\n", s.BusErrors, busPercent)
		codes := make([]int, 0, len(s.BusErrorsPerCode))
		for code := range s.BusErrorsPerCode {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			result += fmt.Sprintf("  %-15s %5d\n", FormatBusStatus(code)+":", s.BusErrorsPerCode[code])
		}
	}
	if s.MalformedLines > 0 {
		result += fmt.Sprintf("Malformed Lines: %8d (%.1f%%)\n", s.MalformedLines, malformedPercent)
	}

	result += fmt.Sprintf("Report Rate:     %8.1f reports/sec\n", s.ReportRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.TotalReports = 0
	s.Successes = 0
	s.Rejected = 0
	s.BusErrors = 0
	s.MalformedLines = 0
	s.BusErrorsPerCode = make(map[int]uint64)
	s.ReportRate = 0
	s.ErrorRate = 0
}
