// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package twowire performs begin/write/end transactions on an I2C bus and
// reports their outcome as a two-wire completion code.
//
// The bus itself is any tinygo drivers.I2C. Errors returned by the bus are
// classified into a Status so the host sees the same codes regardless of the
// backend in use.
package twowire

import (
	"context"
	"errors"
	"fmt"
	"syscall"
)

// Status is a two-wire transaction completion code
type Status uint8

// Completion codes. Success is zero; every failure is non-zero.
const (
	Success Status = iota
	DataTooLong
	AddressNack
	DataNack
	OtherError
	Timeout
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case DataTooLong:
		return "data_too_long"
	case AddressNack:
		return "address_nack"
	case DataNack:
		return "data_nack"
	case OtherError:
		return "other_error"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Code returns the numeric code reported to the host
func (s Status) Code() int {
	return int(s)
}

// StatusError is returned by a bus that knows the exact completion code
type StatusError struct {
	Status Status
	Err    error
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("i2c %s: %v", e.Status, e.Err)
	}
	return "i2c " + e.Status.String()
}

// Unwrap returns the underlying error
func (e *StatusError) Unwrap() error {
	return e.Err
}

// Classify maps a bus error to a Status. A nil error is Success.
func Classify(err error) Status {
	if err == nil {
		return Success
	}

	var serr *StatusError
	if errors.As(err, &serr) {
		return serr.Status
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, syscall.ETIMEDOUT):
		return Timeout
	case errors.Is(err, syscall.ENXIO):
		return AddressNack
	case errors.Is(err, syscall.EMSGSIZE):
		return DataTooLong
	}

	for _, errno := range dataNackErrnos {
		if errors.Is(err, errno) {
			return DataNack
		}
	}
	return OtherError
}
