// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build linux

package twowire

import "syscall"

// i2c-dev reports a NACK after the address phase as EREMOTEIO
var dataNackErrnos = []syscall.Errno{syscall.EREMOTEIO, syscall.EIO}
