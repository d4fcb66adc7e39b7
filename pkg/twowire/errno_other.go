// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build !linux

package twowire

import "syscall"

var dataNackErrnos = []syscall.Errno{syscall.EIO}
