// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad
//
// maxbridge - serial command bridge for the MAX2870 synthesizer
//
// Receives text commands over a serial line, forwards them to the MAX2870
// over I2C, and reports the outcome back on the same line.

package main

import (
	"os"

	"github.com/Thermoquad/maxbridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
