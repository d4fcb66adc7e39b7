// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package maxproto

import "fmt"

// EncodeOperation returns the bytes written to the synthesizer for op.
//
// A frequency word is sent as [OpSetFrequency, high, low]. Bits above 15 are
// dropped, so 65537 is sent as 1.
func EncodeOperation(op Operation) ([]byte, error) {
	switch o := op.(type) {
	case RelayBytes:
		out := make([]byte, len(o.Payload))
		copy(out, o.Payload)
		return out, nil
	case SetFrequency:
		return EncodeFrequency(o.Value), nil
	case nil:
		return nil, fmt.Errorf("nil operation")
	default:
		return nil, fmt.Errorf("unsupported operation %T", op)
	}
}

// EncodeFrequency builds the 3-byte frequency frame
func EncodeFrequency(value int32) []byte {
	word := uint32(value) & FrequencyMask
	return []byte{
		OpSetFrequency,
		byte((word >> 8) & 0xFF),
		byte(word & 0xFF),
	}
}

// DecodeFrequency reconstructs the 16-bit word from a frequency frame
func DecodeFrequency(frame []byte) (uint16, error) {
	if len(frame) != FrequencyFrameN {
		return 0, fmt.Errorf("frequency frame length %d, want %d", len(frame), FrequencyFrameN)
	}
	if frame[0] != OpSetFrequency {
		return 0, fmt.Errorf("frequency frame opcode 0x%02X, want 0x%02X", frame[0], OpSetFrequency)
	}
	return uint16(frame[1])<<8 | uint16(frame[2]), nil
}
