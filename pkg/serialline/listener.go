// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package serialline turns a byte-stream transport into a sequence of
// command lines without ever blocking the caller for longer than one short
// read.
package serialline

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/Thermoquad/maxbridge/pkg/maxproto"
)

// Port is the transport used by a Listener. It matches go.bug.st/serial.Port:
// a read that times out returns 0, nil.
type Port interface {
	io.ReadWriter
	SetReadTimeout(t time.Duration) error
}

// Defaults
const (
	DefaultPollTimeout   = 10 * time.Millisecond
	DefaultMaxLineLength = 256
)

// Config controls line assembly. All fields are optional.
type Config struct {
	// PollTimeout bounds the single read performed by Poll. Default 10 ms.
	PollTimeout time.Duration
	// IdleFlush ends a message that has no terminator once the line has been
	// quiet for this long. Zero waits for a terminator.
	IdleFlush time.Duration
	// MaxLineLength returns the buffer as one command once it grows past
	// this many bytes. The rest of that line, up to its terminator, is
	// dropped. Default 256.
	MaxLineLength int
}

// Listener assembles lines from a Port
type Listener struct {
	port     Port
	cfg      Config
	pending  []byte
	buf      []byte
	lastData time.Time
	now      func() time.Time

	// skipping is set after a line was cut at MaxLineLength; bytes up to
	// and including the next terminator belong to it
	skipping bool
}

// New creates a Listener on port and applies the poll timeout to it
func New(port Port, cfg Config) (*Listener, error) {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.MaxLineLength <= 0 {
		cfg.MaxLineLength = DefaultMaxLineLength
	}

	if err := port.SetReadTimeout(cfg.PollTimeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return &Listener{
		port:    port,
		cfg:     cfg,
		pending: make([]byte, 0, cfg.MaxLineLength),
		buf:     make([]byte, 128),
		now:     time.Now,
	}, nil
}

// Poll performs one read and returns the next complete command, if any.
// Bytes past the first terminator stay buffered for later polls. A read
// error is returned as is; buffered bytes are kept.
func (l *Listener) Poll() (maxproto.RawCommand, bool, error) {
	if cmd, ok := l.nextLine(); ok {
		return cmd, true, nil
	}

	n, err := l.port.Read(l.buf)
	if n > 0 {
		l.pending = append(l.pending, l.buf[:n]...)
		l.lastData = l.now()
	}
	if err != nil {
		return maxproto.RawCommand{}, false, err
	}

	if cmd, ok := l.nextLine(); ok {
		return cmd, true, nil
	}

	if len(l.pending) > 0 && l.cfg.IdleFlush > 0 && n == 0 &&
		l.now().Sub(l.lastData) >= l.cfg.IdleFlush {
		return l.take(len(l.pending), 0), true, nil
	}

	return maxproto.RawCommand{}, false, nil
}

// Pending returns the number of buffered bytes not yet returned
func (l *Listener) Pending() int {
	return len(l.pending)
}

func (l *Listener) nextLine() (maxproto.RawCommand, bool) {
	if l.skipping {
		j := bytes.IndexByte(l.pending, maxproto.LineTerminator)
		if j < 0 {
			l.pending = l.pending[:0]
			return maxproto.RawCommand{}, false
		}
		l.pending = append(l.pending[:0], l.pending[j+1:]...)
		l.skipping = false
	}

	i := bytes.IndexByte(l.pending, maxproto.LineTerminator)
	if i >= 0 && i <= l.cfg.MaxLineLength {
		end := i
		if end > 0 && l.pending[end-1] == '\r' {
			end--
		}
		return l.take(end, i+1-end), true
	}

	if len(l.pending) >= l.cfg.MaxLineLength {
		l.skipping = true
		return l.take(l.cfg.MaxLineLength, 0), true
	}
	return maxproto.RawCommand{}, false
}

// take returns the first n pending bytes as a command and drops skip more
func (l *Listener) take(n, skip int) maxproto.RawCommand {
	text := make([]byte, n)
	copy(text, l.pending[:n])
	l.pending = append(l.pending[:0], l.pending[n+skip:]...)
	return maxproto.RawCommand{Text: text}
}

// WriteLine writes s followed by a newline
func (l *Listener) WriteLine(s string) error {
	if _, err := io.WriteString(l.port, s+"\n"); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}
	return nil
}
