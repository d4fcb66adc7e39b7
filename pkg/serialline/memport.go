// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package serialline

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"time"
)

// MemPort is an in-memory Port. Bytes passed to Feed are returned by Read
// one chunk at a time; Read returns 0, nil when nothing is queued, like a
// serial port whose read timed out.
type MemPort struct {
	mu          sync.Mutex
	chunks      [][]byte
	out         bytes.Buffer
	readTimeout time.Duration
	closed      bool
}

// NewMemPort creates an empty MemPort
func NewMemPort() *MemPort {
	return &MemPort{}
}

// Feed queues data as one chunk to be read
func (p *MemPort) Feed(data string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunks = append(p.chunks, []byte(data))
}

// Read implements io.Reader
func (p *MemPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.chunks) == 0 {
		if p.closed {
			return 0, io.EOF
		}
		return 0, nil
	}

	n := copy(b, p.chunks[0])
	if n < len(p.chunks[0]) {
		p.chunks[0] = p.chunks[0][n:]
	} else {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

// Write implements io.Writer
func (p *MemPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	return p.out.Write(b)
}

// SetReadTimeout records the timeout
func (p *MemPort) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readTimeout = t
	return nil
}

// ReadTimeout returns the last timeout set
func (p *MemPort) ReadTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readTimeout
}

// Close makes Read return io.EOF once the queue is drained
func (p *MemPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Lines returns everything written so far, split into lines
func (p *MemPort) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	text := strings.TrimSuffix(p.out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
