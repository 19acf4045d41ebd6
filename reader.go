// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/indigo-web/utils/arena"
)

// recvOutcome classifies a Transport.Recv result into the three kinds
// spec §4.1 names, instead of a Go error value — same "kind, not
// language type" idiom as Result (errors.go).
type recvOutcome int

const (
	recvOK recvOutcome = iota
	recvClosed
	recvTimeout
	recvOther
)

// recv performs exactly one spec §4.1 recv(until) call: if until is the
// zero Time, delegate to the transport with no deadline; otherwise
// check until against now() first and fail Timeout without touching the
// transport if it has already passed, exactly as spec §4.1 requires.
func recv(t Transport, buf []byte, until time.Time) (n int, outcome recvOutcome) {
	if !until.IsZero() && !time.Now().Before(until) {
		return 0, recvTimeout
	}
	n, err := t.Recv(buf, until)
	if err == nil {
		return n, recvOK
	}
	return n, classifyRecvErr(err)
}

func classifyRecvErr(err error) recvOutcome {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return recvClosed
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return recvTimeout
	}
	return recvOther
}

// growBuffer is a growable input buffer with a hard cap, backed by
// github.com/indigo-web/utils/arena.Arena[byte] — the same
// growable-buffer idiom fakefloordiv-at/cmd/main.go wires up
// (arena.NewArena[byte](4*1024, 64*1024)) and
// fakefloordiv-at/internal/server/http/http.go grows via repeated
// Append calls as data streams in, reading the result back with
// Finish(). buf is a cached view of the arena's current contents,
// refreshed after every Append, so the scanning code throughout this
// package (bytes.IndexByte over buf, slicing, etc.) never has to round
// -trip through the arena for a read.
type growBuffer struct {
	arena   *arena.Arena[byte]
	buf     []byte
	scratch []byte
	max     int
}

func newGrowBuffer(max int) *growBuffer {
	return &growBuffer{
		arena:   arena.NewArena[byte](initialCapacity(max), max),
		scratch: make([]byte, 4096),
		max:     max,
	}
}

func initialCapacity(max int) int {
	if max < 512 {
		return max
	}
	return 512
}

// fill reads one more chunk from the transport into the scratch buffer
// and Appends it into the arena, refreshing buf. The socket read can't
// target arena-owned memory directly — Append only accepts bytes the
// caller already holds, exactly as the pack's own call sites read into
// a plain buffer first and Append the result — so scratch plays the
// role of fakefloordiv-at's tcp.Client read buffer.
//
// Returns false (with outcome set) on error; on recvOK with n==0 it
// still returns true (spec §4.1 doesn't forbid a zero-length read, the
// caller's retry loop will call fill again).
func (g *growBuffer) fill(t Transport, until time.Time) (outcome recvOutcome, ok bool) {
	if len(g.buf) >= g.max {
		return recvOK, false // caller must treat this as "too long"
	}
	free := g.max - len(g.buf)
	chunk := len(g.scratch)
	if chunk > free {
		chunk = free
	}
	n, outcome := recv(t, g.scratch[:chunk], until)
	if outcome != recvOK {
		return outcome, false
	}
	if !g.arena.Append(g.scratch[:n]...) {
		return recvOK, false // caller must treat this as "too long"
	}
	g.buf = g.arena.Finish()
	return recvOK, true
}

// consume drops the first n bytes. The arena only grows by Append, with
// no operation to drop a prefix of what it already holds, so dropping
// one means handing the remainder to a fresh arena of the same
// capacity — the same per-scope-boundary arena construction
// fakefloordiv-at's main.go performs once per connection, just invoked
// once per consumed phase here instead of once per connection, since
// this spec consumes mid-stream (request line, then headers, then
// body) rather than once at teardown.
func (g *growBuffer) consume(n int) {
	g.reset(g.buf[n:])
}

// seed pre-loads residual bytes carried over from a previous phase
// (spec's residual buffer), bypassing the transport entirely.
func (g *growBuffer) seed(residual []byte) {
	g.reset(residual)
}

func (g *growBuffer) reset(tail []byte) {
	g.arena = arena.NewArena[byte](initialCapacity(g.max), g.max)
	if len(tail) > 0 {
		g.arena.Append(tail...)
	}
	g.buf = g.arena.Finish()
}
