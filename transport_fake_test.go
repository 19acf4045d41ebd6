// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"io"
	"net"
	"time"
)

// fakeTransport replays a fixed sequence of chunks, one per Recv call —
// the simplest way to drive the parser through an arbitrary TCP
// fragmentation without a real socket, mirroring how gorox's own
// _test.go files (where present) stub a single method at a time rather
// than spinning up net.Listen.
type fakeTransport struct {
	chunks [][]byte
	idx    int
	sent   [][]byte
	peer   net.Addr
	name   string
	peerErr error
}

func newFakeTransport(chunks ...[]byte) *fakeTransport {
	return &fakeTransport{
		chunks: chunks,
		peer:   &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321},
		name:   "tcp",
	}
}

// singleByteTransport splits data into one chunk per byte, for the
// fragmentation invariant (spec §8).
func singleByteTransport(data []byte) *fakeTransport {
	chunks := make([][]byte, len(data))
	for i, b := range data {
		chunks[i] = []byte{b}
	}
	return newFakeTransport(chunks...)
}

func (f *fakeTransport) Recv(buf []byte, deadline time.Time) (int, error) {
	if f.idx >= len(f.chunks) {
		return 0, io.EOF
	}
	chunk := f.chunks[f.idx]
	f.idx++
	n := copy(buf, chunk)
	return n, nil
}

func (f *fakeTransport) Send(b []byte) (int, error) {
	f.sent = append(f.sent, append([]byte(nil), b...))
	return len(b), nil
}

func (f *fakeTransport) PeerAddr() (net.Addr, error) {
	if f.peerErr != nil {
		return nil, f.peerErr
	}
	return f.peer, nil
}

func (f *fakeTransport) Close() error { return nil }
func (f *fakeTransport) Name() string { return f.name }
