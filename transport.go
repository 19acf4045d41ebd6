// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"crypto/tls"
	"net"
	"time"
)

// Transport is the external collaborator spec §6 names: a capability
// handle over an already-accepted socket. webconn never listens or
// accepts; it is handed a Transport per connection.
//
// Recv reads into buf and returns n>0 bytes read, or an error. deadline
// is the absolute point in time after which Recv must fail with an
// error satisfying net.Error.Timeout() — webconn computes deadline from
// ConnectionState.until (spec §4.1) rather than passing a duration, so
// Transport implementations need only forward it to
// net.Conn.SetReadDeadline or equivalent. A zero deadline means "wait
// indefinitely" (spec's until = ∞).
//
// Spec §6 describes Recv as taking n=0 ("any available up to
// implementation max"); that is naturally expressed in Go as "read into
// however much of buf is available" rather than a separate integer
// argument (DESIGN.md, "Open Questions resolved").
type Transport interface {
	Recv(buf []byte, deadline time.Time) (n int, err error)
	// Send writes a response onto the socket — the "write" half of
	// spec §1's "Transport abstraction (blocking read/write/close/
	// peer-address/scheme name)". Only the Request/response
	// collaborator (see the reqres package) calls this; the core
	// parser/state machine never writes a byte itself.
	Send(b []byte) (n int, err error)
	PeerAddr() (net.Addr, error)
	Close() error
	// Name reports a scheme tag; a "tls"-like tag selects the default
	// port 443 (spec §4.5), anything else selects 80.
	Name() string
}

// tcpTransport is the default Transport over a net.Conn, grounded on
// fakefloordiv-at/internal/server/tcp/client.go's Client interface
// (Write/Read/Unread/Close) — the residual-buffer ("Unread") idiom is
// implemented one layer up, in the byte reader (reader.go), since the
// core state machine owns the buffer, not the transport.
type tcpTransport struct {
	conn  net.Conn
	isTLS bool
}

// NewTCPTransport wraps conn as a Transport. isTLS controls the value
// Name() reports and therefore the default port spec §4.5 resolves to.
func NewTCPTransport(conn net.Conn, isTLS bool) Transport {
	return &tcpTransport{conn: conn, isTLS: isTLS}
}

func (t *tcpTransport) Recv(buf []byte, deadline time.Time) (int, error) {
	if err := t.conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}
	return t.conn.Read(buf)
}

func (t *tcpTransport) Send(b []byte) (int, error) {
	return t.conn.Write(b)
}

func (t *tcpTransport) PeerAddr() (net.Addr, error) {
	addr := t.conn.RemoteAddr()
	if addr == nil {
		return nil, errPeerGone
	}
	return addr, nil
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

func (t *tcpTransport) Name() string {
	if t.isTLS {
		return "tls"
	}
	return "tcp"
}

// NewTLSTransport is a convenience constructor over an already
// handshaken *tls.Conn, matching gorox's split between serveTCP and
// serveTLS gate goroutines (hemi/internal/server_http1.go).
func NewTLSTransport(conn *tls.Conn) Transport {
	return &tcpTransport{conn: conn, isTLS: true}
}

var errPeerGone = &transportError{"peer address unavailable"}

type transportError struct{ msg string }

func (e *transportError) Error() string { return e.msg }
