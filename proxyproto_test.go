// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"net"
	"testing"
	"time"
)

func TestDecodeProxyProtocolTCP4(t *testing.T) {
	transport := newFakeTransport([]byte("PROXY TCP4 1.2.3.4 5.6.7.8 1111 80\r\nGET / HTTP/1.1\r\n"))
	buf := newGrowBuffer(4096)

	info, present, res := decodeProxyProtocol(transport, buf, time.Time{})
	if !present {
		t.Fatal("expected PROXY preamble to be detected")
	}
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res)
	}
	if info.Kind != ProxyIPv4 {
		t.Fatalf("got kind %v", info.Kind)
	}
	if !info.SourceAddr.Equal(net.ParseIP("1.2.3.4")) || !info.DestAddr.Equal(net.ParseIP("5.6.7.8")) {
		t.Fatalf("got src=%v dst=%v", info.SourceAddr, info.DestAddr)
	}
	if info.SourcePort != 1111 || info.DestPort != 80 {
		t.Fatalf("got sport=%d dport=%d", info.SourcePort, info.DestPort)
	}

	// The HTTP request line should remain in the buffer for the
	// request-line parser to pick up.
	method, path, _, _, res := parseRequestLine(transport, buf, time.Time{}, 4096, 5)
	if !res.OK() {
		t.Fatalf("unexpected error parsing request line: %v", res)
	}
	if method != "GET" || path != "/" {
		t.Fatalf("got method=%q path=%q", method, path)
	}
}

func TestDecodeProxyProtocolBadIsSilent(t *testing.T) {
	transport := newFakeTransport([]byte("PROXY GARBAGE\r\n"))
	buf := newGrowBuffer(4096)

	_, present, res := decodeProxyProtocol(transport, buf, time.Time{})
	if !present {
		t.Fatal("expected PROXY preamble to be detected")
	}
	if !res.Silent() {
		t.Fatalf("expected silent close, got %v", res)
	}
}

func TestDecodeProxyProtocolNotPresent(t *testing.T) {
	transport := newFakeTransport([]byte("GET / HTTP/1.1\r\n"))
	buf := newGrowBuffer(4096)

	_, present, res := decodeProxyProtocol(transport, buf, time.Time{})
	if present {
		t.Fatal("expected no PROXY preamble")
	}
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res)
	}
}

func TestDecodeProxyProtocolUnknown(t *testing.T) {
	transport := newFakeTransport([]byte("PROXY UNKNOWN\r\nGET / HTTP/1.1\r\n"))
	buf := newGrowBuffer(4096)

	info, present, res := decodeProxyProtocol(transport, buf, time.Time{})
	if !present || !res.OK() {
		t.Fatalf("got present=%v res=%v", present, res)
	}
	if info.Kind != ProxyUnknown {
		t.Fatalf("got kind %v", info.Kind)
	}
}
