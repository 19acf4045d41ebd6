// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"testing"
	"time"
)

func TestParseRequestLineMinimalGET(t *testing.T) {
	transport := newFakeTransport([]byte("GET /x HTTP/1.1\r\n"))
	buf := newGrowBuffer(4096)

	method, path, query, version, res := parseRequestLine(transport, buf, time.Time{}, 4096, 5)
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res)
	}
	if method != "GET" || path != "/x" || query != "" || version != HTTP11 {
		t.Fatalf("got method=%q path=%q query=%q version=%v", method, path, query, version)
	}
}

func TestParseRequestLineEmptyPreambleLines(t *testing.T) {
	transport := newFakeTransport([]byte("\r\n\r\nGET / HTTP/1.0\r\n"))
	buf := newGrowBuffer(4096)

	method, path, _, version, res := parseRequestLine(transport, buf, time.Time{}, 4096, 5)
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res)
	}
	if method != "GET" || path != "/" || version != HTTP10 {
		t.Fatalf("got method=%q path=%q version=%v", method, path, version)
	}
}

func TestParseRequestLineTooManyEmptyLines(t *testing.T) {
	input := []byte("\r\n\r\n\r\n\r\n\r\n\r\nGET / HTTP/1.0\r\n")
	transport := newFakeTransport(input)
	buf := newGrowBuffer(4096)

	_, _, _, _, res := parseRequestLine(transport, buf, time.Time{}, 4096, 5)
	if res.Status != StatusBadRequest {
		t.Fatalf("expected 400, got %v", res)
	}
}

func TestParseRequestLineAbsoluteURI(t *testing.T) {
	transport := newFakeTransport([]byte("GET http://h.example/p?q HTTP/1.1\r\n"))
	buf := newGrowBuffer(4096)

	_, path, query, _, res := parseRequestLine(transport, buf, time.Time{}, 4096, 5)
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res)
	}
	if path != "/p" || query != "q" {
		t.Fatalf("got path=%q query=%q", path, query)
	}
}

func TestParseRequestLineAsteriskForm(t *testing.T) {
	transport := newFakeTransport([]byte("OPTIONS * HTTP/1.1\r\n"))
	buf := newGrowBuffer(4096)

	method, path, _, _, res := parseRequestLine(transport, buf, time.Time{}, 4096, 5)
	if !res.OK() {
		t.Fatalf("unexpected error: %v", res)
	}
	if method != "OPTIONS" || path != "*" {
		t.Fatalf("got method=%q path=%q", method, path)
	}
}

func TestParseRequestLineUnsupportedVersion(t *testing.T) {
	transport := newFakeTransport([]byte("GET / HTTP/2.0\r\n"))
	buf := newGrowBuffer(4096)

	_, _, _, _, res := parseRequestLine(transport, buf, time.Time{}, 4096, 5)
	if res.Status != StatusHTTPVersionNotSupported {
		t.Fatalf("expected 505, got %v", res)
	}
}

func TestParseRequestLineTooLong(t *testing.T) {
	// Split across two chunks so the over-length check in
	// findLineFeed fires while it is still waiting for the LF (spec
	// §4.3 step 1), before the terminator arrives.
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	firstChunk := append([]byte("GET /"), long...)
	transport := newFakeTransport(firstChunk, []byte(" HTTP/1.1\r\n"))
	buf := newGrowBuffer(4096)

	_, _, _, _, res := parseRequestLine(transport, buf, time.Time{}, 32, 5)
	if res.Status != StatusURITooLong {
		t.Fatalf("expected 414, got %v", res)
	}
}
