// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"testing"
	"time"
)

// TestFragmentationInvariant checks spec §8's core property: for any
// byte fragmentation of a valid request stream, the parser produces the
// same ParsedRequest fields as for the fully-buffered input.
func TestFragmentationInvariant(t *testing.T) {
	raw := []byte("POST /submit?x=1 HTTP/1.1\r\nHost: h.example\r\nContent-Length: 4\r\n\r\nbody")

	whole := newFakeTransport(raw)
	wholeBuf := newGrowBuffer(4096)
	method1, path1, query1, version1, res1 := parseRequestLine(whole, wholeBuf, time.Time{}, 4096, 5)
	if !res1.OK() {
		t.Fatalf("whole-buffer parse failed: %v", res1)
	}
	headers1, res1 := parseHeaders(whole, wholeBuf, time.Time{}, 100, 64, 4096)
	if !res1.OK() {
		t.Fatalf("whole-buffer header parse failed: %v", res1)
	}

	fragmented := singleByteTransport(raw)
	fragBuf := newGrowBuffer(4096)
	method2, path2, query2, version2, res2 := parseRequestLine(fragmented, fragBuf, time.Time{}, 4096, 5)
	if !res2.OK() {
		t.Fatalf("fragmented parse failed: %v", res2)
	}
	headers2, res2 := parseHeaders(fragmented, fragBuf, time.Time{}, 100, 64, 4096)
	if !res2.OK() {
		t.Fatalf("fragmented header parse failed: %v", res2)
	}

	if method1 != method2 || path1 != path2 || query1 != query2 || version1 != version2 {
		t.Fatalf("request line mismatch: whole=(%q,%q,%q,%v) fragmented=(%q,%q,%q,%v)",
			method1, path1, query1, version1, method2, path2, query2, version2)
	}
	if len(headers1) != len(headers2) {
		t.Fatalf("header count mismatch: whole=%d fragmented=%d", len(headers1), len(headers2))
	}
	for i := range headers1 {
		if headers1[i] != headers2[i] {
			t.Fatalf("header %d mismatch: whole=%+v fragmented=%+v", i, headers1[i], headers2[i])
		}
	}

	// What follows the headers must also match: the residual already
	// read into each buffer, followed by whatever the transport has not
	// yet delivered, is the body in both cases. How the body splits
	// between the two depends on the fragmentation, since the parser
	// stops reading at the end of the header block.
	wholeRest := append([]byte(nil), wholeBuf.buf...)
	for _, c := range whole.chunks[whole.idx:] {
		wholeRest = append(wholeRest, c...)
	}
	fragRest := append([]byte(nil), fragBuf.buf...)
	for _, c := range fragmented.chunks[fragmented.idx:] {
		fragRest = append(fragRest, c...)
	}
	if string(wholeRest) != string(fragRest) {
		t.Fatalf("residual mismatch: whole=%q fragmented=%q", wholeRest, fragRest)
	}
}
