// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"bytes"
	"time"
)

// parseHeaders implements spec §4.4: the per-header loop, obs-fold
// tolerance, and the §4.4 step 5 end-of-buffer LF lookahead. Grounded
// on hemi/internal/http1.go's recvHeaders1 for the scan/lower-case
// shape; obs-fold (which gorox rejects outright) is added from the RFC
// text spec §9 names, since no pack example implements it either.
//
// A second Content-Length with a different value, and Content-Length
// alongside Transfer-Encoding, are rejected as resultConflictingLength
// (a repeated Content-Length with the same value is accepted) — the
// supplemental check SPEC_FULL.md §12 adds, grounded on
// other_examples/MiraiMindz-watt__errors.go's
// ErrDuplicateContentLength/ErrContentLengthWithTransferEncoding.
func parseHeaders(t Transport, buf *growBuffer, until time.Time, maxHeaders, maxNameLen, maxValueLen int) (headers []Header, result Result) {
	var contentLength string
	haveContentLength := false
	haveTransferEncoding := false

	for {
		for len(buf.buf) < 2 {
			if res := headerGrow(t, buf, until); !res.OK() {
				return nil, res
			}
		}
		if buf.buf[0] == '\r' && buf.buf[1] == '\n' {
			buf.consume(2)
			return headers, Result{}
		}

		if len(headers) >= maxHeaders {
			return nil, resultTooManyHeaders
		}

		name, res := scanHeaderName(t, buf, until, maxNameLen)
		if !res.OK() {
			return nil, res
		}
		value, res := scanHeaderValue(t, buf, until, maxValueLen)
		if !res.OK() {
			return nil, res
		}

		switch name {
		case "content-length":
			if haveContentLength && value != contentLength {
				return nil, resultConflictingLength
			}
			haveContentLength = true
			contentLength = value
		case "transfer-encoding":
			haveTransferEncoding = true
		}
		if haveContentLength && haveTransferEncoding {
			return nil, resultConflictingLength
		}

		headers = append(headers, Header{Name: name, Value: value})
	}
}

// headerGrow grows buf by one chunk. Unlike the request-line phase,
// every timeout here is mid-request (spec §4.4 step 6: "Timeouts during
// reads raise 408") — there is no idle-wait special case once header
// parsing has begun.
func headerGrow(t Transport, buf *growBuffer, until time.Time) Result {
	outcome, ok := buf.fill(t, until)
	if ok {
		return Result{}
	}
	if outcome == recvTimeout {
		return resultReadTimeout
	}
	return resultSilentClose
}

// scanHeaderName implements spec §4.4 step 3: scan for ':', lower-case
// as accumulated, tolerate trailing whitespace before the colon.
func scanHeaderName(t Transport, buf *growBuffer, until time.Time, maxLen int) (name string, result Result) {
	for {
		if idx := bytes.IndexByte(buf.buf, ':'); idx >= 0 {
			if idx > maxLen {
				return "", resultHeaderNameTooLong
			}
			raw := bytes.TrimRight(buf.buf[:idx], " \t")
			lowered := make([]byte, len(raw))
			for i, b := range raw {
				lowered[i] = asciiLower(b)
			}
			buf.consume(idx + 1)
			return string(lowered), Result{}
		}
		if len(buf.buf) > maxLen {
			return "", resultHeaderNameTooLong
		}
		if res := headerGrow(t, buf, until); !res.OK() {
			return "", res
		}
	}
}

// scanHeaderValue implements spec §4.4 steps 4-5: skip leading
// SP/HTAB, read the value body, and resolve each CR LF against the
// byte that follows it — SP/HTAB continues as obs-fold, anything else
// terminates the value.
func scanHeaderValue(t Transport, buf *growBuffer, until time.Time, maxLen int) (value string, result Result) {
	total := 0
	for {
		for len(buf.buf) > 0 && (buf.buf[0] == ' ' || buf.buf[0] == '\t') {
			buf.consume(1)
			total++
			if total > maxLen {
				return "", resultHeaderValueTooLong
			}
		}
		if len(buf.buf) > 0 {
			break
		}
		if res := headerGrow(t, buf, until); !res.OK() {
			return "", res
		}
	}

	var acc []byte
	for {
		idx := bytes.IndexByte(buf.buf, '\r')
		if idx < 0 {
			total += len(buf.buf)
			if total > maxLen {
				return "", resultHeaderValueTooLong
			}
			acc = append(acc, buf.buf...)
			buf.consume(len(buf.buf))
			if res := headerGrow(t, buf, until); !res.OK() {
				return "", res
			}
			continue
		}

		total += idx
		if total > maxLen {
			return "", resultHeaderValueTooLong
		}
		acc = append(acc, buf.buf[:idx]...)
		buf.consume(idx)

		for len(buf.buf) < 3 {
			if res := headerGrow(t, buf, until); !res.OK() {
				return "", res
			}
		}
		if buf.buf[1] != '\n' {
			return "", resultMalformedHeader
		}

		next := buf.buf[2]
		if next == ' ' || next == '\t' {
			acc = append(acc, next)
			total++
			if total > maxLen {
				return "", resultHeaderValueTooLong
			}
			buf.consume(3)
			continue
		}

		buf.consume(2)
		acc = bytes.TrimRight(acc, " \t")
		return string(acc), Result{}
	}
}

func asciiLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
