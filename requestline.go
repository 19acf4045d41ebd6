// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"bytes"
	"time"
)

var absoluteURIPrefixes = [][]byte{
	[]byte("http://"),
	[]byte("https://"),
	[]byte("HTTP://"),
	[]byte("HTTPS://"),
}

// parseRequestLine implements spec §4.3: method, request-target,
// version, plus the leading-empty-line tolerance of §4.3 step 1.
// Grounded on hemi/internal/server_http1.go's recvControl cursor shape,
// simplified: no percent-decoding, no query key/value splitting.
//
// A timeout while the buffer is still empty is reported as
// resultSilentClose rather than resultReadTimeout — spec §5's
// cancellation policy distinguishes "idle wait between keep-alive
// requests" (silent close) from a timeout mid-header-phase (408); the
// request-line phase is exactly that idle wait until the first byte of
// the next request arrives.
func parseRequestLine(t Transport, buf *growBuffer, until time.Time, maxLen, maxEmptyLines int) (method, path, query string, version Version, result Result) {
	emptyLines := 0
	for {
		idx, res := findLineFeed(t, buf, until, maxLen)
		if !res.OK() {
			return "", "", "", 0, res
		}
		if idx == 0 {
			return "", "", "", 0, resultMalformedRequestLine
		}
		if idx == 1 && buf.buf[0] == '\r' {
			if emptyLines == maxEmptyLines {
				return "", "", "", 0, resultTooManyEmptyLines
			}
			buf.consume(2)
			emptyLines++
			continue
		}

		line := append([]byte(nil), buf.buf[:idx+1]...)
		buf.consume(idx + 1)
		return parseRequestLineBytes(line)
	}
}

// findLineFeed scans buf for the first LF, growing as needed. A
// timeout while buf is still empty is silent; any other failure (read
// timeout with partial bytes already buffered, or a closed transport)
// reports the caller-appropriate Result.
func findLineFeed(t Transport, buf *growBuffer, until time.Time, maxLen int) (idx int, result Result) {
	for {
		if i := bytes.IndexByte(buf.buf, '\n'); i >= 0 {
			if i > maxLen {
				return 0, resultRequestLineTooLong
			}
			return i, Result{}
		}
		if len(buf.buf) > maxLen {
			return 0, resultRequestLineTooLong
		}
		wasEmpty := len(buf.buf) == 0
		outcome, ok := buf.fill(t, until)
		if !ok {
			if outcome == recvTimeout {
				if wasEmpty {
					return 0, resultSilentClose
				}
				return 0, resultReadTimeout
			}
			if outcome == recvOK {
				// buf is at its cap with no LF in it.
				return 0, resultRequestLineTooLong
			}
			return 0, resultSilentClose
		}
	}
}

func parseRequestLineBytes(line []byte) (method, path, query string, version Version, result Result) {
	if len(line) == 0 || line[0] == ' ' {
		return "", "", "", 0, resultMalformedRequestLine
	}

	i := 0
	for i < len(line) && line[i] != ' ' {
		if line[i] == '\r' {
			return "", "", "", 0, resultMalformedRequestLine
		}
		i++
	}
	if i == len(line) {
		return "", "", "", 0, resultMalformedRequestLine
	}
	methodBytes := line[:i]
	rest := line[i+1:]

	pathBytes, queryBytes, tail, res := parseRequestTarget(rest)
	if !res.OK() {
		return "", "", "", 0, res
	}

	ver, res := parseVersion(tail)
	if !res.OK() {
		return "", "", "", 0, res
	}

	return string(methodBytes), string(pathBytes), string(queryBytes), ver, Result{}
}

// parseRequestTarget implements spec §4.3 step 3: asterisk-form,
// absolute-URI (authority skipped up to the first of / ? # SP), and
// origin-form.
func parseRequestTarget(rest []byte) (path, query, tail []byte, result Result) {
	if len(rest) >= 2 && rest[0] == '*' && rest[1] == ' ' {
		return []byte("*"), nil, rest[2:], Result{}
	}

	for _, prefix := range absoluteURIPrefixes {
		if bytes.HasPrefix(rest, prefix) {
			skip := skipAuthority(rest)
			return parseOriginForm(rest[skip:], true)
		}
	}

	return parseOriginForm(rest, false)
}

// skipAuthority returns the index of the first byte after "://" that
// is one of '/', '?', '#', or SP — the end of the authority component.
func skipAuthority(b []byte) int {
	i := bytes.Index(b, []byte("://")) + 3
	for i < len(b) {
		switch b[i] {
		case '/', '?', '#', ' ':
			return i
		}
		i++
	}
	return i
}

// parseOriginForm scans path, optional query, optional (discarded)
// fragment, stopping at the SP before the version token. impliedSlash
// allows a missing leading '/' to be synthesized, which only applies
// when the caller already skipped an absolute-URI authority.
func parseOriginForm(body []byte, impliedSlash bool) (path, query, tail []byte, result Result) {
	i := 0
	for i < len(body) {
		switch body[i] {
		case ' ', '?', '#':
			goto pathDone
		case '\r':
			return nil, nil, nil, resultMalformedRequestLine
		}
		i++
	}
pathDone:
	path = body[:i]
	rest := body[i:]
	if len(path) == 0 || path[0] != '/' {
		if !impliedSlash {
			return nil, nil, nil, resultMalformedRequestLine
		}
		path = append([]byte{'/'}, path...)
	}

	if len(rest) > 0 && rest[0] == '?' {
		rest = rest[1:]
		j := 0
		for j < len(rest) {
			switch rest[j] {
			case ' ', '#':
				goto queryDone
			case '\r':
				return nil, nil, nil, resultMalformedRequestLine
			}
			j++
		}
	queryDone:
		query = rest[:j]
		rest = rest[j:]
	}

	if len(rest) > 0 && rest[0] == '#' {
		rest = rest[1:]
		k := 0
		for k < len(rest) {
			switch rest[k] {
			case ' ':
				goto fragDone
			case '\r':
				return nil, nil, nil, resultMalformedRequestLine
			}
			k++
		}
	fragDone:
		rest = rest[k:] // fragment is discarded, never surfaced
	}

	if len(rest) == 0 || rest[0] != ' ' {
		return nil, nil, nil, resultMalformedRequestLine
	}
	return path, query, rest[1:], Result{}
}

func parseVersion(tail []byte) (Version, Result) {
	switch {
	case bytes.Equal(tail, []byte("HTTP/1.1\r\n")):
		return HTTP11, Result{}
	case bytes.Equal(tail, []byte("HTTP/1.0\r\n")):
		return HTTP10, Result{}
	default:
		return 0, resultUnsupportedVersion
	}
}
