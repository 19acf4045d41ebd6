// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"bytes"
	"net"
	"strconv"
	"time"
)

// ProxyKind distinguishes the ProxyInfo variants of spec §3.
type ProxyKind int

const (
	ProxyNotPresent    ProxyKind = iota // NotProxyProtocol
	ProxyUnknown                        // UnknownPeer
	ProxyMalformed                      // Malformed
	ProxyIPv4                           // Ipv4
	ProxyIPv6                           // Ipv6
)

// ProxyInfo is the decoded PROXY protocol v1 preamble (spec §3, §4.2).
type ProxyInfo struct {
	Kind       ProxyKind
	SourceAddr net.IP
	DestAddr   net.IP
	SourcePort int
	DestPort   int
}

var proxyPrefix = []byte("PROXY ")

// decodeProxyProtocol inspects buf for a PROXY protocol v1 preamble and
// consumes it if present. It grows buf via fill until a CRLF is found or
// the connection fails. The cursor/"scan for CRLF, then decode the line
// before it" shape is the same one gorox's parsers and
// fakefloordiv-at's scanner.go use (bytes.IndexByte(data, '\n')); PROXY
// protocol itself has no grounding anywhere in the retrieval pack (see
// DESIGN.md), so the TCP4/TCP6/UNKNOWN grammar comes straight from the
// protocol's own spec (GLOSSARY).
//
// present reports whether a "PROXY " preamble was seen at all — when
// false, buf is untouched and the caller proceeds straight to the
// request line. When present is true and err is not OK, the connection
// ends: a line that does not decode, or a closed transport, yields
// resultSilentClose (no response, spec §4.2 policy: "NotProxyProtocol
// after PROXY  is fatal"); a timeout while waiting for the rest of the
// line yields resultReadTimeout, which the caller answers with 408.
func decodeProxyProtocol(t Transport, buf *growBuffer, until time.Time) (info ProxyInfo, present bool, err Result) {
	for len(buf.buf) < len(proxyPrefix) {
		if _, ok := buf.fill(t, until); !ok {
			// No bytes, or not even "PROXY " worth, have arrived yet:
			// this is the same idle wait as the request-line phase, so
			// report no preamble and let that phase, which reads again,
			// decide the outcome.
			return info, false, Result{}
		}
	}
	if !bytes.Equal(buf.buf[:len(proxyPrefix)], proxyPrefix) {
		return info, false, Result{}
	}

	for {
		if idx := bytes.IndexByte(buf.buf, '\n'); idx >= 0 {
			line := buf.buf[:idx] // includes trailing '\r' if present
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			buf.consume(idx + 1)
			decoded, ok := parseProxyLine(line)
			if !ok {
				// "PROXY " was seen but the line doesn't decode as a
				// known variant: spec §4.2 policy is fatal, silent
				// close, not a status response.
				return ProxyInfo{}, true, resultSilentClose
			}
			return decoded, true, Result{}
		}
		outcome, ok := buf.fill(t, until)
		if !ok {
			if outcome == recvTimeout {
				return info, true, resultReadTimeout
			}
			return info, true, resultSilentClose
		}
	}
}

func parseProxyLine(line []byte) (ProxyInfo, bool) {
	rest := line[len(proxyPrefix):]
	switch {
	case bytes.HasPrefix(rest, []byte("TCP4 ")), bytes.HasPrefix(rest, []byte("TCP6 ")):
		kind := ProxyIPv4
		if rest[3] == '6' {
			kind = ProxyIPv6
		}
		fields := bytes.Fields(rest[5:])
		if len(fields) != 4 {
			return ProxyInfo{Kind: ProxyMalformed}, true
		}
		srcAddr := net.ParseIP(string(fields[0]))
		dstAddr := net.ParseIP(string(fields[1]))
		srcPort, err1 := parsePort(fields[2])
		dstPort, err2 := parsePort(fields[3])
		if srcAddr == nil || dstAddr == nil || err1 != nil || err2 != nil {
			return ProxyInfo{Kind: ProxyMalformed}, true
		}
		return ProxyInfo{
			Kind:       kind,
			SourceAddr: srcAddr,
			DestAddr:   dstAddr,
			SourcePort: srcPort,
			DestPort:   dstPort,
		}, true
	case bytes.HasPrefix(rest, []byte("UNKNOWN")):
		return ProxyInfo{Kind: ProxyUnknown}, true
	default:
		return ProxyInfo{Kind: ProxyNotPresent}, false
	}
}

func parsePort(b []byte) (int, error) {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, err
	}
	if n < 0 || n > 65535 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
