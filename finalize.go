// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"bytes"
	"strconv"
	"strings"
)

// finalizeRequest implements spec §4.5: host/port resolution, peer
// address capture, and assembly of the ParsedRequest the middleware
// chain's RequestBuilder will consume. Grounded on the authority/host
// parsing inside gorox's recvControl (parseAuthority, in gorox's
// hemi/internal/server_http1.go) for the [IPv6]-bracket-aware
// split and the TLS-implies-443 default.
func finalizeRequest(
	t Transport,
	method, path, query string,
	version Version,
	headers []Header,
	residual []byte,
	reqKeepalive, maxKeepalive int,
	compress bool,
	onResponse func(*ParsedRequest),
	proxyInfo ProxyInfo,
) (*ParsedRequest, Result) {
	host, port, res := finalizeHost(headers, version, t)
	if !res.OK() {
		return nil, res
	}

	peer, err := t.PeerAddr()
	if err != nil {
		return nil, resultSilentClose
	}

	expectContinue := false
	if v, ok := lookupHeader(headers, "expect"); ok && strings.EqualFold(strings.TrimSpace(v), "100-continue") {
		expectContinue = true
	}

	connClose := version == HTTP10
	if v, ok := lookupHeader(headers, "connection"); ok {
		connClose = connectionRequestsClose(v, version)
	}

	return &ParsedRequest{
		Method:           method,
		Path:             path,
		Query:            query,
		Version:          version,
		Headers:          headers,
		Host:             host,
		Port:             port,
		PeerAddr:         peer,
		Residual:         residual,
		KeepAliveAllowed: reqKeepalive < maxKeepalive,
		Compress:         compress,
		OnResponse:       onResponse,
		ExpectContinue:   expectContinue,
		ConnectionClose:  connClose,
		ProxyInfo:        proxyInfo,
	}, Result{}
}

// finalizeHost looks up the (first) Host header and resolves host/port
// (spec §4.5). Missing Host is fatal on HTTP/1.1, tolerated on
// HTTP/1.0.
func finalizeHost(headers []Header, version Version, t Transport) (host string, port int, result Result) {
	raw, found := lookupHeader(headers, "host")
	if !found {
		if version == HTTP11 {
			return "", 0, resultMissingHost
		}
		return "", defaultPort(t), Result{}
	}
	return parseHostHeader(raw, t)
}

func lookupHeader(headers []Header, name string) (string, bool) {
	for _, h := range headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}

func defaultPort(t Transport) int {
	if t.Name() == "tls" {
		return 443
	}
	return 80
}

// parseHostHeader parses "host" or "[ipv6]:port" or "host:port", per
// spec §4.5 and the bounds-checking note in spec §9.
func parseHostHeader(raw string, t Transport) (host string, port int, result Result) {
	b := []byte(raw)
	if len(b) > 0 && b[0] == '[' {
		end := bytes.IndexByte(b, ']')
		if end < 0 {
			return "", 0, resultMalformedHost
		}
		host = strings.ToLower(string(b[1:end]))
		rest := b[end+1:]
		if len(rest) == 0 {
			return host, defaultPort(t), Result{}
		}
		if rest[0] != ':' {
			return "", 0, resultMalformedHost
		}
		p, err := parseDecimalPort(rest[1:])
		if err != nil {
			return "", 0, resultMalformedHost
		}
		return host, p, Result{}
	}

	idx := bytes.IndexByte(b, ':')
	if idx < 0 {
		return strings.ToLower(raw), defaultPort(t), Result{}
	}
	p, err := parseDecimalPort(b[idx+1:])
	if err != nil {
		return "", 0, resultMalformedHost
	}
	return strings.ToLower(string(b[:idx])), p, Result{}
}

// parseDecimalPort rejects non-digit bytes outright rather than
// trusting strconv.Atoi's permissiveness with signs, and bounds-checks
// 0 <= port <= 65535, per spec §9's note on the source's list_to_integer
// call.
func parseDecimalPort(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, strconv.ErrSyntax
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, err
	}
	if n > 65535 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// connectionRequestsClose implements the supplemental Connection-header
// disposition signal (SPEC_FULL.md §12): HTTP/1.1 closes only on an
// explicit "close" token; HTTP/1.0 closes unless "keep-alive" is
// present, since persistent connections are opt-in on 1.0.
func connectionRequestsClose(v string, version Version) bool {
	tokens := strings.Split(v, ",")
	for _, tok := range tokens {
		if strings.EqualFold(strings.TrimSpace(tok), "close") {
			return true
		}
	}
	if version == HTTP10 {
		for _, tok := range tokens {
			if strings.EqualFold(strings.TrimSpace(tok), "keep-alive") {
				return false
			}
		}
		return true
	}
	return false
}
