// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import "net"

// Version identifies the two wire versions this module parses (spec §3).
type Version int

const (
	HTTP10 Version = iota
	HTTP11
)

func (v Version) String() string {
	if v == HTTP10 {
		return "HTTP/1.0"
	}
	return "HTTP/1.1"
}

// Header is one parsed header field. Name is always ASCII-lower-cased;
// Value has trailing SP/HTAB stripped (spec §3 invariants).
type Header struct {
	Name  string
	Value string
}

// ParsedRequest is the transient, one-per-request value spec §3
// describes. It carries everything the finalizer produced; the
// RequestBuilder collaborator turns it into whatever the Router and
// handler middlewares actually consume.
type ParsedRequest struct {
	Method  string
	Path    string
	Query   string
	Version Version
	Headers []Header

	Host string
	Port int

	PeerAddr net.Addr

	// Residual is unread bytes carried past this request's headers,
	// into the body phase and/or the next request (spec's "residual
	// buffer").
	Residual []byte

	KeepAliveAllowed bool
	Compress         bool
	OnResponse       func(req *ParsedRequest)

	// ExpectContinue and ConnectionClose are supplemental signals
	// (SPEC_FULL.md §12) threaded through for the Request/response
	// collaborator to act on; the core parser never writes a 100
	// Continue itself.
	ExpectContinue  bool
	ConnectionClose bool

	// ProxyInfo is a read-only copy of the connection's PROXY-protocol
	// decode (spec §9's design note: surfaced on the request object
	// rather than a process-local keyed store).
	ProxyInfo ProxyInfo
}

// HeaderValue returns the first value stored under lowerName, which
// must already be lower-case — header names are always stored
// lower-cased, so callers never need case-insensitive comparison here.
func (r *ParsedRequest) HeaderValue(lowerName string) (string, bool) {
	for _, h := range r.Headers {
		if h.Name == lowerName {
			return h.Value, true
		}
	}
	return "", false
}

// Disposition is the connection-continuation signal a Request reports
// back to the keep-alive loop (spec §4.7 step 2, "connection
// disposition").
type Disposition int

const (
	DispositionKeepAlive Disposition = iota
	DispositionClose
)

// RequestParams is the constructor argument spec §6 names for the
// Request/response capability: "Constructor taking (socket, transport,
// peer, method, path, query, version, headers, host, port, buffer,
// keep_alive_allowed, compress, on_response)".
type RequestParams struct {
	Transport        Transport
	Peer             net.Addr
	Method           string
	Path             string
	Query            string
	Version          Version
	Headers          []Header
	Host             string
	Port             int
	Buffer           []byte
	KeepAliveAllowed bool
	Compress         bool
	OnResponse       func(req *ParsedRequest)

	// ExpectContinue and ConnectionClose mirror the supplemental
	// signals ParsedRequest carries (SPEC_FULL.md §12), so a
	// RequestBuilder can see them without re-scanning headers.
	ExpectContinue  bool
	ConnectionClose bool
}

// Request is the external Request/response capability (spec §6,
// "called into, not defined here"): the object threaded through the
// middleware chain. webconn never implements this itself — see the
// reqres package for a default implementation — but the core needs the
// contract to drive the keep-alive loop.
type Request interface {
	// EnsureResponse synthesizes defaultStatus if nothing has replied
	// yet (spec §4.7 step 1).
	EnsureResponse(defaultStatus int)
	// Reply sends status as the response to this request.
	Reply(status int) error
	// Body attempts to drain the request body, returning the updated
	// Request with residual buffer recovered, or ok=false if the body
	// is too large or otherwise unreadable (spec §4.7 step 3).
	Body() (ok bool, body []byte, next Request, err error)
	// Connection reports this request's close/keep-alive disposition.
	Connection() Disposition
	// Buffer exposes the residual buffer this Request currently owns.
	Buffer() []byte
}

// RequestBuilder constructs a Request from RequestParams — the
// "Constructor" half of spec §6's Request/response capability.
type RequestBuilder interface {
	NewRequest(p RequestParams) Request
}

// RoutableRequest is the narrow accessor set the default router/handler
// middlewares need from a Request/response collaborator. Not every
// collaborator need implement it; the default one (package reqres)
// does, which is all Router (middlewares/router) type-asserts for.
type RoutableRequest interface {
	Method() string
	Path() string
	Query() string
	Host() string
}
