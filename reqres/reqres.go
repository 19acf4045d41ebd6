// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package reqres is the default Request/response collaborator (spec
// §6): it is the external capability webconn's core calls into but
// never defines. Grounded on gorox's concrete http1Request/
// http1Response pair (hemi/internal/server_http1.go), simplified to
// this module's scope: no compression, no chunked transfer re-encoding
// (both explicit Non-goals), and a fixed HTTP/1.1-shaped status line
// regardless of the request's own version, since a minimal collaborator
// has no templating engine to vary it.
package reqres

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/webconn/webconn"
)

// Builder is the default webconn.RequestBuilder.
type Builder struct{}

// NewBuilder returns the default Request/response collaborator.
func NewBuilder() Builder { return Builder{} }

func (Builder) NewRequest(p webconn.RequestParams) webconn.Request {
	disposition := webconn.DispositionKeepAlive
	if !p.KeepAliveAllowed || p.ConnectionClose {
		disposition = webconn.DispositionClose
	}
	return &Request{
		transport:        p.Transport,
		peer:             p.Peer,
		method:           p.Method,
		path:             p.Path,
		query:            p.Query,
		version:          p.Version,
		headers:          p.Headers,
		host:             p.Host,
		port:             p.Port,
		buffer:           p.Buffer,
		expectContinue:   p.ExpectContinue,
		compress:         p.Compress,
		onResponse:       p.OnResponse,
		disposition:      disposition,
	}
}

// Request is the default webconn.Request implementation.
type Request struct {
	transport webconn.Transport
	peer      net.Addr

	method  string
	path    string
	query   string
	version webconn.Version
	headers []webconn.Header
	host    string
	port    int

	buffer []byte

	expectContinue bool
	compress       bool
	onResponse     func(req *webconn.ParsedRequest)

	replied     bool
	disposition webconn.Disposition
}

// Method, Path, Query, Host and Port expose the parsed fields a
// router/handler middleware needs to make a routing decision — the
// part of the Request/response capability spec §6 leaves to "field
// accessors" without enumerating all of them.
func (r *Request) Method() string       { return r.method }
func (r *Request) Path() string         { return r.path }
func (r *Request) Query() string        { return r.query }
func (r *Request) Host() string         { return r.host }
func (r *Request) Port() int            { return r.port }
func (r *Request) Version() webconn.Version { return r.version }
func (r *Request) Headers() []webconn.Header { return r.headers }
func (r *Request) PeerAddr() net.Addr   { return r.peer }

func (r *Request) HeaderValue(lowerName string) (string, bool) {
	for _, h := range r.headers {
		if h.Name == lowerName {
			return h.Value, true
		}
	}
	return "", false
}

// EnsureResponse implements spec §4.7 step 1.
func (r *Request) EnsureResponse(defaultStatus int) {
	if !r.replied {
		_ = r.Reply(defaultStatus)
	}
}

// Reply writes a minimal, bodyless status response. Idempotent: a
// second call is a no-op, mirroring gorox's "response already sent"
// guard in http1Response.
func (r *Request) Reply(status int) error {
	if r.replied {
		return nil
	}
	r.replied = true

	if r.onResponse != nil {
		r.onResponse(&webconn.ParsedRequest{
			Method: r.method, Path: r.path, Query: r.query,
			Version: r.version, Headers: r.headers, Host: r.host, Port: r.port,
		})
	}

	conn := "keep-alive"
	if r.disposition == webconn.DispositionClose {
		conn = "close"
	}

	text := http.StatusText(status)
	if text == "" {
		text = "Unknown"
	}
	line := "HTTP/1.1 " + strconv.Itoa(status) + " " + text + "\r\n" +
		"Content-Length: 0\r\n" +
		"Connection: " + conn + "\r\n\r\n"
	_, err := r.transport.Send([]byte(line))
	return err
}

// Body implements spec §4.7 step 3: drains a sized body (by
// Content-Length) to recover a clean residual buffer. Chunked bodies
// (Transfer-Encoding present) can't be safely skipped without
// re-implementing chunked decoding — an explicit Non-goal — so Body
// reports ok=false for them, which the keep-alive loop treats as
// "close".
func (r *Request) Body() (ok bool, body []byte, next webconn.Request, err error) {
	length, sized := r.contentLength()
	if !sized {
		return false, nil, r, nil
	}
	if length == 0 {
		return true, nil, r, nil
	}

	have := r.buffer
	if len(have) > length {
		have = have[:length]
	}
	remaining := length - len(have)

	discard := make([]byte, 4096)
	for remaining > 0 {
		n := len(discard)
		if remaining < n {
			n = remaining
		}
		read, recvErr := r.transport.Recv(discard[:n], time.Time{})
		if recvErr != nil {
			return false, nil, r, recvErr
		}
		remaining -= read
	}

	rest := &Request{}
	*rest = *r
	if len(r.buffer) > length {
		rest.buffer = append([]byte(nil), r.buffer[length:]...)
	} else {
		rest.buffer = nil
	}
	return true, have, rest, nil
}

func (r *Request) contentLength() (int, bool) {
	if _, chunked := r.HeaderValue("transfer-encoding"); chunked {
		return 0, false
	}
	v, found := r.HeaderValue("content-length")
	if !found {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (r *Request) Connection() webconn.Disposition { return r.disposition }

func (r *Request) Buffer() []byte { return r.buffer }
