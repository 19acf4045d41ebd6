// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import "time"

// ConnectionState lives for the duration of one accepted socket (spec
// §3). Grounded on hemi/internal/server_http1.go's http1Conn: one
// stream reused across keep-alive iterations, a keepConn-equivalent
// loop, and a terminate path that always closes the socket.
type ConnectionState struct {
	transport Transport
	builder   RequestBuilder
	logger    *Logger
	listener  any

	middlewares    []Middleware
	env            map[string]any
	compress       bool
	onResponse     func(req *ParsedRequest)
	onFirstRequest func(req *ParsedRequest)

	maxEmptyLines        int
	maxKeepalive         int
	maxRequestLineLength int
	maxHeaderNameLength  int
	maxHeaderValueLength int
	maxHeaders           int

	timeout time.Duration
	until   time.Time

	reqKeepalive int

	peerProxyInfo ProxyInfo

	buf *growBuffer

	firstRequestFired bool
	closed            bool
}

// NewConnectionState wires a Config, an accepted Transport and a
// RequestBuilder collaborator into a ready-to-serve connection.
// listener is the acceptor reference spec §6's "env (name→value
// mapping...)" injects under EnvListenerKey — typically the net.Listener
// the accept loop is reading from.
func NewConnectionState(cfg Config, transport Transport, builder RequestBuilder, logger *Logger, listener any) *ConnectionState {
	return &ConnectionState{
		transport:             transport,
		builder:               builder,
		logger:                logger,
		listener:              listener,
		middlewares:           cfg.Middlewares,
		env:                   cfg.Env,
		compress:              cfg.Compress,
		onResponse:            cfg.OnResponse,
		onFirstRequest:        cfg.OnFirstRequest,
		maxEmptyLines:         cfg.MaxEmptyLines,
		maxKeepalive:          cfg.MaxKeepalive,
		maxRequestLineLength:  cfg.MaxRequestLineLength,
		maxHeaderNameLength:   cfg.MaxHeaderNameLength,
		maxHeaderValueLength:  cfg.MaxHeaderValueLength,
		maxHeaders:            cfg.MaxHeaders,
		timeout:               cfg.Timeout,
		reqKeepalive:          1,
		buf:                   newGrowBuffer(bufferCap(cfg)),
	}
}

// bufferCap sizes the shared scanning buffer to the larger of the
// configured limits (spec §3's residual-buffer invariant): either a
// request line at its cap, or a full header block at its caps,
// whichever is bigger.
func bufferCap(cfg Config) int {
	capacity := cfg.MaxRequestLineLength
	headerBudget := cfg.MaxHeaders * (cfg.MaxHeaderNameLength + cfg.MaxHeaderValueLength + 4)
	if headerBudget > capacity {
		capacity = headerBudget
	}
	return capacity
}

// Serve runs the connection to completion: decode an optional PROXY
// preamble, then loop parsing requests through the middleware chain
// until the connection closes (spec §4.7). It always closes the
// socket on return.
func (c *ConnectionState) Serve() {
	defer c.terminate()

	c.refreshDeadline()
	info, present, res := decodeProxyProtocol(c.transport, c.buf, c.until)
	if present {
		if res.Silent() {
			return
		}
		if !res.OK() {
			c.replyErrorAndClose(res)
			return
		}
		c.peerProxyInfo = info
	}

	for {
		req, res := c.parseOneRequest()
		if res.Silent() {
			return
		}
		if !res.OK() {
			c.replyErrorAndClose(res)
			return
		}

		if c.logger != nil {
			c.logger.Logf("%s %s %s", req.Method, req.Path, req.Version)
		}

		builtReq := c.builder.NewRequest(RequestParams{
			Transport:        c.transport,
			Peer:             req.PeerAddr,
			Method:           req.Method,
			Path:             req.Path,
			Query:            req.Query,
			Version:          req.Version,
			Headers:          req.Headers,
			Host:             req.Host,
			Port:             req.Port,
			Buffer:           req.Residual,
			KeepAliveAllowed: req.KeepAliveAllowed,
			Compress:         req.Compress,
			OnResponse:       req.OnResponse,
			ExpectContinue:   req.ExpectContinue,
			ConnectionClose:  req.ConnectionClose,
		})

		if !c.firstRequestFired {
			c.firstRequestFired = true
			if c.onFirstRequest != nil {
				c.onFirstRequest(req)
			}
		}

		env := envWithListener(c.env, c.listener)
		finalReq, _, result := runMiddlewares(c.middlewares, builtReq, env)

		// on_response fires exactly once per request, from inside the
		// Request/response collaborator's Reply path (RequestParams.
		// OnResponse above), whether that reply was sent by a
		// middleware or synthesized here — calling it again would
		// double-fire it.
		finalReq.EnsureResponse(StatusNoContent)

		if finalReq.Connection() == DispositionClose {
			return
		}

		residual, bufferOK := c.drainBody(finalReq)
		if result != "ok" || !bufferOK {
			return
		}

		c.reqKeepalive++
		if c.reqKeepalive > c.maxKeepalive {
			return
		}
		c.buf.seed(residual)
		c.refreshDeadline()
	}
}

// parseOneRequest runs the request-line → headers → finalize pipeline
// over the connection's shared buffer.
func (c *ConnectionState) parseOneRequest() (*ParsedRequest, Result) {
	method, path, query, version, res := parseRequestLine(c.transport, c.buf, c.until, c.maxRequestLineLength, c.maxEmptyLines)
	if !res.OK() {
		return nil, res
	}

	headers, res := parseHeaders(c.transport, c.buf, c.until, c.maxHeaders, c.maxHeaderNameLength, c.maxHeaderValueLength)
	if !res.OK() {
		return nil, res
	}

	residual := append([]byte(nil), c.buf.buf...)
	c.buf.consume(len(c.buf.buf))

	return finalizeRequest(c.transport, method, path, query, version, headers, residual, c.reqKeepalive, c.maxKeepalive, c.compress, c.onResponse, c.peerProxyInfo)
}

// drainBody implements spec §4.7 step 3: recover a clean residual
// buffer by draining the body, or signal "close" if that's not
// possible.
func (c *ConnectionState) drainBody(req Request) (residual []byte, ok bool) {
	drained, _, next, err := req.Body()
	if err != nil || !drained {
		return nil, false
	}
	return next.Buffer(), true
}

// refreshDeadline recomputes until from timeout (spec §3: "until is
// recomputed at the start of every new request and whenever a new read
// phase begins").
func (c *ConnectionState) refreshDeadline() {
	if c.timeout <= 0 {
		c.until = time.Time{}
		return
	}
	c.until = time.Now().Add(c.timeout)
}

// replyErrorAndClose implements spec §4.8: synthesize a minimal
// request, reply with the mapped status, then terminate.
func (c *ConnectionState) replyErrorAndClose(res Result) {
	synthetic := &ParsedRequest{Method: "GET", Version: HTTP11}
	req := c.builder.NewRequest(RequestParams{
		Transport: c.transport,
		Method:    synthetic.Method,
		Path:      "/",
		Version:   synthetic.Version,
	})
	_ = req.Reply(res.Status)
}

// terminate closes the socket unconditionally (spec §4.7's
// "Terminate"). Idempotent: a second call is a no-op, satisfying spec
// §8's close-idempotence invariant.
func (c *ConnectionState) terminate() {
	if c.closed {
		return
	}
	c.closed = true
	_ = c.transport.Close()
}
