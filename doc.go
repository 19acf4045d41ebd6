// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package webconn is a per-connection HTTP/1.0 and HTTP/1.1 request
// parser, keep-alive state machine and middleware executor.
//
// It owns one accepted socket at a time. It optionally consumes a PROXY
// protocol v1 preamble, parses one or more pipelined requests under
// strict size and count limits, runs each through an ordered middleware
// chain, and either loops for the next keep-alive request or closes the
// connection. It does not listen, accept, terminate TLS, decode bodies,
// decode URLs or serialize responses: those are supplied by the caller
// through the Transport, Middleware and RequestBuilder interfaces.
package webconn
