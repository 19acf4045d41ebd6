// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package middlewares assembles the spec §6 default middleware chain,
// [router, handler]. It lives outside the core webconn package so the
// core never imports its own reference middlewares (avoiding an import
// cycle), matching the same split gorox draws between its handlet
// contract (hemi package) and its concrete handlets (hemi/classic,
// hemi/standard).
package middlewares

import (
	"github.com/webconn/webconn"
	"github.com/webconn/webconn/middlewares/handler"
	"github.com/webconn/webconn/middlewares/router"
)

// Default returns the spec §6 default chain: a Router with a single
// catch-all route handing every request straight to a Handler that
// replies 200 OK. Callers wire their own routes via router.New
// directly; Default exists so DefaultConfig()'s documented behavior has
// somewhere concrete to point to.
func Default() []webconn.Middleware {
	return []webconn.Middleware{
		router.New(router.Route{Path: "*", Handler: handler.New(nil)}),
	}
}
