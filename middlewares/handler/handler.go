// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package handler is the default second entry of the spec §6 default
// middleware list, [router, handler]: a terminal step grounded on
// gorox's accessHandlet (hemi/standard/handlets/access/handlet.go) —
// a chain-terminating Handle call that always replies and stops.
package handler

import (
	"net/http"

	"github.com/webconn/webconn"
)

// Func computes the status to reply with for a routed request.
type Func func(req webconn.Request, env map[string]any) int

// Handler replies with Fn's status (200 OK if Fn is nil) and stops the
// chain — this module has no application logic of its own, so the
// default behavior is the simplest one that still exercises the
// Request/response collaborator end to end.
type Handler struct {
	Fn Func
}

// New builds a Handler. fn may be nil.
func New(fn Func) *Handler {
	return &Handler{Fn: fn}
}

func (h *Handler) Execute(req webconn.Request, env map[string]any) webconn.Outcome {
	status := http.StatusOK
	if h.Fn != nil {
		status = h.Fn(req, env)
	}
	_ = req.Reply(status)
	return webconn.Stop(req)
}
