// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Package router is the default first entry of the spec §6 default
// middleware list, [router, handler]. Grounded on gorox's
// hostnameChecker shape (hemi/classic/handlets/hostname/hostname.go):
// inspect the request, either let it continue (Ok) or stop it with a
// response of its own (Stop) — generalized from hostname-only
// redirection to method+path route matching, since this module has no
// Webapp/hostname topology to check against.
package router

import (
	"net/http"

	"github.com/webconn/webconn"
)

// Route matches a request by exact path (or "*" for any path) and,
// when Method is non-empty, by method too. Handler runs on a match,
// inside the same executor position the Router occupied.
type Route struct {
	Method  string
	Path    string
	Handler webconn.Middleware
}

// Router is a webconn.Middleware that dispatches to the first matching
// Route, storing the match under env["router.route"] in the env passed
// to that Route's Handler. The default handler (middlewares/handler)
// does not read it.
type Router struct {
	routes []Route
}

// New builds a Router over routes, tried in order.
func New(routes ...Route) *Router {
	return &Router{routes: routes}
}

func (r *Router) Execute(req webconn.Request, env map[string]any) webconn.Outcome {
	routable, ok := req.(webconn.RoutableRequest)
	if !ok {
		return webconn.Ok(req, env)
	}

	for _, route := range r.routes {
		if route.Method != "" && route.Method != routable.Method() {
			continue
		}
		if route.Path != "*" && route.Path != routable.Path() {
			continue
		}
		next := cloneEnv(env)
		next["router.route"] = route
		return route.Handler.Execute(req, next)
	}

	_ = req.Reply(http.StatusNotFound)
	return webconn.Stop(req)
}

func cloneEnv(env map[string]any) map[string]any {
	next := make(map[string]any, len(env)+1)
	for k, v := range env {
		next[k] = v
	}
	return next
}
