// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import "testing"

type fakeRequest struct {
	replied    bool
	status     int
	disposition Disposition
	buffer     []byte
}

func (r *fakeRequest) EnsureResponse(defaultStatus int) {
	if !r.replied {
		_ = r.Reply(defaultStatus)
	}
}
func (r *fakeRequest) Reply(status int) error {
	r.replied = true
	r.status = status
	return nil
}
func (r *fakeRequest) Body() (bool, []byte, Request, error) { return true, nil, r, nil }
func (r *fakeRequest) Connection() Disposition               { return r.disposition }
func (r *fakeRequest) Buffer() []byte                        { return r.buffer }

type recordingMiddleware struct {
	name    string
	outcome func(req Request, env map[string]any) Outcome
	calls   *[]string
}

func (m recordingMiddleware) Execute(req Request, env map[string]any) Outcome {
	*m.calls = append(*m.calls, m.name)
	return m.outcome(req, env)
}

func TestRunMiddlewaresOkChain(t *testing.T) {
	var calls []string
	req := &fakeRequest{}
	mws := []Middleware{
		recordingMiddleware{"a", func(req Request, env map[string]any) Outcome { return Ok(req, env) }, &calls},
		recordingMiddleware{"b", func(req Request, env map[string]any) Outcome { return Ok(req, env) }, &calls},
	}

	_, _, result := runMiddlewares(mws, req, map[string]any{})
	if result != "ok" {
		t.Fatalf("got result %q", result)
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("got calls %v", calls)
	}
}

func TestRunMiddlewaresStopSkipsTail(t *testing.T) {
	var calls []string
	req := &fakeRequest{}
	mws := []Middleware{
		recordingMiddleware{"a", func(req Request, env map[string]any) Outcome { return Stop(req) }, &calls},
		recordingMiddleware{"b", func(req Request, env map[string]any) Outcome { return Ok(req, env) }, &calls},
	}

	_, _, result := runMiddlewares(mws, req, map[string]any{})
	if result != "ok" {
		t.Fatalf("got result %q", result)
	}
	if len(calls) != 1 {
		t.Fatalf("expected tail skipped, got calls %v", calls)
	}
}

func TestRunMiddlewaresSuspendResumesSameTail(t *testing.T) {
	var calls []string
	req := &fakeRequest{}

	resumed := recordingMiddleware{"resumed", func(req Request, env map[string]any) Outcome { return Ok(req, env) }, &calls}
	mws := []Middleware{
		recordingMiddleware{"a", func(req Request, env map[string]any) Outcome {
			return Suspend(func(args any) Outcome { return resumed.Execute(req, env) }, nil)
		}, &calls},
		recordingMiddleware{"b", func(req Request, env map[string]any) Outcome { return Ok(req, env) }, &calls},
	}

	_, _, result := runMiddlewares(mws, req, map[string]any{})
	if result != "ok" {
		t.Fatalf("got result %q", result)
	}
	if len(calls) != 3 || calls[0] != "a" || calls[1] != "resumed" || calls[2] != "b" {
		t.Fatalf("got calls %v", calls)
	}
}

func TestRunMiddlewaresDefaultResultFromEnv(t *testing.T) {
	req := &fakeRequest{}
	mws := []Middleware{
		recordingMiddleware{"a", func(req Request, env map[string]any) Outcome {
			env[envResultKey] = "handled"
			return Ok(req, env)
		}, &[]string{}},
	}

	_, _, result := runMiddlewares(mws, req, map[string]any{})
	if result != "handled" {
		t.Fatalf("got result %q", result)
	}
}
