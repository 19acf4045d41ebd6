// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

// OutcomeKind is the three-way result spec §4.6 names, modeled as an
// explicit continuation enum per design note §9 rather than a
// goroutine park/resume — Go stacks already grow and shrink cheaply,
// and gorox itself runs each handlet synchronously on the connection's
// own goroutine (hemi/classic/handlets/hostname/hostname.go,
// hemi/standard/handlets/access/handlet.go), so Suspend exists here for
// parity with the spec's original hibernate-based source, not because
// Go needs it for stack reasons.
type OutcomeKind int

const (
	OutcomeOk OutcomeKind = iota
	OutcomeSuspend
	OutcomeStop
)

// SuspendFunc is the captured call a Suspend outcome names: "the
// equivalent of call target(args); interpret result as Ok/Suspend/Stop"
// (spec §4.6).
type SuspendFunc func(args any) Outcome

// Outcome is a Middleware's three-way result.
type Outcome struct {
	Kind OutcomeKind

	// Ok carries the (possibly replaced) request and env; Stop carries
	// the request only.
	Req Request
	Env map[string]any

	// Suspend carries the continuation to resume with.
	Target SuspendFunc
	Args   any
}

func Ok(req Request, env map[string]any) Outcome {
	return Outcome{Kind: OutcomeOk, Req: req, Env: env}
}

func Suspend(target SuspendFunc, args any) Outcome {
	return Outcome{Kind: OutcomeSuspend, Target: target, Args: args}
}

func Stop(req Request) Outcome {
	return Outcome{Kind: OutcomeStop, Req: req}
}

// Middleware is the opaque request-processing capability spec §6
// names: only its contract is defined here, never its behavior.
type Middleware interface {
	Execute(req Request, env map[string]any) Outcome
}

// envResultKey names the env entry read as the handler result when the tail runs
// dry (spec §4.6: "the executor reads env["result"] (default ok)").
const envResultKey = "result"

// runMiddlewares drives the executor trampoline of spec §4.6: Ok
// advances to the next middleware; Suspend calls its target inline and
// re-interprets the result against the same position, rather than
// advancing, which is exactly "threading the same state and tail";
// Stop skips the remainder with a fixed ok result.
func runMiddlewares(mws []Middleware, req Request, env map[string]any) (Request, map[string]any, string) {
	i := 0
	outcome := Outcome{Kind: OutcomeOk, Req: req, Env: env}

	for {
		switch outcome.Kind {
		case OutcomeOk:
			req, env = outcome.Req, outcome.Env
			if i >= len(mws) {
				result := "ok"
				if v, ok := env[envResultKey].(string); ok {
					result = v
				}
				return req, env, result
			}
			outcome = mws[i].Execute(req, env)
			i++
		case OutcomeSuspend:
			outcome = outcome.Target(outcome.Args)
		case OutcomeStop:
			return outcome.Req, env, "ok"
		}
	}
}
