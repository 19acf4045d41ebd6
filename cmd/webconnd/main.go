// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

// Command webconnd is a minimal example acceptor: one net.Listener, one
// goroutine per accepted connection (spec §5's scheduling model),
// wiring the default reqres collaborator and middleware chain. Grounded
// on fakefloordiv-at/internal/server/tcp/mainloop.go's Run loop
// (accept, spawn, continue on transient Accept errors) rather than
// gorox's multi-stage leader/worker gate machinery, which manages a
// whole fleet of listeners this module has no counterpart for (see
// DESIGN.md, "Teacher modules not adapted").
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/webconn/webconn"
	"github.com/webconn/webconn/middlewares"
	"github.com/webconn/webconn/reqres"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	flag.Parse()

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal(err)
	}
	defer ln.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := webconn.NewLogger(os.Stdout)
	defer logger.Close()

	cfg := webconn.Apply(
		webconn.WithMiddlewares(middlewares.Default()...),
	)
	builder := reqres.NewBuilder()

	logger.Logf("listening on %s", ln.Addr())
	if err := run(ctx, ln, cfg, builder, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, ln net.Listener, cfg webconn.Config, builder webconn.RequestBuilder, logger *webconn.Logger) error {
	var wg sync.WaitGroup
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			serveConn(conn, ln, cfg, builder, logger)
		}()
	}
}

// serveConn wires one accepted connection. TLS termination is an
// explicit external collaborator (spec §1) this command doesn't
// perform; callers needing TLS wrap conn in a *tls.Conn before calling
// this and use webconn.NewTLSTransport instead.
func serveConn(conn net.Conn, ln net.Listener, cfg webconn.Config, builder webconn.RequestBuilder, logger *webconn.Logger) {
	transport := webconn.NewTCPTransport(conn, false)
	state := webconn.NewConnectionState(cfg, transport, builder, logger, ln)
	state.Serve()
}
