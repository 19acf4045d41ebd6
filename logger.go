// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger is a double-buffered async logger: writes append to whichever
// of two string builders is "current"; a background goroutine swaps
// them on a tick and flushes the just-retired one to Sink. Adapted from
// hemi/libraries/logger/logger.go, trimmed to a single io.Writer sink
// since this module has no per-day/per-hour log file topology to divide
// by (see SPEC_FULL.md §10.1). No third-party logging library appears
// anywhere in the retrieval pack, so this stays the teacher's own
// hand-rolled shape rather than reaching for one that was never
// demonstrated.
type Logger struct {
	Sink io.Writer

	mutex    sync.Mutex
	current  *strings.Builder
	other    *strings.Builder
	closed   bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

const loggerFlushInterval = 97 * time.Millisecond

// NewLogger starts a Logger writing to sink. A nil sink defaults to
// os.Stderr.
func NewLogger(sink io.Writer) *Logger {
	if sink == nil {
		sink = os.Stderr
	}
	l := &Logger{
		Sink:    sink,
		current: new(strings.Builder),
		other:   new(strings.Builder),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go l.saver()
	return l
}

func (l *Logger) logln(s string) {
	l.mutex.Lock()
	if !l.closed {
		l.current.WriteString(time.Now().Format("[2006-01-02 15:04:05.000] "))
		l.current.WriteString(s)
		l.current.WriteByte('\n')
	}
	l.mutex.Unlock()
}

// Logf formats and appends a line to the current buffer.
func (l *Logger) Logf(format string, args ...any) {
	l.logln(fmt.Sprintf(format, args...))
}

func (l *Logger) saver() {
	defer close(l.doneCh)
	ticker := time.NewTicker(loggerFlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.flush()
		case <-l.stopCh:
			l.flush()
			return
		}
	}
}

func (l *Logger) flush() {
	l.mutex.Lock()
	dirty := l.current
	l.current, l.other = l.other, l.current
	l.mutex.Unlock()

	if dirty.Len() == 0 {
		return
	}
	io.WriteString(l.Sink, dirty.String())
	dirty.Reset()
}

// Close stops the background flusher after one final flush. Safe to
// call more than once (spec §8's "idempotence of close" invariant).
func (l *Logger) Close() {
	l.stopOnce.Do(func() {
		l.mutex.Lock()
		l.closed = true
		l.mutex.Unlock()
		close(l.stopCh)
		<-l.doneCh
	})
}
