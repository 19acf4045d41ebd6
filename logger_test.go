// Copyright (c) 2026 The Webconn Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can
// be found in the LICENSE file.

package webconn

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFlushesOnClose(t *testing.T) {
	var sink bytes.Buffer
	logger := NewLogger(&sink)
	logger.Logf("hello %d", 1)
	logger.Close()

	if !strings.Contains(sink.String(), "hello 1") {
		t.Fatalf("expected flushed line in sink, got %q", sink.String())
	}
}

func TestLoggerCloseIsIdempotent(t *testing.T) {
	var sink bytes.Buffer
	logger := NewLogger(&sink)
	logger.Logf("one line")

	logger.Close()
	logger.Close()
}

func TestLoggerDropsLinesAfterClose(t *testing.T) {
	var sink bytes.Buffer
	logger := NewLogger(&sink)
	logger.Close()
	logger.Logf("should not appear")

	if strings.Contains(sink.String(), "should not appear") {
		t.Fatal("expected no writes to be recorded after close")
	}
}
