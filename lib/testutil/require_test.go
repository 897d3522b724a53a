// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

// recordingT captures Fatalf instead of stopping the test goroutine.
type recordingT struct {
	failed  bool
	message string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Fatalf(format string, args ...any) {
	r.failed = true
	r.message = fmt.Sprintf(format, args...)
	panic(r)
}

func capture(run func(t TestingT)) (recorder *recordingT) {
	recorder = &recordingT{}
	defer func() {
		if recovered := recover(); recovered != nil && recovered != recorder {
			panic(recovered)
		}
	}()
	run(recorder)
	return recorder
}

func TestRequireReceive(t *testing.T) {
	ch := make(chan int, 1)
	ch <- 7
	if got := RequireReceive(t, ch, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}
}

func TestRequireReceive_Timeout(t *testing.T) {
	recorder := capture(func(r TestingT) {
		RequireReceive(r, make(chan int), 10*time.Millisecond, "waiting for %s", "nothing")
	})
	if !recorder.failed || !strings.Contains(recorder.message, "waiting for nothing") {
		t.Errorf("recorder = %+v", recorder)
	}
}

func TestRequireReceive_Closed(t *testing.T) {
	ch := make(chan int)
	close(ch)
	recorder := capture(func(r TestingT) {
		RequireReceive(r, ch, time.Second)
	})
	if !recorder.failed || !strings.Contains(recorder.message, "channel closed") {
		t.Errorf("recorder = %+v", recorder)
	}
}

func TestRequireClosed(t *testing.T) {
	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second, "done")

	recorder := capture(func(r TestingT) {
		RequireClosed(r, make(chan struct{}), 10*time.Millisecond, "never")
	})
	if !recorder.failed {
		t.Error("RequireClosed did not fail on an open channel")
	}
}
