// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"testing"

	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/m5stats/m5stats-monitor/internal/testutil"
	"github.com/pkg/errors"
)

func TestFakeWatcher(t *testing.T) {
	ctx := context.Background()
	w := NewFakeWatcher("/tmp/stats.txt")
	defer w.Close()

	w.InjectCreate()
	w.InjectUpdate()
	var got []Event
	for i := 0; i < 2; i++ {
		testutil.FatalIfErr(t, w.Wait(ctx))
		e, err := w.ReadEvent()
		testutil.FatalIfErr(t, err)
		got = append(got, e)
	}
	testutil.ExpectNoDiff(t, []Event{
		{Op: Create, Pathname: "/tmp/stats.txt"},
		{Op: Update, Pathname: "/tmp/stats.txt"},
	}, got)

	if _, err := w.ReadEvent(); !failure.Is(err, failure.Read) {
		t.Errorf("ReadEvent without Wait = %v, want read failure", err)
	}

	boom := errors.New("boom")
	w.InjectReadError(boom)
	testutil.FatalIfErr(t, w.Wait(ctx))
	if _, err := w.ReadEvent(); err != boom {
		t.Errorf("ReadEvent() = %v, want %v", err, boom)
	}
	w.InjectWaitError(boom)
	if err := w.Wait(ctx); err != boom {
		t.Errorf("Wait() = %v, want %v", err, boom)
	}

	waits, reads := w.Counts()
	if waits != 4 || reads != 4 {
		t.Errorf("Counts() = %d, %d, want 4, 4", waits, reads)
	}
}

func TestFakeWatcherWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewFakeWatcher("/tmp/stats.txt")
	if err := w.Wait(ctx); err != context.Canceled {
		t.Errorf("Wait() = %v, want %v", err, context.Canceled)
	}
	testutil.FatalIfErr(t, w.Close())
	if !w.IsClosed() {
		t.Error("watcher not closed")
	}
}

func TestOpTypeString(t *testing.T) {
	for op, want := range map[OpType]string{Create: "Create", Update: "Update", Other: "Other", 0: "OpType(0)"} {
		if got := op.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(op), got, want)
		}
	}
}
