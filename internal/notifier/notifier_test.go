// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

package notifier

import (
	"context"
	"os"
	"os/signal"
	"testing"
	"time"

	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/m5stats/m5stats-monitor/internal/testutil"
	"github.com/m5stats/m5stats-monitor/internal/watcher"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func TestSignalSelf(t *testing.T) {
	received := make(chan os.Signal, 4)
	signal.Notify(received, unix.SIGUSR1)
	defer signal.Stop(received)

	n, err := NewSignal(os.Getpid(), unix.SIGUSR1)
	testutil.FatalIfErr(t, err)
	defer testutil.ExpectMapExpvarDeltaWithDeadline(t, "signals_sent_total", "SIGUSR1", 1)()

	testutil.FatalIfErr(t, n.Notify(context.Background(), watcher.Event{Op: watcher.Update, Pathname: "/tmp/stats.txt"}))
	select {
	case s := <-received:
		if s != unix.SIGUSR1 {
			t.Errorf("received %v, want SIGUSR1", s)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("SIGUSR1 not received")
	}
}

func TestSignalNoSuchProcess(t *testing.T) {
	// Larger than any pid_max the kernel allows.
	n, err := NewSignal(1<<30, unix.SIGUSR1)
	testutil.FatalIfErr(t, err)
	err = n.Notify(context.Background(), watcher.Event{Op: watcher.Update})
	if !failure.Is(err, failure.Notify) {
		t.Fatalf("Notify() = %v, want notify failure", err)
	}
	if !errors.Is(err, unix.ESRCH) {
		t.Errorf("Notify() = %v, want ESRCH", err)
	}
	if got := failure.ExitCode(err); got != int(unix.ESRCH) {
		t.Errorf("exit code %d, want %d", got, unix.ESRCH)
	}
}

func TestSignalPermissionDenied(t *testing.T) {
	testutil.SkipIfRoot(t)
	n, err := NewSignal(1, unix.SIGUSR1)
	testutil.FatalIfErr(t, err)
	err = n.Notify(context.Background(), watcher.Event{Op: watcher.Update})
	if !failure.Is(err, failure.Notify) {
		t.Fatalf("Notify() = %v, want notify failure", err)
	}
	if !errors.Is(err, unix.EPERM) {
		t.Errorf("Notify() = %v, want EPERM", err)
	}
}

func TestNewSignalInvalid(t *testing.T) {
	for _, pid := range []int{0, -1, -4242} {
		if _, err := NewSignal(pid, unix.SIGUSR1); !failure.Is(err, failure.InvalidArgument) {
			t.Errorf("NewSignal(%d) = %v, want invalid argument", pid, err)
		}
	}
	if _, err := NewSignal(4242, 0); !failure.Is(err, failure.InvalidArgument) {
		t.Errorf("NewSignal(4242, 0) = %v, want invalid argument", err)
	}
}

func TestParseSignal(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want unix.Signal
	}{
		{"SIGUSR1", unix.SIGUSR1},
		{"usr2", unix.SIGUSR2},
		{"HUP", unix.SIGHUP},
		{"10", unix.Signal(10)},
	} {
		got, err := ParseSignal(tc.in)
		testutil.FatalIfErr(t, err)
		if got != tc.want {
			t.Errorf("ParseSignal(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, in := range []string{"", "SIGNOPE", "0", "-3", "9999"} {
		if _, err := ParseSignal(in); !failure.Is(err, failure.InvalidArgument) {
			t.Errorf("ParseSignal(%q) = %v, want invalid argument", in, err)
		}
	}
}

func TestFunc(t *testing.T) {
	var got []watcher.Event
	n := Func(func(_ context.Context, e watcher.Event) error {
		got = append(got, e)
		return nil
	})
	e := watcher.Event{Op: watcher.Create, Pathname: "/tmp/stats.txt"}
	testutil.FatalIfErr(t, n.Notify(context.Background(), e))
	testutil.ExpectNoDiff(t, []watcher.Event{e}, got)
}
