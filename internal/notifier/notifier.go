// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

// Package notifier tells another process that the watched file has changed.
package notifier

import (
	"context"
	"expvar"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/m5stats/m5stats-monitor/internal/watcher"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"golang.org/x/sys/unix"
)

var signalsSent = expvar.NewMap("signals_sent_total")

// Notifier is told about each event read from the watch.
type Notifier interface {
	Notify(ctx context.Context, e watcher.Event) error
}

// Func adapts a function to a Notifier.
type Func func(ctx context.Context, e watcher.Event) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, e watcher.Event) error {
	return f(ctx, e)
}

// Signal sends a signal to a process for every event, regardless of the
// event kind.
type Signal struct {
	pid int
	sig unix.Signal
}

// NewSignal returns a Notifier that sends sig to pid.  pid must name a
// single process.
func NewSignal(pid int, sig unix.Signal) (*Signal, error) {
	if pid <= 0 {
		return nil, failure.New(failure.InvalidArgument, errors.Errorf("pid %d does not name a single process", pid))
	}
	if sig <= 0 {
		return nil, failure.New(failure.InvalidArgument, errors.Errorf("invalid signal %d", int(sig)))
	}
	return &Signal{pid: pid, sig: sig}, nil
}

// Pid returns the process being notified.
func (s *Signal) Pid() int { return s.pid }

func (s *Signal) String() string {
	return fmt.Sprintf("%s to pid %d", unix.SignalName(s.sig), s.pid)
}

// Notify delivers the signal.  The receiver does not acknowledge it.
func (s *Signal) Notify(ctx context.Context, e watcher.Event) error {
	_, span := trace.StartSpan(ctx, "notifier.Signal")
	defer span.End()
	span.AddAttributes(
		trace.Int64Attribute("pid", int64(s.pid)),
		trace.StringAttribute("signal", unix.SignalName(s.sig)),
		trace.StringAttribute("event", e.Op.String()))
	if err := unix.Kill(s.pid, s.sig); err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
		return failure.New(failure.Notify, errors.Wrapf(err, "sending %s to pid %d", unix.SignalName(s.sig), s.pid))
	}
	signalsSent.Add(unix.SignalName(s.sig), 1)
	glog.V(1).Infof("sent %s to pid %d for %s", unix.SignalName(s.sig), s.pid, e)
	return nil
}

// ParseSignal resolves a signal given by name, with or without the SIG
// prefix, or by number.
func ParseSignal(name string) (unix.Signal, error) {
	if n, err := strconv.Atoi(name); err == nil {
		if n <= 0 || unix.SignalName(unix.Signal(n)) == "" {
			return 0, failure.New(failure.InvalidArgument, errors.Errorf("unknown signal %d", n))
		}
		return unix.Signal(n), nil
	}
	upper := strings.ToUpper(name)
	if !strings.HasPrefix(upper, "SIG") {
		upper = "SIG" + upper
	}
	sig := unix.SignalNum(upper)
	if sig == 0 {
		return 0, failure.New(failure.InvalidArgument, errors.Errorf("unknown signal %q", name))
	}
	return sig, nil
}
