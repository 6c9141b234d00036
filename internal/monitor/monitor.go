// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package monitor relays events on a watched file to a notifier.
package monitor

import (
	"context"
	"expvar"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/m5stats/m5stats-monitor/internal/notifier"
	"github.com/m5stats/m5stats-monitor/internal/watcher"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opencensus.io/trace"
)

var (
	eventsTotal        = expvar.NewInt("events_total")
	notificationsTotal = expvar.NewInt("notifications_total")
	errorsTotal        = expvar.NewMap("errors_total")
)

// Monitor runs the event loop: wait on the source, read one event, notify,
// repeat.
type Monitor struct {
	ctx context.Context
	src watcher.Source
	n   notifier.Notifier

	reg *prometheus.Registry

	h         *http.Server
	listener  net.Listener
	serveErrc chan error
	closeOnce sync.Once

	buildInfo      BuildInfo // go build information
	metricsAddress string    // address to serve /metrics on, if any
}

// New creates a Monitor relaying events from src to n.  The Monitor does not
// take ownership of src; callers close it once Run returns.
func New(ctx context.Context, src watcher.Source, n notifier.Notifier, options ...Option) (*Monitor, error) {
	if src == nil || n == nil {
		return nil, errors.New("monitor needs both a source and a notifier")
	}
	m := &Monitor{
		ctx: ctx,
		src: src,
		n:   n,
		reg: prometheus.NewRegistry(),
	}
	if err := m.SetOption(options...); err != nil {
		m.Close()
		return nil, err
	}
	if err := m.initMetrics(); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// SetOption takes one or more option functions and applies them in order to
// the Monitor.
func (m *Monitor) SetOption(options ...Option) error {
	for _, option := range options {
		if err := option.apply(m); err != nil {
			return err
		}
	}
	return nil
}

// Run waits for events and notifies on each one.  It only returns on error:
// the first failure of the wait, the read or the notify ends the loop, with
// no retry.  Cancelling the Monitor's context stops the loop before its next
// wait.
func (m *Monitor) Run() error {
	defer m.Close()
	if m.listener != nil {
		m.serve()
	}
	glog.Infof("Relaying events as %s", m.describeNotifier())
	for {
		if err := m.ctx.Err(); err != nil {
			glog.Info("Context done, stopping the event loop")
			return err
		}
		if err := m.src.Wait(m.ctx); err != nil {
			return m.fail(err)
		}
		if err := m.handleEvent(); err != nil {
			return m.fail(err)
		}
	}
}

// handleEvent reads exactly one event and notifies on it.
func (m *Monitor) handleEvent() error {
	ctx, span := trace.StartSpan(m.ctx, "monitor.handleEvent")
	defer span.End()
	e, err := m.src.ReadEvent()
	if err != nil {
		return err
	}
	eventsTotal.Add(1)
	glog.V(1).Infof("event %s", e)
	span.AddAttributes(trace.StringAttribute("op", e.Op.String()))
	if err := m.n.Notify(ctx, e); err != nil {
		return err
	}
	notificationsTotal.Add(1)
	return nil
}

func (m *Monitor) fail(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	op := failure.OpOf(err)
	if op == 0 {
		glog.Warningf("unclassified error from event loop: %s", err)
	}
	errorsTotal.Add(op.String(), 1)
	return err
}

func (m *Monitor) describeNotifier() string {
	if s, ok := m.n.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m.n)
}

// Close shuts down the metrics server, if one is running.  It does not close
// the source.
func (m *Monitor) Close() error {
	m.closeOnce.Do(func() {
		if m.h != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := m.h.Shutdown(ctx); err != nil {
				glog.Error(err)
			}
			cancel()
			if err := <-m.serveErrc; err != nil {
				glog.Warningf("metrics server: %s", err)
			}
		} else if m.listener != nil {
			m.listener.Close()
		}
	})
	return nil
}

// Addr returns the address of the metrics listener, or "none".
func (m *Monitor) Addr() string {
	if m.listener == nil {
		return "none"
	}
	return m.listener.Addr().String()
}
