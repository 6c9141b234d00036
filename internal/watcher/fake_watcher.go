// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/pkg/errors"
)

type injection struct {
	e       Event
	waitErr error
	readErr error
}

// FakeWatcher implements an in-memory Source.  Tests inject events and
// errors, which Wait and ReadEvent then deliver in order.
type FakeWatcher struct {
	pathname string
	queue    chan injection

	mu      sync.Mutex // protects following fields
	pending *injection
	waits   int
	reads   int
	closed  bool
}

// NewFakeWatcher returns a fake Source for pathname for use in tests.
func NewFakeWatcher(pathname string) *FakeWatcher {
	return &FakeWatcher{pathname: pathname, queue: make(chan injection, 1024)}
}

// InjectCreate lets a test inject a fake creation event.
func (w *FakeWatcher) InjectCreate() {
	w.queue <- injection{e: Event{Op: Create, Pathname: w.pathname}}
}

// InjectUpdate lets a test inject a fake modification event.
func (w *FakeWatcher) InjectUpdate() {
	w.queue <- injection{e: Event{Op: Update, Pathname: w.pathname}}
}

// InjectWaitError makes the next Wait fail with err.
func (w *FakeWatcher) InjectWaitError(err error) {
	w.queue <- injection{waitErr: err}
}

// InjectReadError makes the next Wait succeed and the following ReadEvent
// fail with err.
func (w *FakeWatcher) InjectReadError(err error) {
	w.queue <- injection{readErr: err}
}

// Wait blocks until an injection is available or ctx is done.
func (w *FakeWatcher) Wait(ctx context.Context) error {
	w.mu.Lock()
	w.waits++
	w.mu.Unlock()
	select {
	case i := <-w.queue:
		if i.waitErr != nil {
			return i.waitErr
		}
		w.mu.Lock()
		w.pending = &i
		w.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReadEvent returns the injection received by the last Wait.
func (w *FakeWatcher) ReadEvent() (Event, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reads++
	if w.pending == nil {
		return Event{}, failure.New(failure.Read, errors.New("no event pending"))
	}
	i := w.pending
	w.pending = nil
	if i.readErr != nil {
		return Event{}, i.readErr
	}
	glog.V(2).Infof("fake watcher delivering %s", i.e)
	return i.e, nil
}

// Counts returns the number of Wait and ReadEvent calls so far.
func (w *FakeWatcher) Counts() (waits, reads int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.waits, w.reads
}

// Close marks the FakeWatcher closed.
func (w *FakeWatcher) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

// IsClosed reports whether Close has been called.
func (w *FakeWatcher) IsClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
