// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package watcher

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/pkg/errors"
)

// errClosed is reported when the fsnotify channels have been closed.
var errClosed = errors.New("fsnotify watcher closed")

// FsnotifyWatcher is a Source backed by fsnotify, for platforms without
// inotify.  Only write and create events count as registered interest;
// fsnotify reports more, and those are dropped while waiting.
type FsnotifyWatcher struct {
	watcher  *fsnotify.Watcher
	pathname string
	pending  *fsnotify.Event
}

// NewFsnotifyWatcher returns a Source watching pathname through fsnotify.
func NewFsnotifyWatcher(pathname string) (*FsnotifyWatcher, error) {
	f, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, failure.New(failure.ChannelCreation, errors.Wrap(err, "creating fsnotify watcher"))
	}
	absPath, err := filepath.Abs(pathname)
	if err != nil {
		f.Close()
		return nil, failure.New(failure.Registration, errors.Wrapf(err, "failed to lookup absolute path of %q", pathname))
	}
	glog.V(2).Infof("Adding a watch on resolved path %q", absPath)
	if err := f.Add(absPath); err != nil {
		f.Close()
		return nil, failure.New(failure.Registration, errors.Wrapf(err, "failed to create a new watch on %q", absPath))
	}
	return &FsnotifyWatcher{watcher: f, pathname: absPath}, nil
}

// Wait blocks until fsnotify delivers a write or create event, an error, or
// ctx is done.
func (w *FsnotifyWatcher) Wait(ctx context.Context) error {
	if w.pending != nil {
		return nil
	}
	for {
		select {
		case e, ok := <-w.watcher.Events:
			if !ok {
				return failure.New(failure.Wait, errClosed)
			}
			if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				glog.V(2).Infof("ignoring fsnotify event %v", e)
				continue
			}
			w.pending = &e
			return nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return failure.New(failure.Wait, errClosed)
			}
			return failure.New(failure.Wait, errors.Wrap(err, "fsnotify"))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ReadEvent returns the event found by the last Wait.
func (w *FsnotifyWatcher) ReadEvent() (Event, error) {
	if w.pending == nil {
		return Event{}, failure.New(failure.Read, errors.New("no fsnotify event pending"))
	}
	e := *w.pending
	w.pending = nil
	op := Other
	switch {
	case e.Op&fsnotify.Create == fsnotify.Create:
		op = Create
	case e.Op&fsnotify.Write == fsnotify.Write:
		op = Update
	}
	return Event{Op: op, Mask: uint32(e.Op), Pathname: e.Name}, nil
}

// Close shuts down the fsnotify watcher.
func (w *FsnotifyWatcher) Close() error {
	return w.watcher.Close()
}
