// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

//go:build linux

package watcher

import (
	"context"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/m5stats/m5stats-monitor/internal/inotify"
	"golang.org/x/sys/unix"
)

// InotifyMask is the set of events registered on the watched path.
const InotifyMask = unix.IN_MODIFY | unix.IN_CREATE

// InotifyWatcher is a Source reading inotify records directly from the
// kernel.
type InotifyWatcher struct {
	w *inotify.Watch
	r *inotify.RecordReader
}

// NewInotifyWatcher opens an inotify channel with a watch on pathname.
func NewInotifyWatcher(pathname string) (*InotifyWatcher, error) {
	w, err := inotify.Open(pathname, InotifyMask)
	if err != nil {
		return nil, err
	}
	return &InotifyWatcher{w: w, r: inotify.NewRecordReader(w)}, nil
}

// Wait blocks until a record is ready.  Records left over from an earlier
// read are ready without touching the channel.  It cannot be cancelled; ctx
// is only consulted before blocking.
func (w *InotifyWatcher) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.r.Buffered() > 0 {
		return nil
	}
	return w.w.Wait()
}

// ReadEvent reads one record.
func (w *InotifyWatcher) ReadEvent() (Event, error) {
	rec, err := w.r.ReadRecord()
	if err != nil {
		return Event{}, err
	}
	glog.V(2).Infof("inotify record %s", rec)
	e := Event{Op: opFromMask(rec.Mask), Mask: rec.Mask, Pathname: w.w.Pathname()}
	if rec.Name != "" {
		e.Pathname = filepath.Join(e.Pathname, rec.Name)
	}
	return e, nil
}

// Close releases the inotify channel.
func (w *InotifyWatcher) Close() error {
	return w.w.Close()
}

func opFromMask(mask uint32) OpType {
	switch {
	case mask&unix.IN_CREATE != 0:
		return Create
	case mask&unix.IN_MODIFY != 0:
		return Update
	}
	return Other
}
