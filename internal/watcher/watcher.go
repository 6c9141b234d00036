// Copyright 2015 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Package watcher provides sources of filesystem events for a single watched
// path.
package watcher

import (
	"context"
	"fmt"
)

type OpType int

const (
	_ OpType = iota
	Create
	Update
	Other
)

func (o OpType) String() string {
	switch o {
	case Create:
		return "Create"
	case Update:
		return "Update"
	case Other:
		return "Other"
	}
	return fmt.Sprintf("OpType(%d)", int(o))
}

// Event is one occurrence on the watched path.  Mask holds the raw bits
// reported by the backend, where it has any.
type Event struct {
	Op       OpType
	Mask     uint32
	Pathname string
}

func (e Event) String() string {
	return fmt.Sprintf("%s %q", e.Op, e.Pathname)
}

// Source is a watch on one path.  Callers alternate Wait and ReadEvent: Wait
// blocks until an event is ready, and ReadEvent then returns exactly one
// event.  A Source is owned by a single goroutine.
type Source interface {
	Wait(ctx context.Context) error
	ReadEvent() (Event, error)
	Close() error
}
