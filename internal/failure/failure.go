// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

// Package failure classifies the terminal errors of the monitor, and maps
// them onto process exit codes.
package failure

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Op identifies the operation that failed.
type Op int

const (
	_ Op = iota
	ChannelCreation
	Registration
	Wait
	Read
	Notify
	InvalidArgument
)

func (o Op) String() string {
	switch o {
	case ChannelCreation:
		return "channel_creation"
	case Registration:
		return "registration"
	case Wait:
		return "wait"
	case Read:
		return "read"
	case Notify:
		return "notify"
	case InvalidArgument:
		return "invalid_argument"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Error is a terminal failure of one operation.  Err carries the underlying
// cause, usually a unix.Errno wrapped with some context.
type Error struct {
	Op  Op
	Err error
}

// New wraps err as a failure of op.  A nil err returns nil.
func New(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

// Unwrap supports errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Cause supports errors.Cause from github.com/pkg/errors.
func (e *Error) Cause() error { return e.Err }

// OpOf returns the operation that err failed in, or zero if err is not a
// failure.
func OpOf(err error) Op {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return 0
}

// Is reports whether err is a failure of op.
func Is(err error, op Op) bool {
	return op != 0 && OpOf(err) == op
}

// ExitCode returns the process exit status for err: the numeric errno found
// in its chain, EINVAL for invalid arguments without one, or 1 otherwise.
// A nil error is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var errno unix.Errno
	if errors.As(err, &errno) && errno != 0 {
		return int(errno)
	}
	if OpOf(err) == InvalidArgument {
		return int(unix.EINVAL)
	}
	return 1
}
