// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

package main

import (
	"strconv"

	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/pkg/errors"
)

type config struct {
	path string
	pid  int
}

// parseArgs checks the positional arguments PATH PID.  A PID that is not a
// positive decimal number is rejected rather than coerced.
func parseArgs(args []string) (config, error) {
	if len(args) != 2 {
		return config{}, failure.New(failure.InvalidArgument, errors.Errorf("expected PATH and PID, got %d arguments", len(args)))
	}
	if args[0] == "" {
		return config{}, failure.New(failure.InvalidArgument, errors.New("PATH is empty"))
	}
	pid, err := strconv.Atoi(args[1])
	if err != nil {
		return config{}, failure.New(failure.InvalidArgument, errors.Errorf("PID %q is not a number", args[1]))
	}
	if pid <= 0 {
		return config{}, failure.New(failure.InvalidArgument, errors.Errorf("PID %d is not a process id", pid))
	}
	return config{path: args[0], pid: pid}, nil
}
