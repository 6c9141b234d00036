// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

//go:build !linux

package main

import (
	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/m5stats/m5stats-monitor/internal/watcher"
	"github.com/pkg/errors"
)

const defaultBackend = "fsnotify"

func openSource(backend, path string) (watcher.Source, error) {
	if backend != "fsnotify" {
		return nil, failure.New(failure.InvalidArgument, errors.Errorf("backend %q is not available on this platform", backend))
	}
	w, err := watcher.NewFsnotifyWatcher(path)
	if err != nil {
		return nil, err
	}
	return w, nil
}
