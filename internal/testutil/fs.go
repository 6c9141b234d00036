// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/glog"
)

// TestTempDir creates a temporary directory that is removed when the test
// ends, returning its pathname.
func TestTempDir(tb testing.TB) string {
	tb.Helper()
	name, err := ioutil.TempDir("", "m5stats-monitor-test")
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() {
		if err := os.RemoveAll(name); err != nil {
			tb.Errorf("os.RemoveAll(%s): %s", name, err)
		}
	})
	return name
}

// TestOpenFile creates name if needed and opens it for appending.
func TestOpenFile(tb testing.TB, name string) *os.File {
	tb.Helper()
	f, err := os.OpenFile(filepath.Clean(name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		tb.Fatal(err)
	}
	return f
}

// WriteString writes str to f and syncs it, so the write has completed when
// this returns.
func WriteString(tb testing.TB, f *os.File, str string) int {
	tb.Helper()
	n, err := f.WriteString(str)
	FatalIfErr(tb, err)
	glog.V(2).Infof("Wrote %d bytes to %s", n, f.Name())
	FatalIfErr(tb, f.Sync())
	return n
}
