// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

//go:build linux

package main

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/m5stats/m5stats-monitor/internal/monitor"
	"github.com/m5stats/m5stats-monitor/internal/testutil"
	"golang.org/x/sys/unix"
)

func TestRunUsage(t *testing.T) {
	var stderr bytes.Buffer
	code := run(context.Background(), monitor.BuildInfo{}, []string{"/tmp/stats.txt"}, &stderr)
	if code != int(unix.EINVAL) {
		t.Errorf("run() = %d, want %d", code, unix.EINVAL)
	}
	if !strings.HasPrefix(stderr.String(), "Usage: m5stats-monitor [flags] PATH PID") {
		t.Errorf("usage not printed, stderr is %q", stderr.String())
	}
}

func TestRunMissingPath(t *testing.T) {
	workdir := testutil.TestTempDir(t)
	var stderr bytes.Buffer
	code := run(context.Background(), monitor.BuildInfo{}, []string{filepath.Join(workdir, "missing"), "4242"}, &stderr)
	if code != int(unix.ENOENT) {
		t.Errorf("run() = %d, want %d", code, unix.ENOENT)
	}
	if stderr.Len() != 0 {
		t.Errorf("usage printed for a runtime failure: %q", stderr.String())
	}
}

func TestRunBadBackend(t *testing.T) {
	workdir := testutil.TestTempDir(t)
	old := *backend
	*backend = "kqueue"
	defer func() { *backend = old }()
	code := run(context.Background(), monitor.BuildInfo{}, []string{workdir, "4242"}, &bytes.Buffer{})
	if code != int(unix.EINVAL) {
		t.Errorf("run() = %d, want %d", code, unix.EINVAL)
	}
}

// The child is killed by the first SIGUSR1; once it has been reaped the next
// event fails to be delivered and run exits with ESRCH.
func TestRunSignalsChild(t *testing.T) {
	testutil.SkipIfShort(t)
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("no sleep binary")
	}
	workdir := testutil.TestTempDir(t)
	name := filepath.Join(workdir, "stats.txt")
	f := testutil.TestOpenFile(t, name)
	defer f.Close()

	child := exec.Command(sleep, "60")
	testutil.FatalIfErr(t, child.Start())
	childDone := make(chan error, 1)
	go func() { childDone <- child.Wait() }()

	codec := make(chan int, 1)
	go func() {
		codec <- run(context.Background(), monitor.BuildInfo{}, []string{name, strconv.Itoa(child.Process.Pid)}, &bytes.Buffer{})
	}()

	// Keep writing until the watch is in place and the child dies.
	ok, err := testutil.DoOrTimeout(func() (bool, error) {
		select {
		case <-childDone:
			return true, nil
		default:
		}
		testutil.WriteString(t, f, "abc")
		return false, nil
	}, 10*time.Second, 20*time.Millisecond)
	testutil.FatalIfErr(t, err)
	if !ok {
		child.Process.Kill()
		t.Fatal("child was not signalled")
	}
	status := child.ProcessState.Sys().(syscall.WaitStatus)
	if !status.Signaled() || status.Signal() != unix.SIGUSR1 {
		t.Errorf("child exit status %v, want killed by SIGUSR1", child.ProcessState)
	}

	ok, err = testutil.DoOrTimeout(func() (bool, error) {
		select {
		case code := <-codec:
			if code != int(unix.ESRCH) {
				t.Errorf("run() = %d, want %d", code, unix.ESRCH)
			}
			return true, nil
		default:
		}
		testutil.WriteString(t, f, "abc")
		return false, nil
	}, 10*time.Second, 20*time.Millisecond)
	testutil.FatalIfErr(t, err)
	if !ok {
		t.Fatal("run did not exit after the child was gone")
	}
}
