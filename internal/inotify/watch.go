// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

//go:build linux

// Package inotify is a minimal binding of the Linux inotify API for a watch on
// a single path.  It opens the notification channel, blocks until an event
// is ready, and frames the records read from it.
package inotify

import (
	"io"

	"github.com/golang/glog"
	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// kernel is the set of system calls a Watch uses.
type kernel interface {
	InotifyInit1(flags int) (int, error)
	InotifyAddWatch(fd int, pathname string, mask uint32) (int, error)
	Poll(fds []unix.PollFd, timeout int) (int, error)
	Read(fd int, p []byte) (int, error)
	Close(fd int) error
}

type sysKernel struct{}

func (sysKernel) InotifyInit1(flags int) (int, error) { return unix.InotifyInit1(flags) }
func (sysKernel) InotifyAddWatch(fd int, pathname string, mask uint32) (int, error) {
	return unix.InotifyAddWatch(fd, pathname, mask)
}
func (sysKernel) Poll(fds []unix.PollFd, timeout int) (int, error) { return unix.Poll(fds, timeout) }
func (sysKernel) Read(fd int, p []byte) (int, error) { return unix.Read(fd, p) }
func (sysKernel) Close(fd int) error { return unix.Close(fd) }

// Watch is an inotify channel with one registration on a path.
type Watch struct {
	k        kernel
	fd       int
	wd       int
	pathname string
	mask     uint32
}

// Open creates an inotify channel and registers mask on pathname.  The
// channel is closed again if the registration fails.
func Open(pathname string, mask uint32) (*Watch, error) {
	return open(sysKernel{}, pathname, mask)
}

func open(k kernel, pathname string, mask uint32) (*Watch, error) {
	fd, err := k.InotifyInit1(unix.IN_CLOEXEC)
	if err != nil {
		return nil, failure.New(failure.ChannelCreation, errors.Wrap(err, "inotify_init1"))
	}
	wd, err := k.InotifyAddWatch(fd, pathname, mask)
	if err != nil {
		if cerr := k.Close(fd); cerr != nil {
			glog.Warningf("closing inotify fd %d: %s", fd, cerr)
		}
		return nil, failure.New(failure.Registration, errors.Wrapf(err, "inotify_add_watch %q", pathname))
	}
	glog.V(1).Infof("inotify fd %d watching %q (wd %d, mask %s)", fd, pathname, wd, MaskString(mask))
	return &Watch{k: k, fd: fd, wd: wd, pathname: pathname, mask: mask}, nil
}

// Pathname returns the watched path.
func (w *Watch) Pathname() string { return w.pathname }

// Wait blocks with no timeout until the channel has a record to read.
// Interrupted polls are restarted.
func (w *Watch) Wait() error {
	fds := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}
	for {
		fds[0].Revents = 0
		n, err := w.k.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) {
			glog.V(2).Info("poll interrupted, retrying")
			continue
		}
		if err != nil {
			return failure.New(failure.Wait, errors.Wrapf(err, "poll on inotify fd %d", w.fd))
		}
		if n == 0 {
			continue
		}
		switch {
		case fds[0].Revents&unix.POLLNVAL != 0:
			return failure.New(failure.Wait, errors.Wrapf(unix.EBADF, "poll on inotify fd %d", w.fd))
		case fds[0].Revents&unix.POLLERR != 0:
			return failure.New(failure.Wait, errors.Wrapf(unix.EIO, "poll on inotify fd %d", w.fd))
		}
		return nil
	}
}

// Read reads raw bytes from the channel.  A zero length read is reported
// as io.EOF.
func (w *Watch) Read(p []byte) (int, error) {
	n, err := w.k.Read(w.fd, p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Close releases the channel and its registration.  It is safe to call more
// than once.
func (w *Watch) Close() error {
	if w.fd < 0 {
		return nil
	}
	fd := w.fd
	w.fd = -1
	if err := w.k.Close(fd); err != nil {
		return errors.Wrapf(err, "closing inotify fd %d", fd)
	}
	return nil
}
