// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

//go:build linux

package inotify

import (
	"bytes"
	"io"
	"unsafe"

	"github.com/golang/glog"
	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// maxConsecutiveEmptyReads matches bufio's tolerance for readers that return
// no data and no error.
const maxConsecutiveEmptyReads = 100

// bufSize is the size of the read buffer.  The kernel rejects a read with
// EINVAL unless the buffer can hold the next whole event, name included, so
// every read offers at least RecordSize+maxNameLen free bytes.
const bufSize = RecordSize * 4096

// RecordReader frames inotify records out of a byte stream.  A single read
// of the stream may return several records, or part of one; bytes beyond the
// current record are kept for the next call, so callers never see a partial
// record.
type RecordReader struct {
	r          io.Reader
	buf        []byte
	start, end int // unconsumed bytes are buf[start:end]
}

// NewRecordReader returns a RecordReader reading from r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{r: r, buf: make([]byte, bufSize)}
}

// ReadRecord returns exactly one record.  The name trailer declared by the
// record, if any, is consumed too so the next call starts on a record
// boundary.  Errors are failure.Read errors.
func (rr *RecordReader) ReadRecord() (Record, error) {
	if err := rr.fill(RecordSize); err != nil {
		return Record{}, failure.New(failure.Read, errors.Wrap(err, "reading inotify record"))
	}
	var raw unix.InotifyEvent
	copy((*[RecordSize]byte)(unsafe.Pointer(&raw))[:], rr.buf[rr.start:])
	rec := Record{
		Wd:     raw.Wd,
		Mask:   raw.Mask,
		Cookie: raw.Cookie,
		Len:    raw.Len,
	}
	if rec.Len > maxNameLen {
		return Record{}, failure.New(failure.Read, errors.Errorf("inotify record declares a %d byte name, stream is out of sync", rec.Len))
	}
	size := RecordSize + int(rec.Len)
	if err := rr.fill(size); err != nil {
		return Record{}, failure.New(failure.Read, errors.Wrapf(err, "reading %d byte inotify name", rec.Len))
	}
	if rec.Len > 0 {
		rec.Name = string(bytes.TrimRight(rr.buf[rr.start+RecordSize:rr.start+size], "\x00"))
	}
	rr.start += size
	if rr.start == rr.end {
		rr.start, rr.end = 0, 0
	}
	return rec, nil
}

// Buffered returns the number of bytes already read from the stream and not
// yet returned as records.  The channel reports no readiness for them, so a
// caller that waits before each ReadRecord must check Buffered first.
func (rr *RecordReader) Buffered() int {
	return rr.end - rr.start
}

// fill reads until at least n unconsumed bytes are buffered.  Each read is
// offered all the free space in the buffer.  Interrupted reads are retried.
func (rr *RecordReader) fill(n int) error {
	if rr.end-rr.start >= n {
		return nil
	}
	if rr.start > 0 {
		rr.end = copy(rr.buf, rr.buf[rr.start:rr.end])
		rr.start = 0
	}
	empty := 0
	for rr.end < n {
		m, err := rr.r.Read(rr.buf[rr.end:])
		if m > 0 {
			rr.end += m
			empty = 0
		}
		switch {
		case err == nil:
			if m <= 0 {
				empty++
				if empty >= maxConsecutiveEmptyReads {
					return io.ErrNoProgress
				}
			}
		case errors.Is(err, unix.EINTR):
			glog.V(2).Info("inotify read interrupted, retrying")
		case err == io.EOF:
			if rr.end >= n {
				return nil
			}
			return io.ErrUnexpectedEOF
		default:
			return err
		}
		if rr.end < n && m > 0 {
			glog.V(2).Infof("short inotify read: have %d of %d bytes", rr.end, n)
		}
	}
	return nil
}
