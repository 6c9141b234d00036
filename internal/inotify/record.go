// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

//go:build linux

package inotify

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// RecordSize is the size of the fixed prefix of every inotify record.
const RecordSize = unix.SizeofInotifyEvent

// maxNameLen bounds the name trailer a record may declare.  Anything larger
// means the stream has lost its framing.
const maxNameLen = unix.PathMax

// Record is one inotify event record.  Name is only present for events on
// entries inside a watched directory.
type Record struct {
	Wd     int32
	Mask   uint32
	Cookie uint32
	Len    uint32
	Name   string
}

// Has reports whether all of the bits in mask are set on the record.
func (r Record) Has(mask uint32) bool {
	return r.Mask&mask == mask
}

var maskNames = []struct {
	bit  uint32
	name string
}{
	{unix.IN_ACCESS, "IN_ACCESS"},
	{unix.IN_MODIFY, "IN_MODIFY"},
	{unix.IN_ATTRIB, "IN_ATTRIB"},
	{unix.IN_CLOSE_WRITE, "IN_CLOSE_WRITE"},
	{unix.IN_CLOSE_NOWRITE, "IN_CLOSE_NOWRITE"},
	{unix.IN_OPEN, "IN_OPEN"},
	{unix.IN_MOVED_FROM, "IN_MOVED_FROM"},
	{unix.IN_MOVED_TO, "IN_MOVED_TO"},
	{unix.IN_CREATE, "IN_CREATE"},
	{unix.IN_DELETE, "IN_DELETE"},
	{unix.IN_DELETE_SELF, "IN_DELETE_SELF"},
	{unix.IN_MOVE_SELF, "IN_MOVE_SELF"},
	{unix.IN_UNMOUNT, "IN_UNMOUNT"},
	{unix.IN_Q_OVERFLOW, "IN_Q_OVERFLOW"},
	{unix.IN_IGNORED, "IN_IGNORED"},
	{unix.IN_ISDIR, "IN_ISDIR"},
}

// MaskString renders an inotify mask as a list of flag names.
func MaskString(mask uint32) string {
	var names []string
	for _, m := range maskNames {
		if mask&m.bit == m.bit {
			names = append(names, m.name)
			mask &^= m.bit
		}
	}
	if mask != 0 {
		names = append(names, fmt.Sprintf("0x%x", mask))
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

func (r Record) String() string {
	if r.Name == "" {
		return fmt.Sprintf("wd=%d mask=%s", r.Wd, MaskString(r.Mask))
	}
	return fmt.Sprintf("wd=%d mask=%s name=%q", r.Wd, MaskString(r.Mask), r.Name)
}
