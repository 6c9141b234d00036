// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"expvar"
	"testing"
	"time"
)

const defaultDoOrTimeoutDeadline = 10 * time.Second

func intVar(v expvar.Var) int64 {
	if i, ok := v.(*expvar.Int); ok {
		return i.Value()
	}
	return 0
}

func expvarValue(tb testing.TB, name, key string) int64 {
	tb.Helper()
	v := expvar.Get(name)
	if v == nil {
		tb.Fatalf("no expvar named %q", name)
	}
	if key == "" {
		return intVar(v)
	}
	m, ok := v.(*expvar.Map)
	if !ok {
		tb.Fatalf("expvar %q is a %T, not a map", name, v)
	}
	return intVar(m.Get(key))
}

// ExpectExpvarDeltaWithDeadline returns a deferrable function which checks
// that the expvar counter name has changed by want.  The starting value is
// read before returning.
func ExpectExpvarDeltaWithDeadline(tb testing.TB, name string, want int64) func() {
	tb.Helper()
	return expectDelta(tb, name, "", want)
}

// ExpectMapExpvarDeltaWithDeadline is ExpectExpvarDeltaWithDeadline for one
// key of an expvar map.
func ExpectMapExpvarDeltaWithDeadline(tb testing.TB, name, key string, want int64) func() {
	tb.Helper()
	return expectDelta(tb, name, key, want)
}

func expectDelta(tb testing.TB, name, key string, want int64) func() {
	tb.Helper()
	start := expvarValue(tb, name, key)
	return func() {
		tb.Helper()
		ok, err := DoOrTimeout(func() (bool, error) {
			return expvarValue(tb, name, key)-start == want, nil
		}, defaultDoOrTimeoutDeadline, 10*time.Millisecond)
		FatalIfErr(tb, err)
		if !ok {
			now := expvarValue(tb, name, key)
			tb.Errorf("Did not see %s[%s] have delta by deadline: got %v - %v = %d, want %d", name, key, now, start, now-start, want)
		}
	}
}
