// Copyright 2026 The m5stats-monitor Authors. All Rights Reserved.
// This file is available under the Apache license.

package main

import (
	"testing"

	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/m5stats/m5stats-monitor/internal/testutil"
)

func TestParseArgs(t *testing.T) {
	cfg, err := parseArgs([]string{"/tmp/stats.txt", "4242"})
	testutil.FatalIfErr(t, err)
	testutil.ExpectNoDiff(t, config{path: "/tmp/stats.txt", pid: 4242}, cfg, testutil.AllowUnexported(config{}))
}

func TestParseArgsInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"path only", []string{"/tmp/stats.txt"}},
		{"too many", []string{"/tmp/stats.txt", "4242", "extra"}},
		{"empty path", []string{"", "4242"}},
		{"non numeric pid", []string{"/tmp/stats.txt", "abc"}},
		{"trailing junk", []string{"/tmp/stats.txt", "42x"}},
		{"zero pid", []string{"/tmp/stats.txt", "0"}},
		{"negative pid", []string{"/tmp/stats.txt", "-1"}},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseArgs(tc.args)
			if !failure.Is(err, failure.InvalidArgument) {
				t.Errorf("parseArgs(%q) = %v, want invalid argument", tc.args, err)
			}
			if got := failure.ExitCode(err); got != 22 {
				t.Errorf("exit code %d, want EINVAL (22)", got)
			}
		})
	}
}
