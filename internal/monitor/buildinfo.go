// Copyright 2020 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package monitor

import (
	"fmt"
	"runtime"
)

// BuildInfo identifies the binary: the git branch, release version and
// revision it was built from, set with -ldflags at link time.  Branch also
// labels the build_info metric.
type BuildInfo struct {
	Branch   string
	Version  string
	Revision string
}

// String is the line printed by -version and served on the status page.
func (b BuildInfo) String() string {
	return fmt.Sprintf("m5stats-monitor %s (branch %s, revision %s) built with %s for %s/%s",
		b.Version, b.Branch, b.Revision, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
