// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

// Command m5stats-monitor watches a file and sends a signal to a process each
// time the file is modified or created.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/m5stats/m5stats-monitor/internal/failure"
	"github.com/m5stats/m5stats-monitor/internal/monitor"
	"github.com/m5stats/m5stats-monitor/internal/notifier"
	"github.com/m5stats/m5stats-monitor/internal/watcher"
)

var (
	backend    = flag.String("backend", defaultBackend, "Event source for the watch: inotify (Linux only) or fsnotify.")
	signalName = flag.String("signal", "SIGUSR1", "Signal sent to PID on each event, by name or number.")

	version = flag.Bool("version", false, "Print m5stats-monitor version information.")

	// Ops flags.
	metricsAddress = flag.String("metrics_address", "", "If set, serve Prometheus metrics and /debug/vars on this host:port while running.")

	// Tracing.
	jaegerEndpoint    = flag.String("jaeger_endpoint", "", "If set, collector endpoint URL of jaeger thrift service")
	traceSamplePeriod = flag.Int("trace_sample_period", 0, "Sample period for traces.  If non-zero, every nth trace will be sampled.")
)

var (
	// Branch as well as Version and Revision identifies where in the git
	// history the build came from, as supplied by the linker when compiled
	// with `make'.  The defaults here indicate that the user did not use
	// `make' as instructed.
	Branch   = "invalid:-use-make-to-build"
	Version  = "invalid:-use-make-to-build"
	Revision = "invalid:-use-make-to-build"
)

const usageText = `Usage: m5stats-monitor [flags] PATH PID

       PATH   Path to M5 stats.txt
       PID    PID of the process to notify. On each modification
              to the monitored file SIGUSR1 (see -signal) is sent to PID.

Flags:
`

func usage(w io.Writer) {
	fmt.Fprint(w, usageText)
	flag.CommandLine.SetOutput(w)
	flag.PrintDefaults()
}

func main() {
	buildInfo := monitor.BuildInfo{
		Branch:   Branch,
		Version:  Version,
		Revision: Revision,
	}

	flag.Usage = func() { usage(os.Stderr) }
	flag.Parse()
	if *version {
		fmt.Println(buildInfo.String())
		os.Exit(0)
	}
	glog.Info(buildInfo.String())
	glog.Infof("Commandline: %q", os.Args)

	code := run(context.Background(), buildInfo, flag.Args(), os.Stderr)
	glog.Flush()
	os.Exit(code)
}

// run relays events until the first failure, and returns the exit status
// for it.
func run(ctx context.Context, buildInfo monitor.BuildInfo, args []string, stderr io.Writer) int {
	cfg, err := parseArgs(args)
	if err != nil {
		usage(stderr)
		glog.Error(err)
		return failure.ExitCode(err)
	}
	sig, err := notifier.ParseSignal(*signalName)
	if err != nil {
		glog.Error(err)
		return failure.ExitCode(err)
	}
	n, err := notifier.NewSignal(cfg.pid, sig)
	if err != nil {
		glog.Error(err)
		return failure.ExitCode(err)
	}

	src, err := openSource(*backend, cfg.path)
	if err != nil {
		glog.Error(err)
		return failure.ExitCode(err)
	}
	defer closeSource(src)
	glog.Infof("Watching %q with %s", cfg.path, *backend)

	opts := []monitor.Option{
		monitor.SetBuildInfo(buildInfo),
	}
	if *metricsAddress != "" {
		opts = append(opts, monitor.MetricsAddress(*metricsAddress))
	}
	if *jaegerEndpoint != "" {
		opts = append(opts, monitor.JaegerReporter(*jaegerEndpoint))
	}
	if *traceSamplePeriod > 0 {
		opts = append(opts, monitor.TraceSamplePeriod(*traceSamplePeriod))
	}
	m, err := monitor.New(ctx, src, n, opts...)
	if err != nil {
		glog.Error(err)
		return failure.ExitCode(err)
	}
	err = m.Run()
	glog.Error(err)
	return failure.ExitCode(err)
}

func closeSource(src watcher.Source) {
	if err := src.Close(); err != nil {
		glog.Warning(err)
	}
}
