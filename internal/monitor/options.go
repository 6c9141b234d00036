// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package monitor

import (
	"net"

	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// Option configures a Monitor.
type Option interface {
	apply(*Monitor) error
}

// SetBuildInfo sets the program build information in the Monitor.
type SetBuildInfo BuildInfo

func (opt SetBuildInfo) apply(m *Monitor) error {
	m.buildInfo = BuildInfo(opt)
	return nil
}

// MetricsAddress makes the Monitor serve /metrics and /debug/vars on the
// given TCP address while it runs.
type MetricsAddress string

func (opt MetricsAddress) apply(m *Monitor) error {
	if m.listener != nil {
		return errors.New("metrics address already supplied")
	}
	m.metricsAddress = string(opt)
	var err error
	m.listener, err = net.Listen("tcp", m.metricsAddress)
	return errors.Wrapf(err, "listening on %q", m.metricsAddress)
}

// JaegerReporter creates a new jaeger reporter that sends to the given Jaeger
// collector endpoint.
type JaegerReporter string

func (opt JaegerReporter) apply(m *Monitor) error {
	je, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: string(opt),
		Process: jaeger.Process{
			ServiceName: "m5stats-monitor",
		},
	})
	if err != nil {
		return errors.Wrap(err, "creating jaeger exporter")
	}
	trace.RegisterExporter(je)
	return nil
}

// TraceSamplePeriod samples one in every n event loop iterations for
// tracing.
type TraceSamplePeriod int

func (opt TraceSamplePeriod) apply(m *Monitor) error {
	if opt <= 0 {
		return errors.Errorf("trace sample period must be positive, got %d", int(opt))
	}
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1 / float64(opt))})
	return nil
}
