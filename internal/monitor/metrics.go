// Copyright 2011 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package monitor

import (
	"expvar"
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
)

func (m *Monitor) initMetrics() error {
	expvarDescs := map[string]*prometheus.Desc{
		// internal/monitor/monitor.go
		"events_total":        prometheus.NewDesc("events_total", "number of events read from the watch", nil, nil),
		"notifications_total": prometheus.NewDesc("notifications_total", "number of notifications delivered", nil, nil),
		"errors_total":        prometheus.NewDesc("errors_total", "number of terminal errors by failed operation", []string{"op"}, nil),
		// internal/notifier/notifier.go
		"signals_sent_total": prometheus.NewDesc("signals_sent_total", "number of signals sent by signal name", []string{"signal"}, nil),
	}
	if err := m.reg.Register(prometheus.NewGoCollector()); err != nil {
		return err
	}
	if err := m.reg.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{})); err != nil {
		return err
	}
	// Prefix all expvar metrics with 'm5stats_monitor_'
	if err := prometheus.WrapRegistererWithPrefix("m5stats_monitor_", m.reg).Register(
		prometheus.NewExpvarCollector(expvarDescs)); err != nil {
		return err
	}

	// Create m5stats_monitor_build_info metric.
	version.Branch = m.buildInfo.Branch
	version.Version = m.buildInfo.Version
	version.Revision = m.buildInfo.Revision
	return m.reg.Register(version.NewCollector("m5stats_monitor"))
}

// serve starts the metrics server on the Monitor's listener.  It runs in its
// own goroutine and shares nothing with the event loop but the counters.
func (m *Monitor) serve() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/", m.ServeHTTP)
	m.h = &http.Server{Handler: mux}
	m.serveErrc = make(chan error, 1)
	go func() {
		glog.Infof("Listening on %s", m.listener.Addr())
		err := m.h.Serve(m.listener)
		if err == http.ErrServerClosed {
			err = nil
		}
		m.serveErrc <- err
	}()
}

// ServeHTTP serves a one line status page at the root of the metrics server.
func (m *Monitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Add("Content-type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(m.buildInfo.String() + "\n")); err != nil {
		glog.Warning(err)
	}
}
