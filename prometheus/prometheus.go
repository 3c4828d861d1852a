// Spell
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package prometheus provides functions that are useful to control and manage
// the built-in prometheus instance.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/purpleidea/spell/lang/interfaces"
	"github.com/purpleidea/spell/util/errwrap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPrometheusListen is the address the metrics are served on when no
// other one is given.
const DefaultPrometheusListen = "127.0.0.1:9233"

// Prometheus is the struct that contains information about the prometheus
// instance. Run Init() on it.
type Prometheus struct {
	Listen string // the listen specification for the net/http server

	Logf func(format string, v ...interface{})

	registry *prometheus.Registry
	server   *http.Server

	runTotal                *prometheus.CounterVec // total of spells that have run
	blunderTotal            *prometheus.CounterVec // total of reported blunders by kind
	invalidNumericTotal     prometheus.Counter     // total of spells that made an invalid number
	processStartTimeSeconds prometheus.Gauge       // process start time in seconds since unix epoch
}

// Init some parameters - currently the Listen address - and the metrics. Each
// instance has its own registry.
func (obj *Prometheus) Init() error {
	if len(obj.Listen) == 0 {
		obj.Listen = DefaultPrometheusListen
	}
	obj.registry = prometheus.NewRegistry()

	obj.runTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spell_runs_total",
			Help: "Number of spells that have run.",
		},
		// Labels for this metric.
		// destructive: if the spell rewrote itself as it ran
		// errorful: did the spell fail
		[]string{"destructive", "errorful"},
	)
	obj.blunderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spell_blunders_total",
			Help: "Number of blunders that have been reported.",
		},
		[]string{"kind"},
	)
	obj.invalidNumericTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "spell_invalid_numeric_total",
			Help: "Number of spells that failed with an invalid number.",
		},
	)
	obj.processStartTimeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "spell_process_start_time_seconds",
			Help: "Start time of the process since unix epoch in seconds.",
		},
	)

	for _, c := range []prometheus.Collector{obj.runTotal, obj.blunderTotal, obj.invalidNumericTotal, obj.processStartTimeSeconds} {
		if err := obj.registry.Register(c); err != nil {
			return errwrap.Wrapf(err, "could not register metric")
		}
	}
	// directly set the processStartTimeSeconds
	obj.processStartTimeSeconds.SetToCurrentTime()

	// initialize every label so that they show up before they happen
	for _, destructive := range []bool{false, true} {
		for _, errorful := range []bool{false, true} {
			obj.runTotal.With(runLabels(destructive, errorful))
		}
	}
	for _, kind := range interfaces.Kinds {
		obj.blunderTotal.With(prometheus.Labels{"kind": kind.String()})
	}

	return nil
}

// Gatherer returns the registry of this instance.
func (obj *Prometheus) Gatherer() prometheus.Gatherer {
	return obj.registry
}

// Start runs a http server in a go routine, that responds to /metrics as
// prometheus would expect.
func (obj *Prometheus) Start() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(obj.registry, promhttp.HandlerOpts{}))
	obj.server = &http.Server{
		Addr:    obj.Listen,
		Handler: mux,
	}
	go func() {
		err := obj.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed && obj.Logf != nil {
			obj.Logf("prometheus: server errored: %+v", err)
		}
	}()
	return nil
}

// Stop the http server.
func (obj *Prometheus) Stop() error {
	if obj.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return obj.server.Shutdown(ctx)
}

func runLabels(destructive, errorful bool) prometheus.Labels {
	return prometheus.Labels{"destructive": strconv.FormatBool(destructive), "errorful": strconv.FormatBool(errorful)}
}

// UpdateRunTotal counts a spell that ran.
func (obj *Prometheus) UpdateRunTotal(destructive, errorful bool) error {
	metric := obj.runTotal.With(runLabels(destructive, errorful))
	metric.Inc()
	return nil
}

// UpdateBlunderTotal counts a reported blunder.
func (obj *Prometheus) UpdateBlunderTotal(kind interfaces.Kind) error {
	metric := obj.blunderTotal.With(prometheus.Labels{"kind": kind.String()})
	metric.Inc()
	return nil
}

// UpdateInvalidNumericTotal counts a spell that made an invalid number.
func (obj *Prometheus) UpdateInvalidNumericTotal() error {
	obj.invalidNumericTotal.Inc()
	return nil
}

// Observer returns an observer which counts what it is notified about in these
// metrics. It can be put into the context of a spell.
func (obj *Prometheus) Observer() interfaces.Observer {
	return &observer{prom: obj}
}

type observer struct {
	prom *Prometheus
}

// InvalidNumeric counts a spell that made an invalid number.
func (obj *observer) InvalidNumeric(actor interfaces.Actor) {
	obj.prom.UpdateInvalidNumericTotal()
}

// Reported counts a reported blunder.
func (obj *observer) Reported(b *interfaces.Blunder) {
	obj.prom.UpdateBlunderTotal(b.Kind)
}
