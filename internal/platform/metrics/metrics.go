// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several servers can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	gateOutcomes        *prometheus.CounterVec
	workflowOutcomes    *prometheus.CounterVec
}

// New creates and registers every collector.
func New() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "portal_http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		gateOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_gate_outcomes_total",
			Help: "Session gate decisions by gate and outcome.",
		}, []string{"gate", "outcome"}),
		workflowOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_workflow_outcomes_total",
			Help: "Mutation workflow results by workflow and outcome.",
		}, []string{"workflow", "outcome"}),
	}

	metrics.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.httpInFlight,
		metrics.httpRequestsTotal,
		metrics.httpRequestDuration,
		metrics.gateOutcomes,
		metrics.workflowOutcomes,
	)

	return metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

// Registry exposes the underlying registry.
func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

// GateOutcome counts one gate decision. Safe on a nil receiver.
func (metrics *Metrics) GateOutcome(gate, outcome string) {
	if metrics == nil {
		return
	}
	metrics.gateOutcomes.WithLabelValues(gate, outcome).Inc()
}

// WorkflowOutcome counts one workflow result. Safe on a nil receiver.
func (metrics *Metrics) WorkflowOutcome(workflow, outcome string) {
	if metrics == nil {
		return
	}
	metrics.workflowOutcomes.WithLabelValues(workflow, outcome).Inc()
}

// Instrument records request count, latency and in-flight gauge.
// The route label is the chi pattern, so ids do not explode cardinality.
func (metrics *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		metrics.httpInFlight.Inc()
		defer metrics.httpInFlight.Dec()

		start := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, code: http.StatusOK}
		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := strconv.Itoa(recorder.code)
		metrics.httpRequestDuration.WithLabelValues(request.Method, route, status).Observe(time.Since(start).Seconds())
		metrics.httpRequestsTotal.WithLabelValues(request.Method, route, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.code = code
	writer.ResponseWriter.WriteHeader(code)
}
