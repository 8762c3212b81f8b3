// Copyright 2017 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serverutil serves the metrics and health endpoints of ringvrf
// binaries.
package serverutil

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/vrf/ietf"
	"github.com/google/ringvrf/core/crypto/vrf/ringvrf"
	"github.com/google/ringvrf/core/ring"
	"github.com/google/trillian/monitoring/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gocloud.dev/server/health"
)

// MetricsPrefix is prepended to the name of every exported metric.
const MetricsPrefix = "ringvrf_"

// InitMetrics exports the metrics of the VRF and ring packages to the
// default Prometheus registry. It must be called before any proof is built
// or checked.
func InitMetrics() {
	mf := prometheus.MetricFactory{Prefix: MetricsPrefix}
	ietf.InitMetrics(mf)
	ringvrf.InitMetrics(mf)
	ring.InitMetrics(mf)
}

// MetricsHandler serves Prometheus metrics on /metrics, liveness on / and
// /healthz, and readiness on /readyz. Readiness holds once every checker
// passes.
func MetricsHandler(checkers ...health.Checker) http.Handler {
	ready := new(health.Handler)
	for _, c := range checkers {
		ready.Add(c)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.HandleLive)
	mux.Handle("/readyz", ready)
	return RootHealthHandler(mux)
}

// ServeHTTPMetrics serves MetricsHandler on addr.
func ServeHTTPMetrics(addr string, checkers ...health.Checker) error {
	glog.Infof("Hosting server status and metrics on %v", addr)
	return http.ListenAndServe(addr, MetricsHandler(checkers...))
}
