/*
Copyright (C) 2018 Synopsys, Inc.

Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements. See the NOTICE file
distributed with this work for additional information
regarding copyright ownership. The ASF licenses this file
to you under the Apache License, Version 2.0 (the
"License"); you may not use this file except in compliance
with the License. You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
"AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied. See the License for the
specific language governing permissions and limitations
under the License.
*/

package console

import (
	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/prometheus/client_golang/prometheus"
)

var notificationsEmitted *prometheus.CounterVec
var scanFetches *prometheus.CounterVec
var scanStatusCounts *prometheus.GaugeVec
var viewActions *prometheus.CounterVec
var loadDuration *prometheus.HistogramVec

func recordNotification(kind api.NotificationKind) {
	notificationsEmitted.With(prometheus.Labels{"kind": string(kind)}).Inc()
}

// outcome is one of: success, error, stale, skipped
func recordScanFetch(outcome string) {
	scanFetches.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func recordScanStatusCounts(counts map[api.ScanStatus]int) {
	for status, count := range counts {
		scanStatusCounts.With(prometheus.Labels{"status": string(status)}).Set(float64(count))
	}
}

func recordViewAction(name string) {
	viewActions.With(prometheus.Labels{"action": name}).Inc()
}

func recordLoadDuration(name string, seconds float64) {
	loadDuration.With(prometheus.Labels{"name": name}).Observe(seconds)
}

func init() {
	notificationsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "console",
		Name:      "notifications_emitted",
		Help:      "toasts emitted, by kind",
	}, []string{"kind"})
	prometheus.MustRegister(notificationsEmitted)

	scanFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "console",
		Name:      "scan_history_fetches",
		Help:      "scan history poll outcomes: success, error, stale (superseded by a newer fetch), skipped (nothing running)",
	}, []string{"outcome"})
	prometheus.MustRegister(scanFetches)

	scanStatusCounts = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "scout",
		Subsystem: "console",
		Name:      "scans",
		Help:      "number of scans in the view, by status",
	}, []string{"status"})
	prometheus.MustRegister(scanStatusCounts)

	viewActions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "console",
		Name:      "scan_view_actions",
		Help:      "actions processed by the scan view",
	}, []string{"action"})
	prometheus.MustRegister(viewActions)

	loadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scout",
		Subsystem: "console",
		Name:      "load_duration_seconds",
		Help:      "time taken to load a page's data from the backend",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"name"})
	prometheus.MustRegister(loadDuration)
}
