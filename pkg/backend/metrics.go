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

package backend

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var backendResponse *prometheus.CounterVec
var backendResponseTime *prometheus.HistogramVec
var unauthorizedResponses prometheus.Counter
var circuitBreakerState *prometheus.GaugeVec
var backendRequestIsCircuitBreakerEnabled *prometheus.CounterVec
var circuitBreakerTransitions *prometheus.CounterVec

func recordBackendResponse(name string, isSuccessful bool) {
	isSuccessString := fmt.Sprintf("%t", isSuccessful)
	backendResponse.With(prometheus.Labels{"name": name, "isSuccess": isSuccessString}).Inc()
}

func recordBackendResponseTime(name string, duration time.Duration) {
	milliseconds := float64(duration / time.Millisecond)
	backendResponseTime.With(prometheus.Labels{"name": name}).Observe(milliseconds)
}

func recordUnauthorized() {
	unauthorizedResponses.Inc()
}

func recordCircuitBreakerState(state CircuitBreakerState) {
	circuitBreakerState.With(prometheus.Labels{}).Set(float64(state))
}

func recordCircuitBreakerIsEnabled(isEnabled bool) {
	isEnabledString := fmt.Sprintf("%t", isEnabled)
	backendRequestIsCircuitBreakerEnabled.With(prometheus.Labels{"isEnabled": isEnabledString}).Inc()
}

func recordCircuitBreakerTransition(from CircuitBreakerState, to CircuitBreakerState) {
	circuitBreakerTransitions.With(prometheus.Labels{"from": from.String(), "to": to.String()}).Inc()
}

func init() {
	backendResponse = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "backend",
		Name:      "http_requests",
		Help:      "names and outcomes of HTTP requests issued to the audit backend",
	}, []string{"name", "isSuccess"})
	prometheus.MustRegister(backendResponse)

	backendResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scout",
		Subsystem: "backend",
		Name:      "response_time",
		Help:      "tracks the response times of backend requests in milliseconds",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 20),
	}, []string{"name"})
	prometheus.MustRegister(backendResponseTime)

	unauthorizedResponses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "backend",
		Name:      "unauthorized_responses",
		Help:      "401 responses which cleared the stored token",
	})
	prometheus.MustRegister(unauthorizedResponses)

	circuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "scout",
		Subsystem: "backend",
		Name:      "circuit_breaker_state",
		Help:      "tracks the state of the circuit breaker; 0 = disabled; 1 = enabled; 2 = checking;",
	}, []string{})
	prometheus.MustRegister(circuitBreakerState)

	backendRequestIsCircuitBreakerEnabled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "backend",
		Name:      "request_is_circuit_breaker_enabled",
		Help:      "tracks whether the circuit breaker is enabled or disabled when a backend http request is issued",
	}, []string{"isEnabled"})
	prometheus.MustRegister(backendRequestIsCircuitBreakerEnabled)

	circuitBreakerTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "backend",
		Name:      "circuit_breaker_transitions",
		Help:      "tracks circuit breaker state transitions",
	}, []string{"from", "to"})
	prometheus.MustRegister(circuitBreakerTransitions)
}
