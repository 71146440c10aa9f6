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

package util

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var timerTicks *prometheus.CounterVec

func recordTimerTick(name string, isExecuted bool) {
	timerTicks.With(prometheus.Labels{"name": name, "executed": fmt.Sprintf("%t", isExecuted)}).Inc()
}

func init() {
	timerTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "util",
		Name:      "timer_ticks",
		Help:      "ticks of routine timers; executed=false means the tick was dropped because the previous action was still in flight",
	}, []string{"name", "executed"})
	prometheus.MustRegister(timerTicks)
}
