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

package notify

import (
	"github.com/prometheus/client_golang/prometheus"
)

var connectedPeers prometheus.Gauge
var droppedMessages *prometheus.CounterVec

func recordPeers(count int) {
	connectedPeers.Set(float64(count))
}

func recordDroppedMessage(reason string) {
	droppedMessages.With(prometheus.Labels{"reason": reason}).Inc()
}

func init() {
	connectedPeers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "scout",
		Subsystem: "notify",
		Name:      "websocket_peers",
		Help:      "number of browsers attached to the notification stream",
	})
	prometheus.MustRegister(connectedPeers)

	droppedMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "notify",
		Name:      "websocket_dropped_messages",
		Help:      "websocket messages not delivered; reason=queue_full is a broadcast the hub couldn't accept, reason=slow_peer is a peer disconnected for a full send buffer",
	}, []string{"reason"})
	prometheus.MustRegister(droppedMessages)
}
