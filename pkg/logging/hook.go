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

package logging

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// MetricsHook counts log entries by level.
type MetricsHook struct {
	vec *prometheus.CounterVec
}

// NewMetricsHook .....
func NewMetricsHook(vec *prometheus.CounterVec) *MetricsHook {
	return &MetricsHook{vec: vec}
}

// Levels .....
func (hook *MetricsHook) Levels() []log.Level {
	return log.AllLevels
}

// Fire .....
func (hook *MetricsHook) Fire(entry *log.Entry) error {
	hook.vec.WithLabelValues(entry.Level.String()).Inc()
	return nil
}

var logEntries *prometheus.CounterVec
var installHook sync.Once

// Setup sets the global log level and installs the metrics hook.  The hook
// is only ever installed once.
func Setup(level string) error {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(parsed)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	installHook.Do(func() {
		log.AddHook(NewMetricsHook(logEntries))
	})
	return nil
}

func init() {
	logEntries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scout",
		Subsystem: "logging",
		Name:      "log_entries",
		Help:      "counts logrus entries by level",
	}, []string{"level"})
	prometheus.MustRegister(logEntries)
}
