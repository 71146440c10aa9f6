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

package api

import (
	"time"
)

// Model is the JSON dump served at /model.
type Model struct {
	ScanView       *ModelScanView
	Config         *ModelConfig
	Timings        *ModelTimings
	CircuitBreaker *ModelCircuitBreaker
	Notifications  *ModelNotifications
}

// ModelScanView .....
type ModelScanView struct {
	IsMounted       bool
	IsLoading       bool
	Error           string
	IsPolling       bool
	LastFetchSeq    int
	LastFetchTime   *time.Time
	Scans           []Scan
	RunningScanIDs  []string
	ScanStatusCount map[ScanStatus]int
}

// ModelConfig .....
type ModelConfig struct {
	BackendURL  string
	Username    string
	Port        int
	LogLevel    string
	UseMockMode bool
	StoragePath string
}

// ModelTime ...
type ModelTime struct {
	duration     time.Duration
	Minutes      float64
	Seconds      float64
	Milliseconds float64
}

// NewModelTime consumes a time.Duration and calculates the minutes, seconds,
// and milliseconds
func NewModelTime(duration time.Duration) *ModelTime {
	return &ModelTime{
		duration:     duration,
		Minutes:      float64(duration) / float64(time.Minute),
		Seconds:      float64(duration) / float64(time.Second),
		Milliseconds: float64(duration) / float64(time.Millisecond),
	}
}

// Duration .....
func (mt *ModelTime) Duration() time.Duration {
	return mt.duration
}

// ModelTimings ...
type ModelTimings struct {
	BackendClientTimeout ModelTime
	ScanPollPause        ModelTime
	ModelMetricsPause    ModelTime
}

// ModelCircuitBreaker ...
type ModelCircuitBreaker struct {
	State               string
	NextCheckTime       *time.Time
	MaxBackoffDuration  ModelTime
	ConsecutiveFailures int
}

// ModelNotifications .....
type ModelNotifications struct {
	Emitted        int
	ConnectedPeers int
}
