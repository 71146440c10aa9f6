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
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHookCountsByLevel(t *testing.T) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_log_entries"}, []string{"level"})
	logger := log.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(log.DebugLevel)
	logger.AddHook(NewMetricsHook(vec))

	logger.Warn("one")
	logger.Warn("two")
	logger.Error("three")
	logger.Trace("filtered out by level")

	assert.Equal(t, 2.0, testutil.ToFloat64(vec.WithLabelValues("warning")))
	assert.Equal(t, 1.0, testutil.ToFloat64(vec.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(vec.WithLabelValues("trace")))
}

func TestSetup(t *testing.T) {
	previous := log.GetLevel()
	defer log.SetLevel(previous)

	require.NoError(t, Setup("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	require.NoError(t, Setup("warn"))
	assert.Equal(t, log.WarnLevel, log.GetLevel())
	assert.Error(t, Setup("loud"))

	before := testutil.ToFloat64(logEntries.WithLabelValues("warning"))
	log.Warn("counted once even though Setup ran twice")
	assert.Equal(t, before+1, testutil.ToFloat64(logEntries.WithLabelValues("warning")))
}
