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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCVSSScoreUnmarshal(t *testing.T) {
	cases := []struct {
		input    string
		expected CVSSScore
	}{
		{`9.8`, 9.8},
		{`"7.5"`, 7.5},
		{`" 4.0 "`, 4.0},
		{`""`, 0},
		{`null`, 0},
		{`0`, 0},
	}
	for _, c := range cases {
		var score CVSSScore
		require.NoError(t, json.Unmarshal([]byte(c.input), &score), c.input)
		assert.InDelta(t, float64(c.expected), float64(score), 1e-9, c.input)
	}
}

func TestCVSSScoreUnmarshalFailure(t *testing.T) {
	var score CVSSScore
	assert.Error(t, json.Unmarshal([]byte(`"high"`), &score))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &score))
}

func TestVulnerabilityFromBackend(t *testing.T) {
	input := `[{"id":"VULN-001","name":"SMB exposed","description":"EternalBlue","criticality":"critical","status":"active","cvssScore":"9.3"}]`
	var vulns []Vulnerability
	require.NoError(t, json.Unmarshal([]byte(input), &vulns))
	require.Len(t, vulns, 1)
	assert.Equal(t, CriticalityCritical, vulns[0].Criticality)
	assert.InDelta(t, 9.3, float64(vulns[0].CVSSScore), 1e-9)
}

func TestScanStatus(t *testing.T) {
	assert.False(t, ScanStatusRunning.IsTerminal())
	assert.True(t, ScanStatusCompleted.IsTerminal())
	assert.True(t, ScanStatusFailed.IsTerminal())
	assert.NoError(t, ScanStatusFailed.Validate())
	assert.Error(t, ScanStatus("queued").Validate())
}

func TestScanListHelpers(t *testing.T) {
	scans := []Scan{
		{ID: "SCAN-001", Status: ScanStatusCompleted},
		{ID: "SCAN-002", Status: ScanStatusRunning},
		{ID: "SCAN-003", Status: ScanStatusFailed},
		{ID: "SCAN-004", Status: ScanStatusRunning},
	}
	assert.True(t, HasRunningScans(scans))
	assert.False(t, HasRunningScans(nil))
	assert.False(t, HasRunningScans(scans[:1]))
	assert.Equal(t, []string{"SCAN-002", "SCAN-004"}, RunningScanIDs(scans))
	counts := CountScansByStatus(scans)
	assert.Equal(t, 2, counts[ScanStatusRunning])
	assert.Equal(t, 1, counts[ScanStatusCompleted])
	assert.Equal(t, 1, counts[ScanStatusFailed])
}
