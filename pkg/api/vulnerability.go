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
	"fmt"
	"strconv"
	"strings"
)

// Criticality is the qualitative severity bucket of a vulnerability finding.
type Criticality string

// .....
const (
	CriticalityCritical Criticality = "critical"
	CriticalityHigh     Criticality = "high"
	CriticalityMedium   Criticality = "medium"
	CriticalityBase     Criticality = "base"
)

// Criticalities lists the buckets from most to least severe.
var Criticalities = []Criticality{CriticalityCritical, CriticalityHigh, CriticalityMedium, CriticalityBase}

// CVSSScore is a 0-10 severity rating.  The backend persists it as a string,
// so it is accepted either as a JSON number or as a numeric JSON string.
type CVSSScore float64

// UnmarshalJSON .....
func (score *CVSSScore) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*score = 0
		return nil
	}
	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*score = CVSSScore(number)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("unable to parse CVSS score %s: %s", string(data), err.Error())
	}
	text = strings.TrimSpace(text)
	if text == "" {
		*score = 0
		return nil
	}
	number, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("unable to parse CVSS score %q: %s", text, err.Error())
	}
	*score = CVSSScore(number)
	return nil
}

// Vulnerability is read-only from the console's perspective.
type Vulnerability struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Criticality Criticality `json:"criticality"`
	Status      string      `json:"status,omitempty"`
	CVSSScore   CVSSScore   `json:"cvssScore"`
}

// VulnerabilityStatistics is aggregated server-side.
type VulnerabilityStatistics struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Base     int `json:"base"`
}

// Count returns the count for a single criticality bucket.
func (stats *VulnerabilityStatistics) Count(criticality Criticality) int {
	switch criticality {
	case CriticalityCritical:
		return stats.Critical
	case CriticalityHigh:
		return stats.High
	case CriticalityMedium:
		return stats.Medium
	case CriticalityBase:
		return stats.Base
	}
	return 0
}
