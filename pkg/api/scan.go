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
	"fmt"
)

// ScanStatus describes where a scan is in its lifecycle.  Only the backend
// moves a scan out of ScanStatusRunning.
type ScanStatus string

// .....
const (
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// IsTerminal returns true for statuses from which no further transition occurs.
func (status ScanStatus) IsTerminal() bool {
	return status == ScanStatusCompleted || status == ScanStatusFailed
}

// Validate .....
func (status ScanStatus) Validate() error {
	switch status {
	case ScanStatusRunning, ScanStatusCompleted, ScanStatusFailed:
		return nil
	}
	return fmt.Errorf("invalid ScanStatus value: %s", string(status))
}

// Scan is a single scan-history record.
type Scan struct {
	ID                   string     `json:"id"`
	Tool                 string     `json:"tool"`
	IPAddress            string     `json:"ipAddress"`
	Network              string     `json:"network"`
	ScanDate             string     `json:"scanDate"`
	Status               ScanStatus `json:"status"`
	VulnerabilitiesFound int        `json:"vulnerabilitiesFound"`
}

// IsRunning .....
func (scan *Scan) IsRunning() bool {
	return scan.Status == ScanStatusRunning
}

// ScanRequest is the payload for submitting a new scan.
type ScanRequest struct {
	Tool      string `json:"tool"`
	IPAddress string `json:"ipAddress"`
	Network   string `json:"network"`
}

// ToolAvailability reports which scanning tools the backend can run.
type ToolAvailability struct {
	Tools   map[string]bool `json:"tools"`
	Message string          `json:"message"`
}

// HasRunningScans returns true if at least one scan is still running.
func HasRunningScans(scans []Scan) bool {
	for _, scan := range scans {
		if scan.Status == ScanStatusRunning {
			return true
		}
	}
	return false
}

// RunningScanIDs .....
func RunningScanIDs(scans []Scan) []string {
	ids := []string{}
	for _, scan := range scans {
		if scan.Status == ScanStatusRunning {
			ids = append(ids, scan.ID)
		}
	}
	return ids
}

// CountScansByStatus .....
func CountScansByStatus(scans []Scan) map[ScanStatus]int {
	counts := map[ScanStatus]int{
		ScanStatusRunning:   0,
		ScanStatusCompleted: 0,
		ScanStatusFailed:    0,
	}
	for _, scan := range scans {
		counts[scan.Status]++
	}
	return counts
}
