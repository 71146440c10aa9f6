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

package projection

import (
	"github.com/Manitriniaina2002/scout/pkg/api"
)

// ScanStatusBadge .....
func ScanStatusBadge(status api.ScanStatus) BadgeVariant {
	switch status {
	case api.ScanStatusCompleted:
		return BadgeVariantSuccess
	case api.ScanStatusRunning:
		return BadgeVariantWarning
	case api.ScanStatusFailed:
		return BadgeVariantDanger
	}
	return BadgeVariantOutline
}

// ScanSummary .....
type ScanSummary struct {
	Total                int
	Running              int
	Completed            int
	Failed               int
	VulnerabilitiesFound int
	CompletionRate       float64
}

// SummarizeScans totals the history; CompletionRate is the percentage of
// finished scans which completed successfully.
func SummarizeScans(scans []api.Scan) *ScanSummary {
	summary := &ScanSummary{Total: len(scans)}
	for _, scan := range scans {
		switch scan.Status {
		case api.ScanStatusRunning:
			summary.Running++
		case api.ScanStatusCompleted:
			summary.Completed++
			summary.VulnerabilitiesFound += scan.VulnerabilitiesFound
		case api.ScanStatusFailed:
			summary.Failed++
		}
	}
	summary.CompletionRate = Percentage(summary.Completed, summary.Completed+summary.Failed)
	return summary
}
