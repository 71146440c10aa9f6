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
	"strings"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/catalog"
)

// BadgeVariant .....
type BadgeVariant string

// .....
const (
	BadgeVariantSuccess BadgeVariant = "success"
	BadgeVariantWarning BadgeVariant = "warning"
	BadgeVariantDanger  BadgeVariant = "danger"
	BadgeVariantOutline BadgeVariant = "outline"
)

type statusDisplay struct {
	label   string
	color   string
	variant BadgeVariant
}

var statusDisplays = map[api.AuditStatus]statusDisplay{
	api.AuditStatusCompliant:    {label: "Compliant", color: "#27ae60", variant: BadgeVariantSuccess},
	api.AuditStatusPartial:      {label: "Partial", color: "#f39c12", variant: BadgeVariantWarning},
	api.AuditStatusNonCompliant: {label: "Non-compliant", color: "#e74c3c", variant: BadgeVariantDanger},
	api.AuditStatusNotEvaluated: {label: "Not evaluated", color: "#95a5a6", variant: BadgeVariantOutline},
}

// StatusColor .....
func StatusColor(status api.AuditStatus) string {
	if display, ok := statusDisplays[status]; ok {
		return display.color
	}
	return "#95a5a6"
}

// StatusLabel .....
func StatusLabel(status api.AuditStatus) string {
	if display, ok := statusDisplays[status]; ok {
		return display.label
	}
	return "Unknown"
}

// StatusBadge .....
func StatusBadge(status api.AuditStatus) BadgeVariant {
	if display, ok := statusDisplays[status]; ok {
		return display.variant
	}
	return BadgeVariantOutline
}

// RoleColor .....
func RoleColor(role api.Role) string {
	if role == api.RoleAdmin {
		return "#e74c3c"
	}
	return "#3498db"
}

// StatusCounts tallies audit results per status.
type StatusCounts struct {
	Total        int
	Compliant    int
	Partial      int
	NonCompliant int
	NotEvaluated int
}

func (counts *StatusCounts) add(status api.AuditStatus) {
	counts.Total++
	switch status {
	case api.AuditStatusCompliant:
		counts.Compliant++
	case api.AuditStatusPartial:
		counts.Partial++
	case api.AuditStatusNonCompliant:
		counts.NonCompliant++
	default:
		counts.NotEvaluated++
	}
}

// Score is (compliant + half of partial) over total, as a percentage
// rounded to one decimal.  A zero total scores 0.
func (counts *StatusCounts) Score() float64 {
	if counts.Total <= 0 {
		return 0
	}
	return round1((float64(counts.Compliant) + 0.5*float64(counts.Partial)) / float64(counts.Total) * 100)
}

// Percentage of the total in `status`.
func (counts *StatusCounts) Percentage(status api.AuditStatus) float64 {
	switch status {
	case api.AuditStatusCompliant:
		return Percentage(counts.Compliant, counts.Total)
	case api.AuditStatusPartial:
		return Percentage(counts.Partial, counts.Total)
	case api.AuditStatusNonCompliant:
		return Percentage(counts.NonCompliant, counts.Total)
	default:
		return Percentage(counts.NotEvaluated, counts.Total)
	}
}

// CountStatuses .....
func CountStatuses(results []api.AuditResult) *StatusCounts {
	counts := &StatusCounts{}
	for _, result := range results {
		counts.add(result.Status)
	}
	return counts
}

// ComplianceScore .....
func ComplianceScore(results []api.AuditResult) float64 {
	return CountStatuses(results).Score()
}

// CategoryBreakdown is the per-category view of the catalog against the
// recorded results.  Controls without a result count as not evaluated.
type CategoryBreakdown struct {
	Category *catalog.Category
	Counts   *StatusCounts
}

// BreakdownByCategory .....
func BreakdownByCategory(cat *catalog.Catalog, results []api.AuditResult) []CategoryBreakdown {
	byControl := resultsByControl(results)
	breakdowns := []CategoryBreakdown{}
	for i := range cat.Categories {
		category := &cat.Categories[i]
		counts := &StatusCounts{}
		for _, control := range category.Controls {
			status := api.AuditStatusNotEvaluated
			if result, ok := byControl[control.ID]; ok {
				status = result.Status
			}
			counts.add(status)
		}
		breakdowns = append(breakdowns, CategoryBreakdown{Category: category, Counts: counts})
	}
	return breakdowns
}

func resultsByControl(results []api.AuditResult) map[string]api.AuditResult {
	byControl := map[string]api.AuditResult{}
	for _, result := range results {
		byControl[result.ControlID] = result
	}
	return byControl
}

// ControlFilter selects controls for display.  Empty Category and Status
// mean "all".
type ControlFilter struct {
	Search   string
	Category string
	Status   api.AuditStatus
}

// ControlRow is a catalog control joined with its result, if any.
type ControlRow struct {
	Control  catalog.Control
	Category string
	Result   *api.AuditResult
}

// Status is the result's status, or not-evaluated when there is no result.
func (row *ControlRow) Status() api.AuditStatus {
	if row.Result == nil {
		return api.AuditStatusNotEvaluated
	}
	return row.Result.Status
}

// FilterControls walks the catalog in order and keeps the controls matching
// every criterion of the filter.  Search matches the id or name,
// case-insensitively.  The not-evaluated status also matches controls which
// have no result at all.
func FilterControls(cat *catalog.Catalog, results []api.AuditResult, filter ControlFilter) []ControlRow {
	byControl := resultsByControl(results)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := []ControlRow{}
	for _, category := range cat.Categories {
		if filter.Category != "" && filter.Category != category.ID {
			continue
		}
		for _, control := range category.Controls {
			if search != "" &&
				!strings.Contains(strings.ToLower(control.ID), search) &&
				!strings.Contains(strings.ToLower(control.Name), search) {
				continue
			}
			row := ControlRow{Control: control, Category: category.ID}
			if result, ok := byControl[control.ID]; ok {
				r := result
				row.Result = &r
			}
			if filter.Status != "" && row.Status() != filter.Status {
				continue
			}
			rows = append(rows, row)
		}
	}
	return rows
}
