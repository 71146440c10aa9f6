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
	"sort"

	"github.com/Manitriniaina2002/scout/pkg/api"
)

// CVSSTier is the display bucket of a CVSS score.
type CVSSTier string

// .....
const (
	CVSSTierCritical CVSSTier = "critical"
	CVSSTierHigh     CVSSTier = "high"
	CVSSTierMedium   CVSSTier = "medium"
	CVSSTierLow      CVSSTier = "low"
)

// CVSSTiers lists tiers from most to least severe.
var CVSSTiers = []CVSSTier{CVSSTierCritical, CVSSTierHigh, CVSSTierMedium, CVSSTierLow}

var cvssTierColors = map[CVSSTier]string{
	CVSSTierCritical: "#c0392b",
	CVSSTierHigh:     "#FF5722",
	CVSSTierMedium:   "#FFC107",
	CVSSTierLow:      "#4B8B32",
}

// Tier maps a score onto its tier; lower bounds are inclusive.
func Tier(score api.CVSSScore) CVSSTier {
	switch {
	case score >= 9.0:
		return CVSSTierCritical
	case score >= 7.0:
		return CVSSTierHigh
	case score >= 4.0:
		return CVSSTierMedium
	default:
		return CVSSTierLow
	}
}

// Color .....
func (tier CVSSTier) Color() string {
	return cvssTierColors[tier]
}

// TierColor .....
func TierColor(score api.CVSSScore) string {
	return Tier(score).Color()
}

// GroupByTier buckets vulnerabilities by the tier of their CVSS score.
// Every tier is present in the result, possibly empty.  Within a tier the
// highest scores come first.
func GroupByTier(vulnerabilities []api.Vulnerability) map[CVSSTier][]api.Vulnerability {
	groups := map[CVSSTier][]api.Vulnerability{}
	for _, tier := range CVSSTiers {
		groups[tier] = []api.Vulnerability{}
	}
	for _, vulnerability := range vulnerabilities {
		tier := Tier(vulnerability.CVSSScore)
		groups[tier] = append(groups[tier], vulnerability)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool { return group[i].CVSSScore > group[j].CVSSScore })
	}
	return groups
}

// GroupByCriticality buckets vulnerabilities by the backend-assigned criticality.
func GroupByCriticality(vulnerabilities []api.Vulnerability) map[api.Criticality][]api.Vulnerability {
	groups := map[api.Criticality][]api.Vulnerability{}
	for _, criticality := range api.Criticalities {
		groups[criticality] = []api.Vulnerability{}
	}
	for _, vulnerability := range vulnerabilities {
		groups[vulnerability.Criticality] = append(groups[vulnerability.Criticality], vulnerability)
	}
	return groups
}

// CriticalityShare is one slice of the statistics breakdown.
type CriticalityShare struct {
	Criticality api.Criticality
	Count       int
	Percentage  float64
}

// CriticalityPercentages computes the share of each criticality of the total.
// A zero total yields 0 for every bucket.
func CriticalityPercentages(stats *api.VulnerabilityStatistics) []CriticalityShare {
	shares := []CriticalityShare{}
	for _, criticality := range api.Criticalities {
		count := stats.Count(criticality)
		shares = append(shares, CriticalityShare{
			Criticality: criticality,
			Count:       count,
			Percentage:  Percentage(count, stats.Total),
		})
	}
	return shares
}

var riskSeverityColors = map[string]string{
	"CRITICAL": "#c0392b",
	"HIGH":     "#FF5722",
	"MEDIUM":   "#FFC107",
	"LOW":      "#4B8B32",
}

var riskSeverityBadges = map[string]BadgeVariant{
	"CRITICAL": BadgeVariantDanger,
	"HIGH":     BadgeVariantDanger,
	"MEDIUM":   BadgeVariantWarning,
	"LOW":      BadgeVariantSuccess,
}

// RiskSeverityColor .....
func RiskSeverityColor(severity string) string {
	if color, ok := riskSeverityColors[severity]; ok {
		return color
	}
	return "#9CA3AF"
}

// RiskSeverityBadge .....
func RiskSeverityBadge(severity string) BadgeVariant {
	if variant, ok := riskSeverityBadges[severity]; ok {
		return variant
	}
	return BadgeVariantOutline
}

// RiskStatusBadge .....
func RiskStatusBadge(status api.RiskStatus) BadgeVariant {
	if status == api.RiskStatusOpen {
		return BadgeVariantDanger
	}
	return BadgeVariantSuccess
}
