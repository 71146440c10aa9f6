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

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Manitriniaina2002/scout/pkg/projection"
	"github.com/Manitriniaina2002/scout/pkg/scout"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var tierColors = map[projection.CVSSTier]*color.Color{
	projection.CVSSTierCritical: color.New(color.FgRed, color.Bold),
	projection.CVSSTierHigh:     color.New(color.FgRed),
	projection.CVSSTierMedium:   color.New(color.FgYellow),
	projection.CVSSTierLow:      color.New(color.FgGreen),
}

func vulnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vulns",
		Short: "list vulnerabilities by CVSS tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScout(false, func(ctx context.Context, s *scout.Scout) error {
				report, err := s.Vulnerabilities.Load(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCRITICALITY\tCVSS\tSTATUS")
				for _, tier := range projection.CVSSTiers {
					for _, vulnerability := range report.ByTier[tier] {
						score := tierColors[tier].Sprintf("%.1f", float64(vulnerability.CVSSScore))
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", vulnerability.ID, vulnerability.Name, vulnerability.Criticality, score, vulnerability.Status)
					}
				}
				w.Flush()
				fmt.Printf("\n%d vulnerabilities\n", report.Statistics.Total)
				for _, share := range report.Shares {
					fmt.Printf("  %-9s %4d  %5.1f%%\n", share.Criticality, share.Count, share.Percentage)
				}
				return nil
			})
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "print compliance statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScout(false, func(ctx context.Context, s *scout.Scout) error {
				summary, err := s.Dashboard.Load(ctx)
				if err != nil {
					return err
				}
				stats := summary.Statistics
				fmt.Printf("compliance score: %.1f%% over %d evaluated controls\n", stats.ComplianceScore, stats.Total)
				fmt.Printf("  compliant %d, partial %d, non-compliant %d, not evaluated %d\n", stats.Compliant, stats.Partial, stats.NonCompliant, stats.NotEvaluated)
				if _, err = s.Controls.Load(ctx); err != nil {
					return err
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "\nCATEGORY\tTITLE\tCOMPLIANT\tPARTIAL\tNON-COMPLIANT\tNOT EVALUATED\tSCORE")
				for _, breakdown := range s.Controls.Breakdown() {
					counts := breakdown.Counts
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.1f%%\n", breakdown.Category.ID, breakdown.Category.Title,
						counts.Compliant, counts.Partial, counts.NonCompliant, counts.NotEvaluated, counts.Score())
				}
				w.Flush()
				fmt.Printf("\n%d open risks, %d scans (%d running)\n", len(summary.OpenRisks), summary.Scans.Total, summary.Scans.Running)
				return nil
			})
		},
	}
}
