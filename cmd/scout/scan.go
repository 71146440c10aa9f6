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
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/projection"
	"github.com/Manitriniaina2002/scout/pkg/scout"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "submit, list and watch scans",
	}
	cmd.AddCommand(scanSubmitCmd(), scanListCmd(), scanWatchCmd())
	return cmd
}

func scanSubmitCmd() *cobra.Command {
	request := &api.ScanRequest{}
	var watch bool
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "start a scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScout(false, func(ctx context.Context, s *scout.Scout) error {
				if err := s.ScanView.Mount(ctx); err != nil {
					return err
				}
				if _, err := s.ScanView.SubmitScan(ctx, request); err != nil {
					return err
				}
				if watch {
					return watchScans(s)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&request.Tool, "tool", "", "nmap, nikto, wpscan or sslscan")
	cmd.Flags().StringVar(&request.IPAddress, "ip", "", "target IP address")
	cmd.Flags().StringVar(&request.Network, "network", "", "target network in CIDR notation")
	cmd.Flags().BoolVar(&watch, "watch", false, "wait for running scans to finish")
	return cmd
}

func scanListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "print the scan history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScout(false, func(ctx context.Context, s *scout.Scout) error {
				if err := s.ScanView.Mount(ctx); err != nil {
					return err
				}
				scans, err := s.ScanView.Scans()
				if err != nil {
					return err
				}
				printScans(scans)
				return nil
			})
		},
	}
}

func scanWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "print notifications until no scan is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScout(false, func(ctx context.Context, s *scout.Scout) error {
				if err := s.ScanView.Mount(ctx); err != nil {
					return err
				}
				return watchScans(s)
			})
		},
	}
}

// watchScans blocks until polling stops or the user interrupts.
func watchScans(s *scout.Scout) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	defer signal.Stop(signals)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for s.ScanView.IsPolling() {
		select {
		case <-signals:
			return nil
		case <-ticker.C:
		}
	}
	scans, err := s.ScanView.Scans()
	if err != nil {
		return err
	}
	printScans(scans)
	return nil
}

var scanStatusColors = map[projection.BadgeVariant]*color.Color{
	projection.BadgeVariantSuccess: color.New(color.FgGreen),
	projection.BadgeVariantWarning: color.New(color.FgYellow),
	projection.BadgeVariantDanger:  color.New(color.FgRed),
	projection.BadgeVariantOutline: color.New(color.Reset),
}

func printScans(scans []api.Scan) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOOL\tTARGET\tDATE\tSTATUS\tFOUND")
	for _, scan := range scans {
		target := scan.IPAddress
		if scan.Network != "" {
			target = fmt.Sprintf("%s (%s)", scan.IPAddress, scan.Network)
		}
		status := scanStatusColors[projection.ScanStatusBadge(scan.Status)].Sprint(scan.Status)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", scan.ID, scan.Tool, target, scan.ScanDate, status, scan.VulnerabilitiesFound)
	}
	w.Flush()
	summary := projection.SummarizeScans(scans)
	fmt.Printf("\n%d scans, %d running, %.1f%% completed successfully\n", summary.Total, summary.Running, summary.CompletionRate)
}
