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

package console

import (
	"context"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/Manitriniaina2002/scout/pkg/projection"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DashboardSummary .....
type DashboardSummary struct {
	Statistics      *api.Statistics
	Vulnerabilities *api.VulnerabilityStatistics
	Shares          []projection.CriticalityShare
	OpenRisks       []api.Risk
	RecentHistory   []api.HistoryEntry
	Scans           *projection.ScanSummary
	Tools           *api.ToolAvailability
}

// Dashboard is the landing page.
type Dashboard struct {
	page
	historyLimit int
}

// NewDashboard .....
func NewDashboard(client backend.ClientInterface, notifier notify.Notifier) *Dashboard {
	return &Dashboard{page: newPage(client, notifier), historyLimit: 10}
}

// Load fetches every panel concurrently; the first failure cancels the rest.
// Tool availability is optional and doesn't fail the load.
func (dashboard *Dashboard) Load(ctx context.Context) (*DashboardSummary, error) {
	start := time.Now()
	summary := &DashboardSummary{}
	var risks []api.Risk
	var scans []api.Scan
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		summary.Statistics, err = dashboard.client.GetStatistics(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		summary.Vulnerabilities, err = dashboard.client.VulnerabilityStatistics(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		risks, err = dashboard.client.ListRisks(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		summary.RecentHistory, err = dashboard.client.ListHistory(groupCtx, dashboard.historyLimit)
		return err
	})
	group.Go(func() error {
		var err error
		scans, err = dashboard.client.ListScans(groupCtx)
		return err
	})
	group.Go(func() error {
		tools, err := dashboard.client.ToolAvailability(groupCtx)
		if err != nil {
			log.Warnf("unable to fetch tool availability: %s", err.Error())
			return nil
		}
		summary.Tools = tools
		return nil
	})
	err := group.Wait()
	recordLoadDuration("dashboard", time.Since(start).Seconds())
	if err != nil {
		return nil, dashboard.fail("Unable to load dashboard", err)
	}
	summary.OpenRisks = []api.Risk{}
	for _, risk := range risks {
		if risk.Status == api.RiskStatusOpen {
			summary.OpenRisks = append(summary.OpenRisks, risk)
		}
	}
	summary.Shares = projection.CriticalityPercentages(summary.Vulnerabilities)
	summary.Scans = projection.SummarizeScans(scans)
	return summary, nil
}
