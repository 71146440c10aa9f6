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
	"golang.org/x/sync/errgroup"
)

// VulnerabilityReport is what the vulnerabilities page shows.
type VulnerabilityReport struct {
	Vulnerabilities []api.Vulnerability
	Statistics      *api.VulnerabilityStatistics
	ByCriticality   map[api.Criticality][]api.Vulnerability
	ByTier          map[projection.CVSSTier][]api.Vulnerability
	Shares          []projection.CriticalityShare
}

// Vulnerabilities .....
type Vulnerabilities struct {
	page
}

// NewVulnerabilities .....
func NewVulnerabilities(client backend.ClientInterface, notifier notify.Notifier) *Vulnerabilities {
	return &Vulnerabilities{page: newPage(client, notifier)}
}

// Load fetches the list and the statistics concurrently.
func (vulnerabilities *Vulnerabilities) Load(ctx context.Context) (*VulnerabilityReport, error) {
	start := time.Now()
	var list []api.Vulnerability
	var stats *api.VulnerabilityStatistics
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		list, err = vulnerabilities.client.ListVulnerabilities(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		stats, err = vulnerabilities.client.VulnerabilityStatistics(groupCtx)
		return err
	})
	err := group.Wait()
	recordLoadDuration("vulnerabilities", time.Since(start).Seconds())
	if err != nil {
		return nil, vulnerabilities.fail("Unable to load vulnerabilities", err)
	}
	return &VulnerabilityReport{
		Vulnerabilities: list,
		Statistics:      stats,
		ByCriticality:   projection.GroupByCriticality(list),
		ByTier:          projection.GroupByTier(list),
		Shares:          projection.CriticalityPercentages(stats),
	}, nil
}
