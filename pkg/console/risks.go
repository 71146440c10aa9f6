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
	"fmt"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/juju/errors"
)

// DefaultHistoryLimit .....
const DefaultHistoryLimit = 50

// Risks is the risk register page.
type Risks struct {
	page
}

// NewRisks .....
func NewRisks(client backend.ClientInterface, notifier notify.Notifier) *Risks {
	return &Risks{page: newPage(client, notifier)}
}

// List .....
func (risks *Risks) List(ctx context.Context) ([]api.Risk, error) {
	list, err := risks.client.ListRisks(ctx)
	if err != nil {
		return nil, risks.fail("Unable to load risks", err)
	}
	return list, nil
}

// Get .....
func (risks *Risks) Get(ctx context.Context, id string) (*api.Risk, error) {
	risk, err := risks.client.GetRisk(ctx, id)
	if err != nil {
		return nil, risks.fail("Unable to load risk", err)
	}
	return risk, nil
}

// SetStatus moves a risk between open and resolved.
func (risks *Risks) SetStatus(ctx context.Context, id string, status api.RiskStatus) (*api.Risk, error) {
	switch status {
	case api.RiskStatusOpen, api.RiskStatusResolved:
	default:
		return nil, risks.fail("Unable to update risk", errors.Errorf("invalid risk status: %s", status))
	}
	risk, err := risks.client.UpdateRiskStatus(ctx, id, status)
	if err != nil {
		return nil, risks.fail("Unable to update risk", err)
	}
	risks.succeed("Risk updated", fmt.Sprintf("%s is now %s", risk.ID, risk.Status))
	return risk, nil
}

// History is the audit trail page.
type History struct {
	page
}

// NewHistory .....
func NewHistory(client backend.ClientInterface, notifier notify.Notifier) *History {
	return &History{page: newPage(client, notifier)}
}

// Recent returns at most `limit` entries; a non-positive limit uses the default.
func (history *History) Recent(ctx context.Context, limit int) ([]api.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := history.client.ListHistory(ctx, limit)
	if err != nil {
		return nil, history.fail("Unable to load history", err)
	}
	return entries, nil
}

// Control .....
func (history *History) Control(ctx context.Context, controlID string) ([]api.HistoryEntry, error) {
	entries, err := history.client.ControlHistory(ctx, controlID)
	if err != nil {
		return nil, history.fail("Unable to load control history", err)
	}
	return entries, nil
}
