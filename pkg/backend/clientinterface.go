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

package backend

import (
	"context"

	"github.com/Manitriniaina2002/scout/pkg/api"
)

// ClientInterface is the audit backend as the console sees it.
type ClientInterface interface {
	// health and auth
	Health(ctx context.Context) (*api.Health, error)
	Login(ctx context.Context, username string, password string) (*api.Token, error)
	CurrentUser(ctx context.Context) (*api.User, error)
	UpdateProfile(ctx context.Context, form *api.UserForm) (*api.User, error)
	ChangePassword(ctx context.Context, change *api.PasswordChange) error
	// users (admin)
	ListUsers(ctx context.Context) ([]api.User, error)
	CreateUser(ctx context.Context, form *api.UserForm) (*api.User, error)
	UpdateUser(ctx context.Context, id int, form *api.UserForm) (*api.User, error)
	DeleteUser(ctx context.Context, id int) error
	// audit results
	ListAuditResults(ctx context.Context) ([]api.AuditResult, error)
	GetAuditResult(ctx context.Context, controlID string) (*api.AuditResult, error)
	CreateAuditResult(ctx context.Context, result *api.AuditResult) (*api.AuditResult, error)
	UpdateAuditResult(ctx context.Context, result *api.AuditResult) (*api.AuditResult, error)
	DeleteAuditResult(ctx context.Context, controlID string) error
	GetStatistics(ctx context.Context) (*api.Statistics, error)
	// risks and history
	ListRisks(ctx context.Context) ([]api.Risk, error)
	GetRisk(ctx context.Context, id string) (*api.Risk, error)
	UpdateRiskStatus(ctx context.Context, id string, status api.RiskStatus) (*api.Risk, error)
	ListHistory(ctx context.Context, limit int) ([]api.HistoryEntry, error)
	ControlHistory(ctx context.Context, controlID string) ([]api.HistoryEntry, error)
	// vulnerabilities and scans
	ListVulnerabilities(ctx context.Context) ([]api.Vulnerability, error)
	VulnerabilityStatistics(ctx context.Context) (*api.VulnerabilityStatistics, error)
	ListScans(ctx context.Context) ([]api.Scan, error)
	SubmitScan(ctx context.Context, request *api.ScanRequest) (*api.Scan, error)
	GetScan(ctx context.Context, id string) (*api.Scan, error)
	ToolAvailability(ctx context.Context) (*api.ToolAvailability, error)
	// read-only queries
	Host() string
	CircuitBreakerModel() *api.ModelCircuitBreaker
}
