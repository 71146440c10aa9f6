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
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
)

const mockToken = "mock-token"

type mockScan struct {
	scan           api.Scan
	fetchesPending int
}

type mockUser struct {
	user     api.User
	password string
}

// MockClient is an in-memory backend.  Submitted scans stay `running` for
// `fetchesUntilDone` history fetches, then complete; scans for tools that
// aren't available fail instead.
type MockClient struct {
	mutex            sync.Mutex
	fetchesUntilDone int
	ShouldFail       bool
	loggedIn         *mockUser
	nextUserID       int
	users            map[int]*mockUser
	scans            []*mockScan
	auditResults     map[string]api.AuditResult
	history          []api.HistoryEntry
	risks            []api.Risk
	vulnerabilities  []api.Vulnerability
	tools            map[string]bool
	listScansCount   int
}

// NewMockClient returns a mock backend seeded with an `admin`/`admin123` account.
func NewMockClient(fetchesUntilDone int) *MockClient {
	mc := &MockClient{
		fetchesUntilDone: fetchesUntilDone,
		nextUserID:       2,
		users: map[int]*mockUser{
			1: {user: api.User{ID: 1, Username: "admin", Email: "admin@example.com", Role: api.RoleAdmin}, password: "admin123"},
		},
		scans:           []*mockScan{},
		auditResults:    map[string]api.AuditResult{},
		history:         []api.HistoryEntry{},
		risks:           mockRisks(),
		vulnerabilities: []api.Vulnerability{},
		tools:           map[string]bool{"nmap": true, "nikto": true, "wpscan": false, "sslscan": true},
	}
	return mc
}

func mockRisks() []api.Risk {
	return []api.Risk{
		{ID: "RISK-001", Title: "Targeted phishing campaign", Severity: "HIGH", Status: api.RiskStatusOpen, LinkedControls: []string{"A.6.3"}, Source: "ADES"},
		{ID: "RISK-002", Title: "Exposed WordPress site with vulnerable plugins", Severity: "CRITICAL", Status: api.RiskStatusOpen, LinkedControls: []string{"A.8.8", "A.8.9"}, Source: "ADES"},
		{ID: "RISK-003", Title: "Organization data found on the dark web", Severity: "CRITICAL", Status: api.RiskStatusOpen, LinkedControls: []string{"A.5.7"}, Source: "ADES"},
		{ID: "RISK-004", Title: "IoT cameras exposed to the internet", Severity: "CRITICAL", Status: api.RiskStatusOpen, LinkedControls: []string{"A.7.4"}, Source: "ADES"},
		{ID: "RISK-005", Title: "Insecure Microsoft 365 configuration", Severity: "HIGH", Status: api.RiskStatusOpen, LinkedControls: []string{"A.5.23"}, Source: "ADES"},
		{ID: "RISK-006", Title: "No multi-factor authentication", Severity: "CRITICAL", Status: api.RiskStatusOpen, LinkedControls: []string{"A.5.17", "A.8.5"}, Source: "ADES"},
	}
}

func notFound(what string) error {
	return &APIError{StatusCode: http.StatusNotFound, Detail: what + " not found"}
}

func badRequest(detail string) error {
	return &APIError{StatusCode: http.StatusBadRequest, Detail: detail}
}

func (mc *MockClient) check() error {
	if mc.ShouldFail {
		return fmt.Errorf("unable to reach mock backend")
	}
	return nil
}

func (mc *MockClient) checkAuth() error {
	if err := mc.check(); err != nil {
		return err
	}
	if mc.loggedIn == nil {
		return ErrUnauthorized
	}
	return nil
}

func (mc *MockClient) checkAdmin() error {
	if err := mc.checkAuth(); err != nil {
		return err
	}
	if !mc.loggedIn.user.IsAdmin() {
		return &APIError{StatusCode: http.StatusForbidden, Detail: "Admin privileges required"}
	}
	return nil
}

func (mc *MockClient) now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05")
}

// SetShouldFail .....
func (mc *MockClient) SetShouldFail(shouldFail bool) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.ShouldFail = shouldFail
}

// ListScansCount is the number of scan-history fetches served so far.
func (mc *MockClient) ListScansCount() int {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	return mc.listScansCount
}

// AddScan seeds a scan record as-is.
func (mc *MockClient) AddScan(scan api.Scan) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.scans = append(mc.scans, &mockScan{scan: scan, fetchesPending: mc.fetchesUntilDone})
}

// AddVulnerability .....
func (mc *MockClient) AddVulnerability(vulnerability api.Vulnerability) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.vulnerabilities = append(mc.vulnerabilities, vulnerability)
}

// Host .....
func (mc *MockClient) Host() string {
	return "mock"
}

// CircuitBreakerModel .....
func (mc *MockClient) CircuitBreakerModel() *api.ModelCircuitBreaker {
	return &api.ModelCircuitBreaker{State: CircuitBreakerStateEnabled.String()}
}

// Health .....
func (mc *MockClient) Health(ctx context.Context) (*api.Health, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.check(); err != nil {
		return nil, err
	}
	return &api.Health{Status: "healthy", Database: "connected"}, nil
}

// Login .....
func (mc *MockClient) Login(ctx context.Context, username string, password string) (*api.Token, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.check(); err != nil {
		return nil, err
	}
	for _, user := range mc.users {
		if user.user.Username == username && user.password == password {
			mc.loggedIn = user
			return &api.Token{AccessToken: mockToken, TokenType: "bearer", User: user.user}, nil
		}
	}
	return nil, &APIError{StatusCode: http.StatusUnauthorized, Detail: "Incorrect username or password"}
}

// Logout forgets the mock session, as if the token had expired.
func (mc *MockClient) Logout() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.loggedIn = nil
}

// CurrentUser .....
func (mc *MockClient) CurrentUser(ctx context.Context) (*api.User, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	user := mc.loggedIn.user
	return &user, nil
}

func (mc *MockClient) isUsernameTaken(username string, exceptID int) bool {
	for id, user := range mc.users {
		if id != exceptID && user.user.Username == username {
			return true
		}
	}
	return false
}

func (mc *MockClient) applyForm(user *mockUser, form *api.UserForm) error {
	if form.Username != "" {
		if mc.isUsernameTaken(form.Username, user.user.ID) {
			return badRequest("Username already registered")
		}
		user.user.Username = form.Username
	}
	if form.Email != "" {
		user.user.Email = form.Email
	}
	if form.Role != "" {
		user.user.Role = form.Role
	}
	if form.Password != "" {
		user.password = form.Password
	}
	return nil
}

// UpdateProfile .....
func (mc *MockClient) UpdateProfile(ctx context.Context, form *api.UserForm) (*api.User, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	// role changes are not allowed through the profile
	profileForm := *form
	profileForm.Role = ""
	if err := mc.applyForm(mc.loggedIn, &profileForm); err != nil {
		return nil, err
	}
	user := mc.loggedIn.user
	return &user, nil
}

// ChangePassword .....
func (mc *MockClient) ChangePassword(ctx context.Context, change *api.PasswordChange) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return err
	}
	if mc.loggedIn.password != change.CurrentPassword {
		return badRequest("Current password is incorrect")
	}
	mc.loggedIn.password = change.NewPassword
	return nil
}

// ListUsers .....
func (mc *MockClient) ListUsers(ctx context.Context) ([]api.User, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAdmin(); err != nil {
		return nil, err
	}
	users := []api.User{}
	for _, user := range mc.users {
		users = append(users, user.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// CreateUser .....
func (mc *MockClient) CreateUser(ctx context.Context, form *api.UserForm) (*api.User, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAdmin(); err != nil {
		return nil, err
	}
	if mc.isUsernameTaken(form.Username, 0) {
		return nil, badRequest("Username already registered")
	}
	role := form.Role
	if role == "" {
		role = api.RoleUser
	}
	user := &mockUser{user: api.User{ID: mc.nextUserID, Username: form.Username, Email: form.Email, Role: role}, password: form.Password}
	mc.users[user.user.ID] = user
	mc.nextUserID++
	created := user.user
	return &created, nil
}

// UpdateUser .....
func (mc *MockClient) UpdateUser(ctx context.Context, id int, form *api.UserForm) (*api.User, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAdmin(); err != nil {
		return nil, err
	}
	user, ok := mc.users[id]
	if !ok {
		return nil, notFound("User")
	}
	if err := mc.applyForm(user, form); err != nil {
		return nil, err
	}
	updated := user.user
	return &updated, nil
}

// DeleteUser .....
func (mc *MockClient) DeleteUser(ctx context.Context, id int) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAdmin(); err != nil {
		return err
	}
	if id == mc.loggedIn.user.ID {
		return badRequest("Cannot delete your own account")
	}
	if _, ok := mc.users[id]; !ok {
		return notFound("User")
	}
	delete(mc.users, id)
	return nil
}

func (mc *MockClient) recordHistory(controlID string, action string, oldStatus api.AuditStatus, newStatus api.AuditStatus, notes string) {
	entry := api.HistoryEntry{
		ControlID: controlID,
		Action:    action,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
		User:      mc.loggedIn.user.Username,
		Notes:     notes,
		Timestamp: mc.now(),
	}
	// newest first
	mc.history = append([]api.HistoryEntry{entry}, mc.history...)
}

// ListAuditResults .....
func (mc *MockClient) ListAuditResults(ctx context.Context) ([]api.AuditResult, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	results := []api.AuditResult{}
	for _, result := range mc.auditResults {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ControlID < results[j].ControlID })
	return results, nil
}

// GetAuditResult .....
func (mc *MockClient) GetAuditResult(ctx context.Context, controlID string) (*api.AuditResult, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	result, ok := mc.auditResults[controlID]
	if !ok {
		return nil, notFound("Result")
	}
	return &result, nil
}

// CreateAuditResult .....
func (mc *MockClient) CreateAuditResult(ctx context.Context, result *api.AuditResult) (*api.AuditResult, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	if _, ok := mc.auditResults[result.ControlID]; ok {
		return nil, badRequest("This control has already been evaluated")
	}
	created := *result
	if created.EvaluationDate == "" {
		created.EvaluationDate = mc.now()
	}
	if created.LinkedRisks == nil {
		created.LinkedRisks = []string{}
	}
	mc.auditResults[created.ControlID] = created
	mc.recordHistory(created.ControlID, "created", "", created.Status, created.Notes)
	return &created, nil
}

// UpdateAuditResult .....
func (mc *MockClient) UpdateAuditResult(ctx context.Context, result *api.AuditResult) (*api.AuditResult, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	previous, ok := mc.auditResults[result.ControlID]
	if !ok {
		return nil, notFound("Result")
	}
	updated := *result
	updated.EvaluationDate = mc.now()
	if updated.LinkedRisks == nil {
		updated.LinkedRisks = []string{}
	}
	mc.auditResults[updated.ControlID] = updated
	mc.recordHistory(updated.ControlID, "updated", previous.Status, updated.Status, updated.Notes)
	return &updated, nil
}

// DeleteAuditResult .....
func (mc *MockClient) DeleteAuditResult(ctx context.Context, controlID string) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return err
	}
	previous, ok := mc.auditResults[controlID]
	if !ok {
		return notFound("Result")
	}
	delete(mc.auditResults, controlID)
	mc.recordHistory(controlID, "deleted", previous.Status, "", "")
	return nil
}

// GetStatistics .....
func (mc *MockClient) GetStatistics(ctx context.Context) (*api.Statistics, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	stats := &api.Statistics{ByCategory: []api.CategoryStatistics{}}
	byCategory := map[string]*api.CategoryStatistics{}
	categories := []string{}
	for _, result := range mc.auditResults {
		category, ok := byCategory[result.Category]
		if !ok {
			category = &api.CategoryStatistics{Category: result.Category}
			byCategory[result.Category] = category
			categories = append(categories, result.Category)
		}
		stats.Total++
		switch result.Status {
		case api.AuditStatusCompliant:
			stats.Compliant++
			category.Compliant++
		case api.AuditStatusPartial:
			stats.Partial++
			category.Partial++
		case api.AuditStatusNonCompliant:
			stats.NonCompliant++
			category.NonCompliant++
		default:
			stats.NotEvaluated++
			category.NotEvaluated++
		}
	}
	sort.Strings(categories)
	for _, name := range categories {
		stats.ByCategory = append(stats.ByCategory, *byCategory[name])
	}
	if stats.Total > 0 {
		score := (float64(stats.Compliant) + 0.5*float64(stats.Partial)) / float64(stats.Total) * 100
		stats.ComplianceScore = float64(int(score*10+0.5)) / 10
	}
	return stats, nil
}

// ListRisks .....
func (mc *MockClient) ListRisks(ctx context.Context) ([]api.Risk, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	risks := make([]api.Risk, len(mc.risks))
	copy(risks, mc.risks)
	return risks, nil
}

// GetRisk .....
func (mc *MockClient) GetRisk(ctx context.Context, id string) (*api.Risk, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	for _, risk := range mc.risks {
		if risk.ID == id {
			found := risk
			return &found, nil
		}
	}
	return nil, notFound("Risk")
}

// UpdateRiskStatus .....
func (mc *MockClient) UpdateRiskStatus(ctx context.Context, id string, status api.RiskStatus) (*api.Risk, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	for i := range mc.risks {
		if mc.risks[i].ID == id {
			mc.risks[i].Status = status
			updated := mc.risks[i]
			return &updated, nil
		}
	}
	return nil, notFound("Risk")
}

// ListHistory .....
func (mc *MockClient) ListHistory(ctx context.Context, limit int) ([]api.HistoryEntry, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAdmin(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > len(mc.history) {
		limit = len(mc.history)
	}
	history := make([]api.HistoryEntry, limit)
	copy(history, mc.history[:limit])
	return history, nil
}

// ControlHistory .....
func (mc *MockClient) ControlHistory(ctx context.Context, controlID string) ([]api.HistoryEntry, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	history := []api.HistoryEntry{}
	for _, entry := range mc.history {
		if entry.ControlID == controlID {
			history = append(history, entry)
		}
	}
	return history, nil
}

// ListVulnerabilities .....
func (mc *MockClient) ListVulnerabilities(ctx context.Context) ([]api.Vulnerability, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	vulnerabilities := make([]api.Vulnerability, len(mc.vulnerabilities))
	copy(vulnerabilities, mc.vulnerabilities)
	return vulnerabilities, nil
}

// VulnerabilityStatistics .....
func (mc *MockClient) VulnerabilityStatistics(ctx context.Context) (*api.VulnerabilityStatistics, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	stats := &api.VulnerabilityStatistics{}
	for _, vulnerability := range mc.vulnerabilities {
		stats.Total++
		switch vulnerability.Criticality {
		case api.CriticalityCritical:
			stats.Critical++
		case api.CriticalityHigh:
			stats.High++
		case api.CriticalityMedium:
			stats.Medium++
		case api.CriticalityBase:
			stats.Base++
		}
	}
	return stats, nil
}

// finishScan moves a running scan to its terminal state, recording one
// finding per discovered vulnerability.
func (mc *MockClient) finishScan(ms *mockScan) {
	if !mc.tools[ms.scan.Tool] {
		ms.scan.Status = api.ScanStatusFailed
		return
	}
	found := len(mc.scans) % 4
	for i := 0; i < found; i++ {
		criticality := api.Criticalities[i%len(api.Criticalities)]
		mc.vulnerabilities = append(mc.vulnerabilities, api.Vulnerability{
			ID:          fmt.Sprintf("%s-V%d", ms.scan.ID, i+1),
			Name:        fmt.Sprintf("%s finding %d on %s", ms.scan.Tool, i+1, ms.scan.IPAddress),
			Description: fmt.Sprintf("reported by %s", ms.scan.Tool),
			Criticality: criticality,
			Status:      "open",
			CVSSScore:   api.CVSSScore(9.5 - float64(i)*2.5),
		})
	}
	ms.scan.Status = api.ScanStatusCompleted
	ms.scan.VulnerabilitiesFound = found
}

// ListScans advances every running scan by one fetch, newest first.
func (mc *MockClient) ListScans(ctx context.Context) ([]api.Scan, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	mc.listScansCount++
	scans := []api.Scan{}
	for i := len(mc.scans) - 1; i >= 0; i-- {
		ms := mc.scans[i]
		if ms.scan.Status == api.ScanStatusRunning {
			ms.fetchesPending--
			if ms.fetchesPending <= 0 {
				mc.finishScan(ms)
			}
		}
		scans = append(scans, ms.scan)
	}
	return scans, nil
}

// SubmitScan .....
func (mc *MockClient) SubmitScan(ctx context.Context, scanRequest *api.ScanRequest) (*api.Scan, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	tool := strings.ToLower(strings.TrimSpace(scanRequest.Tool))
	if _, ok := mc.tools[tool]; !ok {
		return nil, badRequest(fmt.Sprintf("Unsupported tool: %s", scanRequest.Tool))
	}
	scan := api.Scan{
		ID:        fmt.Sprintf("SCAN-%03d", len(mc.scans)+1),
		Tool:      tool,
		IPAddress: scanRequest.IPAddress,
		Network:   scanRequest.Network,
		ScanDate:  mc.now(),
		Status:    api.ScanStatusRunning,
	}
	mc.scans = append(mc.scans, &mockScan{scan: scan, fetchesPending: mc.fetchesUntilDone})
	return &scan, nil
}

// GetScan .....
func (mc *MockClient) GetScan(ctx context.Context, id string) (*api.Scan, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.checkAuth(); err != nil {
		return nil, err
	}
	for _, ms := range mc.scans {
		if ms.scan.ID == id {
			scan := ms.scan
			return &scan, nil
		}
	}
	return nil, notFound("Scan")
}

// ToolAvailability .....
func (mc *MockClient) ToolAvailability(ctx context.Context) (*api.ToolAvailability, error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	if err := mc.check(); err != nil {
		return nil, err
	}
	tools := map[string]bool{}
	for name, isAvailable := range mc.tools {
		tools[name] = isAvailable
	}
	return &api.ToolAvailability{Tools: tools, Message: "Install missing tools to enable full scanning capabilities"}, nil
}
