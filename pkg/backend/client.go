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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

const (
	maxBackendExponentialBackoffDuration = 5 * time.Minute
)

// Client talks to the audit REST backend.  Every request goes through the
// circuit breaker and carries the bearer token from `tokens`.
type Client struct {
	host           string
	httpClient     *http.Client
	tokens         TokenStore
	circuitBreaker *CircuitBreaker
}

// NewClient .....
func NewClient(host string, timeout time.Duration, tokens TokenStore) *Client {
	return &Client{
		host:           strings.TrimRight(host, "/"),
		httpClient:     &http.Client{Timeout: timeout},
		tokens:         tokens,
		circuitBreaker: NewCircuitBreaker(maxBackendExponentialBackoffDuration),
	}
}

// Host .....
func (client *Client) Host() string {
	return client.host
}

// SetTimeout .....
func (client *Client) SetTimeout(timeout time.Duration) {
	client.httpClient.Timeout = timeout
}

// CircuitBreakerModel .....
func (client *Client) CircuitBreakerModel() *api.ModelCircuitBreaker {
	return client.circuitBreaker.Model()
}

// ResetCircuitBreaker .....
func (client *Client) ResetCircuitBreaker() {
	client.circuitBreaker.Reset()
}

type request struct {
	name          string
	method        string
	path          string
	body          interface{}
	result        interface{}
	authenticated bool
}

func (client *Client) issue(ctx context.Context, req *request) error {
	return client.circuitBreaker.IssueRequest(req.name, func() error {
		return client.send(ctx, req)
	})
}

func (client *Client) send(ctx context.Context, req *request) error {
	var body io.Reader
	if req.body != nil {
		jsonBytes, err := json.Marshal(req.body)
		if err != nil {
			return errors.Annotatef(err, "unable to marshal %s request", req.name)
		}
		body = bytes.NewReader(jsonBytes)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, client.host+req.path, body)
	if err != nil {
		return errors.Annotatef(err, "unable to create %s request", req.name)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.authenticated && client.tokens != nil {
		if token := client.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := client.httpClient.Do(httpReq)
	if err != nil {
		return errors.Annotatef(err, "unable to issue %s request to %s", req.name, client.host)
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Annotatef(err, "unable to read %s response", req.name)
	}
	if resp.StatusCode == http.StatusUnauthorized && req.authenticated {
		recordUnauthorized()
		log.Warnf("%s: backend rejected the session token, clearing it", req.name)
		if client.tokens != nil {
			if clearErr := client.tokens.Clear(); clearErr != nil {
				log.Errorf("unable to clear stored token: %s", clearErr.Error())
			}
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, respBytes)
	}
	if req.result == nil || len(bytes.TrimSpace(respBytes)) == 0 {
		return nil
	}
	if err = json.Unmarshal(respBytes, req.result); err != nil {
		return errors.Annotatef(err, "unable to decode %s response", req.name)
	}
	return nil
}

func (client *Client) get(ctx context.Context, name string, path string, result interface{}) error {
	return client.issue(ctx, &request{name: name, method: http.MethodGet, path: path, result: result, authenticated: true})
}

func (client *Client) modify(ctx context.Context, name string, method string, path string, body interface{}, result interface{}) error {
	return client.issue(ctx, &request{name: name, method: method, path: path, body: body, result: result, authenticated: true})
}

// Health .....
func (client *Client) Health(ctx context.Context) (*api.Health, error) {
	health := &api.Health{}
	err := client.issue(ctx, &request{name: "health", method: http.MethodGet, path: "/api/health", result: health})
	if err != nil {
		return nil, err
	}
	return health, nil
}

// Login exchanges credentials for a token.  A 401 here means bad
// credentials, so it comes back as an *APIError rather than ErrUnauthorized.
func (client *Client) Login(ctx context.Context, username string, password string) (*api.Token, error) {
	token := &api.Token{}
	err := client.issue(ctx, &request{
		name:   "login",
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   &api.LoginRequest{Username: username, Password: password},
		result: token,
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// CurrentUser .....
func (client *Client) CurrentUser(ctx context.Context) (*api.User, error) {
	user := &api.User{}
	if err := client.get(ctx, "currentUser", "/api/auth/me", user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile .....
func (client *Client) UpdateProfile(ctx context.Context, form *api.UserForm) (*api.User, error) {
	user := &api.User{}
	if err := client.modify(ctx, "updateProfile", http.MethodPut, "/api/auth/me", form, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword .....
func (client *Client) ChangePassword(ctx context.Context, change *api.PasswordChange) error {
	return client.modify(ctx, "changePassword", http.MethodPut, "/api/auth/me/password", change, &api.Message{})
}

// ListUsers .....
func (client *Client) ListUsers(ctx context.Context) ([]api.User, error) {
	users := []api.User{}
	if err := client.get(ctx, "listUsers", "/api/auth/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser .....
func (client *Client) CreateUser(ctx context.Context, form *api.UserForm) (*api.User, error) {
	user := &api.User{}
	if err := client.modify(ctx, "createUser", http.MethodPost, "/api/auth/users", form, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser .....
func (client *Client) UpdateUser(ctx context.Context, id int, form *api.UserForm) (*api.User, error) {
	user := &api.User{}
	if err := client.modify(ctx, "updateUser", http.MethodPut, "/api/auth/users/"+strconv.Itoa(id), form, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser .....
func (client *Client) DeleteUser(ctx context.Context, id int) error {
	return client.modify(ctx, "deleteUser", http.MethodDelete, "/api/auth/users/"+strconv.Itoa(id), nil, &api.Message{})
}

// ListAuditResults .....
func (client *Client) ListAuditResults(ctx context.Context) ([]api.AuditResult, error) {
	list := &api.AuditResultList{}
	if err := client.get(ctx, "listAuditResults", "/api/audit-results", list); err != nil {
		return nil, err
	}
	if list.Results == nil {
		return []api.AuditResult{}, nil
	}
	return list.Results, nil
}

// GetAuditResult .....
func (client *Client) GetAuditResult(ctx context.Context, controlID string) (*api.AuditResult, error) {
	result := &api.AuditResult{}
	if err := client.get(ctx, "getAuditResult", "/api/audit-results/"+url.PathEscape(controlID), result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateAuditResult .....
func (client *Client) CreateAuditResult(ctx context.Context, result *api.AuditResult) (*api.AuditResult, error) {
	created := &api.AuditResult{}
	if err := client.modify(ctx, "createAuditResult", http.MethodPost, "/api/audit-results", result, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateAuditResult .....
func (client *Client) UpdateAuditResult(ctx context.Context, result *api.AuditResult) (*api.AuditResult, error) {
	updated := &api.AuditResult{}
	path := "/api/audit-results/" + url.PathEscape(result.ControlID)
	if err := client.modify(ctx, "updateAuditResult", http.MethodPut, path, result, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteAuditResult .....
func (client *Client) DeleteAuditResult(ctx context.Context, controlID string) error {
	return client.modify(ctx, "deleteAuditResult", http.MethodDelete, "/api/audit-results/"+url.PathEscape(controlID), nil, &api.Message{})
}

// GetStatistics .....
func (client *Client) GetStatistics(ctx context.Context) (*api.Statistics, error) {
	stats := &api.Statistics{}
	if err := client.get(ctx, "getStatistics", "/api/statistics", stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListRisks .....
func (client *Client) ListRisks(ctx context.Context) ([]api.Risk, error) {
	list := &api.RiskList{}
	if err := client.get(ctx, "listRisks", "/api/risks", list); err != nil {
		return nil, err
	}
	if list.Risks == nil {
		return []api.Risk{}, nil
	}
	return list.Risks, nil
}

// GetRisk .....
func (client *Client) GetRisk(ctx context.Context, id string) (*api.Risk, error) {
	risk := &api.Risk{}
	if err := client.get(ctx, "getRisk", "/api/risks/"+url.PathEscape(id), risk); err != nil {
		return nil, err
	}
	return risk, nil
}

// UpdateRiskStatus .....
func (client *Client) UpdateRiskStatus(ctx context.Context, id string, status api.RiskStatus) (*api.Risk, error) {
	risk := &api.Risk{}
	path := fmt.Sprintf("/api/risks/%s/status", url.PathEscape(id))
	if err := client.modify(ctx, "updateRiskStatus", http.MethodPut, path, &api.RiskStatusUpdate{Status: status}, risk); err != nil {
		return nil, err
	}
	return risk, nil
}

// ListHistory .....
func (client *Client) ListHistory(ctx context.Context, limit int) ([]api.HistoryEntry, error) {
	path := "/api/history"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	list := &api.HistoryList{}
	if err := client.get(ctx, "listHistory", path, list); err != nil {
		return nil, err
	}
	if list.History == nil {
		return []api.HistoryEntry{}, nil
	}
	return list.History, nil
}

// ControlHistory .....
func (client *Client) ControlHistory(ctx context.Context, controlID string) ([]api.HistoryEntry, error) {
	list := &api.HistoryList{}
	if err := client.get(ctx, "controlHistory", "/api/history/"+url.PathEscape(controlID), list); err != nil {
		return nil, err
	}
	if list.History == nil {
		return []api.HistoryEntry{}, nil
	}
	return list.History, nil
}

// ListVulnerabilities .....
func (client *Client) ListVulnerabilities(ctx context.Context) ([]api.Vulnerability, error) {
	vulnerabilities := []api.Vulnerability{}
	if err := client.get(ctx, "listVulnerabilities", "/api/vulnerabilities", &vulnerabilities); err != nil {
		return nil, err
	}
	return vulnerabilities, nil
}

// VulnerabilityStatistics .....
func (client *Client) VulnerabilityStatistics(ctx context.Context) (*api.VulnerabilityStatistics, error) {
	stats := &api.VulnerabilityStatistics{}
	if err := client.get(ctx, "vulnerabilityStatistics", "/api/vulnerabilities/statistics", stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListScans fetches the full scan history.
func (client *Client) ListScans(ctx context.Context) ([]api.Scan, error) {
	scans := []api.Scan{}
	if err := client.get(ctx, "listScans", "/api/scan-history", &scans); err != nil {
		return nil, err
	}
	return scans, nil
}

// SubmitScan starts a scan; the backend answers with the new record in `running` state.
func (client *Client) SubmitScan(ctx context.Context, scanRequest *api.ScanRequest) (*api.Scan, error) {
	scan := &api.Scan{}
	if err := client.modify(ctx, "submitScan", http.MethodPost, "/api/scan-history", scanRequest, scan); err != nil {
		return nil, err
	}
	return scan, nil
}

// GetScan .....
func (client *Client) GetScan(ctx context.Context, id string) (*api.Scan, error) {
	scan := &api.Scan{}
	if err := client.get(ctx, "getScan", "/api/scan-history/"+url.PathEscape(id), scan); err != nil {
		return nil, err
	}
	return scan, nil
}

// ToolAvailability .....
func (client *Client) ToolAvailability(ctx context.Context) (*api.ToolAvailability, error) {
	availability := &api.ToolAvailability{}
	if err := client.get(ctx, "toolAvailability", "/api/tools/availability", availability); err != nil {
		return nil, err
	}
	return availability, nil
}
