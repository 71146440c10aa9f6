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

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/console"
	"github.com/Manitriniaina2002/scout/pkg/validation"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, responder Responder) *httptest.Server {
	mux := http.NewServeMux()
	SetupHTTPServer(mux, responder)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestScansEndpoint(t *testing.T) {
	responder := NewMockResponder()
	server := newTestServer(t, responder)

	resp, err := http.Post(server.URL+"/scans", "application/json", strings.NewReader(`{"tool":"nmap","ipAddress":"10.0.0.1","network":"10.0.0.0/24"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 201, resp.StatusCode)
	var scan api.Scan
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&scan))
	assert.Equal(t, "SCAN-001", scan.ID)
	assert.Equal(t, api.ScanStatusRunning, scan.Status)

	resp, err = http.Post(server.URL+"/scans", "application/json", strings.NewReader(`{"tool":"nmap","ipAddress":"nope"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)
	body := map[string]string{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid IP address: nope", body["detail"])

	resp, err = http.Post(server.URL+"/scans", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = http.Get(server.URL + "/scans")
	require.NoError(t, err)
	defer resp.Body.Close()
	scans := []api.Scan{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&scans))
	assert.Len(t, scans, 1)
}

func TestModelHealthAndStackdump(t *testing.T) {
	server := newTestServer(t, NewMockResponder())
	for _, path := range []string{"/model", "/healthz", "/stackdump", "/metrics"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode, path)
	}

	resp, err := http.Post(server.URL+"/model", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = http.Post(server.URL+"/scans/refresh", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 204, resp.StatusCode)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 400, StatusCode(&validation.Error{Field: "tool", Message: "tool is required"}))
	assert.Equal(t, 401, StatusCode(errors.Annotate(backend.ErrUnauthorized, "list scans")))
	assert.Equal(t, 503, StatusCode(console.ErrUnmounted))
	assert.Equal(t, 409, StatusCode(&backend.APIError{StatusCode: 409, Detail: "conflict"}))
	assert.Equal(t, 500, StatusCode(fmt.Errorf("boom")))
	assert.Equal(t, 500, StatusCode(context.Canceled))
}
