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

package scout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/config"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/Manitriniaina2002/scout/pkg/server"
	"github.com/Manitriniaina2002/scout/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockConfig() *config.Config {
	return &config.Config{
		Backend:     &config.Backend{ClientTimeoutMilliseconds: 1000},
		Timings:     &config.Timings{ScanPollPauseMilliseconds: 50},
		Storage:     &config.Storage{Path: ":memory:"},
		Mock:        &config.Mock{FetchesUntilDone: 2},
		Port:        3010,
		LogLevel:    "info",
		UseMockMode: true,
	}
}

func TestScoutMockMode(t *testing.T) {
	ctx := context.Background()
	recorder := notify.NewRecorder()
	scout := NewScoutWithStore(mockConfig(), storage.NewMemoryStore(), recorder)
	defer scout.Close()

	user, err := scout.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
	require.NoError(t, scout.ScanView.Mount(ctx))

	_, err = scout.ScanView.SubmitScan(ctx, &api.ScanRequest{Tool: "nmap", IPAddress: "10.1.1.1"})
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return len(recorder.OfKind(api.NotificationKindSuccess)) == 2
	}, 2*time.Second, 10*time.Millisecond, "login and scan completion toasts")

	model := scout.Model()
	assert.True(t, model.ScanView.IsMounted)
	assert.True(t, model.Config.UseMockMode)
	assert.Equal(t, 50.0, model.Timings.ScanPollPause.Milliseconds)
	assert.Equal(t, 0, model.Notifications.ConnectedPeers)

	scout.ApplyConfig(&config.Config{
		Backend:     &config.Backend{ClientTimeoutMilliseconds: 2000},
		Timings:     &config.Timings{ScanPollPauseMilliseconds: 75},
		Storage:     &config.Storage{Path: ":memory:"},
		Mock:        &config.Mock{FetchesUntilDone: 2},
		Port:        3010,
		LogLevel:    "debug",
		UseMockMode: true,
	})
	assert.Equal(t, 75.0, scout.Model().Timings.ScanPollPause.Milliseconds)

	require.NoError(t, scout.Close())
	require.NoError(t, scout.Close())
}

func TestScoutRequiresCredentials(t *testing.T) {
	cfg := mockConfig()
	cfg.UseMockMode = false
	cfg.Backend.URL = "http://127.0.0.1:1"
	scout := NewScoutWithStore(cfg, storage.NewMemoryStore(), nil)
	defer scout.Close()
	_, err := scout.EnsureSession(context.Background())
	assert.Error(t, err)
}

func TestNewScoutOpensSQLiteStore(t *testing.T) {
	cfg := mockConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "scout.db")
	scout, err := NewScout(cfg, nil)
	require.NoError(t, err)
	_, err = scout.EnsureSession(context.Background())
	require.NoError(t, err)
	require.NoError(t, scout.Close())

	// the token survives a restart
	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	require.NoError(t, err)
	defer store.Close()
	assert.NotEqual(t, "", storage.NewSessionStore(store).Token())
}

func TestHTTPResponder(t *testing.T) {
	ctx := context.Background()
	scout := NewScoutWithStore(mockConfig(), storage.NewMemoryStore(), nil)
	defer scout.Close()
	_, err := scout.EnsureSession(ctx)
	require.NoError(t, err)
	require.NoError(t, scout.ScanView.Mount(ctx))

	mux := http.NewServeMux()
	server.SetupHTTPServer(mux, NewHTTPResponder(scout))
	httpServer := httptest.NewServer(mux)
	defer httpServer.Close()

	resp, err := http.Post(httpServer.URL+"/scans", "application/json", strings.NewReader(`{"tool":"sslscan","ipAddress":"10.2.2.2"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 201, resp.StatusCode)

	resp, err = http.Post(httpServer.URL+"/scans", "application/json", strings.NewReader(`{"tool":"metasploit","ipAddress":"10.2.2.2"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = http.Get(httpServer.URL + "/model")
	require.NoError(t, err)
	defer resp.Body.Close()
	model := &api.Model{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(model))
	assert.Len(t, model.ScanView.Scans, 1)

	resp, err = http.Get(httpServer.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}
