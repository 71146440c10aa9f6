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
	"sync"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/catalog"
	"github.com/Manitriniaina2002/scout/pkg/config"
	"github.com/Manitriniaina2002/scout/pkg/console"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/Manitriniaina2002/scout/pkg/storage"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

const (
	mockUsername = "admin"
	mockPassword = "admin123"
)

// Scout wires the backend, the persisted session and the console pages
// together.
type Scout struct {
	mutex    sync.RWMutex
	config   *config.Config
	store    storage.Store
	client   backend.ClientInterface
	hub      *notify.Hub
	notifier notify.Notifier
	stop      chan struct{}
	closeOnce sync.Once
	// pages
	Session         *console.Session
	ScanView        *console.ScanView
	Users           *console.Users
	Controls        *console.Controls
	Risks           *console.Risks
	History         *console.History
	Vulnerabilities *console.Vulnerabilities
	Dashboard       *console.Dashboard
}

// NewScout creates a Scout.  `extra`, if not nil, also receives every
// notification.
func NewScout(cfg *config.Config, extra notify.Notifier) (*Scout, error) {
	store, err := storage.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to open client storage at %s", cfg.Storage.Path)
	}
	return newScoutHelper(cfg, store, extra), nil
}

// NewScoutWithStore is NewScout over an existing store.
func NewScoutWithStore(cfg *config.Config, store storage.Store, extra notify.Notifier) *Scout {
	return newScoutHelper(cfg, store, extra)
}

func newScoutHelper(cfg *config.Config, store storage.Store, extra notify.Notifier) *Scout {
	sessions := storage.NewSessionStore(store)

	// 1. chose a backend: real or mock
	var client backend.ClientInterface
	if cfg.UseMockMode {
		client = backend.NewMockClient(cfg.Mock.FetchesUntilDone)
		log.Info("instantiated backend in mock mode")
	} else {
		client = backend.NewClient(cfg.Backend.URL, cfg.Backend.ClientTimeout(), sessions)
		log.Infof("instantiated backend client for %s", cfg.Backend.URL)
	}

	// 2. notifications go to the log, the browsers, and wherever the caller wants
	stop := make(chan struct{})
	hub := notify.NewHub(stop)
	notifiers := notify.Multi{&notify.LogNotifier{}, hub}
	if extra != nil {
		notifiers = append(notifiers, extra)
	}

	// 3. the pages
	session := console.NewSession(client, notifiers, sessions)
	view := console.NewScanView(client, notifiers, console.ScanViewConfig{
		PollPause:         cfg.Timings.ScanPollPause(),
		ModelMetricsPause: cfg.Timings.ModelMetricsPause(),
	})
	return &Scout{
		config:          cfg,
		store:           store,
		client:          client,
		hub:             hub,
		notifier:        notifiers,
		stop:            stop,
		Session:         session,
		ScanView:        view,
		Users:           console.NewUsers(session),
		Controls:        console.NewControls(client, notifiers, catalog.Default(), session),
		Risks:           console.NewRisks(client, notifiers),
		History:         console.NewHistory(client, notifiers),
		Vulnerabilities: console.NewVulnerabilities(client, notifiers),
		Dashboard:       console.NewDashboard(client, notifiers),
	}
}

// Client .....
func (scout *Scout) Client() backend.ClientInterface {
	return scout.client
}

// Hub .....
func (scout *Scout) Hub() *notify.Hub {
	return scout.hub
}

// EnsureSession restores the persisted session, falling back to logging in
// with the configured credentials.
func (scout *Scout) EnsureSession(ctx context.Context) (*api.User, error) {
	user, err := scout.Session.Restore(ctx)
	if err == nil {
		return user, nil
	}
	log.Debugf("no usable stored session: %s", err.Error())
	username, password, err := scout.credentials()
	if err != nil {
		return nil, err
	}
	return scout.Session.Login(ctx, username, password)
}

func (scout *Scout) currentConfig() *config.Config {
	scout.mutex.RLock()
	defer scout.mutex.RUnlock()
	return scout.config
}

func (scout *Scout) credentials() (string, string, error) {
	cfg := scout.currentConfig()
	if cfg.UseMockMode && cfg.Backend.Username == "" {
		return mockUsername, mockPassword, nil
	}
	if cfg.Backend.Username == "" {
		return "", "", errors.Annotate(console.ErrNotLoggedIn, "no stored session and no Backend.Username configured")
	}
	password, err := cfg.Backend.Password()
	if err != nil {
		return "", "", err
	}
	return cfg.Backend.Username, password, nil
}

// ApplyConfig picks up the settings which can change while running.
func (scout *Scout) ApplyConfig(cfg *config.Config) {
	scout.ScanView.SetPollPause(cfg.Timings.ScanPollPause())
	if cfg.Timings.ModelMetricsPauseSeconds > 0 {
		scout.ScanView.SetModelMetricsPause(cfg.Timings.ModelMetricsPause())
	}
	if client, ok := scout.client.(*backend.Client); ok {
		client.SetTimeout(cfg.Backend.ClientTimeout())
	}
	scout.mutex.Lock()
	scout.config = cfg
	scout.mutex.Unlock()
	log.Infof("applied config: poll pause %s, client timeout %s", cfg.Timings.ScanPollPause(), cfg.Backend.ClientTimeout())
}

// Model .....
func (scout *Scout) Model() *api.Model {
	cfg := scout.currentConfig()
	return &api.Model{
		ScanView:       scout.ScanView.Model(),
		Config:         cfg.Model(),
		Timings:        cfg.ModelTimings(),
		CircuitBreaker: scout.client.CircuitBreakerModel(),
		Notifications: &api.ModelNotifications{
			Emitted:        scout.ScanView.NotificationsEmitted(),
			ConnectedPeers: scout.hub.ConnectedPeers(),
		},
	}
}

// Close unmounts the scan view and releases the store.
func (scout *Scout) Close() error {
	var err error
	scout.closeOnce.Do(func() {
		scout.ScanView.Unmount()
		close(scout.stop)
		err = scout.store.Close()
	})
	return err
}
