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
	"net/http"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/server"
)

const healthTimeout = 5 * time.Second

// HTTPResponder serves the console's HTTP endpoints from a Scout.
type HTTPResponder struct {
	server.ErrorResponder
	scout *Scout
}

// NewHTTPResponder .....
func NewHTTPResponder(scout *Scout) *HTTPResponder {
	return &HTTPResponder{scout: scout}
}

// GetModel .....
func (hr *HTTPResponder) GetModel() *api.Model {
	return hr.scout.Model()
}

// Health asks the backend whether it is up.
func (hr *HTTPResponder) Health(ctx context.Context) (*api.Health, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	return hr.scout.client.Health(ctx)
}

// GetScans .....
func (hr *HTTPResponder) GetScans() ([]api.Scan, error) {
	return hr.scout.ScanView.Scans()
}

// SubmitScan .....
func (hr *HTTPResponder) SubmitScan(ctx context.Context, request *api.ScanRequest) (*api.Scan, error) {
	return hr.scout.ScanView.SubmitScan(ctx, request)
}

// RefreshScans .....
func (hr *HTTPResponder) RefreshScans(ctx context.Context) error {
	return hr.scout.ScanView.Refresh(ctx)
}

// ServeWS .....
func (hr *HTTPResponder) ServeWS(w http.ResponseWriter, r *http.Request) {
	hr.scout.hub.ServeWS(w, r)
}
