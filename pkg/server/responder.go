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

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/console"
	"github.com/Manitriniaina2002/scout/pkg/validation"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

// Responder .....
type Responder interface {
	GetModel() *api.Model
	Health(ctx context.Context) (*api.Health, error)
	// scans
	GetScans() ([]api.Scan, error)
	SubmitScan(ctx context.Context, request *api.ScanRequest) (*api.Scan, error)
	RefreshScans(ctx context.Context) error
	// notifications
	ServeWS(w http.ResponseWriter, r *http.Request)
	// errors
	NotFound(w http.ResponseWriter, r *http.Request)
	Error(w http.ResponseWriter, r *http.Request, err error, statusCode int)
}

// StatusCode maps an error from the console onto the status code to answer with.
func StatusCode(err error) int {
	cause := errors.Cause(err)
	switch {
	case validation.IsValidationError(cause):
		return 400
	case backend.IsUnauthorized(err):
		return 401
	case cause == console.ErrUnmounted:
		return 503
	}
	if apiError, ok := cause.(*backend.APIError); ok {
		return apiError.StatusCode
	}
	return 500
}

type errorBody struct {
	Detail string `json:"detail"`
}

// ErrorResponder writes errors the way the audit backend does: a JSON body
// with a `detail` message.
type ErrorResponder struct{}

// NotFound .....
func (er *ErrorResponder) NotFound(w http.ResponseWriter, r *http.Request) {
	log.Errorf("HTTPResponder not found from request %+v", r)
	http.NotFound(w, r)
}

// Error .....
func (er *ErrorResponder) Error(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	log.Errorf("HTTPResponder error %s with code %d from request %+v", err.Error(), statusCode, r)
	w.Header().Set(http.CanonicalHeaderKey("content-type"), "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(&errorBody{Detail: err.Error()})
}

// MockResponder ...
type MockResponder struct {
	ErrorResponder
	Scans []api.Scan
}

// NewMockResponder ...
func NewMockResponder() *MockResponder {
	return &MockResponder{Scans: []api.Scan{}}
}

// GetModel ...
func (mr *MockResponder) GetModel() *api.Model {
	return &api.Model{
		ScanView: &api.ModelScanView{IsMounted: true, Scans: mr.Scans, RunningScanIDs: api.RunningScanIDs(mr.Scans)},
	}
}

// Health ...
func (mr *MockResponder) Health(ctx context.Context) (*api.Health, error) {
	return &api.Health{Status: "healthy", Database: "connected"}, nil
}

// GetScans ...
func (mr *MockResponder) GetScans() ([]api.Scan, error) {
	return mr.Scans, nil
}

// SubmitScan ...
func (mr *MockResponder) SubmitScan(ctx context.Context, request *api.ScanRequest) (*api.Scan, error) {
	if err := validation.ScanRequest(request); err != nil {
		return nil, err
	}
	scan := api.Scan{ID: fmt.Sprintf("SCAN-%03d", len(mr.Scans)+1), Tool: request.Tool, IPAddress: request.IPAddress, Network: request.Network, Status: api.ScanStatusRunning}
	mr.Scans = append([]api.Scan{scan}, mr.Scans...)
	return &scan, nil
}

// RefreshScans ...
func (mr *MockResponder) RefreshScans(ctx context.Context) error {
	return nil
}

// ServeWS ...
func (mr *MockResponder) ServeWS(w http.ResponseWriter, r *http.Request) {
	mr.NotFound(w, r)
}
