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
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/util"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// maxRequestBytes bounds the request bodies accepted by the console.
const maxRequestBytes = 1 << 20

func writeJSON(responder Responder, w http.ResponseWriter, r *http.Request, statusCode int, obj interface{}) {
	jsonBytes, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		responder.Error(w, r, err, 500)
		return
	}
	header := w.Header()
	header.Set(http.CanonicalHeaderKey("content-type"), "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprint(w, string(jsonBytes))
}

// SetupHTTPServer registers the console's endpoints on `mux`.
func SetupHTTPServer(mux *http.ServeMux, responder Responder) {
	mux.Handle("/metrics", promhttp.Handler())

	// state of the program
	mux.HandleFunc("/model", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			log.Debugf("http request: GET model")
			writeJSON(responder, w, r, 200, responder.GetModel())
		} else {
			responder.NotFound(w, r)
		}
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			health, err := responder.Health(r.Context())
			if err != nil {
				responder.Error(w, r, err, 503)
				return
			}
			writeJSON(responder, w, r, 200, health)
		} else {
			responder.NotFound(w, r)
		}
	})

	mux.HandleFunc("/scans", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			log.Debugf("http request: GET scans")
			scans, err := responder.GetScans()
			if err != nil {
				responder.Error(w, r, err, StatusCode(err))
				return
			}
			writeJSON(responder, w, r, 200, scans)
		case "POST":
			log.Debugf("http request: POST scans")
			body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
			if err != nil {
				responder.Error(w, r, err, 400)
				return
			}
			var request api.ScanRequest
			err = json.Unmarshal(body, &request)
			if err != nil {
				responder.Error(w, r, err, 400)
				return
			}
			scan, err := responder.SubmitScan(r.Context(), &request)
			if err != nil {
				responder.Error(w, r, err, StatusCode(err))
				return
			}
			writeJSON(responder, w, r, 201, scan)
		default:
			responder.NotFound(w, r)
		}
	})

	mux.HandleFunc("/scans/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			log.Debugf("http request: POST scans/refresh")
			if err := responder.RefreshScans(r.Context()); err != nil {
				responder.Error(w, r, err, StatusCode(err))
				return
			}
			w.WriteHeader(204)
		} else {
			responder.NotFound(w, r)
		}
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			responder.ServeWS(w, r)
		} else {
			responder.NotFound(w, r)
		}
	})

	mux.HandleFunc("/stackdump", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "GET" {
			log.Debugf("http request: GET stackdump")
			writeJSON(responder, w, r, 200, util.DumpStack())
		} else {
			responder.NotFound(w, r)
		}
	})
}

// NewServer builds an http.Server for the console on `port`.
func NewServer(port int, responder Responder) *http.Server {
	mux := http.NewServeMux()
	SetupHTTPServer(mux, responder)
	return &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
}
