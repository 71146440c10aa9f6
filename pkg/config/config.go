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

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	log "github.com/sirupsen/logrus"
)

// Backend configures the audit REST backend
type Backend struct {
	URL                       string
	ClientTimeoutMilliseconds int
	Username                  string
	PasswordEnvVar            string
}

// ClientTimeout ...
func (b *Backend) ClientTimeout() time.Duration {
	return time.Duration(b.ClientTimeoutMilliseconds) * time.Millisecond
}

// Password reads the password from the environment variable named by PasswordEnvVar.
func (b *Backend) Password() (string, error) {
	if b.PasswordEnvVar == "" {
		return "", fmt.Errorf("no password environment variable configured")
	}
	password, ok := os.LookupEnv(b.PasswordEnvVar)
	if !ok {
		return "", fmt.Errorf("cannot find backend password: environment variable %s not found", b.PasswordEnvVar)
	}
	return password, nil
}

// Timings ...
type Timings struct {
	ScanPollPauseMilliseconds int
	ModelMetricsPauseSeconds  int
}

// ScanPollPause ...
func (t *Timings) ScanPollPause() time.Duration {
	return time.Duration(t.ScanPollPauseMilliseconds) * time.Millisecond
}

// ModelMetricsPause ...
func (t *Timings) ModelMetricsPause() time.Duration {
	return time.Duration(t.ModelMetricsPauseSeconds) * time.Second
}

// Storage ...
type Storage struct {
	Path string
}

// Mock configures the in-memory backend used when UseMockMode is set.
type Mock struct {
	FetchesUntilDone int
}

// Config ...
type Config struct {
	Backend     *Backend
	Timings     *Timings
	Storage     *Storage
	Mock        *Mock
	Port        int
	LogLevel    string
	UseMockMode bool
}

// Validate .....
func (config *Config) Validate() error {
	if !config.UseMockMode && config.Backend.URL == "" {
		return fmt.Errorf("Backend.URL is required unless UseMockMode is set")
	}
	if config.Timings.ScanPollPauseMilliseconds <= 0 {
		return fmt.Errorf("Timings.ScanPollPauseMilliseconds must be positive, was %d", config.Timings.ScanPollPauseMilliseconds)
	}
	if config.Backend.ClientTimeoutMilliseconds <= 0 {
		return fmt.Errorf("Backend.ClientTimeoutMilliseconds must be positive, was %d", config.Backend.ClientTimeoutMilliseconds)
	}
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid Port %d", config.Port)
	}
	if _, err := config.GetLogLevel(); err != nil {
		return err
	}
	return nil
}

// GetLogLevel .....
func (config *Config) GetLogLevel() (log.Level, error) {
	return log.ParseLevel(config.LogLevel)
}

// Model .....
func (config *Config) Model() *api.ModelConfig {
	return &api.ModelConfig{
		BackendURL:  config.Backend.URL,
		Username:    config.Backend.Username,
		Port:        config.Port,
		LogLevel:    config.LogLevel,
		UseMockMode: config.UseMockMode,
		StoragePath: config.Storage.Path,
	}
}

// ModelTimings .....
func (config *Config) ModelTimings() *api.ModelTimings {
	return &api.ModelTimings{
		BackendClientTimeout: *api.NewModelTime(config.Backend.ClientTimeout()),
		ScanPollPause:        *api.NewModelTime(config.Timings.ScanPollPause()),
		ModelMetricsPause:    *api.NewModelTime(config.Timings.ModelMetricsPause()),
	}
}

// Dump .....
func (config *Config) Dump() (string, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
