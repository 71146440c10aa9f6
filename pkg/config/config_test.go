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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func noEnvFile(cm *ConfigManager) *ConfigManager {
	cm.EnvFile = ""
	return cm
}

func TestDefaults(t *testing.T) {
	config, err := noEnvFile(NewConfigManager("")).GetConfig()
	require.NoError(t, err)
	assert.Equal(t, 3000*time.Millisecond, config.Timings.ScanPollPause())
	assert.Equal(t, 15*time.Second, config.Timings.ModelMetricsPause())
	assert.Equal(t, 10*time.Second, config.Backend.ClientTimeout())
	assert.Equal(t, 3010, config.Port)
	assert.Equal(t, "info", config.LogLevel)
	assert.False(t, config.UseMockMode)
	assert.Equal(t, 3, config.Mock.FetchesUntilDone)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	writeFile(t, path, `
Backend:
  URL: http://audit.internal:8000
  Username: auditor
  PasswordEnvVar: AUDIT_PASSWORD
Timings:
  ScanPollPauseMilliseconds: 1500
Port: 4000
LogLevel: debug
`)
	config, err := noEnvFile(NewConfigManager(path)).GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://audit.internal:8000", config.Backend.URL)
	assert.Equal(t, "auditor", config.Backend.Username)
	assert.Equal(t, 1500*time.Millisecond, config.Timings.ScanPollPause())
	assert.Equal(t, 4000, config.Port)
	// untouched keys keep their defaults
	assert.Equal(t, 10000, config.Backend.ClientTimeoutMilliseconds)

	t.Setenv("AUDIT_PASSWORD", "s3cret")
	password, err := config.Backend.Password()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", password)

	model := config.Model()
	assert.Equal(t, "auditor", model.Username)
	assert.Equal(t, 1500.0, config.ModelTimings().ScanPollPause.Milliseconds)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("SCOUT_BACKEND_URL", "http://from-env:8000")
	t.Setenv("SCOUT_TIMINGS_SCANPOLLPAUSEMILLISECONDS", "250")
	t.Setenv("SCOUT_USEMOCKMODE", "true")
	config, err := noEnvFile(NewConfigManager("")).GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", config.Backend.URL)
	assert.Equal(t, 250, config.Timings.ScanPollPauseMilliseconds)
	assert.True(t, config.UseMockMode)
}

func TestEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	writeFile(t, envFile, "SCOUT_PORT=5050\nSCOUT_LOGLEVEL=warn\n")
	t.Setenv("SCOUT_LOGLEVEL", "error")
	defer os.Unsetenv("SCOUT_PORT")

	cm := NewConfigManager("")
	cm.EnvFile = envFile
	config, err := cm.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, 5050, config.Port)
	// the real environment wins over the env file
	assert.Equal(t, "error", config.LogLevel)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	writeFile(t, path, "Timings:\n  ScanPollPauseMilliseconds: 0\n")
	_, err := noEnvFile(NewConfigManager(path)).GetConfig()
	assert.Error(t, err)

	writeFile(t, path, "LogLevel: chatty\n")
	_, err = noEnvFile(NewConfigManager(path)).GetConfig()
	assert.Error(t, err)

	_, err = noEnvFile(NewConfigManager(filepath.Join(t.TempDir(), "missing.yaml"))).GetConfig()
	assert.Error(t, err)

	config, err := noEnvFile(NewConfigManager("")).GetConfig()
	require.NoError(t, err)
	config.Backend.PasswordEnvVar = "SCOUT_TEST_UNSET_PASSWORD"
	_, err = config.Backend.Password()
	assert.Error(t, err)
}

func TestStartWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	writeFile(t, path, "Timings:\n  ScanPollPauseMilliseconds: 3000\n")
	cm := noEnvFile(NewConfigManager(path))
	_, err := cm.GetConfig()
	require.NoError(t, err)

	changes := make(chan *Config, 10)
	cm.StartWatch(func(config *Config, err error) {
		if err == nil {
			changes <- config
		}
	})
	writeFile(t, path, "Timings:\n  ScanPollPauseMilliseconds: 1000\n")
	timeout := time.After(5 * time.Second)
	for {
		select {
		case config := <-changes:
			// editors and os.WriteFile may produce an intermediate empty file
			if config.Timings.ScanPollPauseMilliseconds == 1000 {
				return
			}
		case <-timeout:
			t.Fatal("no config change observed")
		}
	}
}
