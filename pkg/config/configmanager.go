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
	"strings"
	"sync"

	fsnotify "github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name, e.g.
// SCOUT_BACKEND_URL or SCOUT_TIMINGS_SCANPOLLPAUSEMILLISECONDS.
const EnvPrefix = "SCOUT"

// DefaultEnvFile is loaded, if it exists, before the environment is read.
const DefaultEnvFile = ".env"

var envKeys = []string{
	"Backend.URL",
	"Backend.ClientTimeoutMilliseconds",
	"Backend.Username",
	"Backend.PasswordEnvVar",
	"Timings.ScanPollPauseMilliseconds",
	"Timings.ModelMetricsPauseSeconds",
	"Storage.Path",
	"Mock.FetchesUntilDone",
	"Port",
	"LogLevel",
	"UseMockMode",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Backend.URL", "http://localhost:8000")
	v.SetDefault("Backend.ClientTimeoutMilliseconds", 10000)
	v.SetDefault("Backend.PasswordEnvVar", "SCOUT_PASSWORD")
	v.SetDefault("Timings.ScanPollPauseMilliseconds", 3000)
	v.SetDefault("Timings.ModelMetricsPauseSeconds", 15)
	v.SetDefault("Storage.Path", "scout.db")
	v.SetDefault("Mock.FetchesUntilDone", 3)
	v.SetDefault("Port", 3010)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("UseMockMode", false)
}

// ConfigManager handles:
//   - getting initial config
//   - reporting ongoing changes to config
type ConfigManager struct {
	ConfigPath string
	EnvFile    string
	mutex      sync.Mutex
	v          *viper.Viper
}

// NewConfigManager reads from `configPath` if it is set, and from the
// environment otherwise.
func NewConfigManager(configPath string) *ConfigManager {
	cm := &ConfigManager{
		ConfigPath: configPath,
		EnvFile:    DefaultEnvFile,
		v:          viper.New(),
	}
	setDefaults(cm.v)
	return cm
}

func (cm *ConfigManager) loadEnvFile() error {
	if cm.EnvFile == "" {
		return nil
	}
	if _, err := os.Stat(cm.EnvFile); os.IsNotExist(err) {
		return nil
	}
	// variables already set in the environment win
	if err := godotenv.Load(cm.EnvFile); err != nil {
		return errors.Annotatef(err, "unable to load env file %s", cm.EnvFile)
	}
	log.Debugf("loaded environment from %s", cm.EnvFile)
	return nil
}

// GetConfig returns a configuration object to configure scout
func (cm *ConfigManager) GetConfig() (*Config, error) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if err := cm.loadEnvFile(); err != nil {
		return nil, err
	}

	v := cm.v
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Annotatef(err, "unable to bind env for %s", key)
		}
	}
	v.AutomaticEnv()

	if cm.ConfigPath != "" {
		v.SetConfigFile(cm.ConfigPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotate(err, "failed to read config file")
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Annotate(err, "failed to unmarshal config")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Annotate(err, "invalid config")
	}
	return config, nil
}

// StartWatch will call `continuation` whenever the config file changes.  It
// does nothing when there is no config file.
func (cm *ConfigManager) StartWatch(continuation func(*Config, error)) {
	if cm.ConfigPath == "" {
		log.Debugf("no config file, not watching for changes")
		return
	}
	cm.v.OnConfigChange(func(event fsnotify.Event) {
		if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		log.Infof("config change detected: %+v", event)
		continuation(cm.GetConfig())
	})
	cm.v.WatchConfig()
}
