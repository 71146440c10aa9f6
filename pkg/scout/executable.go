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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/config"
	"github.com/Manitriniaina2002/scout/pkg/logging"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/Manitriniaina2002/scout/pkg/server"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

// LoadConfig reads the config and sets up logging from it.
func LoadConfig(configPath string) (*config.ConfigManager, *config.Config, error) {
	cm := config.NewConfigManager(configPath)
	cfg, err := cm.GetConfig()
	if err != nil {
		return nil, nil, errors.Annotatef(err, "failed to load config %s", configPath)
	}
	if err = logging.Setup(cfg.LogLevel); err != nil {
		return nil, nil, err
	}
	return cm, cfg, nil
}

// RunScout mounts the console, serves HTTP, and blocks until interrupted.
func RunScout(configPath string) error {
	log.Infof("RunScout with config path %s", configPath)

	cm, cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if dump, err := cfg.Dump(); err == nil {
		log.Debugf("got config: %s", dump)
	}

	scout, err := NewScout(cfg, notify.NewConsoleNotifier(os.Stdout))
	if err != nil {
		return err
	}
	defer scout.Close()

	cm.StartWatch(func(newConfig *config.Config, err error) {
		if err != nil {
			log.Errorf("ignoring config change: %s", err.Error())
			return
		}
		scout.ApplyConfig(newConfig)
	})

	ctx := context.Background()
	user, err := scout.EnsureSession(ctx)
	if err != nil {
		return errors.Annotate(err, "unable to log in")
	}
	log.Infof("logged in as %s", user.Username)

	if err = scout.ScanView.Mount(ctx); err != nil {
		// the view shows the error; the server still comes up
		log.Errorf("unable to load scan history: %s", err.Error())
	}

	httpServer := server.NewServer(cfg.Port, NewHTTPResponder(scout))
	serverErrors := make(chan error, 1)
	go func() {
		log.Infof("start HTTP server on port %d", cfg.Port)
		serverErrors <- httpServer.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	select {
	case err = <-serverErrors:
		if err != http.ErrServerClosed {
			return errors.Annotate(err, "HTTP server failed")
		}
		return nil
	case sig := <-signals:
		log.Infof("received %s, shutting down", sig)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
