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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/Manitriniaina2002/scout/pkg/scout"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:           "scout",
		Short:         "ISO 27001 audit console",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml or json); the SCOUT_ environment is used when empty")

	rootCmd.AddCommand(serveCmd(), loginCmd(), logoutCmd(), scanCmd(), vulnsCmd(), statsCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "mount the console, poll scans, and serve HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return scout.RunScout(configPath)
		},
	}
}

// withScout runs `action` against a Scout built from the config.  Unless
// `isAnonymous`, a session is established first.
func withScout(isAnonymous bool, action func(ctx context.Context, s *scout.Scout) error) error {
	_, cfg, err := scout.LoadConfig(configPath)
	if err != nil {
		return err
	}
	s, err := scout.NewScout(cfg, notify.NewConsoleNotifier(os.Stdout))
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Errorf("unable to close: %s", err.Error())
		}
	}()
	ctx := context.Background()
	if !isAnonymous {
		if _, err = s.EnsureSession(ctx); err != nil {
			return err
		}
	}
	return action(ctx, s)
}
