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

	"github.com/Manitriniaina2002/scout/pkg/scout"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var username string
	var passwordEnvVar string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "log in and persist the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScout(true, func(ctx context.Context, s *scout.Scout) error {
				password, ok := os.LookupEnv(passwordEnvVar)
				if !ok {
					return fmt.Errorf("set the password in the %s environment variable", passwordEnvVar)
				}
				user, err := s.Session.Login(ctx, username, password)
				if err != nil {
					return err
				}
				fmt.Printf("logged in as %s (%s)\n", user.Username, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVar(&passwordEnvVar, "password-env", "SCOUT_PASSWORD", "environment variable holding the password")
	cmd.MarkFlagRequired("username")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "forget the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withScout(true, func(ctx context.Context, s *scout.Scout) error {
				return s.Session.Logout()
			})
		},
	}
}
