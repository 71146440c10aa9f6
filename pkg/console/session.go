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

package console

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/Manitriniaina2002/scout/pkg/storage"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

// ErrNotLoggedIn is returned when an operation needs a session and there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrAdminRequired .....
var ErrAdminRequired = errors.New("admin privileges required")

// Session tracks who is logged in.  The token itself lives in the session
// store, where the backend client reads it from.
type Session struct {
	page
	sessions *storage.SessionStore
	mutex    sync.RWMutex
	user     *api.User
}

// NewSession .....
func NewSession(client backend.ClientInterface, notifier notify.Notifier, sessions *storage.SessionStore) *Session {
	return &Session{page: newPage(client, notifier), sessions: sessions}
}

// Login exchanges credentials for a token and persists it.
func (session *Session) Login(ctx context.Context, username string, password string) (*api.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, session.fail("Login failed", fmt.Errorf("username and password are required"))
	}
	token, err := session.client.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return nil, session.fail("Login failed", err)
	}
	if err = session.sessions.Save(token); err != nil {
		return nil, errors.Annotate(err, "unable to persist session")
	}
	user := token.User
	session.setUser(&user)
	log.WithFields(log.Fields{"username": user.Username, "role": user.Role}).Info("logged in")
	session.succeed("Logged in", fmt.Sprintf("Welcome, %s", user.Username))
	return &user, nil
}

// Logout forgets the token and the user.
func (session *Session) Logout() error {
	if logouter, ok := session.client.(interface{ Logout() }); ok {
		logouter.Logout()
	}
	session.setUser(nil)
	if err := session.sessions.Clear(); err != nil {
		return errors.Annotate(err, "unable to clear session")
	}
	session.inform("Logged out", "You have been logged out")
	return nil
}

// Restore checks a persisted token against the backend.  A token the backend
// refuses is cleared.
func (session *Session) Restore(ctx context.Context) (*api.User, error) {
	if session.sessions.Token() == "" {
		return nil, ErrNotLoggedIn
	}
	user, err := session.client.CurrentUser(ctx)
	if err != nil {
		log.Warnf("unable to restore session: %s", err.Error())
		session.setUser(nil)
		if clearErr := session.sessions.Clear(); clearErr != nil {
			log.Errorf("unable to clear session: %s", clearErr.Error())
		}
		return nil, err
	}
	if err = session.sessions.SetUser(user); err != nil {
		log.Errorf("unable to persist user: %s", err.Error())
	}
	session.setUser(user)
	return user, nil
}

func (session *Session) setUser(user *api.User) {
	session.mutex.Lock()
	defer session.mutex.Unlock()
	session.user = user
}

// User returns a copy of the logged in user, or nil.  A nil session has no
// user.
func (session *Session) User() *api.User {
	if session == nil {
		return nil
	}
	session.mutex.RLock()
	defer session.mutex.RUnlock()
	if session.user == nil {
		return nil
	}
	user := *session.user
	return &user
}

// IsAdmin .....
func (session *Session) IsAdmin() bool {
	return session.User().IsAdmin()
}

// RequireAdmin .....
func (session *Session) RequireAdmin() error {
	user := session.User()
	if user == nil {
		return ErrNotLoggedIn
	}
	if !user.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}
