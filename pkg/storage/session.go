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

package storage

import (
	"encoding/json"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/juju/errors"
)

// SessionStore persists the bearer token and the user it was issued to.
type SessionStore struct {
	store Store
}

// NewSessionStore .....
func NewSessionStore(store Store) *SessionStore {
	return &SessionStore{store: store}
}

// Token returns the persisted token, or "" if there is none.
func (ss *SessionStore) Token() string {
	token, _, err := ss.store.Get(TokenKey)
	if err != nil {
		return ""
	}
	return token
}

// User returns the persisted user, or nil.
func (ss *SessionStore) User() (*api.User, error) {
	value, ok, err := ss.store.Get(UserKey)
	if err != nil || !ok {
		return nil, err
	}
	var user api.User
	if err = json.Unmarshal([]byte(value), &user); err != nil {
		return nil, errors.Annotate(err, "unable to decode stored user")
	}
	return &user, nil
}

// Save stores the token and its user.
func (ss *SessionStore) Save(token *api.Token) error {
	if err := ss.store.Set(TokenKey, token.AccessToken); err != nil {
		return err
	}
	userBytes, err := json.Marshal(token.User)
	if err != nil {
		return errors.Trace(err)
	}
	return ss.store.Set(UserKey, string(userBytes))
}

// SetUser replaces the stored user, keeping the token.
func (ss *SessionStore) SetUser(user *api.User) error {
	userBytes, err := json.Marshal(user)
	if err != nil {
		return errors.Trace(err)
	}
	return ss.store.Set(UserKey, string(userBytes))
}

// Clear removes both token and user.
func (ss *SessionStore) Clear() error {
	if err := ss.store.Delete(TokenKey); err != nil {
		return err
	}
	return ss.store.Delete(UserKey)
}
