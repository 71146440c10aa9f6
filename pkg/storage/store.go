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
	"sync"
)

// Keys under which the session is persisted.
const (
	TokenKey = "auth.token"
	UserKey  = "auth.user"
)

// Store is a small key/value store for client-side state that has to
// survive a restart, such as the session token.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key string, value string) error
	Delete(key string) error
	Close() error
}

// MemoryStore .....
type MemoryStore struct {
	mutex  sync.RWMutex
	values map[string]string
}

// NewMemoryStore .....
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Get .....
func (ms *MemoryStore) Get(key string) (string, bool, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	value, ok := ms.values[key]
	return value, ok, nil
}

// Set .....
func (ms *MemoryStore) Set(key string, value string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	ms.values[key] = value
	return nil
}

// Delete .....
func (ms *MemoryStore) Delete(key string) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	delete(ms.values, key)
	return nil
}

// Close .....
func (ms *MemoryStore) Close() error {
	return nil
}
