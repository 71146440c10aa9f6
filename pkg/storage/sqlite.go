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
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/juju/errors"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const createTable = `
CREATE TABLE IF NOT EXISTS client_storage (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStore keeps client state in a single sqlite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if necessary) the database at `path`.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.Annotatef(err, "unable to create storage directory %s", dir)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Annotatef(err, "unable to open database %s", path)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Annotatef(err, "unable to ping database %s", path)
	}
	if _, err = db.Exec(createTable); err != nil {
		db.Close()
		return nil, errors.Annotate(err, "unable to create client_storage table")
	}
	log.Debugf("opened client storage at %s", path)
	return &SQLiteStore{db: db, path: path}, nil
}

// Get .....
func (ss *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := ss.db.QueryRow(`SELECT value FROM client_storage WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	} else if err != nil {
		return "", false, errors.Annotatef(err, "unable to read key %s", key)
	}
	return value, true, nil
}

// Set .....
func (ss *SQLiteStore) Set(key string, value string) error {
	_, err := ss.db.Exec(`
		INSERT INTO client_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	return errors.Annotatef(err, "unable to write key %s", key)
}

// Delete .....
func (ss *SQLiteStore) Delete(key string) error {
	_, err := ss.db.Exec(`DELETE FROM client_storage WHERE key = ?`, key)
	return errors.Annotatef(err, "unable to delete key %s", key)
}

// Close .....
func (ss *SQLiteStore) Close() error {
	return ss.db.Close()
}

// Path .....
func (ss *SQLiteStore) Path() string {
	return ss.path
}
