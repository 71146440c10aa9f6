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

package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationKind .....
type NotificationKind string

// .....
const (
	NotificationKindSuccess NotificationKind = "success"
	NotificationKindError   NotificationKind = "error"
	NotificationKindInfo    NotificationKind = "info"
)

// Notification is a transient, user-facing message (a "toast").
type Notification struct {
	ID                   string           `json:"id"`
	Kind                 NotificationKind `json:"kind"`
	Title                string           `json:"title"`
	Message              string           `json:"message"`
	ScanID               string           `json:"scanId,omitempty"`
	Tool                 string           `json:"tool,omitempty"`
	VulnerabilitiesFound int              `json:"vulnerabilitiesFound,omitempty"`
	Time                 time.Time        `json:"time"`
}

// NewNotification .....
func NewNotification(kind NotificationKind, title string, message string) *Notification {
	return &Notification{
		ID:      uuid.New().String(),
		Kind:    kind,
		Title:   title,
		Message: message,
		Time:    time.Now(),
	}
}

// NewScanCompletedNotification .....
func NewScanCompletedNotification(scan *Scan) *Notification {
	noun := "vulnerabilities"
	if scan.VulnerabilitiesFound == 1 {
		noun = "vulnerability"
	}
	notification := NewNotification(NotificationKindSuccess,
		"Scan completed",
		fmt.Sprintf("%s scan %s completed: %d %s found", scan.Tool, scan.ID, scan.VulnerabilitiesFound, noun))
	notification.ScanID = scan.ID
	notification.Tool = scan.Tool
	notification.VulnerabilitiesFound = scan.VulnerabilitiesFound
	return notification
}

// NewScanFailedNotification .....
func NewScanFailedNotification(scan *Scan) *Notification {
	notification := NewNotification(NotificationKindError,
		"Scan failed",
		fmt.Sprintf("%s scan %s failed", scan.Tool, scan.ID))
	notification.ScanID = scan.ID
	notification.Tool = scan.Tool
	return notification
}
