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
	"github.com/Manitriniaina2002/scout/pkg/api"
)

// Reconcile compares the last confirmed scan list against a freshly fetched
// one and returns one notification per scan that moved out of `running`.
//
// Only scans running in `previous` are considered; ids that first appear in
// `next`, or that are absent from it, produce nothing.  The output follows the
// order of `previous`.
func Reconcile(previous []api.Scan, next []api.Scan) []*api.Notification {
	nextByID := make(map[string]*api.Scan, len(next))
	for i := range next {
		nextByID[next[i].ID] = &next[i]
	}
	seen := map[string]bool{}
	notifications := []*api.Notification{}
	for _, before := range previous {
		if before.Status != api.ScanStatusRunning || seen[before.ID] {
			continue
		}
		seen[before.ID] = true
		after, ok := nextByID[before.ID]
		if !ok {
			continue
		}
		switch after.Status {
		case api.ScanStatusCompleted:
			notifications = append(notifications, api.NewScanCompletedNotification(after))
		case api.ScanStatusFailed:
			notifications = append(notifications, api.NewScanFailedNotification(after))
		}
	}
	return notifications
}
