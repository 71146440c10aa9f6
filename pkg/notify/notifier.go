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

package notify

import (
	"sync"

	"github.com/Manitriniaina2002/scout/pkg/api"
	log "github.com/sirupsen/logrus"
)

// Notifier delivers toasts.  Implementations must not block for long: they
// are called from the goroutine that owns the scan list.
type Notifier interface {
	Notify(notification *api.Notification)
}

// Multi fans a notification out to several notifiers, in order.
type Multi []Notifier

// Notify .....
func (m Multi) Notify(notification *api.Notification) {
	for _, notifier := range m {
		notifier.Notify(notification)
	}
}

// LogNotifier writes toasts to the log.
type LogNotifier struct{}

// Notify .....
func (ln *LogNotifier) Notify(notification *api.Notification) {
	entry := log.WithFields(log.Fields{
		"id":    notification.ID,
		"kind":  notification.Kind,
		"title": notification.Title,
	})
	if notification.ScanID != "" {
		entry = entry.WithFields(log.Fields{"scan": notification.ScanID, "tool": notification.Tool})
	}
	switch notification.Kind {
	case api.NotificationKindError:
		entry.Warn(notification.Message)
	default:
		entry.Info(notification.Message)
	}
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mutex         sync.Mutex
	notifications []*api.Notification
}

// NewRecorder .....
func NewRecorder() *Recorder {
	return &Recorder{notifications: []*api.Notification{}}
}

// Notify .....
func (r *Recorder) Notify(notification *api.Notification) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.notifications = append(r.notifications, notification)
}

// Notifications returns a copy of what has been received so far.
func (r *Recorder) Notifications() []*api.Notification {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	notifications := make([]*api.Notification, len(r.notifications))
	copy(notifications, r.notifications)
	return notifications
}

// OfKind .....
func (r *Recorder) OfKind(kind api.NotificationKind) []*api.Notification {
	matching := []*api.Notification{}
	for _, notification := range r.Notifications() {
		if notification.Kind == kind {
			matching = append(matching, notification)
		}
	}
	return matching
}
