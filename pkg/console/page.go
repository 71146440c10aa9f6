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
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	log "github.com/sirupsen/logrus"
)

// page is what every console page shares: the backend and somewhere to
// send toasts.
type page struct {
	client   backend.ClientInterface
	notifier notify.Notifier
}

func newPage(client backend.ClientInterface, notifier notify.Notifier) page {
	if notifier == nil {
		notifier = &notify.LogNotifier{}
	}
	return page{client: client, notifier: notifier}
}

// fail toasts `err` under `title` and hands it back.  The server's message is
// the toast text.
func (p *page) fail(title string, err error) error {
	log.Debugf("%s: %s", title, err.Error())
	p.notifier.Notify(api.NewNotification(api.NotificationKindError, title, err.Error()))
	recordNotification(api.NotificationKindError)
	return err
}

func (p *page) succeed(title string, message string) {
	p.notifier.Notify(api.NewNotification(api.NotificationKindSuccess, title, message))
	recordNotification(api.NotificationKindSuccess)
}

func (p *page) inform(title string, message string) {
	p.notifier.Notify(api.NewNotification(api.NotificationKindInfo, title, message))
	recordNotification(api.NotificationKindInfo)
}
