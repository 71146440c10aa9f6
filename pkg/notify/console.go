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
	"io"
	"os"
	"sync"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/fatih/color"
)

// ConsoleNotifier prints toasts to a terminal, colored by kind.
type ConsoleNotifier struct {
	mutex  sync.Mutex
	out    io.Writer
	colors map[api.NotificationKind]*color.Color
}

// NewConsoleNotifier writes to `out`, or stdout if nil.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleNotifier{
		out: out,
		colors: map[api.NotificationKind]*color.Color{
			api.NotificationKindSuccess: color.New(color.FgGreen, color.Bold),
			api.NotificationKindError:   color.New(color.FgRed, color.Bold),
			api.NotificationKindInfo:    color.New(color.FgCyan),
		},
	}
}

func (cn *ConsoleNotifier) symbol(kind api.NotificationKind) string {
	switch kind {
	case api.NotificationKindSuccess:
		return "✓"
	case api.NotificationKindError:
		return "✗"
	}
	return "•"
}

// Notify .....
func (cn *ConsoleNotifier) Notify(notification *api.Notification) {
	cn.mutex.Lock()
	defer cn.mutex.Unlock()
	c, ok := cn.colors[notification.Kind]
	if !ok {
		c = cn.colors[api.NotificationKindInfo]
	}
	c.Fprintf(cn.out, "%s %s", cn.symbol(notification.Kind), notification.Title)
	if notification.Message != "" {
		cn.out.Write([]byte(": " + notification.Message))
	}
	cn.out.Write([]byte("\n"))
}
