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

package validation

import (
	"fmt"
	"net"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/Manitriniaina2002/scout/pkg/api"
)

// MinPasswordLength .....
const MinPasswordLength = 8

// SupportedTools are the scanners the backend knows how to drive.
var SupportedTools = []string{"nmap", "nikto", "wpscan", "sslscan"}

// Error is a form validation failure.  It is raised before any network call.
type Error struct {
	Field   string
	Message string
}

// Error .....
func (e *Error) Error() string {
	return e.Message
}

func fail(field string, format string, args ...interface{}) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError .....
func IsValidationError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// PasswordChange checks the change-password form.
func PasswordChange(current string, next string, confirm string) error {
	if current == "" {
		return fail("current_password", "current password is required")
	}
	if next != confirm {
		return fail("confirm_password", "passwords do not match")
	}
	if utf8.RuneCountInString(next) < MinPasswordLength {
		return fail("new_password", "new password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// UserForm checks the create/update user form.  A password is required only
// when creating; when present it must meet the minimum length.
func UserForm(form *api.UserForm, isCreate bool) error {
	if strings.TrimSpace(form.Username) == "" {
		return fail("username", "username is required")
	}
	if strings.TrimSpace(form.Email) == "" {
		return fail("email", "email is required")
	}
	if _, err := mail.ParseAddress(form.Email); err != nil {
		return fail("email", "invalid email address: %s", form.Email)
	}
	switch form.Role {
	case "", api.RoleAdmin, api.RoleUser:
	default:
		return fail("role", "invalid role: %s", form.Role)
	}
	if isCreate && form.Password == "" {
		return fail("password", "password is required")
	}
	if form.Password != "" && utf8.RuneCountInString(form.Password) < MinPasswordLength {
		return fail("password", "password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// UserDeletion rejects deleting the account that is currently logged in.
func UserDeletion(current *api.User, targetID int) error {
	if current != nil && current.ID == targetID {
		return fail("id", "you cannot delete your own account")
	}
	return nil
}

// ScanRequest checks a scan submission.  The IP address is required; the
// network, when given, must be in CIDR notation.
func ScanRequest(request *api.ScanRequest) error {
	tool := strings.ToLower(strings.TrimSpace(request.Tool))
	if tool == "" {
		return fail("tool", "tool is required")
	}
	isSupported := false
	for _, supported := range SupportedTools {
		if tool == supported {
			isSupported = true
			break
		}
	}
	if !isSupported {
		return fail("tool", "unsupported tool %s, expected one of %s", request.Tool, strings.Join(SupportedTools, ", "))
	}
	if strings.TrimSpace(request.IPAddress) == "" {
		return fail("ipAddress", "IP address is required")
	}
	if net.ParseIP(strings.TrimSpace(request.IPAddress)) == nil {
		return fail("ipAddress", "invalid IP address: %s", request.IPAddress)
	}
	if network := strings.TrimSpace(request.Network); network != "" {
		if _, _, err := net.ParseCIDR(network); err != nil {
			return fail("network", "invalid network, expected CIDR notation: %s", request.Network)
		}
	}
	return nil
}

// AuditResult checks a control evaluation before it is saved.
func AuditResult(result *api.AuditResult) error {
	if strings.TrimSpace(result.ControlID) == "" {
		return fail("controlId", "control id is required")
	}
	for _, status := range api.AuditStatuses {
		if result.Status == status {
			return nil
		}
	}
	return fail("status", "invalid status: %s", result.Status)
}

// Selection rejects bulk operations on an empty selection.
func Selection(ids []string) error {
	if len(ids) == 0 {
		return fail("selection", "select at least one control")
	}
	return nil
}
