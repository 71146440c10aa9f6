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

// Role .....
type Role string

// .....
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account as returned by the backend; it never carries a password.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// IsAdmin .....
func (user *User) IsAdmin() bool {
	return user != nil && user.Role == RoleAdmin
}

// LoginRequest .....
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// UserForm is used for creating and updating users and for profile updates.
// An empty Password leaves the current password untouched on update.
type UserForm struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"`
}

// PasswordChange .....
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Message is the generic acknowledgement body some endpoints return.
type Message struct {
	Message string `json:"message"`
}

// Health .....
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
