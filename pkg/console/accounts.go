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
	"context"
	"fmt"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/validation"
)

// UpdateProfile changes the logged in user's own username and email.
func (session *Session) UpdateProfile(ctx context.Context, form *api.UserForm) (*api.User, error) {
	current := session.User()
	if current == nil {
		return nil, ErrNotLoggedIn
	}
	update := &api.UserForm{Username: form.Username, Email: form.Email, Role: current.Role}
	if err := validation.UserForm(update, false); err != nil {
		return nil, session.fail("Unable to update profile", err)
	}
	user, err := session.client.UpdateProfile(ctx, update)
	if err != nil {
		return nil, session.fail("Unable to update profile", err)
	}
	session.setUser(user)
	if err = session.sessions.SetUser(user); err != nil {
		return nil, err
	}
	session.succeed("Profile updated", "Your profile has been saved")
	return user, nil
}

// ChangePassword .....
func (session *Session) ChangePassword(ctx context.Context, current string, next string, confirm string) error {
	if session.User() == nil {
		return ErrNotLoggedIn
	}
	if err := validation.PasswordChange(current, next, confirm); err != nil {
		return session.fail("Unable to change password", err)
	}
	err := session.client.ChangePassword(ctx, &api.PasswordChange{CurrentPassword: current, NewPassword: next})
	if err != nil {
		return session.fail("Unable to change password", err)
	}
	session.succeed("Password changed", "Your password has been updated")
	return nil
}

// Users is the admin user-management page.
type Users struct {
	session *Session
}

// NewUsers .....
func NewUsers(session *Session) *Users {
	return &Users{session: session}
}

// List .....
func (users *Users) List(ctx context.Context) ([]api.User, error) {
	if err := users.session.RequireAdmin(); err != nil {
		return nil, err
	}
	list, err := users.session.client.ListUsers(ctx)
	if err != nil {
		return nil, users.session.fail("Unable to load users", err)
	}
	return list, nil
}

// Create .....
func (users *Users) Create(ctx context.Context, form *api.UserForm) (*api.User, error) {
	if err := users.session.RequireAdmin(); err != nil {
		return nil, err
	}
	filled := *form
	if filled.Role == "" {
		filled.Role = api.RoleUser
	}
	if err := validation.UserForm(&filled, true); err != nil {
		return nil, users.session.fail("Unable to create user", err)
	}
	user, err := users.session.client.CreateUser(ctx, &filled)
	if err != nil {
		return nil, users.session.fail("Unable to create user", err)
	}
	users.session.succeed("User created", fmt.Sprintf("%s has been created", user.Username))
	return user, nil
}

// Update leaves the password alone when the form's password is empty.
func (users *Users) Update(ctx context.Context, id int, form *api.UserForm) (*api.User, error) {
	if err := users.session.RequireAdmin(); err != nil {
		return nil, err
	}
	if err := validation.UserForm(form, false); err != nil {
		return nil, users.session.fail("Unable to update user", err)
	}
	user, err := users.session.client.UpdateUser(ctx, id, form)
	if err != nil {
		return nil, users.session.fail("Unable to update user", err)
	}
	users.session.succeed("User updated", fmt.Sprintf("%s has been updated", user.Username))
	return user, nil
}

// Delete refuses to delete the logged in account.
func (users *Users) Delete(ctx context.Context, id int) error {
	if err := users.session.RequireAdmin(); err != nil {
		return err
	}
	if err := validation.UserDeletion(users.session.User(), id); err != nil {
		return users.session.fail("Unable to delete user", err)
	}
	if err := users.session.client.DeleteUser(ctx, id); err != nil {
		return users.session.fail("Unable to delete user", err)
	}
	users.session.succeed("User deleted", fmt.Sprintf("user %d has been deleted", id))
	return nil
}
