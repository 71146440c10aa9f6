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

package backend

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/juju/errors"
)

// CircuitBreakerState .....
type CircuitBreakerState int

// .....
const (
	CircuitBreakerStateDisabled CircuitBreakerState = iota
	CircuitBreakerStateEnabled  CircuitBreakerState = iota
	CircuitBreakerStateChecking CircuitBreakerState = iota
)

// String .....
func (state CircuitBreakerState) String() string {
	switch state {
	case CircuitBreakerStateDisabled:
		return "CircuitBreakerStateDisabled"
	case CircuitBreakerStateEnabled:
		return "CircuitBreakerStateEnabled"
	case CircuitBreakerStateChecking:
		return "CircuitBreakerStateChecking"
	}
	panic(fmt.Errorf("invalid CircuitBreakerState value: %d", state))
}

// MarshalJSON .....
func (state CircuitBreakerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(state.String())
}

// ErrUnauthorized is returned when the backend rejects the stored token.
// The token has already been cleared when a caller sees it; the caller is
// expected to send the user back to login.
var ErrUnauthorized = errors.New("unauthorized: please log in again")

// IsUnauthorized .....
func IsUnauthorized(err error) bool {
	return err != nil && errors.Cause(err) == ErrUnauthorized
}

// APIError is a non-2xx response.  Detail is the server's message, verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error .....
func (e *APIError) Error() string {
	return e.Detail
}

// IsNotFound .....
func IsNotFound(err error) bool {
	apiErr, ok := errors.Cause(err).(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// newAPIError extracts the `detail` field from an error body.  FastAPI-style
// validation errors carry a list in `detail`; those are passed through as text.
func newAPIError(statusCode int, body []byte) *APIError {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	detail := ""
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var text string
		if err = json.Unmarshal(envelope.Detail, &text); err == nil {
			detail = text
		} else {
			detail = string(envelope.Detail)
		}
	}
	if detail == "" {
		detail = fmt.Sprintf("request failed: %d %s", statusCode, http.StatusText(statusCode))
	}
	return &APIError{StatusCode: statusCode, Detail: detail}
}

// TokenStore supplies the bearer token and forgets it on a 401.
type TokenStore interface {
	Token() string
	Clear() error
}
