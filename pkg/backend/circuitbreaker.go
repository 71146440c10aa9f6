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
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/util"
	"github.com/juju/errors"
)

// CircuitBreaker stops issuing requests to a backend that keeps failing, and
// probes it again after an exponentially growing pause.
type CircuitBreaker struct {
	mutex               sync.Mutex
	state               CircuitBreakerState
	nextCheckTime       *time.Time
	maxBackoffDuration  time.Duration
	consecutiveFailures int
}

// NewCircuitBreaker .....
func NewCircuitBreaker(maxBackoffDuration time.Duration) *CircuitBreaker {
	cb := &CircuitBreaker{
		nextCheckTime:       nil,
		maxBackoffDuration:  maxBackoffDuration,
		consecutiveFailures: 0,
	}
	cb.setState(CircuitBreakerStateEnabled)
	return cb
}

// Model dumps the current state of the circuit breaker
func (cb *CircuitBreaker) Model() *api.ModelCircuitBreaker {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	var nextCheckTime *time.Time
	if cb.nextCheckTime != nil {
		t := *cb.nextCheckTime
		nextCheckTime = &t
	}
	return &api.ModelCircuitBreaker{
		State:               cb.state.String(),
		ConsecutiveFailures: cb.consecutiveFailures,
		MaxBackoffDuration:  *api.NewModelTime(cb.maxBackoffDuration),
		NextCheckTime:       nextCheckTime,
	}
}

// State .....
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// ConsecutiveFailures .....
func (cb *CircuitBreaker) ConsecutiveFailures() int {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.consecutiveFailures
}

// Reset reenables the circuit breaker regardless of its current state,
// and clears out ConsecutiveFailures and NextCheckTime
func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.setState(CircuitBreakerStateEnabled)
	cb.consecutiveFailures = 0
	cb.nextCheckTime = nil
}

func (cb *CircuitBreaker) setState(state CircuitBreakerState) {
	recordCircuitBreakerState(state)
	recordCircuitBreakerTransition(cb.state, state)
	cb.state = state
}

// isAbleToIssueRequest moves a disabled breaker whose backoff has elapsed
// into `Checking`, and reports whether a request may go out.
func (cb *CircuitBreaker) isAbleToIssueRequest() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	if cb.state == CircuitBreakerStateDisabled && time.Now().After(*cb.nextCheckTime) {
		cb.setState(CircuitBreakerStateChecking)
	}
	isEnabled := cb.state != CircuitBreakerStateDisabled
	recordCircuitBreakerIsEnabled(isEnabled)
	return isEnabled
}

func (cb *CircuitBreaker) failure() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	switch cb.state {
	case CircuitBreakerStateEnabled:
		cb.setState(CircuitBreakerStateDisabled)
		cb.consecutiveFailures = 1
		cb.setNextCheckTime()
	case CircuitBreakerStateDisabled:
		break
	case CircuitBreakerStateChecking:
		cb.setState(CircuitBreakerStateDisabled)
		cb.consecutiveFailures++
		cb.setNextCheckTime()
	}
}

func (cb *CircuitBreaker) success() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	if cb.state == CircuitBreakerStateChecking {
		cb.setState(CircuitBreakerStateEnabled)
		cb.consecutiveFailures = 0
		cb.nextCheckTime = nil
	}
}

func (cb *CircuitBreaker) setNextCheckTime() {
	nextExponentialSeconds := math.Pow(2, float64(cb.consecutiveFailures))
	nextCheckDuration := util.MinDuration(cb.maxBackoffDuration, time.Duration(nextExponentialSeconds)*time.Second)
	nextCheckTime := time.Now().Add(nextCheckDuration)
	cb.nextCheckTime = &nextCheckTime
}

// isBackendFailure is true for errors that say something about the health of
// the backend: transport errors and 5xx.  Validation errors, conflicts and
// expired sessions don't count against it.
func isBackendFailure(err error) bool {
	if err == nil {
		return false
	}
	cause := errors.Cause(err)
	if cause == ErrUnauthorized {
		return false
	}
	if apiErr, ok := cause.(*APIError); ok {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// IssueRequest synchronously:
//  - checks whether it's enabled
//  - runs 'request'
//  - looks at the result of 'request', disabling itself on failure
func (cb *CircuitBreaker) IssueRequest(description string, request func() error) error {
	if !cb.isAbleToIssueRequest() {
		return fmt.Errorf("unable to issue request %s, circuit breaker is disabled", description)
	}
	start := time.Now()
	err := request()
	recordBackendResponseTime(description, time.Since(start))
	recordBackendResponse(description, err == nil)
	if isBackendFailure(err) {
		cb.failure()
	} else {
		cb.success()
	}
	return err
}
