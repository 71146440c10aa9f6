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

package util

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// TimerState describes the state of a timer
type TimerState int

// .....
const (
	TimerStateReady         TimerState = iota
	TimerStateRunningAction TimerState = iota
	TimerStatePaused        TimerState = iota
	TimerStateStopped       TimerState = iota
)

// String .....
func (state TimerState) String() string {
	switch state {
	case TimerStateReady:
		return "TimerStateReady"
	case TimerStateRunningAction:
		return "TimerStateRunningAction"
	case TimerStatePaused:
		return "TimerStatePaused"
	case TimerStateStopped:
		return "TimerStateStopped"
	}
	panic(fmt.Errorf("invalid TimerState value: %d", state))
}

type resume struct {
	runImmediately bool
	err            chan error
}

// Timer periodically executes `action`, waiting `delay` between invocation starts.
// If `action` takes longer than `delay`, ticks are dropped: at most one
// invocation is in flight at any time.
// It stops when `stop` is closed; Done() is closed once its goroutine has exited.
// A paused timer holds no underlying ticker.
type Timer struct {
	name   string
	state  TimerState
	delay  time.Duration
	action func()
	// channels
	pause    chan chan error
	resume   chan *resume
	stop     <-chan struct{}
	setDelay chan time.Duration
	getState chan chan TimerState
	done     chan struct{}
}

// NewRunningTimer creates a new timer which is running
func NewRunningTimer(name string, delay time.Duration, stop <-chan struct{}, runImmediately bool, action func()) *Timer {
	timer := NewTimer(name, delay, stop, action)
	err := timer.Resume(runImmediately)
	if err != nil {
		log.Errorf("timer %s: %s", name, err.Error())
	} else {
		log.Debugf("timer %s started successfully", name)
	}
	return timer
}

// NewTimer creates a new timer which is paused
func NewTimer(name string, delay time.Duration, stop <-chan struct{}, action func()) *Timer {
	if delay <= 0 {
		panic(fmt.Errorf("invalid delay for timer %s: must be positive, was %s", name, delay))
	}
	timer := &Timer{
		name:     name,
		state:    TimerStatePaused,
		delay:    delay,
		action:   action,
		pause:    make(chan chan error),
		resume:   make(chan *resume),
		stop:     stop,
		setDelay: make(chan time.Duration),
		getState: make(chan chan TimerState),
		done:     make(chan struct{})}
	go timer.start()
	return timer
}

func (timer *Timer) start() {
	defer close(timer.done)
	var ticker *time.Ticker
	var c <-chan time.Time
	startTicker := func() {
		ticker = time.NewTicker(timer.delay)
		c = ticker.C
	}
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
		}
		ticker = nil
		c = nil
	}
	didFinishAction := make(chan struct{})
	var shouldPauseAfterRunningAction bool
	executeAction := func() {
		timer.state = TimerStateRunningAction
		shouldPauseAfterRunningAction = false
		recordTimerTick(timer.name, true)
		go func() {
			timer.action()
			select {
			case didFinishAction <- struct{}{}:
			case <-timer.stop:
			}
		}()
	}
	for {
		select {
		case <-didFinishAction:
			if shouldPauseAfterRunningAction {
				timer.state = TimerStatePaused
				stopTicker()
			} else {
				timer.state = TimerStateReady
			}
		case <-c:
			switch timer.state {
			case TimerStateReady:
				executeAction()
			case TimerStateRunningAction:
				recordTimerTick(timer.name, false)
				log.Debugf("timer %s: skipping tick, action already in progress", timer.name)
			default:
				log.Errorf("timer %s: cannot run action from state %s", timer.name, timer.state)
			}
		case ch := <-timer.pause:
			switch timer.state {
			case TimerStateReady:
				timer.state = TimerStatePaused
				stopTicker()
				ch <- nil
			case TimerStateRunningAction:
				if shouldPauseAfterRunningAction {
					ch <- fmt.Errorf("cannot pause timer %s: pause already queued up", timer.name)
					break
				}
				shouldPauseAfterRunningAction = true
				ch <- nil
			default:
				ch <- fmt.Errorf("cannot pause timer %s while in state %s", timer.name, timer.state.String())
			}
		case r := <-timer.resume:
			switch timer.state {
			case TimerStatePaused:
				r.err <- nil
				startTicker()
				if r.runImmediately {
					executeAction()
				} else {
					timer.state = TimerStateReady
				}
			case TimerStateRunningAction:
				// a pause queued behind the in-flight action is simply withdrawn
				if shouldPauseAfterRunningAction {
					shouldPauseAfterRunningAction = false
					r.err <- nil
					break
				}
				r.err <- fmt.Errorf("cannot resume timer %s: already running", timer.name)
			default:
				r.err <- fmt.Errorf("cannot resume timer %s while in state %s", timer.name, timer.state.String())
			}
		case ch := <-timer.getState:
			ch <- timer.state
		case <-timer.stop:
			stopTicker()
			timer.state = TimerStateStopped
			log.Debugf("timer %s stopped", timer.name)
			return
		case delay := <-timer.setDelay:
			timer.delay = delay
			if ticker != nil {
				ticker.Reset(delay)
			}
		}
	}
}

func (timer *Timer) stoppedError(operation string) error {
	return fmt.Errorf("cannot %s timer %s: timer is stopped", operation, timer.name)
}

// Pause temporarily stops the timer.  If the action is in progress, the
// timer pauses as soon as the action returns.
// It returns an error if the timer could not be paused.
func (timer *Timer) Pause() error {
	ch := make(chan error)
	select {
	case timer.pause <- ch:
		return <-ch
	case <-timer.done:
		return timer.stoppedError("pause")
	}
}

// Resume resumes the timer with the option of immediately running the action.
func (timer *Timer) Resume(runImmediately bool) error {
	r := &resume{runImmediately: runImmediately, err: make(chan error)}
	select {
	case timer.resume <- r:
		return <-r.err
	case <-timer.done:
		return timer.stoppedError("resume")
	}
}

// SetDelay sets the delay; a running timer picks it up immediately.
func (timer *Timer) SetDelay(delay time.Duration) {
	if delay <= 0 {
		log.Errorf("timer %s: ignoring invalid delay %s", timer.name, delay)
		return
	}
	select {
	case timer.setDelay <- delay:
	case <-timer.done:
	}
}

// State returns the current state of the timer.
func (timer *Timer) State() TimerState {
	ch := make(chan TimerState)
	select {
	case timer.getState <- ch:
		return <-ch
	case <-timer.done:
		return TimerStateStopped
	}
}

// Done is closed once the timer has stopped and its goroutine has exited.
func (timer *Timer) Done() <-chan struct{} {
	return timer.done
}

// Name .....
func (timer *Timer) Name() string {
	return timer.name
}
