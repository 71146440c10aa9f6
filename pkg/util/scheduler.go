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
	"time"

	log "github.com/sirupsen/logrus"
)

// Scheduler periodically executes `action`, with a pause of `delay` between
// the end of one invocation and the start of the next, and stops when `stop`
// is closed.  Unlike Timer, it can't be paused.
type Scheduler struct {
	name     string
	delay    time.Duration
	stop     <-chan struct{}
	setDelay chan time.Duration
	action   func()
	done     chan struct{}
}

// NewScheduler ...
func NewScheduler(name string, delay time.Duration, stop <-chan struct{}, action func()) *Scheduler {
	scheduler := &Scheduler{
		name:     name,
		delay:    delay,
		stop:     stop,
		setDelay: make(chan time.Duration),
		action:   action,
		done:     make(chan struct{})}
	go scheduler.start()
	return scheduler
}

func (scheduler *Scheduler) start() {
	defer close(scheduler.done)
	timer := time.NewTimer(scheduler.delay)
	for {
		select {
		case <-scheduler.stop:
			timer.Stop()
			log.Debugf("scheduler %s stopped", scheduler.name)
			return
		case <-timer.C:
			recordTimerTick(scheduler.name, true)
			scheduler.action()
			timer = time.NewTimer(scheduler.delay)
		case delay := <-scheduler.setDelay:
			scheduler.delay = delay
		}
	}
}

// SetDelay sets the delay, effective after the next invocation.
func (scheduler *Scheduler) SetDelay(delay time.Duration) {
	select {
	case scheduler.setDelay <- delay:
	case <-scheduler.done:
	}
}

// Done is closed once the scheduler has stopped.
func (scheduler *Scheduler) Done() <-chan struct{} {
	return scheduler.done
}
