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
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timer", func() {
	It("Pause before completion", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		timer := NewRunningTimer("test1", 1*time.Second, stop, false, func() { atomic.AddInt32(&x, 1) })
		time.Sleep(500 * time.Millisecond)
		Expect(timer.Pause()).To(BeNil())
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(0)))
		Expect(timer.State()).To(Equal(TimerStatePaused))
	})

	It("Pause after completion", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		timer := NewRunningTimer("test2", 1*time.Second, stop, false, func() { atomic.AddInt32(&x, 1) })
		time.Sleep(1500 * time.Millisecond)
		Expect(timer.Pause()).To(BeNil())
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(1)))
	})

	It("Run immediately", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		timer := NewRunningTimer("test3", 250*time.Millisecond, stop, true, func() { atomic.AddInt32(&x, 1) })
		time.Sleep(650 * time.Millisecond)
		Expect(timer.Pause()).To(BeNil())
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(3)))
	})

	It("Don't run immediately", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		timer := NewRunningTimer("test4", 250*time.Millisecond, stop, false, func() { atomic.AddInt32(&x, 1) })
		time.Sleep(650 * time.Millisecond)
		Expect(timer.Pause()).To(BeNil())
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(2)))
	})

	It("a new timer is paused and doesn't run its action", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		timer := NewTimer("test5", 100*time.Millisecond, stop, func() { atomic.AddInt32(&x, 1) })
		time.Sleep(350 * time.Millisecond)
		Expect(timer.State()).To(Equal(TimerStatePaused))
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(0)))
	})

	It("drops ticks while the action is in flight", func() {
		stop := make(chan struct{})
		defer close(stop)
		var inFlight, maxInFlight, calls int32
		timer := NewRunningTimer("test6", 50*time.Millisecond, stop, true, func() {
			current := atomic.AddInt32(&inFlight, 1)
			if current > atomic.LoadInt32(&maxInFlight) {
				atomic.StoreInt32(&maxInFlight, current)
			}
			atomic.AddInt32(&calls, 1)
			time.Sleep(300 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		})
		time.Sleep(700 * time.Millisecond)
		Expect(timer.Pause()).To(BeNil())
		Expect(atomic.LoadInt32(&maxInFlight)).To(Equal(int32(1)))
		Expect(atomic.LoadInt32(&calls)).To(BeNumerically("<=", 3))
	})

	It("pausing from inside the action takes effect when the action returns", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		var timer *Timer
		timer = NewTimer("test7", 100*time.Millisecond, stop, func() {
			atomic.AddInt32(&x, 1)
			Expect(timer.Pause()).To(BeNil())
		})
		Expect(timer.Resume(true)).To(BeNil())
		time.Sleep(450 * time.Millisecond)
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(1)))
		Expect(timer.State()).To(Equal(TimerStatePaused))
	})

	It("resuming withdraws a pause queued behind the in-flight action", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		timer := NewRunningTimer("test8", 200*time.Millisecond, stop, true, func() {
			atomic.AddInt32(&x, 1)
			time.Sleep(100 * time.Millisecond)
		})
		time.Sleep(20 * time.Millisecond)
		Expect(timer.State()).To(Equal(TimerStateRunningAction))
		Expect(timer.Pause()).To(BeNil())
		Expect(timer.Resume(false)).To(BeNil())
		time.Sleep(330 * time.Millisecond)
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(2)))
	})

	It("refuses to resume a running timer", func() {
		stop := make(chan struct{})
		defer close(stop)
		timer := NewRunningTimer("test9", 1*time.Second, stop, false, func() {})
		Expect(timer.Resume(false)).NotTo(BeNil())
	})

	It("stops executing action after being stopped", func() {
		stop := make(chan struct{})
		var x int32
		timer := NewRunningTimer("test10", 500*time.Millisecond, stop, false, func() { atomic.AddInt32(&x, 1) })
		time.Sleep(250 * time.Millisecond)
		close(stop)
		Eventually(timer.Done()).Should(BeClosed())
		Expect(timer.State()).To(Equal(TimerStateStopped))
		time.Sleep(1 * time.Second)
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(0)))
		Expect(timer.Pause()).NotTo(BeNil())
		Expect(timer.Resume(true)).NotTo(BeNil())
	})

	It("should still deallocate despite a long-running action", func() {
		stop := make(chan struct{})
		var beforeSleep, afterSleep int32
		timer := NewRunningTimer("test11", 1*time.Second, stop, true, func() {
			atomic.AddInt32(&beforeSleep, 1)
			time.Sleep(500 * time.Millisecond)
			atomic.AddInt32(&afterSleep, 1)
		})
		time.Sleep(50 * time.Millisecond)
		Expect(timer.State()).To(Equal(TimerStateRunningAction))
		close(stop)
		Eventually(timer.Done(), 100*time.Millisecond).Should(BeClosed())
		time.Sleep(1 * time.Second)
		Expect(atomic.LoadInt32(&beforeSleep)).To(Equal(int32(1)))
		Expect(atomic.LoadInt32(&afterSleep)).To(Equal(int32(1)))
	})

	It("picks up a new delay while running", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		timer := NewRunningTimer("test12", 10*time.Second, stop, false, func() { atomic.AddInt32(&x, 1) })
		timer.SetDelay(100 * time.Millisecond)
		time.Sleep(350 * time.Millisecond)
		Expect(timer.Pause()).To(BeNil())
		Expect(atomic.LoadInt32(&x)).To(BeNumerically(">=", 2))
	})
})
