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

var _ = Describe("Scheduler", func() {
	It("waits a full delay before the first invocation", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		NewScheduler("sched1", 300*time.Millisecond, stop, func() { atomic.AddInt32(&x, 1) })
		time.Sleep(150 * time.Millisecond)
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(0)))
		time.Sleep(300 * time.Millisecond)
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(1)))
	})

	It("measures the delay from the end of the previous invocation", func() {
		stop := make(chan struct{})
		defer close(stop)
		var x int32
		NewScheduler("sched2", 100*time.Millisecond, stop, func() {
			atomic.AddInt32(&x, 1)
			time.Sleep(200 * time.Millisecond)
		})
		time.Sleep(750 * time.Millisecond)
		Expect(atomic.LoadInt32(&x)).To(Equal(int32(3)))
	})

	It("stops after stop is closed", func() {
		stop := make(chan struct{})
		var x int32
		s := NewScheduler("sched3", 100*time.Millisecond, stop, func() { atomic.AddInt32(&x, 1) })
		time.Sleep(250 * time.Millisecond)
		close(stop)
		Eventually(s.Done()).Should(BeClosed())
		seen := atomic.LoadInt32(&x)
		time.Sleep(300 * time.Millisecond)
		Expect(atomic.LoadInt32(&x)).To(Equal(seen))
		// no-op once stopped
		s.SetDelay(time.Second)
	})
})
