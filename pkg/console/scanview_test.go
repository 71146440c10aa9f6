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
	"sync"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

const testPollPause = 50 * time.Millisecond

// scriptedScans serves `responses` in order, repeating the last one.
type scriptedScans struct {
	backend.ClientInterface
	mutex     sync.Mutex
	responses [][]api.Scan
	err       error
	fetches   int
	submits   int
}

func newScriptedScans(responses ...[]api.Scan) *scriptedScans {
	return &scriptedScans{responses: responses}
}

func (ss *scriptedScans) ListScans(ctx context.Context) ([]api.Scan, error) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	ss.fetches++
	if ss.err != nil {
		return nil, ss.err
	}
	index := ss.fetches - 1
	if index >= len(ss.responses) {
		index = len(ss.responses) - 1
	}
	scans := make([]api.Scan, len(ss.responses[index]))
	copy(scans, ss.responses[index])
	return scans, nil
}

func (ss *scriptedScans) SubmitScan(ctx context.Context, request *api.ScanRequest) (*api.Scan, error) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	ss.submits++
	return &api.Scan{ID: fmt.Sprintf("NEW-%d", ss.submits), Tool: request.Tool, IPAddress: request.IPAddress, Network: request.Network, Status: api.ScanStatusRunning}, nil
}

func (ss *scriptedScans) setErr(err error) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	ss.err = err
}

func (ss *scriptedScans) setResponses(responses ...[]api.Scan) {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	ss.responses = responses
	ss.fetches = 0
}

func (ss *scriptedScans) fetchCount() int {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	return ss.fetches
}

func (ss *scriptedScans) submitCount() int {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()
	return ss.submits
}

var _ = Describe("ScanView", func() {
	var recorder *notify.Recorder
	var view *ScanView

	newView := func(client backend.ClientInterface) *ScanView {
		view = NewScanView(client, recorder, ScanViewConfig{PollPause: testPollPause})
		return view
	}

	BeforeEach(func() {
		recorder = notify.NewRecorder()
		view = nil
	})

	AfterEach(func() {
		if view != nil {
			view.Unmount()
		}
	})

	It("doesn't poll an empty history", func() {
		client := newScriptedScans([]api.Scan{})
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		time.Sleep(4 * testPollPause)
		Expect(client.fetchCount()).To(Equal(1))
		Expect(view.IsPolling()).To(BeFalse())
	})

	It("doesn't poll when every scan is terminal", func() {
		client := newScriptedScans([]api.Scan{
			scan("S1", "nmap", api.ScanStatusCompleted, 2),
			scan("S2", "nikto", api.ScanStatusFailed, 0),
		})
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		time.Sleep(4 * testPollPause)
		Expect(client.fetchCount()).To(Equal(1))
		Expect(recorder.Notifications()).To(BeEmpty())
	})

	It("notifies once when a running scan completes, then stops polling", func() {
		client := newScriptedScans(
			[]api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)},
			[]api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)},
			[]api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 5)},
		)
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		Expect(view.IsPolling()).To(BeTrue())
		Eventually(recorder.Notifications).Should(HaveLen(1))
		notification := recorder.Notifications()[0]
		Expect(notification.Kind).To(Equal(api.NotificationKindSuccess))
		Expect(notification.Message).To(Equal("nmap scan S1 completed: 5 vulnerabilities found"))
		Eventually(view.IsPolling).Should(BeFalse())
		fetches := client.fetchCount()
		time.Sleep(4 * testPollPause)
		Expect(client.fetchCount()).To(Equal(fetches))
		Expect(recorder.Notifications()).To(HaveLen(1))
		scans, err := view.Scans()
		Expect(err).To(BeNil())
		Expect(scans[0].Status).To(Equal(api.ScanStatusCompleted))
	})

	It("notifies when a running scan fails", func() {
		client := newScriptedScans(
			[]api.Scan{scan("S1", "wpscan", api.ScanStatusRunning, 0)},
			[]api.Scan{scan("S1", "wpscan", api.ScanStatusFailed, 0)},
		)
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		Eventually(recorder.Notifications).Should(HaveLen(1))
		Expect(recorder.OfKind(api.NotificationKindError)).To(HaveLen(1))
		Expect(recorder.Notifications()[0].Message).To(Equal("wpscan scan S1 failed"))
	})

	It("keeps polling while any scan is still running", func() {
		client := newScriptedScans(
			[]api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0), scan("S2", "nikto", api.ScanStatusRunning, 0)},
			[]api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 1), scan("S2", "nikto", api.ScanStatusRunning, 0)},
		)
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		Eventually(recorder.Notifications).Should(HaveLen(1))
		Eventually(client.fetchCount).Should(BeNumerically(">=", 4))
		Expect(view.IsPolling()).To(BeTrue())
		Expect(recorder.Notifications()).To(HaveLen(1))
	})

	It("shows an inline error when the first load fails, and doesn't retry", func() {
		client := newScriptedScans([]api.Scan{})
		client.setErr(fmt.Errorf("connection refused"))
		newView(client)
		Expect(view.Mount(context.Background())).NotTo(Succeed())
		model := view.Model()
		Expect(model.IsLoading).To(BeFalse())
		Expect(model.Error).To(ContainSubstring("connection refused"))
		time.Sleep(4 * testPollPause)
		Expect(client.fetchCount()).To(Equal(1))
		Expect(recorder.Notifications()).To(BeEmpty())
	})

	It("keeps the snapshot and retries when a poll fails", func() {
		client := newScriptedScans([]api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)})
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		client.setErr(fmt.Errorf("bad gateway"))
		Eventually(client.fetchCount).Should(BeNumerically(">=", 3))
		Expect(recorder.Notifications()).To(BeEmpty())
		Expect(view.Model().Error).To(Equal(""))
		Expect(view.Model().RunningScanIDs).To(Equal([]string{"S1"}))
		client.setErr(nil)
		client.setResponses([]api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 0)})
		Eventually(recorder.Notifications).Should(HaveLen(1))
	})

	It("stops polling on unmount and never notifies afterwards", func() {
		client := newScriptedScans([]api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)})
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		Eventually(client.fetchCount).Should(BeNumerically(">=", 2))
		client.setResponses([]api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 4)})
		view.Unmount()
		Eventually(view.Done(), testPollPause).Should(BeClosed())
		fetches := client.fetchCount()
		time.Sleep(4 * testPollPause)
		Expect(client.fetchCount()).To(BeNumerically("<=", fetches+1))
		Expect(recorder.Notifications()).To(BeEmpty())
		_, err := view.Scans()
		Expect(err).To(Equal(ErrUnmounted))
		Expect(view.Refresh(context.Background())).To(Equal(ErrUnmounted))
		// a second unmount is a no-op
		view.Unmount()
	})

	It("discards fetch results older than the last applied one", func() {
		client := newScriptedScans([]api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)})
		newView(client)
		view.SetPollPause(time.Hour)
		Expect(view.Mount(context.Background())).To(Succeed())
		older, ok := view.beginFetch(true)
		Expect(ok).To(BeTrue())
		newer, ok := view.beginFetch(true)
		Expect(ok).To(BeTrue())
		Expect(newer).To(BeNumerically(">", older))

		Expect(view.finishFetch(newer, []api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 2)}, nil, false)).To(Succeed())
		Expect(view.finishFetch(older, []api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)}, nil, false)).To(Succeed())

		scans, err := view.Scans()
		Expect(err).To(BeNil())
		Expect(scans[0].Status).To(Equal(api.ScanStatusCompleted))
		Expect(recorder.Notifications()).To(HaveLen(1))
		Expect(view.Model().LastFetchSeq).To(Equal(newer))
	})

	It("starts polling when a scan is submitted", func() {
		client := newScriptedScans([]api.Scan{})
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		Expect(view.IsPolling()).To(BeFalse())

		submitted, err := view.SubmitScan(context.Background(), &api.ScanRequest{Tool: "NMAP", IPAddress: "10.0.0.5", Network: "10.0.0.0/24"})
		Expect(err).To(BeNil())
		Expect(submitted.ID).To(Equal("NEW-1"))
		Expect(submitted.Tool).To(Equal("nmap"))
		Expect(view.IsPolling()).To(BeTrue())
		Expect(recorder.OfKind(api.NotificationKindInfo)).To(HaveLen(1))
		scans, _ := view.Scans()
		Expect(scans).To(HaveLen(1))

		// the backend hasn't listed it yet; the view keeps it as running
		Eventually(client.fetchCount).Should(BeNumerically(">=", 2))
		scans, _ = view.Scans()
		Expect(scans).To(HaveLen(1))
		Expect(view.IsPolling()).To(BeTrue())

		client.setResponses([]api.Scan{scan("NEW-1", "nmap", api.ScanStatusCompleted, 3)})
		Eventually(func() int { return len(recorder.OfKind(api.NotificationKindSuccess)) }).Should(Equal(1))
		Eventually(view.IsPolling).Should(BeFalse())
	})

	It("still notifies when a dropped submission is listed later", func() {
		client := newScriptedScans([]api.Scan{})
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		_, err := view.SubmitScan(context.Background(), &api.ScanRequest{Tool: "nikto", IPAddress: "10.0.0.9"})
		Expect(err).To(BeNil())

		// never listed, so the view gives up on it and stops polling
		Eventually(view.IsPolling, 3*time.Second).Should(BeFalse())
		scans, _ := view.Scans()
		Expect(scans).To(BeEmpty())
		Expect(recorder.OfKind(api.NotificationKindSuccess)).To(BeEmpty())

		client.setResponses([]api.Scan{scan("NEW-1", "nikto", api.ScanStatusCompleted, 2)})
		Expect(view.Refresh(context.Background())).To(Succeed())
		Expect(recorder.OfKind(api.NotificationKindSuccess)).To(HaveLen(1))
		Expect(recorder.OfKind(api.NotificationKindSuccess)[0].Message).To(ContainSubstring("nikto"))

		Expect(view.Refresh(context.Background())).To(Succeed())
		Expect(recorder.OfKind(api.NotificationKindSuccess)).To(HaveLen(1))
	})

	It("rejects an invalid scan request before calling the backend", func() {
		client := newScriptedScans([]api.Scan{})
		newView(client)
		Expect(view.Mount(context.Background())).To(Succeed())
		_, err := view.SubmitScan(context.Background(), &api.ScanRequest{Tool: "nmap", IPAddress: "not-an-ip"})
		Expect(err).NotTo(BeNil())
		_, err = view.SubmitScan(context.Background(), &api.ScanRequest{Tool: "nmap", IPAddress: "10.0.0.1", Network: "10.0.0.0"})
		Expect(err).NotTo(BeNil())
		Expect(client.submitCount()).To(Equal(0))
		Expect(recorder.OfKind(api.NotificationKindError)).To(HaveLen(2))
		Expect(view.IsPolling()).To(BeFalse())
	})

	It("drives the mock backend from submission to completion", func() {
		mock := backend.NewMockClient(2)
		_, err := mock.Login(context.Background(), "admin", "admin123")
		Expect(err).To(BeNil())
		newView(mock)
		Expect(view.Mount(context.Background())).To(Succeed())
		_, err = view.SubmitScan(context.Background(), &api.ScanRequest{Tool: "nmap", IPAddress: "192.168.1.10"})
		Expect(err).To(BeNil())
		_, err = view.SubmitScan(context.Background(), &api.ScanRequest{Tool: "wpscan", IPAddress: "192.168.1.11"})
		Expect(err).To(BeNil())
		Eventually(func() int { return len(recorder.OfKind(api.NotificationKindSuccess)) }).Should(Equal(1))
		Eventually(func() int { return len(recorder.OfKind(api.NotificationKindError)) }).Should(Equal(1))
		Eventually(view.IsPolling).Should(BeFalse())
		Expect(view.NotificationsEmitted()).To(Equal(4))
		Expect(view.Model().ScanStatusCount[api.ScanStatusRunning]).To(Equal(0))
	})
})
