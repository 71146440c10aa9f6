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
	"strings"
	"sync"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/Manitriniaina2002/scout/pkg/util"
	"github.com/Manitriniaina2002/scout/pkg/validation"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultScanPollPause is the interval between scan history fetches
	// while at least one scan is running.
	DefaultScanPollPause = 3000 * time.Millisecond
	// a locally submitted scan which the backend still hasn't listed after
	// this many successful fetches is dropped from the view
	maxSubmittedMisses = 10
)

// ErrUnmounted is returned by every ScanView operation after Unmount.
var ErrUnmounted = errors.New("scan view is unmounted")

// ScanViewConfig .....
type ScanViewConfig struct {
	PollPause         time.Duration
	ModelMetricsPause time.Duration
}

type submittedScan struct {
	scan   api.Scan
	misses int
}

// scanViewState is only ever touched from the actor goroutine.
type scanViewState struct {
	isMounted     bool
	isLoading     bool
	err           string
	isPolling     bool
	scans         []api.Scan
	issuedSeq     int
	appliedSeq    int
	lastFetchTime *time.Time
	submitted     []*submittedScan
	// submitted scans given up on while still running, by id
	dropped map[string]api.Scan
	emitted int
}

// ScanView owns the scan list of one mounted page.  A single goroutine
// holds the state and runs actions sent to it; the poller and callers only
// talk to it through those actions.
type ScanView struct {
	client   backend.ClientInterface
	notifier notify.Notifier
	poller   *util.Timer
	metrics  *util.Scheduler
	// lifecycle
	ctx         context.Context
	cancel      context.CancelFunc
	stop        chan struct{}
	done        chan struct{}
	unmountOnce sync.Once
	// channels
	actions chan func()
	// state
	state scanViewState
}

// NewScanView creates an unmounted view; nothing is fetched until Mount.
func NewScanView(client backend.ClientInterface, notifier notify.Notifier, config ScanViewConfig) *ScanView {
	if notifier == nil {
		notifier = &notify.LogNotifier{}
	}
	if config.PollPause <= 0 {
		config.PollPause = DefaultScanPollPause
	}
	ctx, cancel := context.WithCancel(context.Background())
	view := &ScanView{
		client:   client,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		actions:  make(chan func()),
		state: scanViewState{
			scans:     []api.Scan{},
			submitted: []*submittedScan{},
			dropped:   map[string]api.Scan{},
		},
	}
	go view.run()
	view.poller = util.NewTimer("scanPoller", config.PollPause, view.stop, view.poll)
	if config.ModelMetricsPause > 0 {
		view.metrics = util.NewScheduler("scanViewMetrics", config.ModelMetricsPause, view.stop, view.recordMetrics)
	}
	return view
}

func (view *ScanView) run() {
	defer close(view.done)
	for {
		select {
		case <-view.stop:
			log.Debugf("scan view stopped")
			return
		case action := <-view.actions:
			// once unmounted, nothing more is applied
			select {
			case <-view.stop:
				log.Debugf("scan view stopped")
				return
			default:
			}
			action()
		}
	}
}

// do runs `action` on the actor goroutine and waits for it to finish.
func (view *ScanView) do(name string, action func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		recordViewAction(name)
		action()
		close(finished)
	}
	select {
	case view.actions <- wrapped:
	case <-view.stop:
		return ErrUnmounted
	}
	select {
	case <-finished:
		return nil
	case <-view.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrUnmounted
		}
	}
}

// Mount loads the scan history.  If the load fails the view shows the error
// inline and is not retried.  If any scan is running, polling starts.
func (view *ScanView) Mount(ctx context.Context) error {
	var seq int
	err := view.do("mount", func() {
		view.state.isMounted = true
		view.state.isLoading = true
		view.state.err = ""
		view.state.issuedSeq++
		seq = view.state.issuedSeq
	})
	if err != nil {
		return err
	}
	start := time.Now()
	scans, fetchErr := view.client.ListScans(ctx)
	recordLoadDuration("scanHistory", time.Since(start).Seconds())
	if err = view.finishFetch(seq, scans, fetchErr, true); err != nil {
		return err
	}
	return fetchErr
}

// Unmount stops the poller and the actor.  After it returns, the view
// neither changes nor notifies.
func (view *ScanView) Unmount() {
	view.unmountOnce.Do(func() {
		close(view.stop)
		view.cancel()
		<-view.done
		<-view.poller.Done()
		if view.metrics != nil {
			<-view.metrics.Done()
		}
	})
}

// Done is closed once the view has been unmounted.
func (view *ScanView) Done() <-chan struct{} {
	return view.done
}

// poll is the poller's action: one fetch, if anything is running.
func (view *ScanView) poll() {
	seq, ok := view.beginFetch(false)
	if !ok {
		return
	}
	scans, err := view.client.ListScans(view.ctx)
	view.finishFetch(seq, scans, err, false)
}

// Refresh fetches the scan history now, whether or not anything is running.
func (view *ScanView) Refresh(ctx context.Context) error {
	seq, ok := view.beginFetch(true)
	if !ok {
		return ErrUnmounted
	}
	scans, err := view.client.ListScans(ctx)
	if finishErr := view.finishFetch(seq, scans, err, false); finishErr != nil {
		return finishErr
	}
	return err
}

func (view *ScanView) beginFetch(force bool) (int, bool) {
	var seq int
	var ok bool
	err := view.do("beginFetch", func() {
		if !force && !api.HasRunningScans(view.state.scans) {
			recordScanFetch("skipped")
			view.stopPolling()
			return
		}
		view.state.issuedSeq++
		seq = view.state.issuedSeq
		ok = true
	})
	return seq, err == nil && ok
}

func (view *ScanView) finishFetch(seq int, scans []api.Scan, fetchErr error, isInitial bool) error {
	return view.do("finishFetch", func() {
		state := &view.state
		if seq <= state.appliedSeq {
			recordScanFetch("stale")
			log.Debugf("discarding scan history fetch %d, already applied %d", seq, state.appliedSeq)
			return
		}
		if fetchErr != nil {
			recordScanFetch("error")
			if backend.IsUnauthorized(fetchErr) {
				state.isLoading = false
				state.err = "session expired, please log in again"
				view.stopPolling()
				log.Warnf("scan history fetch rejected: %s", fetchErr.Error())
				return
			}
			if isInitial {
				state.isLoading = false
				state.err = fmt.Sprintf("unable to load scan history: %s", fetchErr.Error())
				log.Errorf("unable to load scan history: %s", fetchErr.Error())
				return
			}
			log.Warnf("unable to refresh scan history, will retry: %s", fetchErr.Error())
			return
		}
		recordScanFetch("success")
		state.appliedSeq = seq
		now := time.Now()
		state.lastFetchTime = &now
		if isInitial {
			state.isLoading = false
			state.err = ""
		}
		previous := view.reclaimDropped(scans)
		merged := view.mergeSubmitted(scans)
		notifications := Reconcile(previous, merged)
		state.scans = merged
		for _, notification := range notifications {
			view.emit(notification)
		}
		if api.HasRunningScans(merged) {
			view.startPolling()
		} else {
			view.stopPolling()
		}
	})
}

// reclaimDropped returns the previous snapshot, plus the running copy of any
// dropped scan the backend lists again, so its transition is still noticed.
func (view *ScanView) reclaimDropped(fetched []api.Scan) []api.Scan {
	previous := view.state.scans
	if len(view.state.dropped) == 0 {
		return previous
	}
	for _, scan := range fetched {
		dropped, ok := view.state.dropped[scan.ID]
		if !ok {
			continue
		}
		delete(view.state.dropped, scan.ID)
		previous = append(previous[:len(previous):len(previous)], dropped)
	}
	return previous
}

// mergeSubmitted keeps scans submitted from this view that the backend
// hasn't listed yet, ahead of the fetched list.
func (view *ScanView) mergeSubmitted(fetched []api.Scan) []api.Scan {
	fetchedIDs := make(map[string]bool, len(fetched))
	for _, scan := range fetched {
		fetchedIDs[scan.ID] = true
	}
	remaining := []*submittedScan{}
	for _, submitted := range view.state.submitted {
		if fetchedIDs[submitted.scan.ID] {
			continue
		}
		submitted.misses++
		if submitted.misses > maxSubmittedMisses {
			log.Warnf("scan %s was never listed by the backend, dropping it", submitted.scan.ID)
			view.state.dropped[submitted.scan.ID] = submitted.scan
			continue
		}
		remaining = append(remaining, submitted)
	}
	view.state.submitted = remaining
	merged := make([]api.Scan, 0, len(remaining)+len(fetched))
	for i := len(remaining) - 1; i >= 0; i-- {
		merged = append(merged, remaining[i].scan)
	}
	return append(merged, fetched...)
}

// startPolling and stopPolling must only be called from the actor.  The
// poller's own action may still be in flight; Pause then takes effect when
// it returns, and a later Resume withdraws that pending pause.
func (view *ScanView) startPolling() {
	if view.state.isPolling {
		return
	}
	if err := view.poller.Resume(false); err != nil {
		log.Debugf("unable to resume scan poller: %s", err.Error())
		return
	}
	view.state.isPolling = true
	log.Debugf("scan poller started")
}

func (view *ScanView) stopPolling() {
	if !view.state.isPolling {
		return
	}
	if err := view.poller.Pause(); err != nil {
		log.Debugf("unable to pause scan poller: %s", err.Error())
	}
	view.state.isPolling = false
	log.Debugf("scan poller paused")
}

func (view *ScanView) emit(notification *api.Notification) {
	view.notifier.Notify(notification)
	recordNotification(notification.Kind)
	view.state.emitted++
}

func (view *ScanView) notifyError(title string, err error) {
	view.do("notifyError", func() {
		view.emit(api.NewNotification(api.NotificationKindError, title, err.Error()))
	})
}

// SubmitScan validates and submits a scan.  The scan appears in the view
// once the backend accepts it, and polling starts if it isn't already on.
func (view *ScanView) SubmitScan(ctx context.Context, request *api.ScanRequest) (*api.Scan, error) {
	normalized := &api.ScanRequest{
		Tool:      strings.ToLower(strings.TrimSpace(request.Tool)),
		IPAddress: strings.TrimSpace(request.IPAddress),
		Network:   strings.TrimSpace(request.Network),
	}
	if err := validation.ScanRequest(normalized); err != nil {
		view.notifyError("Invalid scan request", err)
		return nil, err
	}
	scan, err := view.client.SubmitScan(ctx, normalized)
	if err != nil {
		view.notifyError("Unable to start scan", err)
		return nil, err
	}
	err = view.do("didSubmitScan", func() {
		state := &view.state
		scans := []api.Scan{*scan}
		for _, existing := range state.scans {
			if existing.ID != scan.ID {
				scans = append(scans, existing)
			}
		}
		state.scans = scans
		state.submitted = append(state.submitted, &submittedScan{scan: *scan})
		view.emit(api.NewNotification(api.NotificationKindInfo,
			"Scan started",
			fmt.Sprintf("%s scan %s started on %s", scan.Tool, scan.ID, scan.IPAddress)))
		if scan.IsRunning() {
			view.startPolling()
		}
	})
	if err != nil {
		return nil, err
	}
	return scan, nil
}

// Scans returns a copy of the last confirmed scan list.
func (view *ScanView) Scans() ([]api.Scan, error) {
	var scans []api.Scan
	err := view.do("getScans", func() {
		scans = make([]api.Scan, len(view.state.scans))
		copy(scans, view.state.scans)
	})
	return scans, err
}

// IsPolling .....
func (view *ScanView) IsPolling() bool {
	isPolling := false
	view.do("isPolling", func() {
		isPolling = view.state.isPolling
	})
	return isPolling
}

// Model dumps the view's state.
func (view *ScanView) Model() *api.ModelScanView {
	model := &api.ModelScanView{Scans: []api.Scan{}, RunningScanIDs: []string{}, ScanStatusCount: api.CountScansByStatus(nil)}
	view.do("getModel", func() {
		state := &view.state
		model.IsMounted = state.isMounted
		model.IsLoading = state.isLoading
		model.Error = state.err
		model.IsPolling = state.isPolling
		model.LastFetchSeq = state.appliedSeq
		if state.lastFetchTime != nil {
			t := *state.lastFetchTime
			model.LastFetchTime = &t
		}
		model.Scans = make([]api.Scan, len(state.scans))
		copy(model.Scans, state.scans)
		model.RunningScanIDs = api.RunningScanIDs(state.scans)
		model.ScanStatusCount = api.CountScansByStatus(state.scans)
	})
	return model
}

// NotificationsEmitted .....
func (view *ScanView) NotificationsEmitted() int {
	emitted := 0
	view.do("getEmitted", func() {
		emitted = view.state.emitted
	})
	return emitted
}

// SetPollPause changes the poll interval; a running poller picks it up immediately.
func (view *ScanView) SetPollPause(pause time.Duration) {
	view.poller.SetDelay(pause)
}

// SetModelMetricsPause .....
func (view *ScanView) SetModelMetricsPause(pause time.Duration) {
	if view.metrics != nil {
		view.metrics.SetDelay(pause)
	}
}

func (view *ScanView) recordMetrics() {
	view.do("recordMetrics", func() {
		recordScanStatusCounts(api.CountScansByStatus(view.state.scans))
	})
}
