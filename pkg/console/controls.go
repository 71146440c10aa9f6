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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Manitriniaina2002/scout/pkg/api"
	"github.com/Manitriniaina2002/scout/pkg/backend"
	"github.com/Manitriniaina2002/scout/pkg/catalog"
	"github.com/Manitriniaina2002/scout/pkg/notify"
	"github.com/Manitriniaina2002/scout/pkg/projection"
	"github.com/Manitriniaina2002/scout/pkg/validation"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
)

// Controls is the audit page: the catalog joined with the recorded results.
// The result cache only changes after the backend has accepted a change.
type Controls struct {
	page
	catalog *catalog.Catalog
	session *Session
	mutex   sync.RWMutex
	results map[string]api.AuditResult
}

// NewControls .....
func NewControls(client backend.ClientInterface, notifier notify.Notifier, cat *catalog.Catalog, session *Session) *Controls {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Controls{
		page:    newPage(client, notifier),
		catalog: cat,
		session: session,
		results: map[string]api.AuditResult{},
	}
}

// Load replaces the cache with the backend's results.
func (controls *Controls) Load(ctx context.Context) ([]api.AuditResult, error) {
	start := time.Now()
	results, err := controls.client.ListAuditResults(ctx)
	recordLoadDuration("auditResults", time.Since(start).Seconds())
	if err != nil {
		return nil, controls.fail("Unable to load audit results", err)
	}
	byControl := make(map[string]api.AuditResult, len(results))
	for _, result := range results {
		byControl[result.ControlID] = result
	}
	controls.mutex.Lock()
	controls.results = byControl
	controls.mutex.Unlock()
	return results, nil
}

// Results returns the cached results ordered by control id.
func (controls *Controls) Results() []api.AuditResult {
	controls.mutex.RLock()
	defer controls.mutex.RUnlock()
	results := make([]api.AuditResult, 0, len(controls.results))
	for _, result := range controls.results {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ControlID < results[j].ControlID })
	return results
}

func (controls *Controls) cached(controlID string) (api.AuditResult, bool) {
	controls.mutex.RLock()
	defer controls.mutex.RUnlock()
	result, ok := controls.results[controlID]
	return result, ok
}

func (controls *Controls) store(result *api.AuditResult) {
	controls.mutex.Lock()
	defer controls.mutex.Unlock()
	controls.results[result.ControlID] = *result
}

func (controls *Controls) forget(controlID string) {
	controls.mutex.Lock()
	defer controls.mutex.Unlock()
	delete(controls.results, controlID)
}

// Rows applies `filter` to the catalog.
func (controls *Controls) Rows(filter projection.ControlFilter) []projection.ControlRow {
	return projection.FilterControls(controls.catalog, controls.Results(), filter)
}

// Breakdown .....
func (controls *Controls) Breakdown() []projection.CategoryBreakdown {
	return projection.BreakdownByCategory(controls.catalog, controls.Results())
}

// fillIn completes a result with what the catalog and the session know.
func (controls *Controls) fillIn(result *api.AuditResult) {
	if control, ok := controls.catalog.Control(result.ControlID); ok && result.ControlName == "" {
		result.ControlName = control.Name
	}
	if category, ok := controls.catalog.CategoryOf(result.ControlID); ok && result.Category == "" {
		result.Category = category
	}
	if user := controls.session.User(); user != nil && result.EvaluatedBy == "" {
		result.EvaluatedBy = user.Username
	}
	if result.LinkedRisks == nil {
		result.LinkedRisks = []string{}
	}
}

// Save creates the result if the control has none yet, otherwise updates it.
func (controls *Controls) Save(ctx context.Context, result *api.AuditResult) (*api.AuditResult, error) {
	saved, err := controls.save(ctx, result)
	if err != nil {
		return nil, controls.fail("Unable to save evaluation", err)
	}
	controls.succeed("Evaluation saved", fmt.Sprintf("%s is now %s", saved.ControlID, projection.StatusLabel(saved.Status)))
	return saved, nil
}

func (controls *Controls) save(ctx context.Context, result *api.AuditResult) (*api.AuditResult, error) {
	if err := validation.AuditResult(result); err != nil {
		return nil, err
	}
	toSave := *result
	controls.fillIn(&toSave)
	var saved *api.AuditResult
	var err error
	if _, ok := controls.cached(toSave.ControlID); ok {
		saved, err = controls.client.UpdateAuditResult(ctx, &toSave)
	} else {
		saved, err = controls.client.CreateAuditResult(ctx, &toSave)
	}
	if err != nil {
		return nil, err
	}
	controls.store(saved)
	return saved, nil
}

// MarkCompliant .....
func (controls *Controls) MarkCompliant(ctx context.Context, controlID string) (*api.AuditResult, error) {
	result, ok := controls.cached(controlID)
	if !ok {
		result = api.AuditResult{ControlID: controlID}
	}
	result.Status = api.AuditStatusCompliant
	return controls.Save(ctx, &result)
}

// Delete .....
func (controls *Controls) Delete(ctx context.Context, controlID string) error {
	if err := controls.client.DeleteAuditResult(ctx, controlID); err != nil {
		return controls.fail("Unable to delete evaluation", err)
	}
	controls.forget(controlID)
	controls.succeed("Evaluation deleted", fmt.Sprintf("%s has been reset", controlID))
	return nil
}

// BulkDelete deletes every selected result, continuing past failures.  It
// returns the ids that were deleted.
func (controls *Controls) BulkDelete(ctx context.Context, controlIDs []string) ([]string, error) {
	if err := validation.Selection(controlIDs); err != nil {
		return nil, controls.fail("Nothing to delete", err)
	}
	deleted := []string{}
	failed := []string{}
	for _, controlID := range controlIDs {
		if err := controls.client.DeleteAuditResult(ctx, controlID); err != nil {
			log.Warnf("unable to delete result for %s: %s", controlID, err.Error())
			failed = append(failed, controlID)
			continue
		}
		controls.forget(controlID)
		deleted = append(deleted, controlID)
	}
	if len(failed) > 0 {
		return deleted, controls.fail("Bulk delete incomplete", fmt.Errorf("unable to delete %d of %d evaluations: %v", len(failed), len(controlIDs), failed))
	}
	controls.succeed("Evaluations deleted", fmt.Sprintf("%d evaluations deleted", len(deleted)))
	return deleted, nil
}

// Export writes the cached results as a JSON envelope.
func (controls *Controls) Export(writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return errors.Trace(encoder.Encode(&api.AuditResultList{Results: controls.Results()}))
}

// Import reads results exported by Export, or a bare JSON array of results,
// and saves each one.  It returns how many were saved.
func (controls *Controls) Import(ctx context.Context, reader io.Reader) (int, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, errors.Annotate(err, "unable to read import")
	}
	results, err := decodeResults(data)
	if err != nil {
		return 0, controls.fail("Unable to import evaluations", err)
	}
	imported := 0
	failed := 0
	for i := range results {
		if _, err := controls.save(ctx, &results[i]); err != nil {
			log.Warnf("unable to import result for %s: %s", results[i].ControlID, err.Error())
			failed++
			continue
		}
		imported++
	}
	if failed > 0 {
		return imported, controls.fail("Import incomplete", fmt.Errorf("%d of %d evaluations could not be imported", failed, len(results)))
	}
	controls.succeed("Evaluations imported", fmt.Sprintf("%d evaluations imported", imported))
	return imported, nil
}

func decodeResults(data []byte) ([]api.AuditResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		results := []api.AuditResult{}
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, errors.Annotate(err, "invalid evaluation list")
		}
		return results, nil
	}
	list := &api.AuditResultList{}
	if err := json.Unmarshal(trimmed, list); err != nil {
		return nil, errors.Annotate(err, "invalid evaluation export")
	}
	return list.Results, nil
}
