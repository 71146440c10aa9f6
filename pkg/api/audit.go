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

package api

// AuditStatus is the evaluation outcome of a control.
type AuditStatus string

// .....
const (
	AuditStatusCompliant    AuditStatus = "compliant"
	AuditStatusPartial      AuditStatus = "partial"
	AuditStatusNonCompliant AuditStatus = "non-compliant"
	AuditStatusNotEvaluated AuditStatus = "not-evaluated"
)

// AuditStatuses .....
var AuditStatuses = []AuditStatus{AuditStatusCompliant, AuditStatusPartial, AuditStatusNonCompliant, AuditStatusNotEvaluated}

// AuditResult is the evaluation of one ISO 27001 control.
type AuditResult struct {
	ControlID      string      `json:"controlId"`
	ControlName    string      `json:"controlName"`
	Category       string      `json:"category"`
	Status         AuditStatus `json:"status"`
	Priority       string      `json:"priority,omitempty"`
	EvaluationDate string      `json:"evaluationDate,omitempty"`
	EvaluatedBy    string      `json:"evaluatedBy,omitempty"`
	Evidence       string      `json:"evidence,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	LinkedRisks    []string    `json:"linkedRisks"`
}

// AuditResultList is the envelope returned by the audit-results listing.
type AuditResultList struct {
	Results []AuditResult `json:"results"`
}

// CategoryStatistics .....
type CategoryStatistics struct {
	Category     string `json:"category"`
	Compliant    int    `json:"compliant"`
	Partial      int    `json:"partial"`
	NonCompliant int    `json:"nonCompliant"`
	NotEvaluated int    `json:"notEvaluated"`
}

// Statistics is the compliance summary computed by the backend.
type Statistics struct {
	Total           int                  `json:"total"`
	Compliant       int                  `json:"compliant"`
	Partial         int                  `json:"partial"`
	NonCompliant    int                  `json:"nonCompliant"`
	NotEvaluated    int                  `json:"notEvaluated"`
	ComplianceScore float64              `json:"complianceScore"`
	ByCategory      []CategoryStatistics `json:"byCategory"`
}

// RiskStatus .....
type RiskStatus string

// .....
const (
	RiskStatusOpen     RiskStatus = "open"
	RiskStatusResolved RiskStatus = "resolved"
)

// Risk is an ADES risk linked to controls.
type Risk struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Severity       string     `json:"severity,omitempty"`
	Status         RiskStatus `json:"status"`
	LinkedControls []string   `json:"linkedControls,omitempty"`
	Source         string     `json:"source,omitempty"`
}

// RiskList is the envelope returned by the risks listing.
type RiskList struct {
	Risks []Risk `json:"risks"`
}

// RiskStatusUpdate .....
type RiskStatusUpdate struct {
	Status RiskStatus `json:"status"`
}

// HistoryEntry records a change made to an audit result.
type HistoryEntry struct {
	ControlID string `json:"controlId"`
	Action    string `json:"action"`
	OldStatus string `json:"oldStatus,omitempty"`
	NewStatus string `json:"newStatus,omitempty"`
	User      string `json:"user"`
	Notes     string `json:"notes,omitempty"`
	Timestamp string `json:"timestamp"`
}

// HistoryList is the envelope returned by the history endpoints.
type HistoryList struct {
	History []HistoryEntry `json:"history"`
}
