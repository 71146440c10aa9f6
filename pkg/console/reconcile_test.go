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
	"github.com/Manitriniaina2002/scout/pkg/api"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func scan(id string, tool string, status api.ScanStatus, found int) api.Scan {
	return api.Scan{ID: id, Tool: tool, IPAddress: "10.0.0.1", Status: status, VulnerabilitiesFound: found}
}

var _ = Describe("Reconcile", func() {
	It("emits a success notification for a completed scan", func() {
		previous := []api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)}
		next := []api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 5)}
		notifications := Reconcile(previous, next)
		Expect(notifications).To(HaveLen(1))
		Expect(notifications[0].Kind).To(Equal(api.NotificationKindSuccess))
		Expect(notifications[0].ScanID).To(Equal("S1"))
		Expect(notifications[0].Tool).To(Equal("nmap"))
		Expect(notifications[0].VulnerabilitiesFound).To(Equal(5))
		Expect(notifications[0].Message).To(Equal("nmap scan S1 completed: 5 vulnerabilities found"))
	})

	It("emits an error notification for a failed scan", func() {
		previous := []api.Scan{scan("S2", "nikto", api.ScanStatusRunning, 0)}
		next := []api.Scan{scan("S2", "nikto", api.ScanStatusFailed, 0)}
		notifications := Reconcile(previous, next)
		Expect(notifications).To(HaveLen(1))
		Expect(notifications[0].Kind).To(Equal(api.NotificationKindError))
		Expect(notifications[0].Message).To(Equal("nikto scan S2 failed"))
	})

	It("ignores scans still running, absent, or new", func() {
		previous := []api.Scan{
			scan("S1", "nmap", api.ScanStatusRunning, 0),
			scan("S2", "nmap", api.ScanStatusRunning, 0),
		}
		next := []api.Scan{
			scan("S1", "nmap", api.ScanStatusRunning, 0),
			scan("S3", "sslscan", api.ScanStatusCompleted, 2),
		}
		Expect(Reconcile(previous, next)).To(BeEmpty())
	})

	It("ignores scans that were already terminal", func() {
		previous := []api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 1)}
		next := []api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 1)}
		Expect(Reconcile(previous, next)).To(BeEmpty())
	})

	It("follows the order of the previous list", func() {
		previous := []api.Scan{
			scan("S3", "nmap", api.ScanStatusRunning, 0),
			scan("S1", "nikto", api.ScanStatusRunning, 0),
			scan("S2", "sslscan", api.ScanStatusRunning, 0),
		}
		next := []api.Scan{
			scan("S1", "nikto", api.ScanStatusFailed, 0),
			scan("S2", "sslscan", api.ScanStatusCompleted, 1),
			scan("S3", "nmap", api.ScanStatusCompleted, 0),
		}
		notifications := Reconcile(previous, next)
		Expect(notifications).To(HaveLen(3))
		Expect(notifications[0].ScanID).To(Equal("S3"))
		Expect(notifications[1].ScanID).To(Equal("S1"))
		Expect(notifications[2].ScanID).To(Equal("S2"))
		Expect(notifications[2].Message).To(Equal("sslscan scan S2 completed: 1 vulnerability found"))
	})

	It("is idempotent once the snapshot has been replaced", func() {
		previous := []api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)}
		next := []api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 3)}
		Expect(Reconcile(previous, next)).To(HaveLen(1))
		Expect(Reconcile(next, next)).To(BeEmpty())
	})

	It("emits once for a duplicated id", func() {
		previous := []api.Scan{
			scan("S1", "nmap", api.ScanStatusRunning, 0),
			scan("S1", "nmap", api.ScanStatusRunning, 0),
		}
		next := []api.Scan{scan("S1", "nmap", api.ScanStatusCompleted, 0)}
		Expect(Reconcile(previous, next)).To(HaveLen(1))
	})

	It("handles empty lists", func() {
		Expect(Reconcile(nil, nil)).To(BeEmpty())
		Expect(Reconcile([]api.Scan{}, []api.Scan{scan("S1", "nmap", api.ScanStatusRunning, 0)})).To(BeEmpty())
	})
})
