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
	"bytes"
	"runtime"
	"runtime/pprof"
)

// StackDump is a point-in-time view of the process's goroutines and heap,
// served by the debug endpoint.
type StackDump struct {
	Runtime        string
	Goroutines     string
	GoroutineCount int
	Heap           string
	HeapCount      int
}

// DumpStack collects goroutine stacks from both runtime and pprof, plus a heap profile.
func DumpStack() *StackDump {
	dump := &StackDump{Runtime: runtimeStack()}
	dump.Goroutines, dump.GoroutineCount = lookupProfile("goroutine")
	dump.Heap, dump.HeapCount = lookupProfile("heap")
	return dump
}

func runtimeStack() string {
	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, true)
	return string(buf[:n])
}

func lookupProfile(name string) (string, int) {
	profile := pprof.Lookup(name)
	if profile == nil {
		return "", 0
	}
	buffer := new(bytes.Buffer)
	if err := profile.WriteTo(buffer, 1); err != nil {
		return err.Error(), profile.Count()
	}
	return buffer.String(), profile.Count()
}
