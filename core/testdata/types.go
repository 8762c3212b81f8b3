// Copyright 2018 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testdata contains data and data types for interoperability testing.
package testdata

// IETFVector is a captured direct VRF signature that should verify without
// errors.
type IETFVector struct {
	Desc      string
	Seed      []byte
	Public    []byte
	Data      []byte
	AD        []byte
	Output    []byte
	Ticket    []byte
	Signature []byte
}

// RingVector is a captured ring VRF signature that should verify without
// errors. The context is rebuilt with NewContext(MaxSize, SRSSeed); the
// ring members are the keys derived from the seeds 0..RingSize-1 as 8 byte
// little endian integers.
type RingVector struct {
	Desc        string
	MaxSize     int
	SRSSeed     []byte
	RingSize    int
	Index       int
	Data        []byte
	AD          []byte
	Commitment  []byte
	RawVerifier []byte
	Output      []byte
	Ticket      []byte
	Signature   []byte
}
