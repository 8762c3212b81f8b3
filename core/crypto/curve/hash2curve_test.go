// Copyright 2019 Google Inc. All Rights Reserved.
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

package curve

import (
	"bytes"
	"fmt"
	"testing"
)

func TestHashToCurve(t *testing.T) {
	seen := make(map[string]bool)
	for _, tc := range []struct {
		data []byte
	}{
		{data: nil},
		{data: []byte{}},
		{data: []byte("sample")},
		{data: []byte("test")},
		{data: []byte("foobar")},
		{data: []byte("some data ...")},
		{data: bytes.Repeat([]byte{0xab}, 1000)},
	} {
		t.Run(fmt.Sprintf("%q", tc.data), func(t *testing.T) {
			p, err := HashToCurve(tc.data)
			if err != nil {
				t.Fatalf("HashToCurve(): %v", err)
			}
			if !InSubgroup(&p) {
				t.Errorf("HashToCurve(): not in subgroup")
			}
			if IsIdentity(&p) {
				t.Errorf("HashToCurve(): identity")
			}
			again, err := HashToCurve(tc.data)
			if err != nil {
				t.Fatalf("HashToCurve(): %v", err)
			}
			if !again.Equal(&p) {
				t.Errorf("HashToCurve() is not deterministic")
			}
			// nil and empty hash identically.
			key := string(tc.data)
			enc := string(EncodePoint(&p))
			if len(tc.data) > 0 && seen[enc] {
				t.Errorf("HashToCurve(%q) collides", key)
			}
			seen[enc] = true
		})
	}
}

func TestHashToCurveCounter(t *testing.T) {
	// Try-and-increment needs about two attempts on average.
	var total uint
	const n = 64
	for i := 0; i < n; i++ {
		_, ctr, err := hashToCurveTryAndIncrement([]byte{byte(i)})
		if err != nil {
			t.Fatalf("hashToCurveTryAndIncrement(%v): %v", i, err)
		}
		total += ctr
	}
	if total > 4*n {
		t.Errorf("hashToCurveTryAndIncrement: %v attempts for %v inputs", total, n)
	}
}

func TestHashToScalar(t *testing.T) {
	a := HashToScalar([]byte("a"), []byte("b"))
	b := HashToScalar([]byte("ab"))
	if a.Cmp(b) != 0 {
		t.Errorf("HashToScalar is not a hash of the concatenation")
	}
	if a.Cmp(Order()) >= 0 {
		t.Errorf("HashToScalar(): %v, not reduced", a)
	}
}
