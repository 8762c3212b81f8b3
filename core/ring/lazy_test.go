// Copyright 2020 Google Inc. All Rights Reserved.
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

package ring

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/trillian/monitoring"
)

func TestLazyBuildsOnce(t *testing.T) {
	want := testContext(t)
	var builds int32
	l := &Lazy{build: func() (*Context, error) {
		atomic.AddInt32(&builds, 1)
		return want, nil
	}}

	const callers = 32
	got := make([]*Context, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := l.Get()
			if err != nil {
				t.Errorf("Get(): %v", err)
			}
			got[i] = c
		}(i)
	}
	wg.Wait()

	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("build ran %v times, want 1", n)
	}
	for i, c := range got {
		if c != want {
			t.Errorf("caller %v got a different context", i)
		}
	}
}

func TestLazyKeepsError(t *testing.T) {
	errBuild := errors.New("build failed")
	var builds int32
	l := &Lazy{build: func() (*Context, error) {
		atomic.AddInt32(&builds, 1)
		return nil, errBuild
	}}
	for i := 0; i < 3; i++ {
		if _, err := l.Get(); !errors.Is(err, errBuild) {
			t.Errorf("Get(): %v, want %v", err, errBuild)
		}
	}
	if n := atomic.LoadInt32(&builds); n != 1 {
		t.Errorf("build ran %v times, want 1", n)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	cfg := Config{MaxSize: testMaxSize, Seed: testSeed}
	c1, err := r.Get(cfg)
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	c2, err := r.Get(cfg)
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if c1 != c2 {
		t.Errorf("Get() built the same configuration twice")
	}
	if !c1.ConstantComponent().Equal(testContext(t).ConstantComponent()) {
		t.Errorf("Get() differs from NewContext() for the same configuration")
	}
	if _, err := r.Get(Config{MaxSize: 0}); !errors.Is(err, ErrInvalidRingSize) {
		t.Errorf("Get(max size 0): %v, want %v", err, ErrInvalidRingSize)
	}
}

func TestVerifierKeyCache(t *testing.T) {
	c := testContext(t)
	cache, err := NewVerifierKeyCache(c.ConstantComponent(), c.MaxSize(), 2)
	if err != nil {
		t.Fatalf("NewVerifierKeyCache(): %v", err)
	}
	var commitments []*Commitment
	for _, size := range []int{2, 3, 4} {
		_, ring := testRing(size)
		vk, err := c.VerifierKey(ring)
		if err != nil {
			t.Fatalf("VerifierKey(): %v", err)
		}
		commitments = append(commitments, vk.Commitment())
	}

	InitMetrics(monitoring.InertMetricFactory{})
	hits, misses := cacheLookups.Value("hit"), cacheLookups.Value("miss")
	first, err := cache.Get(commitments[0])
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	again, err := cache.Get(commitments[0])
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if first != again {
		t.Errorf("Get() rebuilt a cached key")
	}
	if !first.Commitment().Equal(commitments[0]) {
		t.Errorf("Get() returned the key of another ring")
	}
	if got, want := cacheLookups.Value("hit")-hits, 1.0; got != want {
		t.Errorf("cache hits: %v, want %v", got, want)
	}
	if got, want := cacheLookups.Value("miss")-misses, 1.0; got != want {
		t.Errorf("cache misses: %v, want %v", got, want)
	}

	for _, cm := range commitments[1:] {
		if _, err := cache.Get(cm); err != nil {
			t.Fatalf("Get(): %v", err)
		}
	}
	if got, want := cache.Len(), 2; got != want {
		t.Errorf("Len(): %v, want %v", got, want)
	}

	if _, err := NewVerifierKeyCache(c.ConstantComponent(), c.MaxSize(), 0); err == nil {
		t.Errorf("NewVerifierKeyCache(size 0): nil error")
	}
}
