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
	"bytes"
	"encoding/binary"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/google/ringvrf/core/crypto/vrf"
)

const testMaxSize = 8

var (
	testSeed    = [32]byte{'r', 'i', 'n', 'g'}
	testCtxOnce sync.Once
	testCtx     *Context
	testCtxErr  error
)

// testContext returns a context shared by the tests of this package.
func testContext(t *testing.T) *Context {
	t.Helper()
	testCtxOnce.Do(func() { testCtx, testCtxErr = NewContext(testMaxSize, testSeed) })
	if testCtxErr != nil {
		t.Fatalf("NewContext(%v): %v", testMaxSize, testCtxErr)
	}
	return testCtx
}

// testRing returns n keys derived from the seeds 0..n-1 as 8 byte little
// endian integers.
func testRing(n int) ([]*vrf.Secret, []vrf.Public) {
	sks := make([]*vrf.Secret, n)
	ring := make([]vrf.Public, n)
	for i := range sks {
		var seed [8]byte
		binary.LittleEndian.PutUint64(seed[:], uint64(i))
		sks[i] = vrf.NewSecretFromSeed(seed[:])
		ring[i] = sks[i].Public()
	}
	return sks, ring
}

func TestDomainSize(t *testing.T) {
	for _, tc := range []struct {
		maxSize  int
		n        int
		capacity int
	}{
		{maxSize: 1, n: 512, capacity: 255},
		{maxSize: 255, n: 512, capacity: 255},
		{maxSize: 256, n: 1024, capacity: 767},
		{maxSize: 1023, n: 2048, capacity: 1791},
		{maxSize: MaxRingSize, n: MaxDomainSize, capacity: MaxRingSize},
	} {
		if got := domainSize(tc.maxSize); got != tc.n {
			t.Errorf("domainSize(%v): %v, want %v", tc.maxSize, got, tc.n)
		}
		if got := tc.n - overhead; got != tc.capacity {
			t.Errorf("capacity(%v): %v, want %v", tc.maxSize, got, tc.capacity)
		}
	}
}

func TestNewContextErrors(t *testing.T) {
	for _, maxSize := range []int{-1, 0, MaxRingSize + 1} {
		if _, err := NewContext(maxSize, testSeed); !errors.Is(err, ErrInvalidRingSize) {
			t.Errorf("NewContext(%v): %v, want %v", maxSize, err, ErrInvalidRingSize)
		}
	}
	srs, err := kzg.NewSRS(uint64(srsSize(512)-1), big.NewInt(42))
	if err != nil {
		t.Fatalf("kzg.NewSRS(): %v", err)
	}
	if _, err := NewContextFromSRS(testMaxSize, srs); !errors.Is(err, ErrSRSTooSmall) {
		t.Errorf("NewContextFromSRS(short srs): %v, want %v", err, ErrSRSTooSmall)
	}
}

func TestContextAccessors(t *testing.T) {
	c := testContext(t)
	if got, want := c.MaxSize(), testMaxSize; got != want {
		t.Errorf("MaxSize(): %v, want %v", got, want)
	}
	if got, want := c.DomainSize(), 512; got != want {
		t.Errorf("DomainSize(): %v, want %v", got, want)
	}
	if got, want := c.Capacity(), 255; got != want {
		t.Errorf("Capacity(): %v, want %v", got, want)
	}
	if got, want := c.lastRow(), 508; got != want {
		t.Errorf("lastRow(): %v, want %v", got, want)
	}
}

func TestContextSerialization(t *testing.T) {
	c := testContext(t)
	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo(): %v", err)
	}
	got, err := ReadContext(&buf)
	if err != nil {
		t.Fatalf("ReadContext(): %v", err)
	}
	if got.MaxSize() != c.MaxSize() || got.DomainSize() != c.DomainSize() {
		t.Errorf("ReadContext(): max size %v, %v rows, want %v, %v",
			got.MaxSize(), got.DomainSize(), c.MaxSize(), c.DomainSize())
	}
	if !got.ConstantComponent().Equal(c.ConstantComponent()) {
		t.Errorf("ReadContext().ConstantComponent() differs")
	}

	_, ring := testRing(3)
	want, err := c.VerifierKey(ring)
	if err != nil {
		t.Fatalf("VerifierKey(): %v", err)
	}
	vk, err := got.VerifierKey(ring)
	if err != nil {
		t.Fatalf("VerifierKey(): %v", err)
	}
	if !vk.Commitment().Equal(want.Commitment()) {
		t.Errorf("ring commitment changed across serialization")
	}

	if _, err := ReadContext(bytes.NewReader([]byte{0, 0})); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("ReadContext(short): %v, want %v", err, ErrMalformedKey)
	}
}

func TestRawVerifierKey(t *testing.T) {
	raw := testContext(t).ConstantComponent()
	b := raw.Bytes()
	if got, want := len(b), RawVerifierKeyLen; got != want {
		t.Fatalf("len(Bytes()): %v, want %v", got, want)
	}
	got, err := ParseRawVerifierKey(b)
	if err != nil {
		t.Fatalf("ParseRawVerifierKey(): %v", err)
	}
	if !got.Equal(raw) {
		t.Errorf("ParseRawVerifierKey(%x) differs", b)
	}
	for _, bad := range [][]byte{nil, b[:RawVerifierKeyLen-1]} {
		if _, err := ParseRawVerifierKey(bad); !errors.Is(err, ErrMalformedKey) {
			t.Errorf("ParseRawVerifierKey(len %d): %v, want %v", len(bad), err, ErrMalformedKey)
		}
	}

	other, err := NewContext(testMaxSize, [32]byte{'o', 't', 'h', 'e', 'r'})
	if err != nil {
		t.Fatalf("NewContext(): %v", err)
	}
	if other.ConstantComponent().Equal(raw) {
		t.Errorf("contexts from different seeds share a verifying key")
	}
}

func TestEvaluateDomain(t *testing.T) {
	c := testContext(t)
	n := c.n()
	if _, err := evaluateDomain(n, c.domain.Generator, c.domain.Generator); err == nil {
		t.Errorf("evaluateDomain(omega): nil error for a root of unity")
	}

	// The selectors interpolated on the rows must agree with the closed
	// forms used by the verifier.
	zeta := challenge([]byte("evaluation point"))
	d, err := evaluateDomain(n, c.domain.Generator, zeta)
	if err != nil {
		t.Fatalf("evaluateDomain(): %v", err)
	}
	first := c.coefficients(append(c.first[:0:0], c.first...))
	last := c.coefficients(append(c.last[:0:0], c.last...))
	notLast := c.coefficients(append(c.notLast[:0:0], c.notLast...))
	for _, tc := range []struct {
		desc string
		got  [32]byte
		want [32]byte
	}{
		{desc: "first", got: d.first.Bytes(), want: evalBytes(first, zeta)},
		{desc: "last", got: d.last.Bytes(), want: evalBytes(last, zeta)},
		{desc: "notLast", got: d.notLast.Bytes(), want: evalBytes(notLast, zeta)},
	} {
		if tc.got != tc.want {
			t.Errorf("%v(zeta): %x, want %x", tc.desc, tc.got, tc.want)
		}
	}
}

func evalBytes(p []fr.Element, z fr.Element) [32]byte {
	e := evaluate(p, z)
	return e.Bytes()
}

// evaluate returns p(z).
func evaluate(p []fr.Element, z fr.Element) fr.Element {
	var res fr.Element
	for i := len(p) - 1; i >= 0; i-- {
		res.Mul(&res, &z).Add(&res, &p[i])
	}
	return res
}
