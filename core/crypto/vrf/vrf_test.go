// Copyright 2016 Google Inc. All Rights Reserved.
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

package vrf

import (
	"bytes"
	"crypto/sha512"
	"errors"
	"math/big"
	"testing"

	"github.com/google/ringvrf/core/crypto/curve"
)

func TestSecretFromSeed(t *testing.T) {
	for _, seed := range [][]byte{
		[]byte("testing-seed"),
		{},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{3, 0, 0, 0, 0, 0, 0, 0},
	} {
		a, b := NewSecretFromSeed(seed), NewSecretFromSeed(seed)
		if a.Scalar().Cmp(b.Scalar()) != 0 {
			t.Errorf("NewSecretFromSeed(%x) is not deterministic", seed)
		}
		if !a.Public().Equal(b.Public()) {
			t.Errorf("Public() of NewSecretFromSeed(%x) is not deterministic", seed)
		}
		h := sha512.Sum512(seed)
		if got, want := a.Scalar(), curve.ScalarFromBytes(h[:]); got.Cmp(want) != 0 {
			t.Errorf("NewSecretFromSeed(%x): %v, want %v", seed, got, want)
		}
		g := curve.MulBase(a.Scalar())
		if got := a.Public().Point(); !got.Equal(&g) {
			t.Errorf("Public() != x*G")
		}
	}
	s1 := NewSecretFromSeed([]byte{1})
	s2 := NewSecretFromSeed([]byte{2})
	if s1.Public().Equal(s2.Public()) {
		t.Errorf("distinct seeds give the same public key")
	}
}

func TestNewSecret(t *testing.T) {
	r := curve.Order()
	for _, tc := range []struct {
		desc    string
		x       *big.Int
		wantErr error
	}{
		{desc: "one", x: big.NewInt(1)},
		{desc: "r-1", x: new(big.Int).Sub(r, big.NewInt(1))},
		{desc: "zero", x: big.NewInt(0), wantErr: ErrZeroSecret},
		{desc: "r", x: r, wantErr: curve.ErrInvalidScalar},
		{desc: "negative", x: big.NewInt(-1), wantErr: curve.ErrInvalidScalar},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := NewSecret(tc.x)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("NewSecret(%v): %v, want %v", tc.x, err, tc.wantErr)
			}
		})
	}
}

func TestSecretRoundTrip(t *testing.T) {
	sk, err := GenerateSecret(nil)
	if err != nil {
		t.Fatalf("GenerateSecret(): %v", err)
	}
	got, err := ParseSecret(sk.Bytes())
	if err != nil {
		t.Fatalf("ParseSecret(): %v", err)
	}
	if got.Scalar().Cmp(sk.Scalar()) != 0 || !got.Public().Equal(sk.Public()) {
		t.Errorf("ParseSecret(Bytes()) != sk")
	}
	if _, err := ParseSecret(make([]byte, curve.ScalarLen)); !errors.Is(err, ErrZeroSecret) {
		t.Errorf("ParseSecret(0): %v, want %v", err, ErrZeroSecret)
	}
	if _, err := GenerateSecret(bytes.NewReader([]byte{1})); err == nil {
		t.Errorf("GenerateSecret(short reader): nil error")
	}
}

func TestOutputDeterminism(t *testing.T) {
	sk := NewSecretFromSeed([]byte("testing-seed"))
	in1, err := NewInput([]byte("some data ..."))
	if err != nil {
		t.Fatalf("NewInput(): %v", err)
	}
	in2, err := NewInput([]byte("some data ..."))
	if err != nil {
		t.Fatalf("NewInput(): %v", err)
	}
	if !bytes.Equal(in1.Bytes(), in2.Bytes()) {
		t.Errorf("NewInput() is not deterministic")
	}
	o1, o2 := sk.Output(in1), sk.Output(in2)
	if !o1.Equal(o2) {
		t.Errorf("Output() is not deterministic")
	}
	if o1.Hash() != o2.Hash() {
		t.Errorf("Hash() is not deterministic")
	}
	h, ticket := o1.Hash(), o1.Ticket()
	if !bytes.Equal(h[:32], ticket[:]) {
		t.Errorf("Ticket(): %x, want %x", ticket, h[:32])
	}

	other, err := NewInput([]byte("some data ..!"))
	if err != nil {
		t.Fatalf("NewInput(): %v", err)
	}
	if sk.Output(other).Ticket() == ticket {
		t.Errorf("distinct inputs share a ticket")
	}
}

func TestPointRoundTrips(t *testing.T) {
	sk := NewSecretFromSeed([]byte("round trip"))
	in, err := NewInput([]byte("foobar"))
	if err != nil {
		t.Fatalf("NewInput(): %v", err)
	}
	out := sk.Output(in)

	pk, err := ParsePublic(sk.Public().Bytes())
	if err != nil || !pk.Equal(sk.Public()) {
		t.Errorf("ParsePublic(Bytes()): %v, %v", pk, err)
	}
	gotIn, err := ParseInput(in.Bytes())
	if err != nil || !bytes.Equal(gotIn.Bytes(), in.Bytes()) {
		t.Errorf("ParseInput(Bytes()): %v", err)
	}
	gotOut, err := ParseOutput(out.Bytes())
	if err != nil || !gotOut.Equal(out) {
		t.Errorf("ParseOutput(Bytes()): %v", err)
	}
	if _, err := ParseOutput(out.Bytes()[1:]); !errors.Is(err, curve.ErrInvalidPoint) {
		t.Errorf("ParseOutput(truncated): %v, want %v", err, curve.ErrInvalidPoint)
	}
}

func TestOutputHashClearsCofactor(t *testing.T) {
	// Hash multiplies by the cofactor, so adding a point of order 2 does not
	// change the ticket.
	sk := NewSecretFromSeed([]byte("cofactor"))
	in, err := NewInput([]byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	out := sk.Output(in)
	var torsion curve.Point
	torsion.Y.SetOne()
	torsion.Y.Neg(&torsion.Y)
	p := out.Point()
	shifted := NewOutput(curve.Add(&p, &torsion))
	if shifted.Hash() != out.Hash() {
		t.Errorf("Hash() depends on the small order component")
	}
}
