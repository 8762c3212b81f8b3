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

// Package pedersen implements a VRF proof against a blinded public key.
//
// Instead of Y = x*G the proof reveals Ybar = Y + t*B for a secret blinding
// factor t:
//
//	R  = k*G + kb*B
//	Ok = k*I
//	c  = challenge(Ybar, I, O, R, Ok, ad)
//	s  = k + c*x, sb = kb + c*t
//
// The verifier learns that O was computed with the secret of whatever key
// Ybar commits to. A ring proof then shows that this key is a ring member.
package pedersen

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"math/big"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/commitments"
	"github.com/google/ringvrf/core/crypto/curve"
	"github.com/google/ringvrf/core/crypto/vrf"
)

// ProofLen is the length of an encoded proof Ybar || R || Ok || s || sb.
const ProofLen = 3*curve.PointLen + 2*curve.ScalarLen

var (
	// ErrInvalidProof occurs when a proof does not validate.
	ErrInvalidProof = errors.New("invalid pedersen VRF proof")
	// ErrMalformedProof occurs when a proof cannot be decoded.
	ErrMalformedProof = errors.New("malformed pedersen VRF proof")
)

// Domain separation of the three nonces derived per proof.
var (
	blindingTag = []byte("pedersen-blinding")
	nonceTag    = []byte("pedersen-nonce")
)

// Proof is a Pedersen VRF proof.
type Proof struct {
	// KeyCommitment is Ybar.
	KeyCommitment curve.Point
	R             curve.Point
	Ok            curve.Point
	S             *big.Int
	Sb            *big.Int
}

// Bytes returns the 160 byte encoding of p.
func (p *Proof) Bytes() []byte {
	b := make([]byte, 0, ProofLen)
	b = append(b, curve.EncodePoint(&p.KeyCommitment)...)
	b = append(b, curve.EncodePoint(&p.R)...)
	b = append(b, curve.EncodePoint(&p.Ok)...)
	b = append(b, curve.EncodeScalar(p.S)...)
	return append(b, curve.EncodeScalar(p.Sb)...)
}

// ParseProof decodes a proof produced by Bytes.
func ParseProof(b []byte) (*Proof, error) {
	if got, want := len(b), ProofLen; got != want {
		return nil, fmt.Errorf("%w: len(pi): %v, want %v", ErrMalformedProof, got, want)
	}
	var pts [3]curve.Point
	for i := range pts {
		p, err := curve.DecodePoint(b[i*curve.PointLen : (i+1)*curve.PointLen])
		if err != nil {
			return nil, fmt.Errorf("%w: point %d: %v", ErrMalformedProof, i, err)
		}
		pts[i] = p
	}
	off := 3 * curve.PointLen
	s, err := curve.DecodeScalar(b[off : off+curve.ScalarLen])
	if err != nil {
		return nil, fmt.Errorf("%w: s: %v", ErrMalformedProof, err)
	}
	sb, err := curve.DecodeScalar(b[off+curve.ScalarLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: sb: %v", ErrMalformedProof, err)
	}
	return &Proof{KeyCommitment: pts[0], R: pts[1], Ok: pts[2], S: s, Sb: sb}, nil
}

func challenge(ad []byte, points ...*curve.Point) *big.Int {
	h := sha512.New()
	h.Write([]byte(curve.SuiteID))
	h.Write([]byte{0x02})
	for _, p := range points {
		h.Write(curve.EncodePoint(p))
	}
	h.Write(ad)
	h.Write([]byte{0x00})
	return curve.ScalarFromBytes(h.Sum(nil)[:curve.ScalarLen])
}

// Prove returns a proof that out = sk*in for the key committed to in the
// proof, and the blinding factor t of that commitment. The ring proof needs
// t to open the commitment inside its circuit.
func Prove(sk *vrf.Secret, in vrf.Input, out vrf.Output, ad []byte, opts ...vrf.ProveOption) (*Proof, *big.Int, error) {
	cfg := vrf.NewProveConfig(opts...)
	x := sk.Scalar()
	r := curve.Order()
	ib := in.Bytes()

	t, err := cfg.Nonce(x, blindingTag, ib, ad)
	if err != nil {
		return nil, nil, err
	}
	k, err := cfg.Nonce(x, nonceTag, ib, ad)
	if err != nil {
		return nil, nil, err
	}
	kb, err := cfg.Nonce(t, nonceTag, ib, ad)
	if err != nil {
		return nil, nil, err
	}

	ybar := commitments.Commit(sk.Public(), t)
	I, O := in.Point(), out.Point()
	kG := curve.MulBase(k)
	B := curve.BlindingBase()
	kbB := curve.Mul(&B, kb)
	R := curve.Add(&kG, &kbB)
	Ok := curve.Mul(&I, k)

	c := challenge(ad, &ybar, &I, &O, &R, &Ok)
	s := new(big.Int).Mul(c, x)
	s.Add(s, k).Mod(s, r)
	sb := new(big.Int).Mul(c, t)
	sb.Add(sb, kb).Mod(sb, r)

	glog.V(3).Infof("pedersen: committed key %x", curve.EncodePoint(&ybar))
	return &Proof{KeyCommitment: ybar, R: R, Ok: Ok, S: s, Sb: sb}, t, nil
}

// Verify checks p against in, out and ad. It says nothing about which key
// p.KeyCommitment hides.
func Verify(in vrf.Input, out vrf.Output, ad []byte, p *Proof) error {
	if p == nil || p.S == nil || p.Sb == nil {
		return fmt.Errorf("%w: empty proof", ErrInvalidProof)
	}
	I, O := in.Point(), out.Point()
	c := challenge(ad, &p.KeyCommitment, &I, &O, &p.R, &p.Ok)

	// Ok + c*O == s*I
	cO := curve.Mul(&O, c)
	lhs := curve.Add(&p.Ok, &cO)
	rhs := curve.Mul(&I, p.S)
	if !lhs.Equal(&rhs) {
		return ErrInvalidProof
	}

	// R + c*Ybar == s*G + sb*B
	cY := curve.Mul(&p.KeyCommitment, c)
	lhs = curve.Add(&p.R, &cY)
	sG := curve.MulBase(p.S)
	B := curve.BlindingBase()
	sbB := curve.Mul(&B, p.Sb)
	rhs = curve.Add(&sG, &sbB)
	if !lhs.Equal(&rhs) {
		return ErrInvalidProof
	}
	return nil
}
