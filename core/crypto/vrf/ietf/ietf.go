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

// Package ietf implements the non-anonymous VRF proof of the
// Bandersnatch_SHA-512_TAI suite, in the style of the ECVRF of
// https://tools.ietf.org/html/draft-irtf-cfrg-vrf
//
// The proof shows that the output O = x*I was computed with the secret x of
// the public key Y = x*G, and binds additional data ad:
//
//	k = nonce(x, I || ad)
//	c = challenge(Y, I, O, k*G, k*I, ad)
//	s = k + c*x mod r
package ietf

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/curve"
	"github.com/google/ringvrf/core/crypto/vrf"
)

const (
	// cLen is the length of the challenge c.
	cLen = curve.ScalarLen
	// ProofLen is the length of an encoded proof c || s.
	ProofLen = cLen + curve.ScalarLen
)

var (
	// ErrInvalidProof occurs when a proof does not validate.
	ErrInvalidProof = errors.New("invalid VRF proof")
	// ErrMalformedProof occurs when a proof cannot be decoded.
	ErrMalformedProof = errors.New("malformed VRF proof")
)

// Proof is a direct VRF proof.
type Proof struct {
	C *big.Int
	S *big.Int
}

// Bytes returns int_to_string(c, cLen) || int_to_string(s, qLen).
func (p *Proof) Bytes() []byte {
	b := make([]byte, 0, ProofLen)
	b = append(b, curve.EncodeScalar(p.C)...)
	return append(b, curve.EncodeScalar(p.S)...)
}

// ParseProof decodes c || s. Both scalars must be canonical.
func ParseProof(pi []byte) (*Proof, error) {
	if got, want := len(pi), ProofLen; got != want {
		return nil, fmt.Errorf("%w: len(pi): %v, want %v", ErrMalformedProof, got, want)
	}
	c, err := curve.DecodeScalar(pi[:cLen])
	if err != nil {
		return nil, fmt.Errorf("%w: c: %v", ErrMalformedProof, err)
	}
	s, err := curve.DecodeScalar(pi[cLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: s: %v", ErrMalformedProof, err)
	}
	return &Proof{C: c, S: s}, nil
}

// challenge implements ECVRF_hash_points extended with additional data:
// SHA-512(suite_string || 0x02 || points... || ad || 0x00)[0:cLen] mod r.
func challenge(ad []byte, points ...*curve.Point) *big.Int {
	h := sha512.New()
	h.Write([]byte(curve.SuiteID))
	h.Write([]byte{0x02})
	for _, p := range points {
		h.Write(curve.EncodePoint(p))
	}
	h.Write(ad)
	h.Write([]byte{0x00})
	return curve.ScalarFromBytes(h.Sum(nil)[:cLen])
}

// Prove returns a proof that out = sk*in, bound to ad.
func Prove(sk *vrf.Secret, in vrf.Input, out vrf.Output, ad []byte, opts ...vrf.ProveOption) (*Proof, error) {
	start := time.Now()
	cfg := vrf.NewProveConfig(opts...)
	x := sk.Scalar()
	r := curve.Order()

	// k = ECVRF_nonce_generation(SK, h_string || ad)
	k, err := cfg.Nonce(x, in.Bytes(), ad)
	if err != nil {
		return nil, err
	}

	Y, I, O := sk.Public().Point(), in.Point(), out.Point()
	U := curve.MulBase(k)
	V := curve.Mul(&I, k)

	// c = ECVRF_hash_points(Y, I, O, k*G, k*I)
	c := challenge(ad, &Y, &I, &O, &U, &V)

	// s = (k + c*x) mod q
	s := new(big.Int).Mul(c, x)
	s.Add(s, k).Mod(s, r)

	observeProve(time.Since(start))
	glog.V(2).Infof("ietf: proved in %v", time.Since(start))
	return &Proof{C: c, S: s}, nil
}

// Verify checks that p proves out = x*in for the secret x of pk, bound to
// ad. It returns ErrInvalidProof when the proof does not validate.
func Verify(pk vrf.Public, in vrf.Input, out vrf.Output, ad []byte, p *Proof) error {
	if p == nil || p.C == nil || p.S == nil {
		countVerify(false)
		return fmt.Errorf("%w: empty proof", ErrInvalidProof)
	}
	Y, I, O := pk.Point(), in.Point(), out.Point()

	// U = s*B - c*Y
	sG := curve.MulBase(p.S)
	cY := curve.Mul(&Y, p.C)
	U := curve.Sub(&sG, &cY)

	// V = s*H - c*Gamma
	sI := curve.Mul(&I, p.S)
	cO := curve.Mul(&O, p.C)
	V := curve.Sub(&sI, &cO)

	// c' = ECVRF_hash_points(Y, I, O, U, V)
	c := challenge(ad, &Y, &I, &O, &U, &V)
	if c.Cmp(curve.Reduce(p.C)) != 0 {
		countVerify(false)
		return ErrInvalidProof
	}
	countVerify(true)
	return nil
}
