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

// Package ringvrf implements the anonymous VRF proof: the output was
// computed by the secret of some member of a ring, without saying which.
//
// A proof has two parts. A Pedersen VRF proof shows that O = x*I for the
// secret of the key hidden in Ybar = Y + t*B. A ring proof shows that Ybar
// hides a key of the ring. The ring proof binds the Pedersen proof, the
// input, the output and the additional data.
package ringvrf

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/vrf"
	"github.com/google/ringvrf/core/crypto/vrf/pedersen"
	"github.com/google/ringvrf/core/ring"
)

// ProofLen is the length of an encoded Proof.
const ProofLen = pedersen.ProofLen + ring.ProofLen

var (
	// ErrInvalidProof occurs when a proof does not validate.
	ErrInvalidProof = errors.New("invalid ring VRF proof")
	// ErrMalformedProof occurs when a proof cannot be decoded.
	ErrMalformedProof = errors.New("malformed ring VRF proof")
)

// Proof is an anonymous VRF proof.
type Proof struct {
	Pedersen *pedersen.Proof
	Ring     *ring.Proof
}

// Bytes returns the Pedersen proof followed by the ring proof.
func (p *Proof) Bytes() []byte {
	b := make([]byte, 0, ProofLen)
	b = append(b, p.Pedersen.Bytes()...)
	return append(b, p.Ring.Bytes()...)
}

// ParseProof decodes a proof produced by Bytes.
func ParseProof(b []byte) (*Proof, error) {
	if got, want := len(b), ProofLen; got != want {
		return nil, fmt.Errorf("%w: len(pi): %v, want %v", ErrMalformedProof, got, want)
	}
	pp, err := pedersen.ParseProof(b[:pedersen.ProofLen])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	rp, err := ring.ParseProof(b[pedersen.ProofLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProof, err)
	}
	return &Proof{Pedersen: pp, Ring: rp}, nil
}

// bind lists what the ring proof commits to besides Ybar.
func bind(pp *pedersen.Proof, in vrf.Input, out vrf.Output, ad []byte) [][]byte {
	return [][]byte{pp.Bytes(), in.Bytes(), out.Bytes(), ad}
}

// Prove returns a proof that out = sk*in for the secret of the key at the
// position of pk in its ring, bound to ad. The ring proof draws its
// blinding rows from the configured entropy source, so proofs differ
// between calls even in deterministic nonce mode.
func Prove(sk *vrf.Secret, in vrf.Input, out vrf.Output, ad []byte, pk *ring.ProverKey, opts ...vrf.ProveOption) (*Proof, error) {
	start := time.Now()
	cfg := vrf.NewProveConfig(opts...)
	pp, t, err := pedersen.Prove(sk, in, out, ad, opts...)
	if err != nil {
		return nil, err
	}
	rp, err := pk.Prove(pp.KeyCommitment, t, cfg.Rand, bind(pp, in, out, ad)...)
	if err != nil {
		return nil, fmt.Errorf("ring proof at index %v: %w", pk.Index(), err)
	}
	observeProve(time.Since(start))
	glog.V(2).Infof("ringvrf: proved in %v", time.Since(start))
	return &Proof{Pedersen: pp, Ring: rp}, nil
}

// Verify checks that p proves out = x*in for the secret x of a member of
// the ring of vk, bound to ad. It returns an error wrapping ErrInvalidProof
// when the proof does not validate.
func Verify(in vrf.Input, out vrf.Output, ad []byte, p *Proof, vk *ring.VerifierKey) error {
	err := verify(in, out, ad, p, vk)
	countVerify(err == nil)
	return err
}

func verify(in vrf.Input, out vrf.Output, ad []byte, p *Proof, vk *ring.VerifierKey) error {
	if p == nil || p.Pedersen == nil || p.Ring == nil {
		return fmt.Errorf("%w: empty proof", ErrInvalidProof)
	}
	if err := pedersen.Verify(in, out, ad, p.Pedersen); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if err := vk.Verify(p.Pedersen.KeyCommitment, p.Ring, bind(p.Pedersen, in, out, ad)...); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	return nil
}
