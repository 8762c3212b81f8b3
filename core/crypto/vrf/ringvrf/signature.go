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

package ringvrf

import (
	"errors"
	"fmt"

	"github.com/google/ringvrf/core/crypto/curve"
	"github.com/google/ringvrf/core/crypto/vrf"
	"github.com/google/ringvrf/core/ring"
)

// SignatureLen is the length of an encoded Signature.
const SignatureLen = curve.PointLen + ProofLen

// ErrMalformedSignature occurs when a signature envelope cannot be decoded.
var ErrMalformedSignature = errors.New("malformed ring signature")

// Signature is the transmitted artifact: the VRF output and its anonymous
// proof.
type Signature struct {
	Output vrf.Output
	Proof  *Proof
}

// Sign evaluates the VRF at data and proves anonymously that a member of
// the ring of pk did so, bound to ad.
func Sign(sk *vrf.Secret, data, ad []byte, pk *ring.ProverKey, opts ...vrf.ProveOption) (*Signature, error) {
	in, err := vrf.NewInput(data)
	if err != nil {
		return nil, err
	}
	out := sk.Output(in)
	p, err := Prove(sk, in, out, ad, pk, opts...)
	if err != nil {
		return nil, err
	}
	return &Signature{Output: out, Proof: p}, nil
}

// Verify checks sig against the ring of vk, the signed data and ad.
func (sig *Signature) Verify(vk *ring.VerifierKey, data, ad []byte) error {
	in, err := vrf.NewInput(data)
	if err != nil {
		return err
	}
	return Verify(in, sig.Output, ad, sig.Proof, vk)
}

// Ticket returns the ticket of the signed output.
func (sig *Signature) Ticket() [32]byte {
	return sig.Output.Ticket()
}

// Bytes returns point_to_string(O) || proof.
func (sig *Signature) Bytes() []byte {
	b := make([]byte, 0, SignatureLen)
	b = append(b, sig.Output.Bytes()...)
	return append(b, sig.Proof.Bytes()...)
}

// ParseSignature decodes an envelope produced by Bytes.
func ParseSignature(b []byte) (*Signature, error) {
	if got, want := len(b), SignatureLen; got != want {
		return nil, fmt.Errorf("%w: len(sig): %v, want %v", ErrMalformedSignature, got, want)
	}
	out, err := vrf.ParseOutput(b[:curve.PointLen])
	if err != nil {
		return nil, fmt.Errorf("%w: output: %v", ErrMalformedSignature, err)
	}
	p, err := ParseProof(b[curve.PointLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return &Signature{Output: out, Proof: p}, nil
}
