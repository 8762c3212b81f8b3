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

package ietf

import (
	"crypto"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/vrf"
)

var (
	_ vrf.PrivateKey = (*Signer)(nil)
	_ vrf.PublicKey  = (*Verifier)(nil)
)

// Signer evaluates the VRF with a secret key. Signatures carry no
// additional data.
type Signer struct {
	sk   *vrf.Secret
	opts []vrf.ProveOption
}

// NewSigner creates a signer object from a secret key.
func NewSigner(sk *vrf.Secret, opts ...vrf.ProveOption) *Signer {
	return &Signer{sk: sk, opts: opts}
}

// NewSignerFromPEM creates a signer from a PEM data structure.
func NewSignerFromPEM(b []byte, opts ...vrf.ProveOption) (*Signer, error) {
	sk, err := vrf.ParseSecretPEM(b)
	if err != nil {
		return nil, err
	}
	return NewSigner(sk, opts...), nil
}

// Evaluate returns the ticket of the VRF evaluated at m and the encoded
// signature. It returns a zero index and a nil proof on failure.
func (k *Signer) Evaluate(m []byte) (index [32]byte, proof []byte) {
	sig, err := Sign(k.sk, m, nil, k.opts...)
	if err != nil {
		glog.Errorf("ietf.Sign(): %v", err)
		return [32]byte{}, nil
	}
	return sig.Ticket(), sig.Bytes()
}

// Public returns the corresponding vrf.Public.
func (k *Signer) Public() crypto.PublicKey {
	return k.sk.Public()
}

// Verifier checks signatures produced by a Signer.
type Verifier struct {
	pk vrf.Public
}

// NewVerifier creates a verifier object from a public key.
func NewVerifier(pk vrf.Public) *Verifier {
	return &Verifier{pk: pk}
}

// NewVerifierFromPEM creates a verifier from a PEM data structure.
func NewVerifierFromPEM(b []byte) (*Verifier, error) {
	pk, err := vrf.ParsePublicPEM(b)
	if err != nil {
		return nil, err
	}
	return NewVerifier(pk), nil
}

// ProofToHash asserts that proof is correct for m and outputs index.
func (v *Verifier) ProofToHash(m, proof []byte) (index [32]byte, err error) {
	sig, err := ParseSignature(proof)
	if err != nil {
		return [32]byte{}, err
	}
	if err := sig.Verify(v.pk, m, nil); err != nil {
		return [32]byte{}, err
	}
	return sig.Ticket(), nil
}
