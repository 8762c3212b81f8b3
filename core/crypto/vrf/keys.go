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

package vrf

import (
	"crypto/rand"
	"crypto/sha512"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/google/ringvrf/core/crypto/curve"
)

// ErrZeroSecret occurs when a secret scalar is zero.
var ErrZeroSecret = errors.New("secret scalar is zero")

// Secret is a VRF secret key: a scalar x in [1, r).
type Secret struct {
	x   *big.Int
	pub Public
}

// NewSecret returns the secret key with scalar x.
func NewSecret(x *big.Int) (*Secret, error) {
	if x.Sign() < 0 || x.Cmp(curve.Order()) >= 0 {
		return nil, curve.ErrInvalidScalar
	}
	if x.Sign() == 0 {
		return nil, ErrZeroSecret
	}
	s := &Secret{x: new(big.Int).Set(x)}
	s.pub = Public{p: curve.MulBase(s.x)}
	return s, nil
}

// NewSecretFromSeed derives a secret key from an opaque seed:
// x = SHA-512(seed) mod r, read as a little-endian integer.
func NewSecretFromSeed(seed []byte) *Secret {
	h := sha512.Sum512(seed)
	x := curve.ScalarFromBytes(h[:])
	if x.Sign() == 0 {
		// Happens with probability 1/r.
		x.SetInt64(1)
	}
	s := &Secret{x: x}
	s.pub = Public{p: curve.MulBase(x)}
	return s
}

// GenerateSecret derives a secret key from 64 bytes read from rnd.
// crypto/rand is used when rnd is nil.
func GenerateSecret(rnd io.Reader) (*Secret, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	seed := make([]byte, 64)
	if _, err := io.ReadFull(rnd, seed); err != nil {
		return nil, fmt.Errorf("reading seed: %w", err)
	}
	return NewSecretFromSeed(seed), nil
}

// ParseSecret decodes a 32-byte little-endian secret scalar.
func ParseSecret(b []byte) (*Secret, error) {
	x, err := curve.DecodeScalar(b)
	if err != nil {
		return nil, err
	}
	return NewSecret(x)
}

// Bytes returns the 32-byte little-endian secret scalar.
func (s *Secret) Bytes() []byte {
	return curve.EncodeScalar(s.x)
}

// Scalar returns a copy of the secret scalar.
func (s *Secret) Scalar() *big.Int {
	return new(big.Int).Set(s.x)
}

// Public returns x*G.
func (s *Secret) Public() Public {
	return s.pub
}

// Output returns x*I.
func (s *Secret) Output(in Input) Output {
	return Output{p: curve.Mul(&in.p, s.x)}
}

// Public is a VRF public key.
type Public struct {
	p curve.Point
}

// NewPublic wraps a point of the prime order subgroup.
func NewPublic(p curve.Point) Public { return Public{p: p} }

// ParsePublic decodes a compressed public key.
func ParsePublic(b []byte) (Public, error) {
	p, err := curve.DecodePoint(b)
	if err != nil {
		return Public{}, err
	}
	return Public{p: p}, nil
}

// Point returns the public key point.
func (pk Public) Point() curve.Point { return pk.p }

// Bytes returns the compressed public key.
func (pk Public) Bytes() []byte { return curve.EncodePoint(&pk.p) }

// Equal reports whether pk and o are the same key.
func (pk Public) Equal(o Public) bool { return pk.p.Equal(&o.p) }

// Input is a VRF input point.
type Input struct {
	p curve.Point
}

// NewInput hashes data to a VRF input point.
func NewInput(data []byte) (Input, error) {
	p, err := curve.HashToCurve(data)
	if err != nil {
		return Input{}, err
	}
	return Input{p: p}, nil
}

// ParseInput decodes a compressed input point.
func ParseInput(b []byte) (Input, error) {
	p, err := curve.DecodePoint(b)
	if err != nil {
		return Input{}, err
	}
	return Input{p: p}, nil
}

// Point returns the input point.
func (in Input) Point() curve.Point { return in.p }

// Bytes returns the compressed input point.
func (in Input) Bytes() []byte { return curve.EncodePoint(&in.p) }

// Output is a VRF output point, before hashing.
type Output struct {
	p curve.Point
}

// NewOutput wraps a point of the prime order subgroup.
func NewOutput(p curve.Point) Output { return Output{p: p} }

// ParseOutput decodes a compressed output point.
func ParseOutput(b []byte) (Output, error) {
	p, err := curve.DecodePoint(b)
	if err != nil {
		return Output{}, err
	}
	return Output{p: p}, nil
}

// Point returns the output point.
func (o Output) Point() curve.Point { return o.p }

// Bytes returns the compressed output point.
func (o Output) Bytes() []byte { return curve.EncodePoint(&o.p) }

// Equal reports whether o and other are the same point.
func (o Output) Equal(other Output) bool { return o.p.Equal(&other.p) }

// Hash implements proof_to_hash on the output point:
// SHA-512(suite_string || 0x03 || point_to_string(cofactor * O) || 0x00).
func (o Output) Hash() [64]byte {
	c := curve.ClearCofactor(&o.p)
	h := sha512.New()
	h.Write([]byte(curve.SuiteID))
	h.Write([]byte{0x03})
	h.Write(curve.EncodePoint(&c))
	h.Write([]byte{0x00})
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Ticket returns the first 32 bytes of Hash, the score used by lotteries.
func (o Output) Ticket() [32]byte {
	h := o.Hash()
	var t [32]byte
	copy(t[:], h[:32])
	return t
}
