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

// Package ring implements the ring membership argument behind anonymous
// VRF proofs: a KZG based proof that a Pedersen commitment Ybar = Y + t*B
// hides a key Y of a fixed ring, without revealing which one.
//
// A Context holds the setup shared by every ring up to a maximum size: the
// evaluation domain and the structured reference string. ProverKey and
// VerifierKey bind a context to a concrete ring.
//
// The ring is laid out as columns over a domain of n rows:
//
//	rows [0, capacity)          ring keys, then the padding point
//	rows [capacity, n-4)        2^j * B for j < 253
//	row  n-4                    the final accumulator row
//	rows [n-3, n)               random witness rows
//
// The prover selects one key row and the bits of t with a boolean column
// b, and accumulates S + sum(b_i * P_i) into S + Ybar.
package ring

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/curve"
)

const (
	// MaxDomainSize bounds the evaluation domain of a context.
	MaxDomainSize = 1 << 16
	// scalarBits is the bit length of blinding factors.
	scalarBits = 253
	// zkRows is the number of random rows of each witness column.
	zkRows = 3
	// overhead is the number of rows not available to ring keys.
	overhead = scalarBits + 1 + zkRows
	// MaxRingSize is the largest ring a context can hold.
	MaxRingSize = MaxDomainSize - overhead
	// blowup is the ratio between the quotient domain and the row domain.
	// Constraint polynomials have degree below 4n.
	blowup = 4

	srsLabel = "ring-srs"
)

var (
	// ErrInvalidRingSize occurs when a ring is empty or larger than the
	// context allows.
	ErrInvalidRingSize = errors.New("invalid ring size")
	// ErrIndexOutOfRange occurs when the prover position is not in the ring.
	ErrIndexOutOfRange = errors.New("prover index out of range")
	// ErrSRSTooSmall occurs when an SRS cannot commit to the quotient.
	ErrSRSTooSmall = errors.New("SRS too small for ring size")
	// ErrMalformedKey occurs when serialized key material cannot be decoded.
	ErrMalformedKey = errors.New("malformed key material")
)

// Context is the setup shared by all rings up to MaxSize members. It is
// immutable and safe for concurrent use.
type Context struct {
	maxSize int
	domain  *fft.Domain // n rows
	coset   *fft.Domain // blowup*n points of the quotient coset
	srs     *kzg.SRS

	// powers holds 2^j * B for j < scalarBits.
	powers []curve.Point
	// Selector polynomials evaluated on the quotient coset.
	notLast, first, last []fr.Element
	// vanishingInv is 1/V on the quotient coset, where V vanishes on the
	// constrained rows [0, n-3).
	vanishingInv []fr.Element
}

// domainSize returns the number of rows needed for rings of maxSize keys.
func domainSize(maxSize int) int {
	return int(ecc.NextPowerOfTwo(uint64(maxSize + overhead)))
}

// srsSize returns the number of G1 powers needed to commit to the quotient.
func srsSize(n int) int {
	return (blowup-1)*n + 1
}

func checkMaxSize(maxSize int) error {
	if maxSize <= 0 || maxSize > MaxRingSize {
		return fmt.Errorf("%w: max size %v not in [1, %v]", ErrInvalidRingSize, maxSize, MaxRingSize)
	}
	return nil
}

// NewContext returns a context with a test SRS derived from seed. The
// secret of the SRS is SHA-512("ring-srs" || seed), so the context is only
// suitable where everybody may know it; production deployments should load
// a ceremony SRS with NewContextFromSRS.
func NewContext(maxSize int, seed [32]byte) (*Context, error) {
	if err := checkMaxSize(maxSize); err != nil {
		return nil, err
	}
	start := time.Now()
	h := sha512.New()
	h.Write([]byte(srsLabel))
	h.Write(seed[:])
	var tau fr.Element
	tau.SetBytes(h.Sum(nil))
	srs, err := kzg.NewSRS(uint64(srsSize(domainSize(maxSize))), tau.BigInt(new(big.Int)))
	if err != nil {
		return nil, fmt.Errorf("kzg.NewSRS(): %w", err)
	}
	glog.V(2).Infof("ring: test SRS for max size %v built in %v", maxSize, time.Since(start))
	return NewContextFromSRS(maxSize, srs)
}

// NewContextFromSRS returns a context using the powers of srs. Only the
// powers the context needs are retained.
func NewContextFromSRS(maxSize int, srs *kzg.SRS) (*Context, error) {
	if err := checkMaxSize(maxSize); err != nil {
		return nil, err
	}
	start := time.Now()
	n := domainSize(maxSize)
	if got, want := len(srs.Pk.G1), srsSize(n); got < want {
		return nil, fmt.Errorf("%w: %v powers, want %v", ErrSRSTooSmall, got, want)
	}
	c := &Context{
		maxSize: maxSize,
		domain:  fft.NewDomain(uint64(n)),
		coset:   fft.NewDomain(uint64(blowup * n)),
		srs: &kzg.SRS{
			Pk: kzg.ProvingKey{G1: srs.Pk.G1[:srsSize(n)]},
			Vk: srs.Vk,
		},
	}
	c.powers = blindingPowers()
	c.precomputeSelectors()
	countContextBuild()
	glog.V(2).Infof("ring: context for max size %v (%v rows) built in %v", maxSize, n, time.Since(start))
	return c, nil
}

func blindingPowers() []curve.Point {
	p := make([]curve.Point, scalarBits)
	p[0] = curve.BlindingBase()
	for j := 1; j < scalarBits; j++ {
		p[j].Double(&p[j-1])
	}
	return p
}

func (c *Context) precomputeSelectors() {
	n := c.n()
	omega := c.domain.Generator

	// X - w^(n-4) vanishes on the last accumulator row.
	var wLast fr.Element
	wLast.Exp(omega, big.NewInt(int64(c.lastRow())))
	notLast := make([]fr.Element, n)
	var x fr.Element
	x.SetOne()
	for i := range notLast {
		notLast[i].Sub(&x, &wLast)
		x.Mul(&x, &omega)
	}
	first := make([]fr.Element, n)
	first[0].SetOne()
	last := make([]fr.Element, n)
	last[c.lastRow()].SetOne()

	c.notLast = c.extend(c.interpolate(notLast))
	c.first = c.extend(c.interpolate(first))
	c.last = c.extend(c.interpolate(last))

	// V(x) = (x^n - 1) / prod_{zk rows}(x - w^j) on the coset points
	// x_i = g * w'^i, where x_i^n = g^n * (w'^n)^i.
	N := c.coset.Cardinality
	zkRoots := make([]fr.Element, zkRows)
	for k := range zkRoots {
		zkRoots[k].Exp(omega, big.NewInt(int64(n-zkRows+k)))
	}
	var xn, step, one, t fr.Element
	one.SetOne()
	xn.Exp(c.coset.FrMultiplicativeGen, big.NewInt(int64(n)))
	step.Exp(c.coset.Generator, big.NewInt(int64(n)))
	zh := make([]fr.Element, N)
	zk := make([]fr.Element, N)
	x.Set(&c.coset.FrMultiplicativeGen)
	for i := range zh {
		zh[i].Sub(&xn, &one)
		zk[i].SetOne()
		for k := range zkRoots {
			t.Sub(&x, &zkRoots[k])
			zk[i].Mul(&zk[i], &t)
		}
		xn.Mul(&xn, &step)
		x.Mul(&x, &c.coset.Generator)
	}
	c.vanishingInv = fr.BatchInvert(zh)
	for i := range c.vanishingInv {
		c.vanishingInv[i].Mul(&c.vanishingInv[i], &zk[i])
	}
}

// MaxSize returns the largest ring the context accepts.
func (c *Context) MaxSize() int { return c.maxSize }

// DomainSize returns the number of rows n.
func (c *Context) DomainSize() int { return c.n() }

// Capacity returns the number of key rows, at least MaxSize.
func (c *Context) Capacity() int { return c.n() - overhead }

func (c *Context) n() int { return int(c.domain.Cardinality) }

// lastRow is the row holding S + Ybar.
func (c *Context) lastRow() int { return c.n() - zkRows - 1 }

// ConstantComponent returns the ring independent part of every verifier
// key of this context.
func (c *Context) ConstantComponent() *RawVerifierKey {
	return &RawVerifierKey{vk: c.srs.Vk}
}

// WriteTo writes the maximum ring size and the SRS to w.
func (c *Context) WriteTo(w io.Writer) (int64, error) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(c.maxSize))
	n, err := w.Write(size[:])
	if err != nil {
		return int64(n), err
	}
	m, err := c.srs.WriteTo(w)
	return int64(n) + m, err
}

// ReadContext reads a context written by WriteTo.
func ReadContext(r io.Reader) (*Context, error) {
	var size [4]byte
	if _, err := io.ReadFull(r, size[:]); err != nil {
		return nil, fmt.Errorf("%w: max size: %v", ErrMalformedKey, err)
	}
	var srs kzg.SRS
	if _, err := srs.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("%w: srs: %v", ErrMalformedKey, err)
	}
	return NewContextFromSRS(int(binary.BigEndian.Uint32(size[:])), &srs)
}

// RawVerifierKeyLen is the length of an encoded RawVerifierKey.
const RawVerifierKeyLen = 2*bls12381.SizeOfG2AffineCompressed + bls12381.SizeOfG1AffineCompressed

// RawVerifierKey is the KZG verifying key of a context: G1, [1]G2 and
// [tau]G2.
type RawVerifierKey struct {
	vk kzg.VerifyingKey
}

// Bytes returns the compressed encoding of the key.
func (k *RawVerifierKey) Bytes() []byte {
	var b bytes.Buffer
	if _, err := k.vk.WriteTo(&b); err != nil {
		// Writes to memory do not fail.
		panic(err)
	}
	return b.Bytes()
}

// ParseRawVerifierKey decodes a key produced by Bytes.
func ParseRawVerifierKey(b []byte) (*RawVerifierKey, error) {
	if got, want := len(b), RawVerifierKeyLen; got != want {
		return nil, fmt.Errorf("%w: len(vk): %v, want %v", ErrMalformedKey, got, want)
	}
	var k RawVerifierKey
	if _, err := k.vk.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return &k, nil
}

// Equal reports whether k and o are the same key.
func (k *RawVerifierKey) Equal(o *RawVerifierKey) bool {
	return k.vk.G1.Equal(&o.vk.G1) && k.vk.G2[0].Equal(&o.vk.G2[0]) && k.vk.G2[1].Equal(&o.vk.G2[1])
}
