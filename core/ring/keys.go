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
	"fmt"
	"time"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/curve"
	"github.com/google/ringvrf/core/crypto/vrf"
)

// CommitmentLen is the length of an encoded Commitment.
const CommitmentLen = 3 * bls12381.SizeOfG1AffineCompressed

// ErrMalformedCommitment occurs when a ring commitment cannot be decoded.
var ErrMalformedCommitment = errors.New("malformed ring commitment")

// Commitment is the ring dependent part of a verifier key: KZG commitments
// to the key coordinates and to the key row selector.
type Commitment struct {
	Px, Py, Sel kzg.Digest
}

// Bytes returns the three compressed commitments.
func (c *Commitment) Bytes() []byte {
	k := c.key()
	return k[:]
}

func (c *Commitment) key() [CommitmentLen]byte {
	var b [CommitmentLen]byte
	for i, d := range []*kzg.Digest{&c.Px, &c.Py, &c.Sel} {
		e := d.Bytes()
		copy(b[i*len(e):], e[:])
	}
	return b
}

// ParseCommitment decodes a commitment produced by Bytes.
func ParseCommitment(b []byte) (*Commitment, error) {
	if got, want := len(b), CommitmentLen; got != want {
		return nil, fmt.Errorf("%w: len(commitment): %v, want %v", ErrMalformedCommitment, got, want)
	}
	var c Commitment
	for i, d := range []*kzg.Digest{&c.Px, &c.Py, &c.Sel} {
		off := i * bls12381.SizeOfG1AffineCompressed
		if _, err := d.SetBytes(b[off : off+bls12381.SizeOfG1AffineCompressed]); err != nil {
			return nil, fmt.Errorf("%w: column %d: %v", ErrMalformedCommitment, i, err)
		}
	}
	return &c, nil
}

// Equal reports whether c and o commit to the same ring.
func (c *Commitment) Equal(o *Commitment) bool {
	return c.Px.Equal(&o.Px) && c.Py.Equal(&o.Py) && c.Sel.Equal(&o.Sel)
}

// VerifierKey verifies ring proofs for one ring. It is immutable and safe
// for concurrent use.
type VerifierKey struct {
	n          int
	omega      fr.Element
	raw        kzg.VerifyingKey
	commitment Commitment
}

// Commitment returns the ring dependent part of the key.
func (vk *VerifierKey) Commitment() *Commitment {
	c := vk.commitment
	return &c
}

// DomainSize returns the number of rows of the ring columns.
func (vk *VerifierKey) DomainSize() int { return vk.n }

// VerifierKeyFromCommitment rebuilds the verifier key of a ring from its
// commitment and the constant component of a context for maxSize members.
// The ring itself is not needed.
func VerifierKeyFromCommitment(c *Commitment, raw *RawVerifierKey, maxSize int) (*VerifierKey, error) {
	if err := checkMaxSize(maxSize); err != nil {
		return nil, err
	}
	n := domainSize(maxSize)
	omega, err := fft.Generator(uint64(n))
	if err != nil {
		return nil, err
	}
	return &VerifierKey{n: n, omega: omega, raw: raw.vk, commitment: *c}, nil
}

// ProverKey proves membership of the key at one position of a ring. It is
// immutable and safe for concurrent use.
type ProverKey struct {
	ctx   *Context
	index int
	// points holds the point of every row but the random ones.
	points []curve.Point
	// Fixed columns in coefficient form and on the quotient coset.
	px, py, sel    []fr.Element
	pxE, pyE, selE []fr.Element
	commitment     Commitment
}

// Index returns the position of the prover in the ring.
func (pk *ProverKey) Index() int { return pk.index }

// VerifierKey returns the verifier key of the prover's ring.
func (pk *ProverKey) VerifierKey() *VerifierKey {
	return &VerifierKey{
		n:          pk.ctx.n(),
		omega:      pk.ctx.domain.Generator,
		raw:        pk.ctx.srs.Vk,
		commitment: pk.commitment,
	}
}

func (c *Context) checkRing(ring []vrf.Public) error {
	if len(ring) == 0 || len(ring) > c.maxSize {
		return fmt.Errorf("%w: %v keys, want [1, %v]", ErrInvalidRingSize, len(ring), c.maxSize)
	}
	return nil
}

// rows returns the points of the fixed columns: the ring, padding up to the
// capacity, the powers of B, and padding in the remaining rows.
func (c *Context) rows(ring []vrf.Public) []curve.Point {
	pts := make([]curve.Point, c.n())
	padding := curve.PaddingPoint()
	for i := range pts {
		switch {
		case i < len(ring):
			pts[i] = ring[i].Point()
		case i >= c.Capacity() && i < c.Capacity()+scalarBits:
			pts[i] = c.powers[i-c.Capacity()]
		default:
			pts[i] = padding
		}
	}
	return pts
}

type fixedColumns struct {
	px, py, sel []fr.Element
	commitment  Commitment
}

func (c *Context) fixedColumns(pts []curve.Point) (*fixedColumns, error) {
	n := c.n()
	px := make([]fr.Element, n)
	py := make([]fr.Element, n)
	sel := make([]fr.Element, n)
	for i := range pts {
		px[i] = pts[i].X
		py[i] = pts[i].Y
		if i < c.Capacity() {
			sel[i].SetOne()
		}
	}
	f := &fixedColumns{px: c.interpolate(px), py: c.interpolate(py), sel: c.interpolate(sel)}
	d, err := c.commitAll(f.px, f.py, f.sel)
	if err != nil {
		return nil, err
	}
	f.commitment = Commitment{Px: d[0], Py: d[1], Sel: d[2]}
	return f, nil
}

// VerifierKey returns the verifier key of ring. The key depends on the
// context, the ring members and their order.
func (c *Context) VerifierKey(ring []vrf.Public) (*VerifierKey, error) {
	if err := c.checkRing(ring); err != nil {
		return nil, err
	}
	start := time.Now()
	f, err := c.fixedColumns(c.rows(ring))
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("ring: verifier key for %v keys built in %v", len(ring), time.Since(start))
	return &VerifierKey{
		n:          c.n(),
		omega:      c.domain.Generator,
		raw:        c.srs.Vk,
		commitment: f.commitment,
	}, nil
}

// ProverKey returns the key proving membership of ring[index].
func (c *Context) ProverKey(ring []vrf.Public, index int) (*ProverKey, error) {
	if err := c.checkRing(ring); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(ring) {
		return nil, fmt.Errorf("%w: %v not in [0, %v)", ErrIndexOutOfRange, index, len(ring))
	}
	start := time.Now()
	pts := c.rows(ring)
	f, err := c.fixedColumns(pts)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("ring: prover key for %v keys built in %v", len(ring), time.Since(start))
	return &ProverKey{
		ctx:        c,
		index:      index,
		points:     pts[:c.lastRow()],
		px:         f.px,
		py:         f.py,
		sel:        f.sel,
		pxE:        c.extend(f.px),
		pyE:        c.extend(f.py),
		selE:       c.extend(f.sel),
		commitment: f.commitment,
	}, nil
}
