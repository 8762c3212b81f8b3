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

// Package curve implements the Bandersnatch_SHA-512_TAI suite: group
// operations on the prime order subgroup of the Bandersnatch twisted Edwards
// curve, canonical point and scalar codecs, hash-to-curve and the fixed
// bases used by the ring proof.
//
// Bandersnatch is defined over the scalar field of BLS12-381, which lets the
// ring membership argument express curve arithmetic natively in the field
// of the KZG commitment scheme.
package curve

import (
	"crypto/sha512"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/bandersnatch"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const (
	// SuiteID is the suite string mixed into every hash of this suite.
	SuiteID = "Bandersnatch_SHA-512_TAI"
	// PointLen is the length of a compressed point.
	PointLen = 32
	// ScalarLen is the length of an encoded scalar.
	ScalarLen = 32
	// Cofactor of the curve.
	Cofactor = 4
)

// Point is an affine point of the twisted Edwards curve.
type Point = bandersnatch.PointAffine

var params = bandersnatch.GetEdwardsCurve()

// Order returns the order r of the prime order subgroup.
func Order() *big.Int {
	return new(big.Int).Set(&params.Order)
}

// Generator returns the generator G of the prime order subgroup.
func Generator() Point {
	var g Point
	g.Set(&params.Base)
	return g
}

// Identity returns the neutral element (0, 1).
func Identity() Point {
	var p Point
	p.Y.SetOne()
	return p
}

// IsIdentity reports whether p is the neutral element.
func IsIdentity(p *Point) bool {
	return p.IsZero()
}

// Reduce returns k mod r.
func Reduce(k *big.Int) *big.Int {
	return new(big.Int).Mod(k, &params.Order)
}

// Mul returns k*p. p must belong to the prime order subgroup.
func Mul(p *Point, k *big.Int) Point {
	var res Point
	res.ScalarMultiplication(p, Reduce(k))
	return res
}

// MulBase returns k*G.
func MulBase(k *big.Int) Point {
	return Mul(&params.Base, k)
}

// Add returns p+q.
func Add(p, q *Point) Point {
	var res Point
	res.Add(p, q)
	return res
}

// Sub returns p-q.
func Sub(p, q *Point) Point {
	var neg, res Point
	neg.Neg(q)
	res.Add(p, &neg)
	return res
}

// ClearCofactor returns 4*p.
func ClearCofactor(p *Point) Point {
	var res Point
	res.Double(p)
	res.Double(&res)
	return res
}

// InSubgroup reports whether p lies in the prime order subgroup, i.e.
// r*p is the identity.
//
// The multiplication uses plain double-and-add on affine points: the GLV
// endomorphism behind Mul is only valid inside the subgroup.
func InSubgroup(p *Point) bool {
	if !p.IsOnCurve() {
		return false
	}
	acc := Identity()
	r := &params.Order
	for i := r.BitLen() - 1; i >= 0; i-- {
		acc.Double(&acc)
		if r.Bit(i) == 1 {
			acc.Add(&acc, p)
		}
	}
	return IsIdentity(&acc)
}

// HashToScalar hashes the concatenation of msgs with SHA-512 and reduces
// the little-endian digest modulo r.
func HashToScalar(msgs ...[]byte) *big.Int {
	h := sha512.New()
	for _, m := range msgs {
		h.Write(m)
	}
	return ScalarFromBytes(h.Sum(nil))
}

// EdwardsA returns the coefficient a of a*x^2 + y^2 = 1 + d*x^2*y^2.
func EdwardsA() fr.Element {
	return params.A
}
