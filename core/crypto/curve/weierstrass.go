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

package curve

import (
	"errors"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// ErrNotRepresentable occurs when a short Weierstrass point maps to one of
// the points at infinity of the twisted Edwards model.
var ErrNotRepresentable = errors.New("point has no affine twisted Edwards form")

// WeierstrassPoint is a point of the short Weierstrass model
// y^2 = x^3 + A*x + B of the curve.
type WeierstrassPoint struct {
	X, Y     fr.Element
	Infinity bool
}

// Montgomery model B*v^2 = u^3 + A*u^2 + u and short Weierstrass
// coefficients, derived from the twisted Edwards a and d.
type models struct {
	montA, montB   fr.Element
	montBInv       fr.Element
	aOver3         fr.Element // A/3
	aOver3B        fr.Element // A/(3B)
	weierA, weierB fr.Element
}

var (
	modelsOnce sync.Once
	mdl        models
)

func getModels() *models {
	modelsOnce.Do(func() {
		var aMinusD, aPlusD, two, three, four fr.Element
		two.SetUint64(2)
		three.SetUint64(3)
		four.SetUint64(4)
		aMinusD.Sub(&params.A, &params.D)
		aPlusD.Add(&params.A, &params.D)

		// A = 2(a+d)/(a-d), B = 4/(a-d)
		mdl.montA.Mul(&two, &aPlusD).Div(&mdl.montA, &aMinusD)
		mdl.montB.Div(&four, &aMinusD)
		mdl.montBInv.Inverse(&mdl.montB)
		mdl.aOver3.Div(&mdl.montA, &three)
		mdl.aOver3B.Mul(&mdl.aOver3, &mdl.montBInv)

		// a = (3 - A^2)/(3B^2)
		var a2, b2, t fr.Element
		a2.Square(&mdl.montA)
		b2.Square(&mdl.montB)
		mdl.weierA.Sub(&three, &a2)
		t.Mul(&three, &b2)
		mdl.weierA.Div(&mdl.weierA, &t)

		// b = (2A^3 - 9A)/(27B^3)
		var a3, nine, b3, tw7 fr.Element
		a3.Mul(&a2, &mdl.montA).Double(&a3)
		nine.SetUint64(9)
		nine.Mul(&nine, &mdl.montA)
		mdl.weierB.Sub(&a3, &nine)
		b3.Mul(&b2, &mdl.montB)
		tw7.SetUint64(27)
		b3.Mul(&b3, &tw7)
		mdl.weierB.Div(&mdl.weierB, &b3)
	})
	return &mdl
}

// WeierstrassCoefficients returns A and B of y^2 = x^3 + A*x + B.
func WeierstrassCoefficients() (a, b fr.Element) {
	m := getModels()
	return m.weierA, m.weierB
}

// IsOnCurve reports whether w satisfies the short Weierstrass equation.
func (w *WeierstrassPoint) IsOnCurve() bool {
	if w.Infinity {
		return true
	}
	m := getModels()
	var lhs, rhs, t fr.Element
	lhs.Square(&w.Y)
	rhs.Square(&w.X).Mul(&rhs, &w.X)
	t.Mul(&m.weierA, &w.X)
	rhs.Add(&rhs, &t).Add(&rhs, &m.weierB)
	return lhs.Equal(&rhs)
}

// ToWeierstrass maps a twisted Edwards point to the short Weierstrass model.
// The identity maps to the point at infinity.
func ToWeierstrass(p *Point) WeierstrassPoint {
	if IsIdentity(p) {
		return WeierstrassPoint{Infinity: true}
	}
	m := getModels()
	var w WeierstrassPoint
	if p.X.IsZero() {
		// (0, -1) is the 2-torsion point (0, 0) of the Montgomery model.
		w.X.Set(&m.aOver3B)
		return w
	}

	// u = (1+y)/(1-y), v = u/x
	var one, num, den, u, v fr.Element
	one.SetOne()
	num.Add(&one, &p.Y)
	den.Sub(&one, &p.Y)
	u.Div(&num, &den)
	v.Div(&u, &p.X)

	// x = u/B + A/(3B), y = v/B
	w.X.Mul(&u, &m.montBInv).Add(&w.X, &m.aOver3B)
	w.Y.Mul(&v, &m.montBInv)
	return w
}

// FromWeierstrass maps a short Weierstrass point back to the twisted
// Edwards model.
func FromWeierstrass(w *WeierstrassPoint) (Point, error) {
	if w.Infinity {
		return Identity(), nil
	}
	m := getModels()

	// u = B*x - A/3, v = B*y
	var u, v fr.Element
	u.Mul(&w.X, &m.montB).Sub(&u, &m.aOver3)
	v.Mul(&w.Y, &m.montB)

	var p Point
	if v.IsZero() {
		if u.IsZero() {
			p.Y.SetOne()
			p.Y.Neg(&p.Y)
			return p, nil
		}
		return Point{}, ErrNotRepresentable
	}
	var one, num, den fr.Element
	one.SetOne()
	den.Add(&u, &one)
	if den.IsZero() {
		return Point{}, ErrNotRepresentable
	}

	// x = u/v, y = (u-1)/(u+1)
	num.Sub(&u, &one)
	p.X.Div(&u, &v)
	p.Y.Div(&num, &den)
	return p, nil
}
