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
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// addWeierstrass adds two affine points with distinct x coordinates.
func addWeierstrass(p, q *WeierstrassPoint) WeierstrassPoint {
	var r WeierstrassPoint
	var lambda, num, den fr.Element
	num.Sub(&q.Y, &p.Y)
	den.Sub(&q.X, &p.X)
	lambda.Div(&num, &den)
	r.X.Square(&lambda).Sub(&r.X, &p.X).Sub(&r.X, &q.X)
	r.Y.Sub(&p.X, &r.X).Mul(&r.Y, &lambda).Sub(&r.Y, &p.Y)
	return r
}

func TestWeierstrassRoundTrip(t *testing.T) {
	points := []Point{Generator(), BlindingBase(), PaddingPoint()}
	for i := 0; i < 16; i++ {
		points = append(points, MulBase(randomScalar(t)))
	}
	for i, p := range points {
		w := ToWeierstrass(&p)
		if w.Infinity {
			t.Fatalf("%d: ToWeierstrass(): infinity", i)
		}
		if !w.IsOnCurve() {
			t.Errorf("%d: ToWeierstrass(): not on curve", i)
		}
		got, err := FromWeierstrass(&w)
		if err != nil {
			t.Fatalf("%d: FromWeierstrass(): %v", i, err)
		}
		if !got.Equal(&p) {
			t.Errorf("%d: FromWeierstrass(ToWeierstrass(p)) != p", i)
		}
	}
}

func TestWeierstrassSpecialPoints(t *testing.T) {
	id := Identity()
	w := ToWeierstrass(&id)
	if !w.Infinity {
		t.Errorf("ToWeierstrass(O): %v, want infinity", w)
	}
	back, err := FromWeierstrass(&w)
	if err != nil || !IsIdentity(&back) {
		t.Errorf("FromWeierstrass(infinity): %v, %v, want O", back, err)
	}

	var torsion Point
	torsion.Y.SetOne()
	torsion.Y.Neg(&torsion.Y)
	w = ToWeierstrass(&torsion)
	if !w.IsOnCurve() || !w.Y.IsZero() {
		t.Errorf("ToWeierstrass((0, -1)): %v, want a point of order two", w)
	}
	back, err = FromWeierstrass(&w)
	if err != nil || !back.Equal(&torsion) {
		t.Errorf("FromWeierstrass(): %v, %v, want (0, -1)", back, err)
	}
}

func TestWeierstrassHomomorphism(t *testing.T) {
	for i := 0; i < 8; i++ {
		p, q := MulBase(randomScalar(t)), MulBase(randomScalar(t))
		sum := Add(&p, &q)
		wp, wq := ToWeierstrass(&p), ToWeierstrass(&q)
		if wp.X.Equal(&wq.X) {
			continue
		}
		got := addWeierstrass(&wp, &wq)
		if want := ToWeierstrass(&sum); !got.X.Equal(&want.X) || !got.Y.Equal(&want.Y) {
			t.Errorf("ToWeierstrass(p+q) != ToWeierstrass(p)+ToWeierstrass(q)")
		}
	}
}

func TestWeierstrassCoefficients(t *testing.T) {
	a, b := WeierstrassCoefficients()
	if a.IsZero() || b.IsZero() {
		t.Errorf("WeierstrassCoefficients(): %v, %v", a.String(), b.String())
	}
	w := WeierstrassPoint{}
	w.X.SetUint64(1)
	w.Y.SetUint64(1)
	if w.IsOnCurve() {
		t.Errorf("(1, 1).IsOnCurve(): true")
	}
}
