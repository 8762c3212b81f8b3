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

package curve

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrInvalidPoint occurs when an octet string does not decode to a point
	// of the prime order subgroup.
	ErrInvalidPoint = errors.New("invalid curve point")
	// ErrInvalidScalar occurs when an octet string does not decode to a
	// canonical scalar.
	ErrInvalidScalar = errors.New("invalid scalar")
)

// EncodePoint implements point_to_string: the 32 byte little-endian
// encoding of y with the sign of x in the most significant bit.
func EncodePoint(p *Point) []byte {
	b := p.Bytes()
	return b[:]
}

// DecodePoint implements string_to_point. It outputs ErrInvalidPoint if the
// octet string is not the canonical encoding of a point in the prime order
// subgroup.
func DecodePoint(s []byte) (Point, error) {
	p, err := decodeCurvePoint(s)
	if err != nil {
		return Point{}, err
	}
	if !InSubgroup(&p) {
		return Point{}, fmt.Errorf("%w: not in the prime order subgroup", ErrInvalidPoint)
	}
	return p, nil
}

// decodeCurvePoint decodes any point of the full curve group.
func decodeCurvePoint(s []byte) (Point, error) {
	if got, want := len(s), PointLen; got != want {
		return Point{}, fmt.Errorf("%w: len(s): %v, want %v", ErrInvalidPoint, got, want)
	}
	var p Point
	if _, err := p.SetBytes(s); err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	// SetBytes reduces y and does not check that x exists. Re-encoding
	// catches non-canonical input; the curve equation catches the rest.
	if !p.IsOnCurve() {
		return Point{}, fmt.Errorf("%w: not on curve", ErrInvalidPoint)
	}
	if enc := p.Bytes(); !bytes.Equal(enc[:], s) {
		return Point{}, fmt.Errorf("%w: non-canonical encoding", ErrInvalidPoint)
	}
	return p, nil
}

// EncodeScalar implements int_to_string(x, qLen) with the little-endian
// convention of the suite. x must be in [0, 2^256).
func EncodeScalar(x *big.Int) []byte {
	be := I2OSP(x, ScalarLen)
	return reverse(be)
}

// DecodeScalar implements string_to_int for canonical scalars: s must be
// ScalarLen bytes and encode an integer smaller than r.
func DecodeScalar(s []byte) (*big.Int, error) {
	if got, want := len(s), ScalarLen; got != want {
		return nil, fmt.Errorf("%w: len(s): %v, want %v", ErrInvalidScalar, got, want)
	}
	x := new(big.Int).SetBytes(reverse(s))
	if x.Cmp(&params.Order) >= 0 {
		return nil, fmt.Errorf("%w: not reduced", ErrInvalidScalar)
	}
	return x, nil
}

// ScalarFromBytes interprets s as a little-endian integer of any length and
// reduces it modulo r.
func ScalarFromBytes(s []byte) *big.Int {
	x := new(big.Int).SetBytes(reverse(s))
	return x.Mod(x, &params.Order)
}

// I2OSP converts a nonnegative integer to an octet string of a specified length.
// RFC8017 section-4.1 (big endian representation)
func I2OSP(x *big.Int, rLen uint) []byte {
	// 1.  If x >= 256^rLen, output "integer too large" and stop.
	one := big.NewInt(1)
	if x.Sign() < 0 || x.Cmp(new(big.Int).Lsh(one, rLen*8)) >= 0 {
		panic("integer too large")
	}
	// 2.  Write the integer x in its unique rLen-digit representation in base 256.
	// 3.  Output the octet string X = X_1 X_2 ... X_rLen.
	out := make([]byte, rLen)
	return x.FillBytes(out)
}

// reverse returns a reversed copy of b.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}
