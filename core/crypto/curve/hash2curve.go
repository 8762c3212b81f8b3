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
	"crypto/sha512"
	"errors"
)

// maxAttempts bounds the try-and-increment loop. Each attempt succeeds with
// probability close to 1/2.
const maxAttempts = 256

// ErrHashToCurve occurs when no attempt of try-and-increment produced a
// point of the prime order subgroup.
var ErrHashToCurve = errors.New("hash to curve: no valid point found")

// HashToCurve maps data to a point of the prime order subgroup.
func HashToCurve(data []byte) (Point, error) {
	p, _, err := hashToCurveTryAndIncrement(data)
	return p, err
}

// hashToCurveTryAndIncrement implements HashToCurve in a simple and generic
// way that works for any elliptic curve.
//
// The running time of this algorithm depends on data. It is expected to find
// a valid curve point after approximately two attempts on average, and
// SHOULD be avoided in applications where it is important that the VRF input
// remain secret.
//
// Output:
// - `H` - hashed value, a finite EC point in G
// - `ctr` - integer, number of attempts before a valid curve point was found
func hashToCurveTryAndIncrement(data []byte) (Point, uint, error) {
	// one_string = 0x01, a single octet with value 1
	// zero_string = 0x00, a single octet with value 0
	one, zero := []byte{0x01}, []byte{0x00}

	h := sha512.New()
	for ctr := uint(0); ctr < maxAttempts; ctr++ {
		// hash_string = Hash(suite_string || one_string || data ||
		//     ctr_string || zero_string)
		h.Reset()
		h.Write([]byte(SuiteID))
		h.Write(one)
		h.Write(data)
		h.Write([]byte{byte(ctr)})
		h.Write(zero)
		hashString := h.Sum(nil)

		// H = arbitrary_string_to_point(hash_string[0:ptLen])
		p, err := decodeCurvePoint(hashString[:PointLen])
		if err != nil {
			continue
		}
		// If H is not "INVALID" and cofactor > 1, set H = cofactor * H
		p = ClearCofactor(&p)
		if IsIdentity(&p) {
			continue
		}
		return p, ctr, nil
	}
	return Point{}, maxAttempts, ErrHashToCurve
}
