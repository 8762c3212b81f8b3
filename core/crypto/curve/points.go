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
	"fmt"
	"sync"
)

// Seeds of the fixed bases. Nobody knows the discrete logarithm of the
// resulting points with respect to G or to each other.
const (
	blindingSeed    = "ring-proof/blinding"
	accumulatorSeed = "ring-proof/accumulator"
	paddingSeed     = "ring-proof/padding"
)

// Bases holds the fixed points of the suite.
type Bases struct {
	// Blinding is the base B of Pedersen commitments to public keys.
	Blinding Point
	// Accumulator is the seed S of the ring proof accumulator.
	Accumulator Point
	// Padding fills the unused rows of a ring.
	Padding Point
}

var (
	basesOnce sync.Once
	bases     Bases
)

// SuiteBases returns the fixed points of the suite. They are computed once
// per process and depend on nothing but their seeds.
func SuiteBases() Bases {
	basesOnce.Do(func() {
		bases = Bases{
			Blinding:    mustHashToCurve(blindingSeed),
			Accumulator: mustHashToCurve(accumulatorSeed),
			Padding:     mustHashToCurve(paddingSeed),
		}
	})
	return bases
}

// BlindingBase returns B.
func BlindingBase() Point { return SuiteBases().Blinding }

// AccumulatorBase returns S.
func AccumulatorBase() Point { return SuiteBases().Accumulator }

// PaddingPoint returns the padding point.
func PaddingPoint() Point { return SuiteBases().Padding }

func mustHashToCurve(seed string) Point {
	p, err := HashToCurve([]byte(seed))
	if err != nil {
		panic(fmt.Sprintf("HashToCurve(%q): %v", seed, err))
	}
	return p
}
