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

// Package commitments implements a hiding commitment to a VRF public key.
//
// Commitment scheme is as follows:
// Ybar = Y + t*B
// where Y is the public key, t a secret blinding factor and B the suite's
// blinding base. Ybar reveals nothing about Y without t.
package commitments

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/google/ringvrf/core/crypto/curve"
	"github.com/google/ringvrf/core/crypto/vrf"
)

// blindingSeedLen is reduced mod r; 64 bytes keep the bias negligible.
const blindingSeedLen = 64

var (
	// ErrInvalidCommitment occurs when the commitment doesn't open to the key.
	ErrInvalidCommitment = errors.New("invalid commitment")
	// ErrZeroBlinding occurs when a blinding factor would not hide the key.
	ErrZeroBlinding = errors.New("zero blinding factor")
)

// GenBlinding generates a blinding factor for use in Commit. This factor
// must be kept secret in order to prevent an adversary from learning which
// key has been committed to. crypto/rand is used when rnd is nil.
func GenBlinding(rnd io.Reader) (*big.Int, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	seed := make([]byte, blindingSeedLen)
	if _, err := io.ReadFull(rnd, seed); err != nil {
		return nil, fmt.Errorf("reading blinding: %w", err)
	}
	t := curve.ScalarFromBytes(seed)
	if t.Sign() == 0 {
		return nil, ErrZeroBlinding
	}
	return t, nil
}

// Commit returns pk + t*B.
func Commit(pk vrf.Public, t *big.Int) curve.Point {
	y := pk.Point()
	tb := blind(t)
	return curve.Add(&y, &tb)
}

// Open checks that commitment was made to pk with the blinding factor t.
func Open(commitment curve.Point, pk vrf.Public, t *big.Int) error {
	if got := Commit(pk, t); !got.Equal(&commitment) {
		return ErrInvalidCommitment
	}
	return nil
}

// Unblind returns commitment - t*B, the committed key.
func Unblind(commitment curve.Point, t *big.Int) vrf.Public {
	tb := blind(t)
	return vrf.NewPublic(curve.Sub(&commitment, &tb))
}

func blind(t *big.Int) curve.Point {
	b := curve.BlindingBase()
	return curve.Mul(&b, t)
}
