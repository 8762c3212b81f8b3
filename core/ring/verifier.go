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
	"crypto/sha256"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/google/ringvrf/core/crypto/curve"
)

// Verify checks that p shows ybar commits to a key of the ring of vk. bind
// must match the values given to Prove.
func (vk *VerifierKey) Verify(ybar curve.Point, p *Proof, bind ...[]byte) error {
	if p == nil {
		return fmt.Errorf("%w: nil proof", ErrInvalidProof)
	}
	z, s := p.ZetaOpening.ClaimedValues, p.ShiftedOpening.ClaimedValues
	if len(z) != zetaEvals || len(s) != shiftedEvals {
		return fmt.Errorf("%w: %v and %v claimed values, want %v and %v",
			ErrInvalidProof, len(z), len(s), zetaEvals, shiftedEvals)
	}

	tr := newTranscript(vk.n, &vk.commitment, &ybar, bind)
	appendDigests(tr, "witness", p.Witness[:]...)
	alpha := challenge(tr.ChallengeBytes([]byte("alpha"), 64))
	appendDigests(tr, "quotient", p.Quotient)
	zeta := challenge(tr.ChallengeBytes([]byte("zeta"), 64))
	fold := tr.ChallengeBytes([]byte(foldLabel), 32)
	var zetaOmega fr.Element
	zetaOmega.Mul(&zeta, &vk.omega)

	d, err := evaluateDomain(vk.n, vk.omega, zeta)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	o := openings{
		b: z[0], ax: z[1], ay: z[2], ip: z[3],
		px: z[4], py: z[5], sel: z[6],
		axNext: s[0], ayNext: s[1], ipNext: s[2],
		notLast: d.notLast, first: d.first, last: d.last,
	}
	a := curve.EdwardsA()
	start, final := statementPoints(&ybar)
	cs := o.constraints(&a, &start, &final)
	agg := combine(&alpha, &cs)
	var want fr.Element
	want.Mul(&z[7], &d.vanishing)
	if !agg.Equal(&want) {
		return fmt.Errorf("%w: constraints do not hold at zeta", ErrInvalidProof)
	}

	zetaDigests := []kzg.Digest{
		p.Witness[0], p.Witness[1], p.Witness[2], p.Witness[3],
		vk.commitment.Px, vk.commitment.Py, vk.commitment.Sel, p.Quotient,
	}
	zetaProof, zetaDigest, err := kzg.FoldProof(zetaDigests, &p.ZetaOpening, zeta, sha256.New(), fold)
	if err != nil {
		return fmt.Errorf("%w: kzg.FoldProof(zeta): %v", ErrInvalidProof, err)
	}
	shiftedProof, shiftedDigest, err := kzg.FoldProof(p.Witness[1:4], &p.ShiftedOpening, zetaOmega, sha256.New(), fold)
	if err != nil {
		return fmt.Errorf("%w: kzg.FoldProof(zeta*omega): %v", ErrInvalidProof, err)
	}
	if err := kzg.BatchVerifyMultiPoints(
		[]kzg.Digest{zetaDigest, shiftedDigest},
		[]kzg.OpeningProof{zetaProof, shiftedProof},
		[]fr.Element{zeta, zetaOmega},
		vk.raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	return nil
}
