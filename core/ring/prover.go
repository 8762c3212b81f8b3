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
	"errors"
	"fmt"
	"io"
	"math/big"
	"runtime"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/curve"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotRingMember occurs when the key commitment does not open to the
	// prover's ring key with the given blinding factor.
	ErrNotRingMember = errors.New("key commitment does not hide the prover's key")
	// errUnsatisfied occurs when the quotient is not a polynomial, which
	// happens when an addition in the accumulator hits an exceptional case.
	errUnsatisfied = errors.New("witness does not satisfy the ring constraints")
)

const foldLabel = "kzg"

// Prove shows that ybar = Y + blinding*B for the key Y at the prover's
// index. bind is absorbed into the transcript; the verifier must supply the
// same values. rnd seeds the random witness rows together with the
// transcript and the blinding factor, and may be nil.
func (pk *ProverKey) Prove(ybar curve.Point, blinding *big.Int, rnd io.Reader, bind ...[]byte) (*Proof, error) {
	start := time.Now()
	c := pk.ctx
	t := curve.Reduce(blinding)
	tr := newTranscript(c.n(), &pk.commitment, &ybar, bind)

	rng, err := tr.BuildRNG().RekeyWithWitness([]byte("blinding"), curve.EncodeScalar(t)).Finalize(rnd)
	if err != nil {
		return nil, fmt.Errorf("transcript rng: %w", err)
	}
	cols, err := pk.witness(&ybar, t, rng)
	if err != nil {
		return nil, err
	}
	for i := range cols {
		cols[i] = c.interpolate(cols[i])
	}
	witness, err := c.commitAll(cols[:]...)
	if err != nil {
		return nil, err
	}
	appendDigests(tr, "witness", witness...)
	alpha := challenge(tr.ChallengeBytes([]byte("alpha"), 64))

	q, err := pk.quotient(&cols, &ybar, &alpha)
	if err != nil {
		return nil, err
	}
	qd, err := c.commitAll(q)
	if err != nil {
		return nil, err
	}
	appendDigests(tr, "quotient", qd...)
	zeta := challenge(tr.ChallengeBytes([]byte("zeta"), 64))
	fold := tr.ChallengeBytes([]byte(foldLabel), 32)
	var zetaOmega fr.Element
	zetaOmega.Mul(&zeta, &c.domain.Generator)

	p := &Proof{Quotient: qd[0]}
	copy(p.Witness[:], witness)
	p.ZetaOpening, err = kzg.BatchOpenSinglePoint(
		[][]fr.Element{cols[0], cols[1], cols[2], cols[3], pk.px, pk.py, pk.sel, q},
		[]kzg.Digest{witness[0], witness[1], witness[2], witness[3], pk.commitment.Px, pk.commitment.Py, pk.commitment.Sel, qd[0]},
		zeta, sha256.New(), c.srs.Pk, fold)
	if err != nil {
		return nil, fmt.Errorf("kzg.BatchOpenSinglePoint(zeta): %w", err)
	}
	p.ShiftedOpening, err = kzg.BatchOpenSinglePoint(
		[][]fr.Element{cols[1], cols[2], cols[3]},
		witness[1:4],
		zetaOmega, sha256.New(), c.srs.Pk, fold)
	if err != nil {
		return nil, fmt.Errorf("kzg.BatchOpenSinglePoint(zeta*omega): %w", err)
	}
	glog.V(2).Infof("ring: proof over %v rows built in %v", c.n(), time.Since(start))
	return p, nil
}

// witness returns the evaluations of the columns b, acc_x, acc_y and ip.
func (pk *ProverKey) witness(ybar *curve.Point, t *big.Int, rng io.Reader) ([4][]fr.Element, error) {
	c := pk.ctx
	n, last, capacity := c.n(), c.lastRow(), c.Capacity()
	var cols [4][]fr.Element
	for i := range cols {
		cols[i] = make([]fr.Element, n)
	}
	b, ax, ay, ip := cols[0], cols[1], cols[2], cols[3]

	b[pk.index].SetOne()
	for j := 0; j < scalarBits; j++ {
		if t.Bit(j) == 1 {
			b[capacity+j].SetOne()
		}
	}

	var one, sum fr.Element
	one.SetOne()
	acc, want := statementPoints(ybar)
	for i := 0; i < last; i++ {
		ax[i], ay[i], ip[i] = acc.X, acc.Y, sum
		if b[i].IsZero() {
			continue
		}
		acc.Add(&acc, &pk.points[i])
		if i < capacity {
			sum.Add(&sum, &one)
		}
	}
	ax[last], ay[last], ip[last] = acc.X, acc.Y, sum
	if !acc.Equal(&want) {
		return cols, ErrNotRingMember
	}

	for i := last + 1; i < n; i++ {
		for _, col := range cols {
			e, err := randomElement(rng)
			if err != nil {
				return cols, fmt.Errorf("random witness row: %w", err)
			}
			col[i] = e
		}
	}
	return cols, nil
}

// quotient returns the coefficients of the aggregated constraints divided
// by the vanishing polynomial of the constrained rows.
func (pk *ProverKey) quotient(cols *[4][]fr.Element, ybar *curve.Point, alpha *fr.Element) ([]fr.Element, error) {
	c := pk.ctx
	var ext [4][]fr.Element
	var g errgroup.Group
	for i := range cols {
		i := i
		g.Go(func() error {
			ext[i] = c.extend(cols[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a := curve.EdwardsA()
	s, f := statementPoints(ybar)
	size := len(c.vanishingInv)
	q := make([]fr.Element, size)

	var h errgroup.Group
	workers := runtime.NumCPU()
	chunk := (size + workers - 1) / workers
	for lo := 0; lo < size; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > size {
			hi = size
		}
		h.Go(func() error {
			for i := lo; i < hi; i++ {
				// Rows are blowup points apart on the coset.
				j := (i + blowup) % size
				o := openings{
					b: ext[0][i], ax: ext[1][i], ay: ext[2][i], ip: ext[3][i],
					px: pk.pxE[i], py: pk.pyE[i], sel: pk.selE[i],
					axNext: ext[1][j], ayNext: ext[2][j], ipNext: ext[3][j],
					notLast: c.notLast[i], first: c.first[i], last: c.last[i],
				}
				cs := o.constraints(&a, &s, &f)
				agg := combine(alpha, &cs)
				q[i].Mul(&agg, &c.vanishingInv[i])
			}
			return nil
		})
	}
	if err := h.Wait(); err != nil {
		return nil, err
	}

	q = c.coefficients(q)
	deg := srsSize(c.n())
	for i := deg; i < size; i++ {
		if !q[i].IsZero() {
			return nil, errUnsatisfied
		}
	}
	return q[:deg], nil
}
