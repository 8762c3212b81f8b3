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

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"github.com/google/ringvrf/core/crypto/curve"
	"github.com/google/ringvrf/core/crypto/transcript"
)

const (
	// Columns opened at zeta: b, acc_x, acc_y, ip, px, py, sel, quotient.
	zetaEvals = 8
	// Columns opened at zeta*omega: acc_x, acc_y, ip.
	shiftedEvals = 3
	// Commitments: four witness columns, the quotient, two opening quotients.
	proofPoints = 7

	transcriptLabel = "ring-membership"
)

// ProofLen is the length of an encoded Proof.
const ProofLen = proofPoints*bls12381.SizeOfG1AffineCompressed + (zetaEvals+shiftedEvals)*fr.Bytes

var (
	// ErrInvalidProof occurs when a proof does not validate.
	ErrInvalidProof = errors.New("invalid ring proof")
	// ErrMalformedProof occurs when a proof cannot be decoded.
	ErrMalformedProof = errors.New("malformed ring proof")
)

// Proof shows that a key commitment hides a member of a ring.
type Proof struct {
	// Witness commits to the columns b, acc_x, acc_y and ip.
	Witness [4]kzg.Digest
	// Quotient commits to the constraints divided by the vanishing
	// polynomial of the constrained rows.
	Quotient kzg.Digest
	// ZetaOpening opens b, acc_x, acc_y, ip, px, py, sel and the quotient
	// at zeta.
	ZetaOpening kzg.BatchOpeningProof
	// ShiftedOpening opens acc_x, acc_y and ip at zeta*omega.
	ShiftedOpening kzg.BatchOpeningProof
}

// Bytes returns the compressed commitments followed by the claimed values.
func (p *Proof) Bytes() []byte {
	b := make([]byte, 0, ProofLen)
	points := append(p.Witness[:len(p.Witness):len(p.Witness)], p.Quotient, p.ZetaOpening.H, p.ShiftedOpening.H)
	for i := range points {
		e := points[i].Bytes()
		b = append(b, e[:]...)
	}
	for _, vals := range [][]fr.Element{p.ZetaOpening.ClaimedValues, p.ShiftedOpening.ClaimedValues} {
		for i := range vals {
			e := vals[i].Bytes()
			b = append(b, e[:]...)
		}
	}
	return b
}

// ParseProof decodes a proof produced by Bytes. Points must be canonical
// and in the prime order subgroup; field elements must be reduced.
func ParseProof(b []byte) (*Proof, error) {
	if got, want := len(b), ProofLen; got != want {
		return nil, fmt.Errorf("%w: len(pi): %v, want %v", ErrMalformedProof, got, want)
	}
	var points [proofPoints]bls12381.G1Affine
	for i := range points {
		off := i * bls12381.SizeOfG1AffineCompressed
		if _, err := points[i].SetBytes(b[off : off+bls12381.SizeOfG1AffineCompressed]); err != nil {
			return nil, fmt.Errorf("%w: commitment %d: %v", ErrMalformedProof, i, err)
		}
	}
	vals := make([]fr.Element, zetaEvals+shiftedEvals)
	for i := range vals {
		off := proofPoints*bls12381.SizeOfG1AffineCompressed + i*fr.Bytes
		if err := vals[i].SetBytesCanonical(b[off : off+fr.Bytes]); err != nil {
			return nil, fmt.Errorf("%w: evaluation %d: %v", ErrMalformedProof, i, err)
		}
	}
	p := &Proof{Quotient: points[4]}
	copy(p.Witness[:], points[:4])
	p.ZetaOpening = kzg.BatchOpeningProof{H: points[5], ClaimedValues: vals[:zetaEvals]}
	p.ShiftedOpening = kzg.BatchOpeningProof{H: points[6], ClaimedValues: vals[zetaEvals:]}
	return p, nil
}

// newTranscript binds the statement: the ring, the key commitment and the
// caller's context.
func newTranscript(n int, c *Commitment, ybar *curve.Point, bind [][]byte) *transcript.Transcript {
	tr := transcript.New(transcriptLabel)
	tr.AppendUint64([]byte("domain"), uint64(n))
	tr.AppendMessage([]byte("ring"), c.Bytes())
	tr.AppendMessage([]byte("ybar"), curve.EncodePoint(ybar))
	tr.AppendMessages([]byte("bind"), bind...)
	return tr
}

func appendDigests(tr *transcript.Transcript, label string, digests ...kzg.Digest) {
	for i := range digests {
		b := digests[i].Bytes()
		tr.AppendMessage([]byte(label), b[:])
	}
}

const numConstraints = 10

// openings holds the values of every column at one point.
type openings struct {
	b, ax, ay, ip          fr.Element
	px, py, sel            fr.Element
	axNext, ayNext, ipNext fr.Element
	notLast, first, last   fr.Element
}

// constraints evaluates the constraint polynomials. a is the curve
// coefficient, s the accumulator seed and f the expected final sum.
//
//	c0, c1  acc' = acc + b*P on twisted Edwards, when not on the last row
//	c2      ip' = ip + b*sel, when not on the last row
//	c3      b is boolean
//	c4..c6  acc = S and ip = 0 on the first row
//	c7..c9  acc = S + Ybar and ip = 1 on the last row
func (o *openings) constraints(a *fr.Element, s, f *curve.Point) [numConstraints]fr.Element {
	var c [numConstraints]fr.Element
	var one, notB, x1y1, x2y2, t, u fr.Element
	one.SetOne()
	notB.Sub(&one, &o.b)
	x1y1.Mul(&o.ax, &o.ay)
	x2y2.Mul(&o.px, &o.py)

	// x3 * (y1*y2 + a*x1*x2) = x1*y1 + x2*y2
	t.Mul(&o.ax, &o.px).Mul(&t, a)
	u.Mul(&o.ay, &o.py)
	t.Add(&t, &u).Mul(&t, &o.axNext)
	u.Add(&x1y1, &x2y2)
	t.Sub(&t, &u).Mul(&t, &o.b)
	u.Sub(&o.axNext, &o.ax).Mul(&u, &notB)
	c[0].Add(&t, &u).Mul(&c[0], &o.notLast)

	// y3 * (x1*y2 - y1*x2) = x1*y1 - x2*y2
	t.Mul(&o.ax, &o.py)
	u.Mul(&o.ay, &o.px)
	t.Sub(&t, &u).Mul(&t, &o.ayNext)
	u.Sub(&x1y1, &x2y2)
	t.Sub(&t, &u).Mul(&t, &o.b)
	u.Sub(&o.ayNext, &o.ay).Mul(&u, &notB)
	c[1].Add(&t, &u).Mul(&c[1], &o.notLast)

	t.Mul(&o.b, &o.sel)
	c[2].Sub(&o.ipNext, &o.ip).Sub(&c[2], &t).Mul(&c[2], &o.notLast)

	c[3].Mul(&o.b, &notB)

	c[4].Sub(&o.ax, &s.X).Mul(&c[4], &o.first)
	c[5].Sub(&o.ay, &s.Y).Mul(&c[5], &o.first)
	c[6].Mul(&o.ip, &o.first)

	c[7].Sub(&o.ax, &f.X).Mul(&c[7], &o.last)
	c[8].Sub(&o.ay, &f.Y).Mul(&c[8], &o.last)
	c[9].Sub(&o.ip, &one).Mul(&c[9], &o.last)
	return c
}

// combine returns sum(alpha^i * c[i]).
func combine(alpha *fr.Element, c *[numConstraints]fr.Element) fr.Element {
	var res fr.Element
	for i := numConstraints - 1; i >= 0; i-- {
		res.Mul(&res, alpha).Add(&res, &c[i])
	}
	return res
}

// statementPoints returns S and S + Ybar.
func statementPoints(ybar *curve.Point) (curve.Point, curve.Point) {
	s := curve.AccumulatorBase()
	return s, curve.Add(&s, ybar)
}
