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
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/kzg"
	"golang.org/x/sync/errgroup"
)

// interpolate returns the coefficients of the polynomial taking the values
// evals on the rows of the domain.
func (c *Context) interpolate(evals []fr.Element) []fr.Element {
	p := make([]fr.Element, len(evals))
	copy(p, evals)
	c.domain.FFTInverse(p, fft.DIF)
	fft.BitReverse(p)
	return p
}

// extend evaluates the polynomial p on the quotient coset, in natural order.
func (c *Context) extend(p []fr.Element) []fr.Element {
	e := make([]fr.Element, c.coset.Cardinality)
	copy(e, p)
	c.coset.FFT(e, fft.DIF, fft.OnCoset())
	fft.BitReverse(e)
	return e
}

// coefficients is the inverse of extend.
func (c *Context) coefficients(e []fr.Element) []fr.Element {
	c.coset.FFTInverse(e, fft.DIF, fft.OnCoset())
	fft.BitReverse(e)
	return e
}

// commitAll commits to each polynomial concurrently.
func (c *Context) commitAll(polys ...[]fr.Element) ([]kzg.Digest, error) {
	digests := make([]kzg.Digest, len(polys))
	var g errgroup.Group
	for i := range polys {
		i := i
		g.Go(func() error {
			d, err := kzg.Commit(polys[i], c.srs.Pk)
			if err != nil {
				return fmt.Errorf("kzg.Commit(column %d): %w", i, err)
			}
			digests[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return digests, nil
}

// domainEvals holds the row domain quantities the verifier needs at zeta.
type domainEvals struct {
	// vanishing is V(zeta), zero on the constrained rows.
	vanishing fr.Element
	notLast   fr.Element
	first     fr.Element
	last      fr.Element
}

// evaluateDomain computes the selector polynomials of a domain of n rows
// generated by omega at zeta. It fails when zeta is a row of the domain.
func evaluateDomain(n int, omega, zeta fr.Element) (domainEvals, error) {
	var e domainEvals
	var one, zn, nInv fr.Element
	one.SetOne()
	zn.Exp(zeta, big.NewInt(int64(n)))
	zn.Sub(&zn, &one)
	if zn.IsZero() {
		return e, fmt.Errorf("evaluation point is a root of unity")
	}
	nInv.SetUint64(uint64(n)).Inverse(&nInv)

	lastRow := n - zkRows - 1
	var wLast, t fr.Element
	wLast.Exp(omega, big.NewInt(int64(lastRow)))
	e.notLast.Sub(&zeta, &wLast)

	// L_i(z) = w^i (z^n - 1) / (n (z - w^i))
	t.Sub(&zeta, &one).Inverse(&t)
	e.first.Mul(&zn, &nInv).Mul(&e.first, &t)
	t.Inverse(&e.notLast)
	e.last.Mul(&zn, &nInv).Mul(&e.last, &t).Mul(&e.last, &wLast)

	// V(z) = (z^n - 1) / prod_{zk rows}(z - w^j)
	var den, w fr.Element
	den.SetOne()
	w.Exp(omega, big.NewInt(int64(n-zkRows)))
	for k := 0; k < zkRows; k++ {
		t.Sub(&zeta, &w)
		den.Mul(&den, &t)
		w.Mul(&w, &omega)
	}
	e.vanishing.Div(&zn, &den)
	return e, nil
}

// randomElement reads a uniformly distributed field element from r.
func randomElement(r io.Reader) (fr.Element, error) {
	var b [64]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return fr.Element{}, err
	}
	var e fr.Element
	e.SetBytes(b[:])
	return e, nil
}

// challenge squeezes a field element from the transcript bytes b.
func challenge(b []byte) fr.Element {
	var e fr.Element
	e.SetBytes(b)
	return e
}
