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

package vrf

import (
	"bytes"
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/google/ringvrf/core/crypto/curve"

	_ "crypto/sha512" // Registers crypto.SHA512.
)

// NonceMode selects how proof nonces are generated.
type NonceMode int

const (
	// Deterministic derives nonces from the secret and the message with
	// RFC 6979. Proving twice over the same inputs yields the same proof.
	Deterministic NonceMode = iota
	// Randomized mixes 32 bytes of fresh entropy into the RFC 6979
	// derivation (RFC 6979 section 3.6). A broken random source degrades
	// to the deterministic construction, never to nonce reuse.
	Randomized
)

// hedgeLen is the length of the additional data k' of RFC 6979 section 3.6.
const hedgeLen = 32

// nonceHash is the hash function H of RFC 6979.
const nonceHash = crypto.SHA512

func (m NonceMode) String() string {
	switch m {
	case Deterministic:
		return "deterministic"
	case Randomized:
		return "randomized"
	default:
		return fmt.Sprintf("NonceMode(%d)", int(m))
	}
}

// ParseNonceMode parses the String form of a NonceMode.
func ParseNonceMode(s string) (NonceMode, error) {
	switch strings.ToLower(s) {
	case "", "deterministic":
		return Deterministic, nil
	case "randomized", "random", "hedged":
		return Randomized, nil
	default:
		return 0, fmt.Errorf("unknown nonce mode %q", s)
	}
}

// Nonce returns a scalar k in [1, r) derived from the secret scalar x and
// the concatenation of msgs. rnd is only read in Randomized mode; nil means
// crypto/rand.
func (m NonceMode) Nonce(x *big.Int, rnd io.Reader, msgs ...[]byte) (*big.Int, error) {
	msg := bytes.Join(msgs, nil)
	switch m {
	case Deterministic:
		return generateNonceRFC6979(nonceHash, curve.Order(), x, msg, nil), nil
	case Randomized:
		if rnd == nil {
			rnd = rand.Reader
		}
		extra := make([]byte, hedgeLen)
		if _, err := io.ReadFull(rnd, extra); err != nil {
			return nil, fmt.Errorf("reading nonce entropy: %w", err)
		}
		return generateNonceRFC6979(nonceHash, curve.Order(), x, msg, extra), nil
	default:
		return nil, fmt.Errorf("unknown nonce mode %v", m)
	}
}

// generateNonceRFC6979 as defined by RFC 6979 section 3.2, with the optional
// additional data k' of section 3.6 appended in steps d and f.
//
//	Input:
//	  q - the group order
//	  x - a secret scalar in [1, q-1]
//	  m - an octet string
//	  extra - k', nil for the deterministic variant
//
//	Output:
//	  k - an integer between 1 and q-1
//
// https://tools.ietf.org/html/rfc6979#section-3.2
func generateNonceRFC6979(hash crypto.Hash, q, x *big.Int, m, extra []byte) *big.Int {
	// qlen is the binary length of q, i.e., the smallest integer such that 2^qlen > q
	qlen := q.BitLen()
	rlen := ((qlen + 7) >> 3) << 3

	// a.  Process m through the hash function H, yielding: h1 = H(m)
	h1 := hash.New()
	h1.Write(m) // (h1 is a sequence of hlen bits).
	h1Digest := h1.Sum(nil)
	bx := int2octets(x, rlen)
	bh := bits2octets(h1Digest, q, qlen, rlen)

	// b.  Set: V = 0x01 0x01 0x01 ... 0x01
	//     such that the length of V, in bits, is equal to 8*ceil(hlen/8).
	V := bytes.Repeat([]byte{0x01}, hash.Size())

	// c.  Set: K = 0x00 0x00 0x00 ... 0x00
	//     such that the length of K, in bits, is equal to 8*ceil(hlen/8).
	K := make([]byte, hash.Size())

	// d.  Set: K = HMAC_K(V || 0x00 || int2octets(x) || bits2octets(h1) || k')
	hm := hmac.New(hash.New, K)
	hm.Write(V)
	hm.Write([]byte{0x00})
	hm.Write(bx)
	hm.Write(bh)
	hm.Write(extra)
	K = hm.Sum(nil)

	// e.  Set: V = HMAC_K(V)
	V = hmacSum(hash, K, V)

	// f.  Set: K = HMAC_K(V || 0x01 || int2octets(x) || bits2octets(h1) || k')
	//     Note that the "internal octet" is 0x01 this time.
	hm = hmac.New(hash.New, K)
	hm.Write(V)
	hm.Write([]byte{0x01})
	hm.Write(bx)
	hm.Write(bh)
	hm.Write(extra)
	K = hm.Sum(nil)

	// g.  Set: V = HMAC_K(V)
	V = hmacSum(hash, K, V)

	// h.  Apply the following algorithm until a proper value is found for k:
	one := big.NewInt(1)
	for {
		// 1.  Set T to the empty sequence.
		T := make([]byte, 0, rlen/8)
		// 2.  While tlen < qlen, do: V = HMAC_K(V), T = T || V
		for len(T)*8 < qlen {
			V = hmacSum(hash, K, V)
			T = append(T, V...)
		}
		// 3.  Compute: k = bits2int(T)
		k := bits2int(T, qlen)
		// If that value of k is within the [1,q-1] range, then the generation of k is finished.
		if k.Cmp(one) >= 0 && k.Cmp(q) < 0 {
			return k
		}

		// Otherwise, compute: K = HMAC_K(V || 0x00), V = HMAC_K(V)
		K = hmacSum(hash, K, V, []byte{0x00})
		V = hmacSum(hash, K, V)
	}
}

func hmacSum(hash crypto.Hash, key []byte, data ...[]byte) []byte {
	m := hmac.New(hash.New, key)
	for _, d := range data {
		m.Write(d)
	}
	return m.Sum(nil)
}

// int2octets
// rlen is a multiple of 8
// https://tools.ietf.org/html/rfc6979#section-2.3.3
func int2octets(x *big.Int, rlen int) []byte {
	if rlen%8 != 0 {
		panic("rlen is not a multipile of 8")
	}
	// An integer value x less than q can be converted into a sequence of
	// rlen bits by big-endian encoding.
	b := x.Bytes()
	blen := len(b) * 8
	if blen < rlen {
		// left pad with rlen - blen bits
		b = append(make([]byte, (rlen-blen)/8), b...)
	}
	if blen > rlen {
		// truncate to rlen bits
		b = b[:rlen/8]
	}
	return b
}

// bits2octets takes as input a sequence of blen bits and outputs a sequence of rlen bits.
// https://tools.ietf.org/html/rfc6979#section-2.3.4
func bits2octets(b []byte, q *big.Int, qlen, rlen int) []byte {
	// 1.  The input sequence b is converted into an integer value z1 through
	//     the bits2int transform:
	z1 := bits2int(b, qlen)

	// 2.  z1 is reduced modulo q, yielding z2 (an integer between 0 and q-1, inclusive).
	//     Since z1 is less than 2^qlen, a conditional subtraction is enough.
	z2 := new(big.Int).Sub(z1, q)
	if z2.Sign() < 0 {
		z2 = z1
	}

	// 3.  z2 is transformed into a sequence of octets by applying int2octets.
	return int2octets(z2, rlen)
}

// bits2int takes as input a sequence of blen bits and outputs a non-negative
// integer that is less than 2^qlen.
// https://tools.ietf.org/html/rfc6979#section-2.3.2
func bits2int(b []byte, qlen int) *big.Int {
	blen := len(b) * 8
	v := new(big.Int).SetBytes(b)
	// If qlen < blen, then the qlen leftmost bits are kept, and subsequent
	// bits are discarded; otherwise zero bits are added on the left.
	if qlen < blen {
		v = new(big.Int).Rsh(v, uint(blen-qlen))
	}
	return v
}
