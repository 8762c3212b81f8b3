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

// Package transcript implements a Merlin style Fiat-Shamir transcript on top
// of STROBE. Prover and verifier append the same messages in the same order
// and derive identical challenges.
package transcript

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mimoo/StrobeGo/strobe"
)

const (
	securityLevel = 128
	merlinLabel   = "Merlin v1.0"
	domainSep     = "dom-sep"
	rngLabel      = "rng"
	rngSeedLen    = 32
)

// Transcript absorbs public messages and squeezes challenges.
type Transcript struct {
	s *strobe.Strobe
}

// New returns a transcript separated by the domain label.
func New(label string) *Transcript {
	s := strobe.InitStrobe(merlinLabel, securityLevel)
	t := &Transcript{s: &s}
	t.AppendMessage([]byte(domainSep), []byte(label))
	return t
}

// Clone returns an independent copy of t.
func (t *Transcript) Clone() *Transcript {
	return &Transcript{s: t.s.Clone()}
}

func framed(label []byte, n int) []byte {
	b := make([]byte, len(label), len(label)+4)
	copy(b, label)
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(n))
	return append(b, size[:]...)
}

// AppendMessage absorbs a labelled message.
func (t *Transcript) AppendMessage(label, message []byte) {
	t.s.AD(true, framed(label, len(message)))
	t.s.AD(false, message)
}

// AppendMessages absorbs each message under the same label.
func (t *Transcript) AppendMessages(label []byte, messages ...[]byte) {
	for _, m := range messages {
		t.AppendMessage(label, m)
	}
}

// AppendUint64 absorbs a labelled little-endian integer.
func (t *Transcript) AppendUint64(label []byte, x uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	t.AppendMessage(label, b[:])
}

// ChallengeBytes squeezes n challenge bytes. Later challenges depend on
// earlier ones.
func (t *Transcript) ChallengeBytes(label []byte, n int) []byte {
	t.s.AD(true, framed(label, n))
	return t.s.PRF(n)
}

// RNGBuilder derives prover randomness from the transcript, the prover's
// witness and fresh entropy.
type RNGBuilder struct {
	s *strobe.Strobe
}

// BuildRNG forks the transcript state. t is left unchanged.
func (t *Transcript) BuildRNG() *RNGBuilder {
	return &RNGBuilder{s: t.s.Clone()}
}

// RekeyWithWitness absorbs secret witness bytes.
func (b *RNGBuilder) RekeyWithWitness(label, witness []byte) *RNGBuilder {
	b.s.AD(true, framed(label, len(witness)))
	b.s.KEY(witness)
	return b
}

// Finalize mixes 32 bytes from rnd into the state. crypto/rand is used when
// rnd is nil.
func (b *RNGBuilder) Finalize(rnd io.Reader) (*RNG, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	seed := make([]byte, rngSeedLen)
	if _, err := io.ReadFull(rnd, seed); err != nil {
		return nil, fmt.Errorf("reading transcript entropy: %w", err)
	}
	b.s.AD(true, []byte(rngLabel))
	b.s.KEY(seed)
	return &RNG{s: b.s.Clone()}, nil
}

// RNG is an io.Reader of transcript bound randomness.
type RNG struct {
	s *strobe.Strobe
}

// Read fills p. It never fails.
func (r *RNG) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.s.AD(true, framed(nil, len(p)))
	copy(p, r.s.PRF(len(p)))
	return len(p), nil
}
