// Copyright 2017 Google Inc. All Rights Reserved.
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

// Package generate builds the IETF and ring test vectors stored in
// core/testdata.
package generate

import (
	"encoding/binary"
	"fmt"

	"github.com/google/ringvrf/core/crypto/vrf"
	"github.com/google/ringvrf/core/crypto/vrf/ietf"
	"github.com/google/ringvrf/core/crypto/vrf/ringvrf"
	"github.com/google/ringvrf/core/ring"
	"github.com/google/ringvrf/core/testdata"
)

// Defaults of the ring vectors.
const (
	MaxSize  = 16
	RingSize = 10
)

// IETFVectors signs and checks a set of direct VRF scenarios.
func IETFVectors() ([]testdata.IETFVector, error) {
	var vectors []testdata.IETFVector
	for _, tc := range []struct {
		desc string
		seed []byte
		data []byte
		ad   []byte
	}{
		{desc: "testing_seed", seed: []byte("testing-seed"), data: []byte("some data ..."), ad: []byte("additional data")},
		{desc: "long_data", seed: []byte("testing-seed"), data: []byte("some data to be signed by the VRF"), ad: []byte("additional data")},
		{desc: "empty_data", seed: []byte("testing-seed"), data: []byte{}, ad: []byte("additional data")},
		{desc: "empty_ad", seed: []byte("other-seed"), data: []byte("foobar"), ad: []byte{}},
	} {
		sk := vrf.NewSecretFromSeed(tc.seed)
		sig, err := ietf.Sign(sk, tc.data, tc.ad)
		if err != nil {
			return nil, fmt.Errorf("%v: Sign(): %v", tc.desc, err)
		}
		if err := sig.Verify(sk.Public(), tc.data, tc.ad); err != nil {
			return nil, fmt.Errorf("%v: Verify(): %v", tc.desc, err)
		}
		ticket := sig.Ticket()
		vectors = append(vectors, testdata.IETFVector{
			Desc:      tc.desc,
			Seed:      tc.seed,
			Public:    sk.Public().Bytes(),
			Data:      tc.data,
			AD:        tc.ad,
			Output:    sig.Output.Bytes(),
			Ticket:    ticket[:],
			Signature: sig.Bytes(),
		})
	}
	return vectors, nil
}

// RingVectors signs and checks ring VRF scenarios over one ring of
// ringSize members, whose secrets are derived from their index as 8-byte
// little-endian seeds.
func RingVectors(maxSize, ringSize int, seed [32]byte) ([]testdata.RingVector, error) {
	ctx, err := ring.NewContext(maxSize, seed)
	if err != nil {
		return nil, fmt.Errorf("NewContext(): %v", err)
	}
	sks := make([]*vrf.Secret, ringSize)
	pks := make([]vrf.Public, ringSize)
	for i := range sks {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(i))
		sks[i] = vrf.NewSecretFromSeed(b[:])
		pks[i] = sks[i].Public()
	}
	vk, err := ctx.VerifierKey(pks)
	if err != nil {
		return nil, fmt.Errorf("VerifierKey(): %v", err)
	}

	var vectors []testdata.RingVector
	for _, tc := range []struct {
		desc  string
		index int
		data  []byte
		ad    []byte
	}{
		{desc: "index_3", index: 3, data: []byte("foobar"), ad: []byte("additional data")},
		{desc: "first", index: 0, data: []byte("foobar"), ad: []byte("additional data")},
		{desc: "last_empty_ad", index: ringSize - 1, data: []byte("barfoo"), ad: []byte{}},
	} {
		if tc.index < 0 || tc.index >= ringSize {
			continue
		}
		pk, err := ctx.ProverKey(pks, tc.index)
		if err != nil {
			return nil, fmt.Errorf("%v: ProverKey(): %v", tc.desc, err)
		}
		sig, err := ringvrf.Sign(sks[tc.index], tc.data, tc.ad, pk)
		if err != nil {
			return nil, fmt.Errorf("%v: Sign(): %v", tc.desc, err)
		}
		if err := sig.Verify(vk, tc.data, tc.ad); err != nil {
			return nil, fmt.Errorf("%v: Verify(): %v", tc.desc, err)
		}
		ticket := sig.Ticket()
		vectors = append(vectors, testdata.RingVector{
			Desc:        tc.desc,
			MaxSize:     maxSize,
			SRSSeed:     seed[:],
			RingSize:    ringSize,
			Index:       tc.index,
			Data:        tc.data,
			AD:          tc.ad,
			Commitment:  vk.Commitment().Bytes(),
			RawVerifier: ctx.ConstantComponent().Bytes(),
			Output:      sig.Output.Bytes(),
			Ticket:      ticket[:],
			Signature:   sig.Bytes(),
		})
	}
	return vectors, nil
}
