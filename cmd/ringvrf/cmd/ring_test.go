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

package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/google/ringvrf/core/crypto/vrf"
	"github.com/google/ringvrf/core/ring"
)

func TestVerifierKeyFromHex(t *testing.T) {
	const maxSize = 16
	ctx, err := ring.NewContext(maxSize, [32]byte{'c', 'm', 'd'})
	if err != nil {
		t.Fatalf("NewContext(): %v", err)
	}
	var keys []vrf.Public
	for i := 0; i < 4; i++ {
		keys = append(keys, vrf.NewSecretFromSeed([]byte(fmt.Sprintf("member %v", i))).Public())
	}
	vk, err := ctx.VerifierKey(keys)
	if err != nil {
		t.Fatalf("VerifierKey(): %v", err)
	}
	c := hex.EncodeToString(vk.Commitment().Bytes())
	raw := hex.EncodeToString(ctx.ConstantComponent().Bytes())

	got, err := verifierKeyFromHex(c, raw, maxSize)
	if err != nil {
		t.Fatalf("verifierKeyFromHex(): %v", err)
	}
	if !got.Commitment().Equal(vk.Commitment()) {
		t.Errorf("Commitment() differs from the ring's")
	}
	if got, want := got.DomainSize(), vk.DomainSize(); got != want {
		t.Errorf("DomainSize(): %v, want %v", got, want)
	}

	for _, tc := range []struct {
		desc       string
		commitment string
		raw        string
		wantErr    error
	}{
		{desc: "commitment not hex", commitment: "zz", raw: raw},
		{desc: "raw-vk not hex", commitment: c, raw: "zz"},
		{desc: "short commitment", commitment: c[:10], raw: raw, wantErr: ring.ErrMalformedCommitment},
		{desc: "short raw-vk", commitment: c, raw: raw[:10], wantErr: ring.ErrMalformedKey},
	} {
		_, err := verifierKeyFromHex(tc.commitment, tc.raw, maxSize)
		if err == nil {
			t.Errorf("%v: verifierKeyFromHex() succeeded", tc.desc)
			continue
		}
		if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
			t.Errorf("%v: verifierKeyFromHex(): %v, want %v", tc.desc, err, tc.wantErr)
		}
	}
}
