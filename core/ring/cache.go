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

	lru "github.com/hashicorp/golang-lru"
)

// VerifierKeyCache holds verifier keys rebuilt from ring commitments, so
// that verifiers seeing the same ring repeatedly skip decoding it. It is
// safe for concurrent use.
type VerifierKeyCache struct {
	raw     *RawVerifierKey
	maxSize int
	keys    *lru.Cache
}

// NewVerifierKeyCache returns a cache of at most size keys for rings of a
// context with the given constant component and maximum size.
func NewVerifierKeyCache(raw *RawVerifierKey, maxSize, size int) (*VerifierKeyCache, error) {
	if err := checkMaxSize(maxSize); err != nil {
		return nil, err
	}
	keys, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("lru.New(%v): %w", size, err)
	}
	return &VerifierKeyCache{raw: raw, maxSize: maxSize, keys: keys}, nil
}

// Get returns the verifier key of the ring committed to by c.
func (vc *VerifierKeyCache) Get(c *Commitment) (*VerifierKey, error) {
	k := c.key()
	if v, ok := vc.keys.Get(k); ok {
		countCacheLookup(true)
		return v.(*VerifierKey), nil
	}
	countCacheLookup(false)
	vk, err := VerifierKeyFromCommitment(c, vc.raw, vc.maxSize)
	if err != nil {
		return nil, err
	}
	vc.keys.Add(k, vk)
	return vk, nil
}

// Len returns the number of cached keys.
func (vc *VerifierKeyCache) Len() int { return vc.keys.Len() }
