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

package vrf

import (
	"io"
	"math/big"
)

// ProveConfig holds the settings shared by every prover.
type ProveConfig struct {
	Mode NonceMode
	// Rand is the entropy source of Randomized mode and of the ring proof
	// blinding rows. nil means crypto/rand.
	Rand io.Reader
}

// ProveOption configures a prover.
type ProveOption func(*ProveConfig)

// WithNonceMode selects deterministic or randomized nonces.
func WithNonceMode(m NonceMode) ProveOption {
	return func(c *ProveConfig) { c.Mode = m }
}

// WithRand sets the entropy source.
func WithRand(r io.Reader) ProveOption {
	return func(c *ProveConfig) { c.Rand = r }
}

// NewProveConfig applies opts to the default configuration.
func NewProveConfig(opts ...ProveOption) ProveConfig {
	var c ProveConfig
	for _, o := range opts {
		o(&c)
	}
	return c
}

// Nonce derives a nonce for secret x and the concatenation of msgs.
func (c ProveConfig) Nonce(x *big.Int, msgs ...[]byte) (*big.Int, error) {
	return c.Mode.Nonce(x, c.Rand, msgs...)
}
