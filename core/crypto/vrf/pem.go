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
	"encoding/pem"
	"errors"
	"fmt"
)

const (
	secretPEMType = "RINGVRF SECRET KEY"
	publicPEMType = "RINGVRF PUBLIC KEY"
)

var (
	// ErrNoPEMFound occurs when attempting to parse a non PEM data structure.
	ErrNoPEMFound = errors.New("no PEM block found")
	// ErrWrongKeyType occurs when a PEM block holds another kind of key.
	ErrWrongKeyType = errors.New("wrong PEM block type")
)

// MarshalSecretPEM encodes sk as a PEM block.
func MarshalSecretPEM(sk *Secret) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: secretPEMType, Bytes: sk.Bytes()})
}

// ParseSecretPEM decodes a secret key from a PEM data structure.
func ParseSecretPEM(b []byte) (*Secret, error) {
	p, _ := pem.Decode(b)
	if p == nil {
		return nil, ErrNoPEMFound
	}
	if got, want := p.Type, secretPEMType; got != want {
		return nil, fmt.Errorf("%w: %v, want %v", ErrWrongKeyType, got, want)
	}
	return ParseSecret(p.Bytes)
}

// MarshalPublicPEM encodes pk as a PEM block.
func MarshalPublicPEM(pk Public) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: publicPEMType, Bytes: pk.Bytes()})
}

// ParsePublicPEM decodes a public key from a PEM data structure.
func ParsePublicPEM(b []byte) (Public, error) {
	p, _ := pem.Decode(b)
	if p == nil {
		return Public{}, ErrNoPEMFound
	}
	if got, want := p.Type, publicPEMType; got != want {
		return Public{}, fmt.Errorf("%w: %v, want %v", ErrWrongKeyType, got, want)
	}
	return ParsePublic(p.Bytes)
}
