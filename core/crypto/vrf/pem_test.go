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
	"errors"
	"strings"
	"testing"
)

func TestSecretPEM(t *testing.T) {
	sk := NewSecretFromSeed([]byte("pem"))
	b := MarshalSecretPEM(sk)
	if !strings.Contains(string(b), "BEGIN RINGVRF SECRET KEY") {
		t.Errorf("MarshalSecretPEM(): %s", b)
	}
	got, err := ParseSecretPEM(b)
	if err != nil {
		t.Fatalf("ParseSecretPEM(): %v", err)
	}
	if got.Scalar().Cmp(sk.Scalar()) != 0 {
		t.Errorf("ParseSecretPEM(MarshalSecretPEM(sk)) != sk")
	}
}

func TestPublicPEM(t *testing.T) {
	pk := NewSecretFromSeed([]byte("pem")).Public()
	got, err := ParsePublicPEM(MarshalPublicPEM(pk))
	if err != nil {
		t.Fatalf("ParsePublicPEM(): %v", err)
	}
	if !got.Equal(pk) {
		t.Errorf("ParsePublicPEM(MarshalPublicPEM(pk)) != pk")
	}
}

func TestPEMErrors(t *testing.T) {
	sk := NewSecretFromSeed([]byte("pem"))
	for _, tc := range []struct {
		desc  string
		parse func([]byte) error
		in    []byte
		want  error
	}{
		{
			desc:  "secret not pem",
			parse: func(b []byte) error { _, err := ParseSecretPEM(b); return err },
			in:    []byte("not a pem block"),
			want:  ErrNoPEMFound,
		},
		{
			desc:  "secret from public",
			parse: func(b []byte) error { _, err := ParseSecretPEM(b); return err },
			in:    MarshalPublicPEM(sk.Public()),
			want:  ErrWrongKeyType,
		},
		{
			desc:  "public from secret",
			parse: func(b []byte) error { _, err := ParsePublicPEM(b); return err },
			in:    MarshalSecretPEM(sk),
			want:  ErrWrongKeyType,
		},
		{
			desc:  "public not pem",
			parse: func(b []byte) error { _, err := ParsePublicPEM(b); return err },
			in:    nil,
			want:  ErrNoPEMFound,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			if err := tc.parse(tc.in); !errors.Is(err, tc.want) {
				t.Errorf("parse(): %v, want %v", err, tc.want)
			}
		})
	}
}
