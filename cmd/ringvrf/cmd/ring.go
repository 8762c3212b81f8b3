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
	"fmt"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/vrf/ringvrf"
	"github.com/google/ringvrf/core/ring"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	ringFile   string
	commitment string
	rawVK      string
)

// ringSignCmd signs data anonymously on behalf of a ring.
var ringSignCmd = &cobra.Command{
	Use:   "ring-sign",
	Short: "Evaluates the VRF and proves it was done by a ring member",
	Long: `The ring file lists one hex encoded public key per line and must
contain the signer's key. Prints the hex encoded signature and the ticket:

./ringvrf ring-sign --secret secret.pem --ring ring.txt --data foobar
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sk, err := readSecret(secretFile)
		if err != nil {
			return err
		}
		keys, err := readRing(ringFile)
		if err != nil {
			return err
		}
		index, err := indexOf(keys, sk.Public())
		if err != nil {
			return err
		}
		opts, err := proveOptions()
		if err != nil {
			return err
		}
		ctx, err := ringContext()
		if err != nil {
			return err
		}
		pk, err := ctx.ProverKey(keys, index)
		if err != nil {
			return err
		}
		sig, err := ringvrf.Sign(sk, []byte(viper.GetString("data")), []byte(viper.GetString("ad")), pk, opts...)
		if err != nil {
			return err
		}
		fmt.Printf("signature: %x\nticket: %x\n", sig.Bytes(), sig.Ticket())
		return nil
	},
}

// ringVerifyCmd checks an anonymous signature.
var ringVerifyCmd = &cobra.Command{
	Use:   "ring-verify [signature]",
	Short: "Verifies a signature against a ring",
	Long: `The ring is given either as a ring file or as the hex encoded ring
commitment printed by ring-commitment. Passing the raw verifier key
printed alongside it avoids rebuilding the SRS:

./ringvrf ring-verify --ring ring.txt --data foobar 9c0f...
./ringvrf ring-verify --commitment 8a41... --data foobar 9c0f...
./ringvrf ring-verify --commitment 8a41... --raw-vk 97f1... --data foobar 9c0f...
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := hexArg(args, "signature")
		if err != nil {
			return err
		}
		sig, err := ringvrf.ParseSignature(b)
		if err != nil {
			return err
		}
		vk, err := verifierKey()
		if err != nil {
			return err
		}
		if err := sig.Verify(vk, []byte(viper.GetString("data")), []byte(viper.GetString("ad"))); err != nil {
			glog.Warningf("rejected signature: %v", err)
			return err
		}
		fmt.Printf("valid\nticket: %x\n", sig.Ticket())
		return nil
	},
}

// ringCommitmentCmd prints the commitment of a ring.
var ringCommitmentCmd = &cobra.Command{
	Use:   "ring-commitment",
	Short: "Prints the commitment of a ring",
	Long: `Prints the ring commitment and the raw verifier key of the context.
Verifiers holding both need neither the ring nor the SRS:

./ringvrf ring-commitment --ring ring.txt
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		vk, err := ringVerifierKey()
		if err != nil {
			return err
		}
		ctx, err := ringContext()
		if err != nil {
			return err
		}
		fmt.Printf("commitment: %x\nraw-vk: %x\n", vk.Commitment().Bytes(), ctx.ConstantComponent().Bytes())
		return nil
	},
}

func ringVerifierKey() (*ring.VerifierKey, error) {
	keys, err := readRing(ringFile)
	if err != nil {
		return nil, err
	}
	ctx, err := ringContext()
	if err != nil {
		return nil, err
	}
	return ctx.VerifierKey(keys)
}

// verifierKey rebuilds the key from --commitment when set, and from the
// ring file otherwise. The context is only built when --raw-vk is empty.
func verifierKey() (*ring.VerifierKey, error) {
	if commitment == "" {
		return ringVerifierKey()
	}
	if rawVK != "" {
		return verifierKeyFromHex(commitment, rawVK, viper.GetInt("ring-size"))
	}
	ctx, err := ringContext()
	if err != nil {
		return nil, err
	}
	return verifierKeyFromHex(commitment, hex.EncodeToString(ctx.ConstantComponent().Bytes()), ctx.MaxSize())
}

// verifierKeyFromHex decodes a ring commitment and a raw verifier key for
// rings of up to maxSize members.
func verifierKeyFromHex(commitmentHex, rawHex string, maxSize int) (*ring.VerifierKey, error) {
	b, err := hex.DecodeString(commitmentHex)
	if err != nil {
		return nil, fmt.Errorf("hex.Decode(commitment): %v", err)
	}
	c, err := ring.ParseCommitment(b)
	if err != nil {
		return nil, err
	}
	b, err = hex.DecodeString(rawHex)
	if err != nil {
		return nil, fmt.Errorf("hex.Decode(raw-vk): %v", err)
	}
	raw, err := ring.ParseRawVerifierKey(b)
	if err != nil {
		return nil, err
	}
	return ring.VerifierKeyFromCommitment(c, raw, maxSize)
}

func init() {
	RootCmd.AddCommand(ringSignCmd)
	RootCmd.AddCommand(ringVerifyCmd)
	RootCmd.AddCommand(ringCommitmentCmd)

	for _, c := range []*cobra.Command{ringSignCmd, ringVerifyCmd, ringCommitmentCmd} {
		c.Flags().StringVar(&ringFile, "ring", "ring.txt", "Path to the ring file")
	}
	ringSignCmd.Flags().StringVar(&secretFile, "secret", "secret.pem", "Path to the secret key PEM")
	ringVerifyCmd.Flags().StringVar(&commitment, "commitment", "", "Hex encoded ring commitment, used instead of --ring")
	ringVerifyCmd.Flags().StringVar(&rawVK, "raw-vk", "", "Hex encoded raw verifier key printed by ring-commitment, used with --commitment")
}
