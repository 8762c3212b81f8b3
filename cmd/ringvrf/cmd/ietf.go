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
	"fmt"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/vrf/ietf"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var publicFile string

// ietfSignCmd signs data with a secret key.
var ietfSignCmd = &cobra.Command{
	Use:   "ietf-sign",
	Short: "Evaluates the VRF and proves it against the signer's key",
	Long: `Prints the hex encoded signature and the output ticket:

./ringvrf ietf-sign --secret secret.pem --data foobar --ad "additional data"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sk, err := readSecret(secretFile)
		if err != nil {
			return err
		}
		opts, err := proveOptions()
		if err != nil {
			return err
		}
		sig, err := ietf.Sign(sk, []byte(viper.GetString("data")), []byte(viper.GetString("ad")), opts...)
		if err != nil {
			return err
		}
		fmt.Printf("signature: %x\nticket: %x\n", sig.Bytes(), sig.Ticket())
		return nil
	},
}

// ietfVerifyCmd checks a direct signature.
var ietfVerifyCmd = &cobra.Command{
	Use:   "ietf-verify [signature]",
	Short: "Verifies a signature against a public key",
	Long: `Verifies a hex encoded signature and prints its ticket:

./ringvrf ietf-verify --public public.pem --data foobar --ad "additional data" 5a3e...
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := hexArg(args, "signature")
		if err != nil {
			return err
		}
		pk, err := readPublic(publicFile)
		if err != nil {
			return err
		}
		sig, err := ietf.ParseSignature(b)
		if err != nil {
			return err
		}
		if err := sig.Verify(pk, []byte(viper.GetString("data")), []byte(viper.GetString("ad"))); err != nil {
			glog.Warningf("rejected signature: %v", err)
			return err
		}
		fmt.Printf("valid\nticket: %x\n", sig.Ticket())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ietfSignCmd)
	RootCmd.AddCommand(ietfVerifyCmd)

	ietfSignCmd.Flags().StringVar(&secretFile, "secret", "secret.pem", "Path to the secret key PEM")
	ietfVerifyCmd.Flags().StringVar(&publicFile, "public", "public.pem", "Path to the public key PEM")
}
