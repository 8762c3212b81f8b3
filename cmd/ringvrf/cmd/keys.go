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
	"crypto/sha256"
	"fmt"
	"io/ioutil"
	"os"
	"text/tabwriter"

	"github.com/google/ringvrf/core/crypto/curve"
	"github.com/google/ringvrf/core/crypto/vrf"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// Password derivation parameters.
	passwordIterations = 4096
	passwordSeedLen    = 32
)

var (
	keySeed     string
	keyPassword string
	outFile     string
	secretFile  string

	passwordSalt = []byte("ringvrf keygen")
)

// keygenCmd writes a new secret key.
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Creates a new secret key",
	Long: `Creates a new secret key and writes it as PEM:

./ringvrf keygen -o secret.pem
./ringvrf keygen --seed testing-seed
./ringvrf keygen --password "correct horse"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sk *vrf.Secret
		switch {
		case keySeed != "" && keyPassword != "":
			return fmt.Errorf("--seed and --password are exclusive")
		case keySeed != "":
			sk = vrf.NewSecretFromSeed([]byte(keySeed))
		case keyPassword != "":
			sk = vrf.NewSecretFromSeed(passwordSeed(keyPassword))
		default:
			var err error
			if sk, err = vrf.GenerateSecret(nil); err != nil {
				return err
			}
		}
		pemBytes := vrf.MarshalSecretPEM(sk)
		if outFile == "" {
			_, err := os.Stdout.Write(pemBytes)
			return err
		}
		return ioutil.WriteFile(outFile, pemBytes, 0600)
	},
}

// passwordSeed stretches a password into a key seed.
func passwordSeed(password string) []byte {
	return pbkdf2.Key([]byte(password), passwordSalt, passwordIterations, passwordSeedLen, sha256.New)
}

// publicCmd prints the public key of a secret key.
var publicCmd = &cobra.Command{
	Use:   "public",
	Short: "Prints the public key of a secret key",
	Long: `Prints the public key as PEM, and its hex encoding for ring files:

./ringvrf public --secret secret.pem
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sk, err := readSecret(secretFile)
		if err != nil {
			return err
		}
		pk := sk.Public()
		fmt.Printf("%s# %x\n", vrf.MarshalPublicPEM(pk), pk.Bytes())
		return nil
	},
}

// pointsCmd prints the constants of the suite.
var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Prints the fixed points of the suite",
	RunE: func(cmd *cobra.Command, args []string) error {
		b := curve.SuiteBases()
		tw := tabwriter.NewWriter(os.Stdout, 0, 8, 1, ' ', 0)
		fmt.Fprintln(tw, "Name\tCompressed\tWeierstrass x\tWeierstrass y")
		for _, p := range []struct {
			name  string
			point curve.Point
		}{
			{name: "generator", point: curve.Generator()},
			{name: "blinding", point: b.Blinding},
			{name: "accumulator", point: b.Accumulator},
			{name: "padding", point: b.Padding},
		} {
			w := curve.ToWeierstrass(&p.point)
			fmt.Fprintf(tw, "%v\t%x\t%v\t%v\n", p.name, curve.EncodePoint(&p.point), w.X.String(), w.Y.String())
		}
		return tw.Flush()
	},
}

func init() {
	RootCmd.AddCommand(keygenCmd)
	RootCmd.AddCommand(publicCmd)
	RootCmd.AddCommand(pointsCmd)

	keygenCmd.Flags().StringVar(&keySeed, "seed", "", "Derive the key from this seed instead of crypto/rand")
	keygenCmd.Flags().StringVar(&keyPassword, "password", "", "Derive the key from this password with PBKDF2")
	keygenCmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file, stdout when empty")
	publicCmd.Flags().StringVar(&secretFile, "secret", "secret.pem", "Path to the secret key PEM")
}
