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

// Package cmd holds the subcommands of the ringvrf tool.
package cmd

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/crypto/vrf"
	"github.com/google/ringvrf/core/ring"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	contexts = ring.NewRegistry()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "ringvrf",
	Short: "Sign and verify VRF outputs",
	Long: `ringvrf evaluates a verifiable random function on Bandersnatch and
proves the result either directly, against one public key, or anonymously,
against a ring of public keys without revealing which member signed.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// glog flags such as -v and -logtostderr.
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)

	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ringvrf.yaml)")

	RootCmd.PersistentFlags().Int("ring-size", 1023, "Maximum number of keys in a ring")
	RootCmd.PersistentFlags().String("srs-seed", "ringvrf", "Seed of the test SRS shared by provers and verifiers, hashed with SHA-256")
	RootCmd.PersistentFlags().String("nonce", "deterministic", "Nonce generation: deterministic or randomized")
	RootCmd.PersistentFlags().String("data", "", "Data the VRF is evaluated on")
	RootCmd.PersistentFlags().String("ad", "", "Additional data bound to the proof")
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		glog.Exitf("%v", err)
	}
}

// initConfig reads in config file and ENV variables if set.
// initConfig is run during a command's preRun().
func initConfig() {
	viper.SetEnvPrefix("ringvrf")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match.

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			glog.Exitf("Failed reading config file: %v: %v", viper.ConfigFileUsed(), err)
		}
	} else {
		viper.SetConfigName(".ringvrf")
		viper.AddConfigPath("$HOME")
		if err := viper.ReadInConfig(); err == nil {
			glog.Infof("Using config file: %v", viper.ConfigFileUsed())
		}
	}
}

// proveOptions returns the prover settings selected by the configuration.
func proveOptions() ([]vrf.ProveOption, error) {
	mode, err := vrf.ParseNonceMode(viper.GetString("nonce"))
	if err != nil {
		return nil, err
	}
	return []vrf.ProveOption{vrf.WithNonceMode(mode)}, nil
}

// ringConfig identifies the ring context selected by the configuration.
func ringConfig() ring.Config {
	cfg := ring.Config{MaxSize: viper.GetInt("ring-size")}
	cfg.Seed = sha256.Sum256([]byte(viper.GetString("srs-seed")))
	return cfg
}

// ringContext returns the ring context, built once per process.
func ringContext() (*ring.Context, error) {
	return contexts.Get(ringConfig())
}

func readSecret(path string) (*vrf.Secret, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sk, err := vrf.ParseSecretPEM(b)
	if err != nil {
		return nil, fmt.Errorf("ParseSecretPEM(%v): %v", path, err)
	}
	return sk, nil
}

func readPublic(path string) (vrf.Public, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return vrf.Public{}, err
	}
	pk, err := vrf.ParsePublicPEM(b)
	if err != nil {
		return vrf.Public{}, fmt.Errorf("ParsePublicPEM(%v): %v", path, err)
	}
	return pk, nil
}

// readRing reads one hex encoded public key per line. Blank lines and
// lines starting with # are skipped.
func readRing(path string) ([]vrf.Public, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var keys []vrf.Public
	s := bufio.NewScanner(bytes.NewReader(b))
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		kb, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("%v:%v: %v", path, line, err)
		}
		pk, err := vrf.ParsePublic(kb)
		if err != nil {
			return nil, fmt.Errorf("%v:%v: %v", path, line, err)
		}
		keys = append(keys, pk)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// indexOf returns the position of pk in keys.
func indexOf(keys []vrf.Public, pk vrf.Public) (int, error) {
	for i := range keys {
		if keys[i].Equal(pk) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("public key %x is not in the ring", pk.Bytes())
}

// hexArg decodes the single hex argument of a command.
func hexArg(args []string, what string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one hex encoded %v", what)
	}
	b, err := hex.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		return nil, fmt.Errorf("hex.Decode(%v): %v", what, err)
	}
	return b, nil
}
