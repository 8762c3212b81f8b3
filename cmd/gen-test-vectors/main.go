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

package main

import (
	"crypto/sha256"
	"flag"

	"github.com/golang/glog"
	"github.com/google/ringvrf/core/testdata"
	"github.com/google/ringvrf/core/testdata/generate"
)

var (
	testdataDir = flag.String("testdata", "core/testdata", "The directory in which to place the generated test data")
	maxSize     = flag.Int("max-size", generate.MaxSize, "Maximum ring size of the context used for ring vectors")
	ringSize    = flag.Int("ring-size", generate.RingSize, "Number of ring members")
	srsSeed     = flag.String("srs-seed", "ringvrf test vectors", "Seed phrase of the test SRS, hashed with SHA-256")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	ietfVectors, err := generate.IETFVectors()
	if err != nil {
		glog.Exitf("IETFVectors(): %v", err)
	}
	ringVectors, err := generate.RingVectors(*maxSize, *ringSize, sha256.Sum256([]byte(*srsSeed)))
	if err != nil {
		glog.Exitf("RingVectors(): %v", err)
	}
	for name, v := range map[string]interface{}{
		testdata.IETFVectors: ietfVectors,
		testdata.RingVectors: ringVectors,
	} {
		path := testdata.Path(*testdataDir, name)
		if err := testdata.WriteFile(path, v); err != nil {
			glog.Exitf("SaveTestVectors(): %v", err)
		}
		glog.Infof("Wrote %v", path)
	}
}
