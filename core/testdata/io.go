// Copyright 2018 Google Inc. All Rights Reserved.
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

package testdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
)

// Names of the vector files.
const (
	IETFVectors = "ietf"
	RingVectors = "ring"
)

// ErrNoVectors occurs when a vector file has not been generated.
var ErrNoVectors = errors.New("test vectors not generated")

// packagePath returns the on-disk path of *this* package.
func packagePath() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("cannot locate the testdata package")
	}
	return filepath.Dir(file), nil
}

// Path returns the file of the vectors called name in dir.
func Path(dir, name string) string {
	return filepath.Join(dir, fmt.Sprintf("%v.json", name))
}

// ReadVectors decodes the vectors called name from this package's
// directory into v. It returns an error wrapping ErrNoVectors when the file
// does not exist.
func ReadVectors(name string, v interface{}) error {
	dir, err := packagePath()
	if err != nil {
		return err
	}
	return ReadFile(Path(dir, name), v)
}

// ReadFile decodes the JSON file at path into v.
func ReadFile(path string, v interface{}) error {
	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrNoVectors, path)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("json.Unmarshal(%v): %v", path, err)
	}
	return nil
}

// WriteFile saves v as indented JSON at path.
func WriteFile(path string, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("json.Marshal(): %v", err)
	}
	if err := ioutil.WriteFile(path, out, 0666); err != nil {
		return fmt.Errorf("WriteFile(%v): %v", path, err)
	}
	return nil
}
