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

package serverutil

import (
	"errors"
	"net/http"
	"sync/atomic"

	"gocloud.dev/server/health"
)

var _ health.Checker = (*Readiness)(nil)

// errNotReady is reported until Readiness.Set is called.
var errNotReady = errors.New("not ready")

// RootHealthHandler handles liveness checks at "/".
// All other requests are passed through to `otherHandler`.
func RootHealthHandler(otherHandler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// This is the default load balancer health check.
		if r.URL.Path == "/" {
			health.HandleLive(w, r)
			return
		}
		otherHandler.ServeHTTP(w, r)
	}
}

// Readiness is a health.Checker that fails until Set is called, typically
// once the ring context is built.
type Readiness struct {
	ready int32
}

// Set marks the binary as ready.
func (r *Readiness) Set() { atomic.StoreInt32(&r.ready, 1) }

// CheckHealth implements health.Checker.
func (r *Readiness) CheckHealth() error {
	if atomic.LoadInt32(&r.ready) == 0 {
		return errNotReady
	}
	return nil
}
