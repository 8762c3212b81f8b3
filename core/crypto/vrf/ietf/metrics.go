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

package ietf

import (
	"sync"
	"time"

	"github.com/google/trillian/monitoring"
)

const resultLabel = "result"

var (
	once        sync.Once
	proveTime   monitoring.Histogram
	verifyCount monitoring.Counter
)

func createMetrics(mf monitoring.MetricFactory) {
	proveTime = mf.NewHistogram(
		"direct_prove_seconds",
		"Time spent building direct VRF proofs")
	verifyCount = mf.NewCounter(
		"direct_verify_total",
		"Number of direct VRF proofs checked, by result",
		resultLabel)
}

// InitMetrics records metrics into mf. Only the first call has an effect;
// metrics are kept in memory only when it is never called.
func InitMetrics(mf monitoring.MetricFactory) {
	once.Do(func() { createMetrics(mf) })
}

func observeProve(d time.Duration) {
	InitMetrics(monitoring.InertMetricFactory{})
	proveTime.Observe(d.Seconds())
}

func countVerify(ok bool) {
	InitMetrics(monitoring.InertMetricFactory{})
	result := "fail"
	if ok {
		result = "ok"
	}
	verifyCount.Inc(result)
}
