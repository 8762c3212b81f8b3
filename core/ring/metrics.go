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

package ring

import (
	"sync"

	"github.com/google/trillian/monitoring"
)

const resultLabel = "result"

var (
	once          sync.Once
	contextBuilds monitoring.Counter
	cacheLookups  monitoring.Counter
)

func createMetrics(mf monitoring.MetricFactory) {
	contextBuilds = mf.NewCounter(
		"context_builds_total",
		"Number of ring contexts built")
	cacheLookups = mf.NewCounter(
		"verifier_key_cache_total",
		"Number of verifier key cache lookups, by result",
		resultLabel)
}

// InitMetrics records metrics into mf. Only the first call has an effect;
// metrics are kept in memory only when it is never called.
func InitMetrics(mf monitoring.MetricFactory) {
	once.Do(func() { createMetrics(mf) })
}

func countContextBuild() {
	InitMetrics(monitoring.InertMetricFactory{})
	contextBuilds.Inc()
}

func countCacheLookup(hit bool) {
	InitMetrics(monitoring.InertMetricFactory{})
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.Inc(result)
}
