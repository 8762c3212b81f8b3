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
	"context"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/ringvrf/cmd/serverutil"
	"github.com/google/ringvrf/core/crypto/vrf"
	"github.com/google/ringvrf/core/crypto/vrf/ringvrf"
	"github.com/google/ringvrf/core/ring"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	maxWorkers  uint
	qps         int
	members     int
	ramp        time.Duration
	duration    time.Duration
	metricsAddr string
)

func init() {
	RootCmd.AddCommand(hammerCmd)

	hammerCmd.Flags().UintVar(&maxWorkers, "workers", 1, "Number of parallel workers")
	hammerCmd.Flags().IntVar(&qps, "qps", 10, "Signatures per second across all workers")
	hammerCmd.Flags().IntVar(&members, "members", 16, "Number of keys in the test ring")
	hammerCmd.Flags().DurationVar(&ramp, "ramp", 1*time.Second, "Time to spend ramping up")
	hammerCmd.Flags().DurationVar(&duration, "duration", time.Minute, "How long to run")
	hammerCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
}

// hammerCmd signs and verifies ring signatures in a loop.
var hammerCmd = &cobra.Command{
	Use:   "hammer",
	Short: "Loadtest ring signing and verification",
	Long: `Signs as members 0 through n-1 of a test ring and verifies every
signature against the ring commitment, using a select number of workers in
parallel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var ready serverutil.Readiness
		if metricsAddr != "" {
			serverutil.InitMetrics()
			go func() {
				if err := serverutil.ServeHTTPMetrics(metricsAddr, &ready); err != nil {
					glog.Errorf("ServeHTTPMetrics(): %v", err)
				}
			}()
		}
		glog.V(5).Infof("Ring config: %# v", pretty.Formatter(ringConfig()))
		h, err := newHammer(members, qps)
		if err != nil {
			return err
		}
		ready.Set()
		ctx, cancel := context.WithTimeout(context.Background(), duration)
		defer cancel()
		h.run(ctx, maxWorkers, ramp)
		return nil
	},
}

type hammer struct {
	ctx   *ring.Context
	sks   []*vrf.Secret
	keys  []vrf.Public
	cache *ring.VerifierKeyCache
	limit *rate.Limiter

	mu      sync.Mutex
	workers uint
	times   []float64
	failed  int
}

func newHammer(n, qps int) (*hammer, error) {
	if n <= 0 || qps <= 0 {
		return nil, fmt.Errorf("members: %v, qps: %v, want > 0", n, qps)
	}
	ctx, err := ringContext()
	if err != nil {
		return nil, err
	}
	h := &hammer{
		ctx:   ctx,
		sks:   make([]*vrf.Secret, n),
		keys:  make([]vrf.Public, n),
		limit: rate.NewLimiter(rate.Limit(qps), qps),
	}
	for i := range h.sks {
		var seed [8]byte
		binary.LittleEndian.PutUint64(seed[:], uint64(i))
		h.sks[i] = vrf.NewSecretFromSeed(seed[:])
		h.keys[i] = h.sks[i].Public()
	}
	h.cache, err = ring.NewVerifierKeyCache(ctx.ConstantComponent(), ctx.MaxSize(), 8)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// run adds workers up to maxWorkers over the ramp time.
func (h *hammer) run(ctx context.Context, maxWorkers uint, ramp time.Duration) {
	if maxWorkers == 0 {
		maxWorkers = 1
	}
	rampDelta := ramp / time.Duration(maxWorkers)
	if rampDelta <= 0 {
		rampDelta = time.Millisecond
	}
	var wg sync.WaitGroup
	go h.report(ctx, 5*time.Second)

	// Slowly add workers up to maxWorkers
	rampTicker := time.NewTicker(rampDelta)
	for id := uint(0); id < maxWorkers && ctx.Err() == nil; <-rampTicker.C {
		h.mu.Lock()
		h.workers++
		h.mu.Unlock()
		wg.Add(1)
		go h.worker(ctx, int(id), &wg)
		id++
	}
	rampTicker.Stop()
	wg.Wait()
	h.print()
}

func (h *hammer) worker(ctx context.Context, id int, wg *sync.WaitGroup) {
	defer wg.Done()
	index := id % len(h.keys)
	pk, err := h.ctx.ProverKey(h.keys, index)
	if err != nil {
		glog.Errorf("worker %v: ProverKey(): %v", id, err)
		return
	}
	c := pk.VerifierKey().Commitment()
	for i := 0; ; i++ {
		if err := h.limit.Wait(ctx); err != nil {
			return
		}
		start := time.Now()
		err := h.signVerify(pk, c, index, []byte(fmt.Sprintf("hammer %v %v", id, i)))
		h.record(time.Since(start), err)
	}
}

func (h *hammer) signVerify(pk *ring.ProverKey, c *ring.Commitment, index int, data []byte) error {
	sig, err := ringvrf.Sign(h.sks[index], data, nil, pk)
	if err != nil {
		return err
	}
	vk, err := h.cache.Get(c)
	if err != nil {
		return err
	}
	return sig.Verify(vk, data, nil)
}

func (h *hammer) record(d time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		glog.Warningf("sign and verify: %v", err)
		h.failed++
		return
	}
	h.times = append(h.times, d.Seconds())
}

func (h *hammer) report(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			h.print()
		}
	}
}

func (h *hammer) print() {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.times)
	if n == 0 {
		glog.Infof("Workers: %v, no completed requests, %v failed", h.workers, h.failed)
		return
	}
	sorted := append([]float64(nil), h.times...)
	sort.Float64s(sorted)
	glog.Infof("Workers: %v, requests: %v, failed: %v, p50: %.3fs, p99: %.3fs",
		h.workers, n, h.failed, sorted[n/2], sorted[n*99/100])
}
