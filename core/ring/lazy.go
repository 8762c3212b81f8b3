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
)

// Config identifies a context built by NewContext.
type Config struct {
	MaxSize int
	Seed    [32]byte
}

// Lazy builds a context on first use. Concurrent first callers block until
// the single build finishes and then share its result, error included.
type Lazy struct {
	build func() (*Context, error)
	once  sync.Once
	ctx   *Context
	err   error
}

// NewLazy returns a cell building NewContext(cfg.MaxSize, cfg.Seed).
func NewLazy(cfg Config) *Lazy {
	return &Lazy{build: func() (*Context, error) { return NewContext(cfg.MaxSize, cfg.Seed) }}
}

// Get returns the context, building it if needed.
func (l *Lazy) Get() (*Context, error) {
	l.once.Do(func() { l.ctx, l.err = l.build() })
	return l.ctx, l.err
}

// Registry hands out one Lazy per configuration.
type Registry struct {
	mu    sync.Mutex
	cells map[Config]*Lazy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{cells: make(map[Config]*Lazy)}
}

// Get returns the context for cfg, building it on first use.
func (r *Registry) Get(cfg Config) (*Context, error) {
	return r.cell(cfg).Get()
}

func (r *Registry) cell(cfg Config) *Lazy {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.cells[cfg]
	if !ok {
		l = NewLazy(cfg)
		r.cells[cfg] = l
	}
	return l
}
