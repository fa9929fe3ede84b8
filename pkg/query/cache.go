// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package query

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/akaregi/imperatrix/pkg/item"
)

var (
	parseCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imperatrix_query_cache_hits_total",
			Help: "Total number of parsed-query cache hits",
		},
	)
	parseCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "imperatrix_query_cache_misses_total",
			Help: "Total number of parsed-query cache misses",
		},
	)
)

// Parser turns identifiers into queries.
type Parser interface {
	Parse(raw string) (*item.Query, error)
}

// DefaultParser is a Parser that calls Parse directly.
type DefaultParser struct{}

// Parse implements Parser.
func (DefaultParser) Parse(raw string) (*item.Query, error) {
	return Parse(raw)
}

type parseResult struct {
	query *item.Query
	err   error
}

// CachedParser is a Parser backed by a fixed-size LRU of parse results.
// Malformed identifiers are cached too, so repeated bad input is rejected
// without re-parsing. Returned queries are shared and must not be modified.
// CachedParser is safe for concurrent use.
type CachedParser struct {
	cache *lru.Cache[string, parseResult]
}

// NewCachedParser creates a CachedParser holding at most size entries.
func NewCachedParser(size int) (*CachedParser, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	cache, err := lru.New[string, parseResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create query cache: %w", err)
	}
	return &CachedParser{cache: cache}, nil
}

// Parse implements Parser.
func (p *CachedParser) Parse(raw string) (*item.Query, error) {
	if res, ok := p.cache.Get(raw); ok {
		parseCacheHits.Inc()
		return res.query, res.err
	}
	parseCacheMisses.Inc()

	q, err := Parse(raw)
	p.cache.Add(raw, parseResult{query: q, err: err})
	return q, err
}

// Len returns the number of cached identifiers.
func (p *CachedParser) Len() int {
	return p.cache.Len()
}

// Purge drops every cached result.
func (p *CachedParser) Purge() {
	p.cache.Purge()
}
