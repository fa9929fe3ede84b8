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

package placeholder

import (
	"context"
	"log/slog"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/akaregi/imperatrix/pkg/item"
	"github.com/akaregi/imperatrix/pkg/matcher"
	"github.com/akaregi/imperatrix/pkg/query"
)

// Identifier prefixes and names, lower case.
const (
	PrefixHasItemLorePartialMatch  = "hasitem_lorepartialmatch_"
	PrefixHasItem                  = "hasitem_"
	PrefixHoldItemLorePartialMatch = "holditem_lorepartialmatch_"
	IdentifierScore                = "okopoint"
	IdentifierTPS                  = "tps"
)

// MaxTPS is the ceiling applied to reported TPS values.
const MaxTPS = 20.0

const (
	valueTrue  = "true"
	valueFalse = "false"
)

// InventorySource provides item records per player.
type InventorySource interface {
	Inventory(ctx context.Context, player string) ([]item.Record, error)
	HeldItem(ctx context.Context, player string) (*item.Record, error)
}

// ScoreSource provides the per-player score behind "okopoint".
type ScoreSource interface {
	Score(ctx context.Context, player string) (int64, error)
}

// TPSSampler provides the server's 1, 5 and 15 minute TPS averages.
type TPSSampler interface {
	RecentTPS(ctx context.Context) ([3]float64, error)
}

var (
	resolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "imperatrix_placeholder_resolutions_total",
			Help: "Placeholder resolutions by kind and result",
		},
		[]string{"kind", "result"},
	)
	resolutionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "imperatrix_placeholder_resolution_duration_seconds",
			Help:    "Placeholder resolution latency",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"kind"},
	)
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithInventorySource enables the item branches.
func WithInventorySource(s InventorySource) Option {
	return func(r *Resolver) {
		r.inventory = s
	}
}

// WithScoreSource enables the score branch.
func WithScoreSource(s ScoreSource) Option {
	return func(r *Resolver) {
		r.scores = s
	}
}

// WithTPSSampler enables the TPS branch.
func WithTPSSampler(s TPSSampler) Option {
	return func(r *Resolver) {
		r.tps = s
	}
}

// WithParser replaces the identifier parser, e.g. with a query.CachedParser.
func WithParser(p query.Parser) Option {
	return func(r *Resolver) {
		if p != nil {
			r.parser = p
		}
	}
}

// Resolver evaluates placeholder identifiers. A Resolver is safe for
// concurrent use when its collaborators are.
type Resolver struct {
	inventory InventorySource
	scores    ScoreSource
	tps       TPSSampler
	parser    query.Parser
}

// New creates a Resolver. Branches whose collaborator is not configured
// render "".
func New(opts ...Option) *Resolver {
	r := &Resolver{
		parser: query.DefaultParser{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the placeholder value of identifier for player.
func (r *Resolver) Resolve(ctx context.Context, player, identifier string) string {
	start := time.Now()
	kind, value := r.dispatch(ctx, player, identifier)
	resolutionDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	result := "ok"
	switch value {
	case "":
		result = "empty"
	case valueFalse:
		result = "false"
	}
	resolutionsTotal.WithLabelValues(kind, result).Inc()
	return value
}

func (r *Resolver) dispatch(ctx context.Context, player, identifier string) (kind, value string) {
	lower := strings.ToLower(identifier)

	switch {
	case strings.HasPrefix(lower, PrefixHasItemLorePartialMatch):
		pattern := identifier[len(PrefixHasItemLorePartialMatch):]
		return "hasitem_lorepartialmatch", r.inventoryLoreMatch(ctx, player, pattern)
	case strings.HasPrefix(lower, PrefixHasItem):
		return "hasitem", r.hasItem(ctx, player, identifier)
	case strings.HasPrefix(lower, PrefixHoldItemLorePartialMatch):
		pattern := identifier[len(PrefixHoldItemLorePartialMatch):]
		return "holditem_lorepartialmatch", r.heldLoreMatch(ctx, player, pattern)
	case lower == IdentifierScore:
		return IdentifierScore, r.score(ctx, player)
	case lower == IdentifierTPS:
		return IdentifierTPS, r.recentTPS(ctx)
	default:
		return "unknown", ""
	}
}

func (r *Resolver) hasItem(ctx context.Context, player, identifier string) string {
	if r.inventory == nil {
		return ""
	}
	q, err := r.parser.Parse(identifier)
	if err != nil {
		slog.Debug("malformed item identifier", "player", player, "identifier", identifier, "error", err)
		return valueFalse
	}
	records, err := r.inventory.Inventory(ctx, player)
	if err != nil {
		slog.Debug("inventory lookup failed", "player", player, "error", err)
		return valueFalse
	}
	return strconv.FormatBool(matcher.Matches(q, records).Satisfied)
}

func (r *Resolver) inventoryLoreMatch(ctx context.Context, player, pattern string) string {
	if r.inventory == nil {
		return ""
	}
	records, err := r.inventory.Inventory(ctx, player)
	if err != nil {
		slog.Debug("inventory lookup failed", "player", player, "error", err)
		return valueFalse
	}
	return strconv.FormatBool(matcher.PartialLoreMatch(records, pattern))
}

func (r *Resolver) heldLoreMatch(ctx context.Context, player, pattern string) string {
	if r.inventory == nil {
		return ""
	}
	held, err := r.inventory.HeldItem(ctx, player)
	if err != nil {
		slog.Debug("held item lookup failed", "player", player, "error", err)
		return valueFalse
	}
	if held == nil {
		return valueFalse
	}
	return strconv.FormatBool(matcher.PartialLoreMatch([]item.Record{*held}, pattern))
}

func (r *Resolver) score(ctx context.Context, player string) string {
	if r.scores == nil {
		return ""
	}
	v, err := r.scores.Score(ctx, player)
	if err != nil {
		slog.Debug("score lookup failed", "player", player, "error", err)
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func (r *Resolver) recentTPS(ctx context.Context) string {
	if r.tps == nil {
		return ""
	}
	samples, err := r.tps.RecentTPS(ctx)
	if err != nil {
		slog.Debug("tps sample failed", "error", err)
		return ""
	}
	return FormatTPS(samples[0])
}

// FormatTPS rounds v half-up to two decimals, caps it at MaxTPS and
// renders it with at least one fractional digit.
func FormatTPS(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	v = math.Min(roundHalfUp(v, 2), MaxTPS)
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// roundHalfUp rounds the shortest decimal representation of v, so values
// such as 19.995 round up even though their binary form is slightly lower.
func roundHalfUp(v float64, places int) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(math.Abs(v), 'f', -1, 64))
	if !ok {
		return v
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())
	out, _ := new(big.Rat).SetFrac(n, scale).Float64()
	return math.Copysign(out, v)
}
