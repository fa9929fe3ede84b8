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
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/akaregi/imperatrix/pkg/item"
	"github.com/akaregi/imperatrix/pkg/query"
)

type fakeInventory struct {
	records map[string][]item.Record
	held    map[string]*item.Record
	err     error
}

func (f *fakeInventory) Inventory(_ context.Context, player string) ([]item.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[player], nil
}

func (f *fakeInventory) HeldItem(_ context.Context, player string) (*item.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.held[player], nil
}

type fakeScores map[string]int64

func (f fakeScores) Score(_ context.Context, player string) (int64, error) {
	v, ok := f[player]
	if !ok {
		return 0, stderrors.New("unknown player")
	}
	return v, nil
}

type fakeTPS struct {
	samples [3]float64
	err     error
}

func (f fakeTPS) RecentTPS(context.Context) ([3]float64, error) {
	return f.samples, f.err
}

func newTestResolver() *Resolver {
	inv := &fakeInventory{
		records: map[string][]item.Record{
			"Steve": {
				{Material: "DIAMOND_SWORD", DisplayName: ptr.To("Excalibur"), Lore: []string{"Forged in Nether"}, Quantity: 1},
				{Material: "STONE", Quantity: 32},
				{Material: "STONE", Quantity: 32},
			},
		},
		held: map[string]*item.Record{
			"Steve": {Material: "PAPER", Lore: []string{"Ticket to the End"}, Quantity: 1},
		},
	}
	return New(
		WithInventorySource(inv),
		WithScoreSource(fakeScores{"Steve": 1200}),
		WithTPSSampler(fakeTPS{samples: [3]float64{19.995, 19.5, 18}}),
	)
}

func TestResolver_Resolve(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	tests := []struct {
		name       string
		player     string
		identifier string
		want       string
	}{
		{"hasitem by material", "Steve", "hasitem_id:stone,amount:64", "true"},
		{"hasitem sums quantities", "Steve", "hasitem_id:STONE,amount:65", "false"},
		{"hasitem by name", "Steve", "hasitem_name:Excalibur", "true"},
		{"hasitem prefix is case-insensitive", "Steve", "HasItem_id:DIAMOND_SWORD", "true"},
		{"hasitem wildcard", "Steve", "hasitem_", "true"},
		{"hasitem malformed fails closed", "Steve", "hasitem_amount:lots", "false"},
		{"hasitem empty inventory", "Alex", "hasitem_id:STONE", "false"},
		{"lore partial match", "Steve", "hasitem_lorepartialmatch_Nether", "true"},
		{"lore partial match keeps case of pattern", "Steve", "HASITEM_LOREPARTIALMATCH_nether", "false"},
		{"lore partial match regex", "Steve", "hasitem_lorepartialmatch_^Forged", "true"},
		{"held lore match", "Steve", "holditem_lorepartialmatch_the End", "true"},
		{"held lore mismatch", "Steve", "holditem_lorepartialmatch_Nether", "false"},
		{"empty hand", "Alex", "holditem_lorepartialmatch_Ticket", "false"},
		{"score", "Steve", "okopoint", "1200"},
		{"score case-insensitive", "Steve", "OkoPoint", "1200"},
		{"score unknown player", "Alex", "okopoint", ""},
		{"tps rounds half up", "Steve", "tps", "20.0"},
		{"unknown identifier", "Steve", "balance", ""},
		{"score needs exact identifier", "Steve", "okopoint_extra", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(ctx, tt.player, tt.identifier))
		})
	}
}

func TestResolver_LookupFailures(t *testing.T) {
	r := New(
		WithInventorySource(&fakeInventory{err: stderrors.New("backend down")}),
		WithTPSSampler(fakeTPS{err: stderrors.New("no samples")}),
	)
	ctx := context.Background()

	assert.Equal(t, "false", r.Resolve(ctx, "Steve", "hasitem_id:STONE"))
	assert.Equal(t, "false", r.Resolve(ctx, "Steve", "hasitem_lorepartialmatch_x"))
	assert.Equal(t, "false", r.Resolve(ctx, "Steve", "holditem_lorepartialmatch_x"))
	assert.Equal(t, "", r.Resolve(ctx, "Steve", "tps"))
}

func TestResolver_NoCollaborators(t *testing.T) {
	r := New()
	ctx := context.Background()

	for _, id := range []string{"hasitem_id:STONE", "hasitem_lorepartialmatch_x", "holditem_lorepartialmatch_x", "okopoint", "tps"} {
		assert.Equal(t, "", r.Resolve(ctx, "Steve", id), id)
	}
}

func TestResolver_WithCachedParser(t *testing.T) {
	p, err := query.NewCachedParser(8)
	require.NoError(t, err)

	inv := &fakeInventory{records: map[string][]item.Record{"Steve": {{Material: "STONE", Quantity: 1}}}}
	r := New(WithInventorySource(inv), WithParser(p))

	assert.Equal(t, "true", r.Resolve(context.Background(), "Steve", "hasitem_id:STONE"))
	assert.Equal(t, "true", r.Resolve(context.Background(), "Steve", "hasitem_id:STONE"))
	assert.Equal(t, 1, p.Len())
}

func TestFormatTPS(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{20, "20.0"},
		{21.37, "20.0"},
		{19.995, "20.0"},
		{19.994, "19.99"},
		{19.5, "19.5"},
		{18.255, "18.26"},
		{18.25, "18.25"},
		{0, "0.0"},
		{math.Inf(1), "20.0"},
		{math.NaN(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTPS(tt.in))
		})
	}
}
