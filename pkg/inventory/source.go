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

package inventory

import (
	"context"

	"github.com/akaregi/imperatrix/pkg/item"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Source provides item records per player.
type Source interface {
	// Inventory returns every record in the player's inventory.
	Inventory(ctx context.Context, player string) ([]item.Record, error)

	// HeldItem returns the record in the player's main hand, or nil when
	// the hand is empty.
	HeldItem(ctx context.Context, player string) (*item.Record, error)
}

var lookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "imperatrix_inventory_lookups_total",
		Help: "Inventory lookups by source, kind and result",
	},
	[]string{"source", "kind", "result"},
)

func observeLookup(source, kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	lookupsTotal.WithLabelValues(source, kind, result).Inc()
}

func cloneRecords(in []item.Record) []item.Record {
	if in == nil {
		return []item.Record{}
	}
	out := make([]item.Record, len(in))
	copy(out, in)
	return out
}
