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

package matcher

import (
	"math"
	"slices"

	"golang.org/x/text/cases"

	"github.com/akaregi/imperatrix/pkg/item"
)

// Matches evaluates q against records. A nil query requires one item of
// anything.
func Matches(q *item.Query, records []item.Record) item.Outcome {
	if q == nil {
		q = &item.Query{Amount: item.DefaultAmount}
	}

	var total uint
	for i := range records {
		if !MatchRecord(q, &records[i]) {
			continue
		}
		total = addSaturating(total, records[i].Quantity)
	}

	return item.Outcome{
		Satisfied:       total >= q.Amount,
		MatchedQuantity: total,
	}
}

// MatchRecord reports whether a single record passes every predicate of q.
func MatchRecord(q *item.Query, r *item.Record) bool {
	material := matchMaterial(q.Material, r.Material)
	name := matchName(q.DisplayName, r.DisplayName)
	lore := matchLore(q.Lore, r.Lore)
	enchants := matchEnchantments(q.Enchantments, r.Enchantments)
	return material && name && lore && enchants
}

func matchMaterial(want *string, have string) bool {
	if want == nil {
		return true
	}
	fold := cases.Fold()
	return fold.String(*want) == fold.String(have)
}

func matchName(want, have *string) bool {
	if want == nil {
		return true
	}
	if have == nil {
		return false
	}
	return *want == *have
}

// matchLore compares lore line for line, including length. A record without
// lore never satisfies a present requirement.
func matchLore(want *item.LoreRequirement, have []string) bool {
	if want == nil {
		return true
	}
	return len(have) > 0 && slices.Equal(want.Lines, have)
}

// matchEnchantments requires a one to one correspondence between requested
// and present enchantments: each requested key must alias exactly one
// present key, at the same level, and no present key may be left over.
func matchEnchantments(want, have map[item.EnchantmentKey]uint) bool {
	if len(want) == 0 {
		return true
	}
	if len(want) != len(have) {
		return false
	}

	used := make(map[item.EnchantmentKey]bool, len(have))
	for wk, wl := range want {
		var found item.EnchantmentKey
		candidates := 0
		for hk := range have {
			if wk.Matches(hk) {
				found = hk
				candidates++
			}
		}
		if candidates != 1 || used[found] || have[found] != wl {
			return false
		}
		used[found] = true
	}
	return true
}

func addSaturating(a, b uint) uint {
	if a > math.MaxUint-b {
		return math.MaxUint
	}
	return a + b
}
