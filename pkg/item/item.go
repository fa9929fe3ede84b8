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

package item

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DefaultAmount is the required quantity when a query does not specify one.
const DefaultAmount uint = 1

// LoreRequirement is an exact-mode lore requirement: the record's lore must
// exist and equal Lines line for line, length included. A nil
// *LoreRequirement on the Query places no requirement on lore.
type LoreRequirement struct {
	Lines []string `json:"lines" yaml:"lines"`
}

// Query is the structured form of an item identifier.
type Query struct {
	// Material is compared case-insensitively; nil matches any material.
	Material *string `json:"material,omitempty" yaml:"material,omitempty"`

	// DisplayName is compared exactly; nil matches any name.
	DisplayName *string `json:"displayName,omitempty" yaml:"displayName,omitempty"`

	// Amount is the minimum total quantity of matching records.
	Amount uint `json:"amount" yaml:"amount"`

	// Lore is the exact lore requirement; nil matches any lore.
	Lore *LoreRequirement `json:"lore,omitempty" yaml:"lore,omitempty"`

	// Enchantments must correspond one to one with the record's
	// enchantments; empty matches any enchantments.
	Enchantments map[EnchantmentKey]uint `json:"enchantments,omitempty" yaml:"enchantments,omitempty"`
}

// QueryOption is a functional option for configuring Query instances.
type QueryOption func(*Query) error

// WithMaterial requires the given material. An empty value clears the
// requirement.
func WithMaterial(material string) QueryOption {
	return func(q *Query) error {
		material = strings.TrimSpace(material)
		if material == "" {
			q.Material = nil
			return nil
		}
		q.Material = &material
		return nil
	}
}

// WithDisplayName requires the given display name. An empty value clears
// the requirement.
func WithDisplayName(name string) QueryOption {
	return func(q *Query) error {
		if name == "" {
			q.DisplayName = nil
			return nil
		}
		q.DisplayName = &name
		return nil
	}
}

// WithAmount sets the minimum required quantity.
func WithAmount(amount uint) QueryOption {
	return func(q *Query) error {
		q.Amount = amount
		return nil
	}
}

// WithLore sets an exact lore requirement. Calling it with no lines sets a
// present but empty requirement.
func WithLore(lines ...string) QueryOption {
	return func(q *Query) error {
		q.Lore = &LoreRequirement{Lines: append([]string{}, lines...)}
		return nil
	}
}

// WithEnchantment requires the given enchantment at the given level. A key
// that is an alias of an already requested key replaces it.
func WithEnchantment(key EnchantmentKey, level uint) QueryOption {
	return func(q *Query) error {
		if key.Name == "" {
			return fmt.Errorf("enchantment key has no name")
		}
		if q.Enchantments == nil {
			q.Enchantments = make(map[EnchantmentKey]uint)
		}
		for existing := range q.Enchantments {
			if existing.Matches(key) {
				delete(q.Enchantments, existing)
			}
		}
		q.Enchantments[key] = level
		return nil
	}
}

// WithEnchantments replaces the whole enchantment requirement. Aliased keys
// in m collapse to one entry; which one survives is unspecified.
func WithEnchantments(m map[EnchantmentKey]uint) QueryOption {
	return func(q *Query) error {
		q.Enchantments = nil
		for k, level := range m {
			if err := WithEnchantment(k, level)(q); err != nil {
				return err
			}
		}
		return nil
	}
}

// NewQuery builds a Query with DefaultAmount and no other requirements,
// then applies opts in order.
func NewQuery(opts ...QueryOption) (*Query, error) {
	q := &Query{
		Amount: DefaultAmount,
	}
	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// IsWildcard reports whether the query places no requirement on a record.
func (q *Query) IsWildcard() bool {
	return q.Material == nil && q.DisplayName == nil && q.Lore == nil && len(q.Enchantments) == 0
}

// SortedEnchantmentKeys returns the requested enchantment keys in a stable
// order.
func (q *Query) SortedEnchantmentKeys() []EnchantmentKey {
	keys := make([]EnchantmentKey, 0, len(q.Enchantments))
	for k := range q.Enchantments {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// String renders the query in identifier syntax without a dispatch prefix.
// Fields are emitted in a fixed order so equal queries render equally.
func (q *Query) String() string {
	parts := make([]string, 0, 5)
	if q.Material != nil {
		parts = append(parts, "id:"+*q.Material)
	}
	parts = append(parts, "amount:"+strconv.FormatUint(uint64(q.Amount), 10))
	if q.DisplayName != nil {
		parts = append(parts, "name:"+*q.DisplayName)
	}
	if q.Lore != nil {
		parts = append(parts, "lore:"+strings.Join(q.Lore.Lines, "|"))
	}
	if len(q.Enchantments) > 0 {
		enchants := make([]string, 0, len(q.Enchantments))
		for _, k := range q.SortedEnchantmentKeys() {
			enchants = append(enchants, k.String()+";"+strconv.FormatUint(uint64(q.Enchantments[k]), 10))
		}
		parts = append(parts, "enchants:"+strings.Join(enchants, "|"))
	}
	return strings.Join(parts, ",")
}

// Record is a read-only view of one inventory slot.
type Record struct {
	Material     string                  `json:"material" yaml:"material" validate:"required"`
	DisplayName  *string                 `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Lore         []string                `json:"lore,omitempty" yaml:"lore,omitempty"`
	Enchantments map[EnchantmentKey]uint `json:"enchantments,omitempty" yaml:"enchantments,omitempty"`
	Quantity     uint                    `json:"quantity" yaml:"quantity" validate:"min=1"`
}

// HasLore reports whether the record carries any lore lines.
func (r *Record) HasLore() bool {
	return len(r.Lore) > 0
}

// Outcome is the verdict of evaluating a Query against a set of records.
type Outcome struct {
	Satisfied       bool `json:"satisfied" yaml:"satisfied"`
	MatchedQuantity uint `json:"matchedQuantity" yaml:"matchedQuantity"`
}
