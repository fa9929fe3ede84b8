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
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/item"
)

// ErrMalformed is the sentinel cause of every parse failure.
var ErrMalformed = stderrors.New("malformed item identifier")

// Recognized field names.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldAmount   = "amount"
	FieldLore     = "lore"
	FieldEnchants = "enchants"
	FieldEnchant  = "enchant"
)

const (
	prefixSeparator = "_"
	pairSeparator   = ","
	valueSeparator  = ":"
	listSeparator   = "|"
	levelSeparator  = ";"
)

// SupportedFields returns the field names the parser recognizes.
func SupportedFields() []string {
	return []string{FieldID, FieldName, FieldAmount, FieldLore, FieldEnchants, FieldEnchant}
}

// StripPrefix removes the dispatch prefix from an identifier. The prefix is
// everything up to and including the first underscore, unless the text
// before it contains a pair or value separator, in which case the
// identifier has no prefix and is returned unchanged.
func StripPrefix(raw string) string {
	head, rest, ok := strings.Cut(raw, prefixSeparator)
	if !ok || strings.ContainsAny(head, valueSeparator+pairSeparator) {
		return raw
	}
	return rest
}

// Parse turns an identifier into a Query.
func Parse(raw string) (*item.Query, error) {
	body := strings.TrimSpace(StripPrefix(raw))
	if body == "" {
		return item.NewQuery()
	}

	pairs := strings.Split(body, pairSeparator)
	opts := make([]item.QueryOption, 0, len(pairs))

	for _, pair := range pairs {
		field, value, ok := strings.Cut(pair, valueSeparator)
		if !ok {
			return nil, malformed("pair has no field separator", pair, nil)
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case FieldID:
			if value == "" {
				return nil, malformed("id has an empty value", pair, nil)
			}
			opts = append(opts, item.WithMaterial(value))
		case FieldName:
			if value == "" {
				return nil, malformed("name has an empty value", pair, nil)
			}
			opts = append(opts, item.WithDisplayName(value))
		case FieldAmount:
			amount, err := parseUint(value)
			if err != nil {
				return nil, malformed("amount is not a non-negative integer", pair, err)
			}
			opts = append(opts, item.WithAmount(amount))
		case FieldLore:
			opts = append(opts, item.WithLore(splitLore(value)...))
		case FieldEnchants, FieldEnchant:
			enchants, err := parseEnchantments(value)
			if err != nil {
				return nil, malformed("invalid enchantment list", pair, err)
			}
			opts = append(opts, item.WithEnchantments(enchants))
		default:
			// unknown fields are reserved for newer identifier versions
		}
	}

	q, err := item.NewQuery(opts...)
	if err != nil {
		return nil, malformed("invalid query", body, err)
	}
	return q, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static identifiers.
func MustParse(raw string) *item.Query {
	q, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return q
}

// splitLore keeps empty elements, so "lore:" requires a single blank line.
func splitLore(value string) []string {
	return strings.Split(value, listSeparator)
}

func parseEnchantments(value string) (map[item.EnchantmentKey]uint, error) {
	enchants := make(map[item.EnchantmentKey]uint)
	if value == "" {
		return enchants, nil
	}

	for _, entry := range strings.Split(value, listSeparator) {
		rawKey, rawLevel, ok := strings.Cut(entry, levelSeparator)
		if !ok {
			return nil, fmt.Errorf("entry %q has no level separator %q", entry, levelSeparator)
		}
		key := item.ParseEnchantmentKey(rawKey)
		if key.Name == "" {
			return nil, fmt.Errorf("entry %q has an empty enchantment name", entry)
		}
		level, err := parseUint(rawLevel)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry, err)
		}
		for existing := range enchants {
			if existing.Matches(key) {
				delete(enchants, existing)
			}
		}
		enchants[key] = level
	}
	return enchants, nil
}

func parseUint(s string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, strconv.IntSize)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

func malformed(message, pair string, cause error) error {
	if cause != nil {
		cause = fmt.Errorf("%w: %w", ErrMalformed, cause)
	} else {
		cause = ErrMalformed
	}
	return errors.WrapWithContext(errors.ErrCodeMalformedQuery, message, cause, map[string]any{
		"pair": pair,
	})
}
