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

// Package query parses item identifiers into item.Query values.
//
// # Syntax
//
//	<prefix>_<field>:<value>(,<field>:<value>)*
//
// The dispatch prefix (for example "hasitem") is stripped up to and including
// the first underscore, as long as the text before that underscore cannot be
// a field pair itself. Recognized fields:
//
//	id        material, compared case-insensitively
//	name      display name, compared exactly
//	amount    minimum total quantity, a non-negative integer (default 1)
//	lore      exact lore lines separated by "|"; "lore:" is an empty requirement
//	enchants  enchantments as key;level separated by "|" (alias: enchant)
//
// Field names are case-insensitive, values are trimmed, unknown fields are
// ignored, and a repeated field replaces the earlier one.
//
// # Errors
//
// Parsing fails closed. A pair without a ":" separator, an amount or level
// that is not a non-negative integer, or an enchantment entry without a ";"
// rejects the whole identifier:
//
//	_, err := query.Parse("hasitem_amount:abc")
//	errors.Is(err, query.ErrMalformed) // true
//
// The returned error is a *errors.StructuredError with code MALFORMED_QUERY
// whose Context names the offending pair.
//
// # Caching
//
// CachedParser memoizes Parse results in a fixed-size LRU. Parsing is a pure
// function of the identifier, so cached results never go stale.
package query
