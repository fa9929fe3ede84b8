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

// Package matcher evaluates item queries against inventory records.
//
// Matches applies four predicates to every record (material, display name,
// exact lore and enchantments) and sums the quantity of the records that
// pass all of them:
//
//	q, _ := query.Parse("hasitem_id:STONE,amount:6")
//	out := matcher.Matches(q, records)
//	out.Satisfied       // MatchedQuantity >= q.Amount
//	out.MatchedQuantity // sum of matching stack sizes
//
// PartialLoreMatch is a separate entry point that reports whether any
// non-empty lore line of any record matches a pattern. The pattern is an
// unanchored regular expression (RE2 syntax), so "." matches any character;
// callers wanting a literal match must escape it with regexp.QuoteMeta.
// Patterns without metacharacters are searched with an Aho-Corasick
// automaton instead of the regexp engine.
//
// All functions are pure and safe for concurrent use.
package matcher
