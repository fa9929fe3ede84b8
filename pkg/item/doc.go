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

// Package item defines the data model shared by the query parser and the
// item matcher.
//
// A Query is the structured form of an item identifier such as:
//
//	hasitem_id:DIAMOND_SWORD,amount:2,name:Excalibur,lore:L1|L2,enchants:sharpness;3
//
// A Record is a read-only view of one inventory slot. Records are produced by
// an inventory source (see pkg/inventory) and evaluated by pkg/matcher.
//
// Optional fields are modeled as pointers: a nil Material, DisplayName or Lore
// on a Query is a wildcard. Enchantment keys carry an optional namespace, so a
// plain key such as "sharpness" and a namespaced key such as
// "minecraft:sharpness" refer to the same enchantment:
//
//	key := item.ParseEnchantmentKey("minecraft:sharpness")
//	key.Matches(item.ParseEnchantmentKey("sharpness")) // true
//
// Both Query and Record are plain values. They are constructed per evaluation,
// never mutated by the matcher, and safe to share between goroutines.
package item
