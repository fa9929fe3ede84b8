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

// Package inventory provides the item records that placeholders are
// evaluated against.
//
// A Source answers two questions for a player: what is in the inventory,
// and what is in the main hand. Two implementations are provided:
//
//   - SnapshotSource serves an InventorySnapshot document loaded from a
//     file, an http(s) URL or a Kubernetes ConfigMap (cm://namespace/name).
//     It also serves the captured player scores and server TPS.
//   - PostgresSource reads the inventory_items and held_items tables.
//
// Snapshot documents look like:
//
//	kind: InventorySnapshot
//	apiVersion: imperatrix.akaregi.github.com/v1
//	server:
//	  tps: [19.98, 19.95, 19.9]
//	players:
//	  - name: Steve
//	    score: 120
//	    held: {material: DIAMOND_SWORD, quantity: 1}
//	    contents:
//	      - material: STONE
//	        quantity: 3
//	        enchantments: {minecraft:sharpness: 3}
//
// Records are validated when a snapshot is loaded: every record needs a
// material and a quantity of at least one. Player names are looked up
// case-insensitively. Unknown players yield an error with code NOT_FOUND.
package inventory
