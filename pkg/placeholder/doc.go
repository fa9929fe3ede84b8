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

// Package placeholder resolves placeholder identifiers for a player.
//
// Identifiers are dispatched on a case-insensitive prefix, first match
// wins:
//
//	hasitem_lorepartialmatch_<pattern>   lore pattern over the inventory
//	hasitem_<query>                      item query over the inventory
//	holditem_lorepartialmatch_<pattern>  lore pattern over the held item
//	okopoint                             the player's score
//	tps                                  the 1-minute server TPS
//
// Item branches render "true" or "false" and fail closed: malformed
// queries and lookup failures render "false". Score and TPS failures, and
// unknown identifiers, render "".
//
// Usage:
//
//	r := placeholder.New(
//	    placeholder.WithInventorySource(src),
//	    placeholder.WithParser(cachedParser),
//	)
//	value := r.Resolve(ctx, "Steve", "hasitem_id:DIAMOND,amount:3")
package placeholder
