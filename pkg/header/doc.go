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

// Package header provides the kind/apiVersion/metadata header carried by
// every imperatrix document.
//
// Inventory snapshots and evaluation results are self-describing so that a
// file or ConfigMap can be checked before it is used:
//
//	kind: InventorySnapshot
//	apiVersion: imperatrix.akaregi.github.com/v1
//	metadata:
//	  timestamp: "2025-01-15T10:30:00Z"
//	  version: v0.3.0
//
// Create a header with functional options:
//
//	h := header.New(
//	    header.WithKind(header.KindInventorySnapshot),
//	    header.WithAPIVersion(header.APIVersionV1),
//	    header.WithMetadata("source", "survival-1"),
//	)
//
// Or initialize an embedded header in place:
//
//	var res MatchResult
//	res.Init(header.KindMatchResult, header.APIVersionV1, version)
//
// A document with no kind or apiVersion is accepted by Check; a document
// that declares a different kind or version is not.
package header
