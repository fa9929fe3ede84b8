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

// Package serializer reads and writes imperatrix documents as JSON, YAML or
// a flattened table.
//
// # Formats
//
//   - json: machine-readable, used by the HTTP API
//   - yaml: human-editable, the default for inventory snapshots
//   - table: sorted FIELD/VALUE rows for terminals (write-only)
//
// # Sources and destinations
//
// FromFile loads a document from a local path, an http(s) URL or a
// Kubernetes ConfigMap URI:
//
//	snap, err := serializer.FromFile[inventory.Snapshot](ctx, "cm://minecraft/inventory")
//
// NewFileWriterOrStdout writes to a file, a ConfigMap URI or stdout:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, "cm://minecraft/results")
//	defer serializer.Close(w)
//	err := w.Serialize(ctx, result)
//
// ConfigMaps hold the document under a "<key>.<ext>" data entry together
// with a "format" entry.
//
// # HTTP
//
// RespondJSON encodes into a buffer before writing headers, so an encoding
// failure produces a clean 500 instead of a truncated body.
package serializer
