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

// Package cli implements the imperatrix command-line interface.
//
// # Commands
//
// parse - Parse an item identifier:
//
//	imperatrix parse 'hasitem_id:DIAMOND_SWORD,enchants:sharpness;5'
//
// match - Evaluate a query against a player's inventory or a record list:
//
//	imperatrix match --query 'id:STONE,amount:64' --inventory inventory.yaml --player Steve
//	imperatrix match --query 'id:STONE' --records records.json
//
// lore - Search lore lines with a regular expression:
//
//	imperatrix lore --substring 'Soulbound' --held --inventory inventory.yaml --player Steve
//
// resolve - Render a placeholder identifier:
//
//	imperatrix resolve --inventory cm://game/inventory --player Steve tps
//
// import - Copy a snapshot into the Postgres inventory tables:
//
//	imperatrix import --inventory inventory.yaml --database-url postgres://localhost/imperatrix
//
// # Global Flags
//
//	--debug        Enable debug logging
//	--log-json     Emit structured JSON logs instead of text
//	--log-level    Log level (debug, info, warn, error)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// # Output
//
//	--output, -o   File path or cm://namespace/name (default: stdout)
//	--format, -t   yaml (default), json or table
//
// # Environment Variables
//
//	IMPERATRIX_INVENTORY     Default for --inventory
//	IMPERATRIX_DATABASE_URL  Default for --database-url
//	KUBECONFIG               Default for --kubeconfig
//	LOG_LEVEL                Default for --log-level
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Interrupted
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/akaregi/imperatrix/pkg/cli.version=1.0.0'"
package cli
