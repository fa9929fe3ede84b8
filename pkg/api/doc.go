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

// Package api serves the item matching engine over HTTP.
//
// # Usage
//
//	import (
//	    "log"
//	    "github.com/akaregi/imperatrix/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - GET  /v1/placeholder?player=&identifier=  resolve a placeholder identifier
//   - GET  /v1/parse?identifier=                parse an identifier into a query
//   - POST /v1/match                            evaluate a query against records
//   - POST /v1/lore                             partial lore match over records
//
// System endpoints (no rate limiting), provided by pkg/server:
//   - GET /health, GET /ready, GET /metrics
//
// POST bodies are JSON, or YAML when Content-Type mentions yaml:
//
//	curl -X POST http://localhost:8080/v1/match \
//	  -H "Content-Type: application/json" \
//	  -d '{"query":"id:STONE,amount:3","records":[{"material":"STONE","quantity":3}]}'
//
// A malformed identifier is answered with 400 and code MALFORMED_QUERY.
//
// # Configuration
//
// A .env file in the working directory is loaded first, then:
//   - IMPERATRIX_DATABASE_URL: Postgres DSN for the inventory tables
//   - IMPERATRIX_INVENTORY: snapshot file, http(s) URL or cm://namespace/name
//   - IMPERATRIX_QUERY_CACHE_SIZE: parsed identifiers kept in memory
//   - KUBECONFIG: kubeconfig for cm:// snapshots
//   - PORT, SHUTDOWN_TIMEOUT_SECONDS, LOG_LEVEL
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/akaregi/imperatrix/pkg/api.version=1.0.0'"
package api
