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

package defaults

import "time"

// Handler timeouts for HTTP request processing.
const (
	// PlaceholderHandlerTimeout is the timeout for resolving one placeholder.
	PlaceholderHandlerTimeout = 10 * time.Second

	// MatchHandlerTimeout is the timeout for evaluating a posted query.
	MatchHandlerTimeout = 10 * time.Second
)

// Inventory timeouts for reading item records.
const (
	// InventoryLoadTimeout bounds loading a snapshot from a file, URL or ConfigMap.
	InventoryLoadTimeout = 30 * time.Second

	// InventoryQueryTimeout bounds one database round trip for a player.
	InventoryQueryTimeout = 5 * time.Second

	// DatabaseConnMaxLifetime is the maximum lifetime of a pooled connection.
	DatabaseConnMaxLifetime = 30 * time.Minute
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 30 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// Kubernetes timeouts for ConfigMap operations.
const (
	// ConfigMapReadTimeout is the timeout for reading a ConfigMap.
	ConfigMapReadTimeout = 15 * time.Second

	// ConfigMapWriteTimeout is the timeout for writing to ConfigMaps.
	ConfigMapWriteTimeout = 30 * time.Second
)

// Limits.
const (
	// QueryCacheSize is the default number of parsed identifiers kept in memory.
	QueryCacheSize = 1024

	// MaxRequestBodyBytes bounds JSON bodies accepted by the API.
	MaxRequestBodyBytes = 1 << 20

	// MaxDocumentBytes bounds documents fetched over HTTP.
	MaxDocumentBytes = 64 << 20

	// MaxRecordsPerRequest bounds the records posted to a match request.
	MaxRecordsPerRequest = 4096

	// DatabaseMaxOpenConns is the connection pool size for the Postgres source.
	DatabaseMaxOpenConns = 10
)

// Placeholder server listener and admission.
const (
	// ServerPort is the listen port when PORT is unset.
	ServerPort = 8080

	// ServerRateLimit is the sustained request rate per second across all
	// clients. Placeholder refreshes arrive in bursts on scoreboard ticks.
	ServerRateLimit = 100

	// ServerRateLimitBurst is the token bucket size.
	ServerRateLimitBurst = 200
)
