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

// Package server provides the HTTP server shared by imperatrix binaries.
//
// A Server owns the system endpoints and wraps every registered handler
// in a middleware chain:
//
//	metrics -> version -> request ID -> panic recovery -> rate limit -> logging -> handler
//
// # System endpoints
//
//   - GET /         server name, version, readiness and routes
//   - GET /health   liveness, always 200 while the process serves
//   - GET /ready    readiness, 503 until Start and after Shutdown begins
//   - GET /metrics  Prometheus exposition
//
// # Usage
//
//	s := server.New(
//	    server.WithName("imperatrixd"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/placeholder": h.Placeholder,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// NewConfig returns defaults from pkg/defaults, overridden by:
//
//   - PORT: listen port (default 8080)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown timeout
//
// # Errors
//
// Handlers report failures with WriteError or WriteStructuredError, which
// produce an ErrorResponse carrying the request ID:
//
//	{
//	  "code": "MALFORMED_QUERY",
//	  "message": "amount is not a non-negative integer",
//	  "requestId": "3f0c...",
//	  "timestamp": "2026-01-01T00:00:00Z",
//	  "retryable": false
//	}
//
// # API versioning
//
// Clients may request a version with
// "Accept: application/vnd.imperatrix.v1+json"; the negotiated version is
// returned in X-API-Version.
package server
