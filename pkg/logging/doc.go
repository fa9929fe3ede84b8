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

// Package logging provides structured logging setup for imperatrix binaries.
//
// Both the CLI and the API server log through log/slog. This package only
// configures the default logger; everything else calls slog directly.
//
// # Log Levels
//
// Supported levels (case-insensitive): debug, info, warn/warning, error.
// Unknown values fall back to info.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("imperatrixd", version)
//	    slog.Info("server starting", "port", 8080)
//	}
//
// With an explicit level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("imperatrix", version, "debug")
//
// For interactive CLI use, a text handler is friendlier:
//
//	logging.SetDefaultCLILogger("warn")
//
// # Environment
//
// LOG_LEVEL overrides the level passed to SetDefaultStructuredLogger:
//
//	LOG_LEVEL=debug imperatrixd
//
// # Output
//
// Structured loggers write JSON to stderr with module and version attributes.
// Debug level adds source locations:
//
//	{"time":"...","level":"INFO","msg":"server started","module":"imperatrixd","version":"v0.3.0","port":8080}
package logging
