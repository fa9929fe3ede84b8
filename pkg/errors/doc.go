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

// Package errors provides structured errors used across imperatrix.
//
// Every error that crosses a package boundary carries an ErrorCode so that
// callers (the placeholder dispatcher, the HTTP API and the CLI) can decide
// how to render it without string matching:
//
//	err := errors.WrapWithContext(errors.ErrCodeMalformedQuery,
//	    "amount is not a non-negative integer", cause,
//	    map[string]any{"field": "amount", "value": "abc"})
//
//	if errors.IsCode(err, errors.ErrCodeMalformedQuery) {
//	    return "false"
//	}
//
// StructuredError implements Unwrap, so errors.Is and errors.As from the
// standard library see through it to sentinel causes.
package errors
