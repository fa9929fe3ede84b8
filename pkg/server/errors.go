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

package server

import (
	stderrors "errors"
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/serializer"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code errors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteStructuredError writes err using the status derived from its code.
// Context attached to a StructuredError becomes the response details.
func WriteStructuredError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status, retryable := StatusForCode(code)

	message := err.Error()
	var details map[string]any
	var se *errors.StructuredError
	if stderrors.As(err, &se) {
		message = se.Message
		details = maps.Clone(se.Context)
		if se.Cause != nil && code != errors.ErrCodeInternal {
			if details == nil {
				details = map[string]any{}
			}
			details["error"] = se.Cause.Error()
		}
	}
	if code == errors.ErrCodeInternal {
		// internal causes are logged, not returned
		message = "Internal server error"
	}

	WriteError(w, r, status, code, message, retryable, details)
}

// StatusForCode maps an error code to an HTTP status and whether the
// client may retry.
func StatusForCode(code errors.ErrorCode) (status int, retryable bool) {
	switch code {
	case errors.ErrCodeInvalidRequest, errors.ErrCodeMalformedQuery:
		return http.StatusBadRequest, false
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized, false
	case errors.ErrCodeNotFound:
		return http.StatusNotFound, false
	case errors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed, false
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests, true
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout, true
	case errors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable, true
	default:
		return http.StatusInternalServerError, true
	}
}
