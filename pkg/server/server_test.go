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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNew(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"/test": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	s := New(WithHandler(routes), WithName("imperatrixd"), WithVersion("1.2.3"), WithPort(9090))
	if s == nil {
		t.Fatal("expected server instance, got nil")
		return
	}

	if s.config.Name != "imperatrixd" || s.config.Version != "1.2.3" {
		t.Errorf("identity not applied: %q %q", s.config.Name, s.config.Version)
	}
	if s.Addr() != ":9090" {
		t.Errorf("expected :9090, got %s", s.Addr())
	}
	if s.rateLimiter == nil {
		t.Error("expected rateLimiter to be initialized")
	}
	if _, ok := s.config.Handlers["/test"]; !ok {
		t.Error("expected /test handler to be registered")
	}
}

func TestWithConfigNilKeepsDefaults(t *testing.T) {
	s := New(WithConfig(nil))
	if s.config == nil {
		t.Fatal("expected default config")
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", w.Header().Get("Content-Type"))
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %s", resp.Status)
	}
}

func TestHealthEndpoint_MethodNotAllowed(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}
	if w.Header().Get("Allow") != http.MethodGet {
		t.Errorf("expected Allow GET, got %q", w.Header().Get("Allow"))
	}
}

func TestReadyEndpoint(t *testing.T) {
	s := New()

	tests := []struct {
		name           string
		ready          bool
		expectedStatus int
	}{
		{
			name:           "ready state",
			ready:          true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "not ready state",
			ready:          false,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetReady(tt.ready)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			w := httptest.NewRecorder()

			s.Handler().ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestIndexEndpoint(t *testing.T) {
	s := New(WithName("imperatrixd"), WithHandler(map[string]http.HandlerFunc{
		"/v1/placeholder": func(w http.ResponseWriter, _ *http.Request) {},
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp IndexResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Name != "imperatrixd" {
		t.Errorf("expected name imperatrixd, got %s", resp.Name)
	}
	found := false
	for _, r := range resp.Routes {
		if r == "/v1/placeholder" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected /v1/placeholder in routes, got %v", resp.Routes)
	}
}

func TestUnknownRoute(t *testing.T) {
	s := New()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", resp.Code)
	}
	if _, err := uuid.Parse(resp.RequestID); err != nil {
		t.Errorf("expected request ID to be a UUID, got %q", resp.RequestID)
	}
	if resp.RequestID != w.Header().Get("X-Request-Id") {
		t.Errorf("body request ID %q does not match header %q", resp.RequestID, w.Header().Get("X-Request-Id"))
	}
}

func TestRegisteredHandlerRunsMiddleware(t *testing.T) {
	var seenVersion, seenID string
	s := New(WithHandler(map[string]http.HandlerFunc{
		"/v1/echo": func(w http.ResponseWriter, r *http.Request) {
			seenVersion = APIVersionFromRequest(r)
			seenID = RequestIDFromRequest(r)
			w.WriteHeader(http.StatusNoContent)
		},
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
	req.Header.Set("Accept", "application/vnd.imperatrix.v1+json")
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if seenVersion != "v1" {
		t.Errorf("expected v1, got %s", seenVersion)
	}
	if seenID == "" || seenID != w.Header().Get("X-Request-Id") {
		t.Errorf("request ID not propagated: %q", seenID)
	}
	if w.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("expected rate limit headers")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := New()

	// generate at least one observation
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), "imperatrix_http_requests_total") {
		t.Error("expected imperatrix_http_requests_total in exposition")
	}
}
