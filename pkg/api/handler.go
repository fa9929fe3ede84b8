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

package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/akaregi/imperatrix/pkg/defaults"
	"github.com/akaregi/imperatrix/pkg/errors"
	"github.com/akaregi/imperatrix/pkg/inventory"
	"github.com/akaregi/imperatrix/pkg/item"
	"github.com/akaregi/imperatrix/pkg/matcher"
	"github.com/akaregi/imperatrix/pkg/placeholder"
	"github.com/akaregi/imperatrix/pkg/query"
	"github.com/akaregi/imperatrix/pkg/serializer"
	"github.com/akaregi/imperatrix/pkg/server"
)

// PlaceholderResponse is the body of GET /v1/placeholder.
type PlaceholderResponse struct {
	Player     string `json:"player" yaml:"player"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Value      string `json:"value" yaml:"value"`
}

// ParseResponse is the body of GET /v1/parse.
type ParseResponse struct {
	Identifier string      `json:"identifier" yaml:"identifier"`
	Canonical  string      `json:"canonical" yaml:"canonical"`
	Query      *item.Query `json:"query" yaml:"query"`
}

// MatchRequest is the body of POST /v1/match.
type MatchRequest struct {
	Query   string        `json:"query" yaml:"query"`
	Records []item.Record `json:"records" yaml:"records"`
}

// LoreRequest is the body of POST /v1/lore.
type LoreRequest struct {
	Substring string        `json:"substring" yaml:"substring"`
	Records   []item.Record `json:"records" yaml:"records"`
}

// LoreResponse is the body of POST /v1/lore.
type LoreResponse struct {
	Matched bool `json:"matched" yaml:"matched"`
}

// Option is a functional option for configuring Handler instances.
type Option func(*Handler)

// WithParser sets the identifier parser used by /v1/parse and /v1/match.
func WithParser(p query.Parser) Option {
	return func(h *Handler) {
		if p != nil {
			h.parser = p
		}
	}
}

// WithResolver sets the placeholder resolver used by /v1/placeholder.
func WithResolver(r *placeholder.Resolver) Option {
	return func(h *Handler) {
		h.resolver = r
	}
}

// WithMaxRecords caps the number of records accepted in one request.
func WithMaxRecords(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxRecords = n
		}
	}
}

// WithMaxBodyBytes caps the request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// Handler serves the matching engine over HTTP.
type Handler struct {
	parser       query.Parser
	resolver     *placeholder.Resolver
	maxRecords   int
	maxBodyBytes int64
}

// NewHandler creates a Handler. Without WithResolver the placeholder
// endpoint answers 503.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		parser:       query.DefaultParser{},
		maxRecords:   defaults.MaxRecordsPerRequest,
		maxBodyBytes: defaults.MaxRequestBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the handlers keyed by ServeMux pattern.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/placeholder": h.HandlePlaceholder,
		"/v1/parse":       h.HandleParse,
		"/v1/match":       h.HandleMatch,
		"/v1/lore":        h.HandleLore,
	}
}

// HandlePlaceholder handles GET /v1/placeholder?player=&identifier=.
func (h *Handler) HandlePlaceholder(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	player := strings.TrimSpace(r.URL.Query().Get("player"))
	identifier := r.URL.Query().Get("identifier")
	if player == "" || identifier == "" {
		server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"player and identifier are required", false, map[string]any{
				"player":     player,
				"identifier": identifier,
			})
		return
	}

	if h.resolver == nil {
		server.WriteError(w, r, http.StatusServiceUnavailable, errors.ErrCodeUnavailable,
			"no inventory source configured", true, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.PlaceholderHandlerTimeout)
	defer cancel()

	value := h.resolver.Resolve(ctx, player, identifier)
	if ctx.Err() != nil {
		server.WriteStructuredError(w, r, errors.Wrap(errors.ErrCodeTimeout, "placeholder resolution timed out", ctx.Err()))
		return
	}

	serializer.RespondJSON(w, http.StatusOK, PlaceholderResponse{
		Player:     player,
		Identifier: identifier,
		Value:      value,
	})
}

// HandleParse handles GET /v1/parse?identifier=.
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	if !r.URL.Query().Has("identifier") {
		server.WriteError(w, r, http.StatusBadRequest, errors.ErrCodeInvalidRequest,
			"identifier is required", false, nil)
		return
	}
	identifier := r.URL.Query().Get("identifier")

	q, err := h.parser.Parse(identifier)
	if err != nil {
		server.WriteStructuredError(w, r, err)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, ParseResponse{
		Identifier: identifier,
		Canonical:  q.String(),
		Query:      q,
	})
}

// HandleMatch handles POST /v1/match.
func (h *Handler) HandleMatch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req MatchRequest
	if err := h.decodeBody(r, &req); err != nil {
		server.WriteStructuredError(w, r, err)
		return
	}
	if err := h.checkRecords(req.Records); err != nil {
		server.WriteStructuredError(w, r, err)
		return
	}

	q, err := h.parser.Parse(req.Query)
	if err != nil {
		server.WriteStructuredError(w, r, err)
		return
	}

	start := time.Now()
	outcome := matcher.Matches(q, req.Records)
	slog.Debug("match evaluated",
		"requestID", server.RequestIDFromRequest(r),
		"records", len(req.Records),
		"satisfied", outcome.Satisfied,
		"duration", time.Since(start).String(),
	)

	serializer.RespondJSON(w, http.StatusOK, outcome)
}

// HandleLore handles POST /v1/lore.
func (h *Handler) HandleLore(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req LoreRequest
	if err := h.decodeBody(r, &req); err != nil {
		server.WriteStructuredError(w, r, err)
		return
	}
	if err := h.checkRecords(req.Records); err != nil {
		server.WriteStructuredError(w, r, err)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, LoreResponse{
		Matched: matcher.PartialLoreMatch(req.Records, req.Substring),
	})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}

// decodeBody reads a JSON or YAML body, chosen by Content-Type.
func (h *Handler) decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New(errors.ErrCodeInvalidRequest, "request body is required")
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes+1))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "failed to read request body", err)
	}
	if int64(len(data)) > h.maxBodyBytes {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest, "request body too large",
			map[string]any{"limit": h.maxBodyBytes})
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return errors.New(errors.ErrCodeInvalidRequest, "request body is required")
	}

	format := serializer.FormatJSON
	if strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "yaml") {
		format = serializer.FormatYAML
	}

	if err := serializer.Unmarshal(format, data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "failed to decode request body", err)
	}
	return nil
}

func (h *Handler) checkRecords(records []item.Record) error {
	if len(records) > h.maxRecords {
		return errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("too many records, limit is %d", h.maxRecords),
			map[string]any{"records": len(records)})
	}
	return inventory.ValidateRecords(records)
}
