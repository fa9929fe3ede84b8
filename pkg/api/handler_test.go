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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/akaregi/imperatrix/pkg/inventory"
	"github.com/akaregi/imperatrix/pkg/item"
	"github.com/akaregi/imperatrix/pkg/placeholder"
	"github.com/akaregi/imperatrix/pkg/server"
)

func testResolver(t *testing.T) *placeholder.Resolver {
	t.Helper()

	snap := inventory.NewSnapshot("test")
	snap.Server = &inventory.ServerStatus{TPS: []float64{20, 19.5, 19}}
	snap.Players = []inventory.PlayerInventory{
		{
			Name: "Steve",
			Held: &item.Record{Material: "DIAMOND_SWORD", Lore: []string{"Forged in fire"}, Quantity: 1},
			Contents: []item.Record{
				{Material: "STONE", Quantity: 2},
				{Material: "stone", Quantity: 1},
				{Material: "PAPER", DisplayName: ptr.To("Ticket"), Lore: []string{"Admit one", ""}, Quantity: 1},
			},
			Score: ptr.To(int64(42)),
		},
	}

	src, err := inventory.NewSnapshotSource(snap)
	require.NoError(t, err)

	return placeholder.New(
		placeholder.WithInventorySource(src),
		placeholder.WithScoreSource(src),
		placeholder.WithTPSSampler(src),
	)
}

func decodeError(t *testing.T, body []byte) server.ErrorResponse {
	t.Helper()
	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestRoutes(t *testing.T) {
	routes := NewHandler().Routes()

	for _, p := range []string{"/v1/placeholder", "/v1/parse", "/v1/match", "/v1/lore"} {
		h, ok := routes[p]
		assert.True(t, ok, "missing route %s", p)
		assert.NotNil(t, h, "nil handler for %s", p)
	}
	assert.Len(t, routes, 4)
}

func TestHandlePlaceholder(t *testing.T) {
	h := NewHandler(WithResolver(testResolver(t)))

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantValue  string
	}{
		{name: "has item", url: "/v1/placeholder?player=Steve&identifier=hasitem_id:STONE,amount:3", wantStatus: http.StatusOK, wantValue: "true"},
		{name: "not enough", url: "/v1/placeholder?player=Steve&identifier=hasitem_id:STONE,amount:4", wantStatus: http.StatusOK, wantValue: "false"},
		{name: "malformed fails closed", url: "/v1/placeholder?player=Steve&identifier=hasitem_amount:lots", wantStatus: http.StatusOK, wantValue: "false"},
		{name: "held lore", url: "/v1/placeholder?player=Steve&identifier=holditem_lorepartialmatch_fire", wantStatus: http.StatusOK, wantValue: "true"},
		{name: "inventory lore", url: "/v1/placeholder?player=steve&identifier=hasitem_lorepartialmatch_Admit", wantStatus: http.StatusOK, wantValue: "true"},
		{name: "score", url: "/v1/placeholder?player=Steve&identifier=okopoint", wantStatus: http.StatusOK, wantValue: "42"},
		{name: "tps", url: "/v1/placeholder?player=Steve&identifier=tps", wantStatus: http.StatusOK, wantValue: "20.0"},
		{name: "unknown identifier", url: "/v1/placeholder?player=Steve&identifier=nothing", wantStatus: http.StatusOK, wantValue: ""},
		{name: "unknown player", url: "/v1/placeholder?player=Alex&identifier=hasitem_id:STONE", wantStatus: http.StatusOK, wantValue: "false"},
		{name: "missing player", url: "/v1/placeholder?identifier=tps", wantStatus: http.StatusBadRequest},
		{name: "missing identifier", url: "/v1/placeholder?player=Steve", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			h.HandlePlaceholder(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "INVALID_REQUEST", decodeError(t, w.Body.Bytes()).Code)
				return
			}

			var resp PlaceholderResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantValue, resp.Value)
		})
	}
}

func TestHandlePlaceholder_NoResolver(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/placeholder?player=Steve&identifier=tps", nil)
	w := httptest.NewRecorder()

	h.HandlePlaceholder(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, w.Body.Bytes()).Code)
}

func TestHandlePlaceholder_CanceledRequest(t *testing.T) {
	h := NewHandler(WithResolver(testResolver(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/v1/placeholder?player=Steve&identifier=okopoint", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	h.HandlePlaceholder(w, req)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "TIMEOUT", decodeError(t, w.Body.Bytes()).Code)
}

func TestHandleParse(t *testing.T) {
	h := NewHandler()

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/parse?identifier=hasitem_amount:3,id:STONE", nil)
		w := httptest.NewRecorder()

		h.HandleParse(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp ParseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "id:STONE,amount:3", resp.Canonical)
		require.NotNil(t, resp.Query)
		require.NotNil(t, resp.Query.Material)
		assert.Equal(t, "STONE", *resp.Query.Material)
		assert.Equal(t, uint(3), resp.Query.Amount)
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/parse?identifier=amount:lots", nil)
		w := httptest.NewRecorder()

		h.HandleParse(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "MALFORMED_QUERY", decodeError(t, w.Body.Bytes()).Code)
	})

	t.Run("missing identifier", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/parse", nil)
		w := httptest.NewRecorder()

		h.HandleParse(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REQUEST", decodeError(t, w.Body.Bytes()).Code)
	})

	t.Run("empty identifier is the wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/parse?identifier=", nil)
		w := httptest.NewRecorder()

		h.HandleParse(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp ParseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "amount:1", resp.Canonical)
	})
}

func TestHandleMatch(t *testing.T) {
	h := NewHandler(WithMaxRecords(3), WithMaxBodyBytes(1024))

	tests := []struct {
		name          string
		body          string
		contentType   string
		wantStatus    int
		wantCode      string
		wantSatisfied bool
		wantQuantity  uint
	}{
		{
			name:          "satisfied json",
			body:          `{"query":"id:STONE,amount:3","records":[{"material":"STONE","quantity":2},{"material":"stone","quantity":1}]}`,
			contentType:   "application/json",
			wantStatus:    http.StatusOK,
			wantSatisfied: true,
			wantQuantity:  3,
		},
		{
			name:          "yaml body",
			body:          "query: id:STONE,amount:3\nrecords:\n  - material: STONE\n    quantity: 2\n",
			contentType:   "application/x-yaml",
			wantStatus:    http.StatusOK,
			wantSatisfied: false,
			wantQuantity:  2,
		},
		{
			name:          "enchantments",
			body:          `{"query":"id:DIAMOND_SWORD,enchants:sharpness;3","records":[{"material":"DIAMOND_SWORD","enchantments":{"minecraft:sharpness":3},"quantity":1}]}`,
			contentType:   "application/json",
			wantStatus:    http.StatusOK,
			wantSatisfied: true,
			wantQuantity:  1,
		},
		{
			name:        "malformed query",
			body:        `{"query":"amount:-1","records":[]}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "MALFORMED_QUERY",
		},
		{
			name:        "invalid record",
			body:        `{"query":"id:STONE","records":[{"material":"STONE","quantity":0}]}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_REQUEST",
		},
		{
			name:        "too many records",
			body:        `{"query":"id:STONE","records":[{"material":"A","quantity":1},{"material":"B","quantity":1},{"material":"C","quantity":1},{"material":"D","quantity":1}]}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_REQUEST",
		},
		{
			name:        "empty body",
			body:        "",
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_REQUEST",
		},
		{
			name:        "invalid json",
			body:        `{invalid}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_REQUEST",
		},
		{
			name:        "body too large",
			body:        `{"query":"` + strings.Repeat("x", 2048) + `"}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/match", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()

			h.HandleMatch(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w.Body.Bytes()).Code)
				return
			}

			var outcome item.Outcome
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
			assert.Equal(t, tt.wantSatisfied, outcome.Satisfied)
			assert.Equal(t, tt.wantQuantity, outcome.MatchedQuantity)
		})
	}
}

func TestHandleLore(t *testing.T) {
	h := NewHandler()

	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "literal", body: `{"substring":"Admit","records":[{"material":"PAPER","lore":["Admit one"],"quantity":1}]}`, want: true},
		{name: "regex", body: `{"substring":"^Adm.t","records":[{"material":"PAPER","lore":["Admit one"],"quantity":1}]}`, want: true},
		{name: "no lore", body: `{"substring":"Admit","records":[{"material":"PAPER","quantity":1}]}`, want: false},
		{name: "invalid regex matches nothing", body: `{"substring":"([","records":[{"material":"PAPER","lore":["(["],"quantity":1}]}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/lore", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			h.HandleLore(w, req)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var resp LoreResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.want, resp.Matched)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler()

	tests := []struct {
		name    string
		method  string
		handler http.HandlerFunc
		allow   string
	}{
		{name: "placeholder post", method: http.MethodPost, handler: h.HandlePlaceholder, allow: http.MethodGet},
		{name: "parse delete", method: http.MethodDelete, handler: h.HandleParse, allow: http.MethodGet},
		{name: "match get", method: http.MethodGet, handler: h.HandleMatch, allow: http.MethodPost},
		{name: "lore put", method: http.MethodPut, handler: h.HandleLore, allow: http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			w := httptest.NewRecorder()

			tt.handler(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, tt.allow, w.Header().Get("Allow"))
		})
	}
}
