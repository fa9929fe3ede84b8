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

package serializer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON_Success(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusCreated, map[string]string{"result": "true"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if got["result"] != "true" {
		t.Errorf("unexpected body %v", got)
	}
}

func TestRespondJSON_EncodingError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestNewHttpReader_Defaults(t *testing.T) {
	r := NewHttpReader()
	if r.UserAgent != HttpReaderUserAgent {
		t.Errorf("UserAgent = %q", r.UserAgent)
	}
	if r.Client == nil || r.Client.Timeout == 0 {
		t.Error("expected client with a timeout")
	}
	if r.MaxBytes <= 0 {
		t.Error("expected a positive size limit")
	}
}

func TestHttpReader_Read(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(r.Header.Get("User-Agent")))
		case "/big":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Run("success sets user agent", func(t *testing.T) {
		data, err := NewHttpReader(WithUserAgent("test-agent")).Read(context.Background(), srv.URL+"/ok")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if string(data) != "test-agent" {
			t.Errorf("body = %q", data)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := NewHttpReader().Read(context.Background(), srv.URL+"/missing"); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("size limit", func(t *testing.T) {
		if _, err := NewHttpReader(WithMaxBytes(10)).Read(context.Background(), srv.URL+"/big"); err == nil {
			t.Error("expected error for oversized body")
		}
	})

	t.Run("empty url", func(t *testing.T) {
		if _, err := NewHttpReader().Read(context.Background(), ""); err == nil {
			t.Error("expected error for empty url")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := NewHttpReader().Read(ctx, srv.URL+"/ok"); err == nil {
			t.Error("expected error for canceled context")
		}
	})

	t.Run("custom client", func(t *testing.T) {
		c := srv.Client()
		r := NewHttpReader(WithClient(c))
		if r.Client != c {
			t.Error("custom client not used")
		}
	})
}
