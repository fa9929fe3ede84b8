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
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewReader(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"table rejected", FormatTable, true},
		{"unknown rejected", Format("xml"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(tt.format, strings.NewReader("{}"))
			if (err != nil) != tt.wantErr {
				t.Errorf("NewReader() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReader_Deserialize(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		input   string
		want    string
		wantErr bool
	}{
		{"json", FormatJSON, `{"name":"sword","count":1}`, "sword", false},
		{"yaml", FormatYAML, "name: bow\ncount: 2\n", "bow", false},
		{"invalid json", FormatJSON, `{"name":`, "", true},
		{"invalid yaml", FormatYAML, "name: [unterminated", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(tt.format, strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("NewReader() error = %v", err)
			}
			var got sample
			err = r.Deserialize(&got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Deserialize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Name != tt.want {
				t.Errorf("Name = %q, want %q", got.Name, tt.want)
			}
		})
	}
}

func TestReader_DeserializeNilChecks(t *testing.T) {
	var r *Reader
	if err := r.Deserialize(&sample{}); err == nil {
		t.Error("nil reader should error")
	}

	r, err := NewReader(FormatJSON, nil)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if err := r.Deserialize(&sample{}); err == nil {
		t.Error("nil input should error")
	}
}

type trackingCloser struct {
	*strings.Reader
	closed int
}

func (c *trackingCloser) Close() error {
	c.closed++
	return nil
}

func TestReader_Close(t *testing.T) {
	tc := &trackingCloser{Reader: strings.NewReader("{}")}
	r, err := NewReader(FormatJSON, tc)
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}

	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if tc.closed != 1 {
		t.Errorf("closer called %d times, want 1", tc.closed)
	}

	var nilReader *Reader
	if err := nilReader.Close(); err != nil {
		t.Errorf("Close() on nil reader error = %v", err)
	}
}

func TestNewFileReader_Missing(t *testing.T) {
	_, err := NewFileReader(context.Background(), FormatJSON, filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromFile_LocalFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file    string
		content string
	}{
		{"doc.json", `{"name":"json-doc","count":1}`},
		{"doc.yaml", "name: yaml-doc\ncount: 1\n"},
		{"doc.yml", "name: yml-doc\ncount: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			got, err := FromFile[sample](context.Background(), path)
			if err != nil {
				t.Fatalf("FromFile() error = %v", err)
			}
			if !strings.HasSuffix(got.Name, "-doc") {
				t.Errorf("unexpected Name %q", got.Name)
			}
		})
	}
}

func TestFromFile_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("name: remote\ncount: 5\n"))
	}))
	defer srv.Close()

	got, err := FromFile[sample](context.Background(), srv.URL+"/inventory.yaml")
	if err != nil {
		t.Fatalf("FromFile() error = %v", err)
	}
	if got.Name != "remote" || got.Count != 5 {
		t.Errorf("unexpected document %+v", got)
	}
}

func TestFromFile_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml")},
		{"invalid content", bad},
		{"invalid configmap uri", "cm://no-name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromFile[sample](context.Background(), tt.path); err == nil {
				t.Errorf("FromFile(%q) expected error", tt.path)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestReader_DeserializeReadError(t *testing.T) {
	r, err := NewReader(FormatJSON, failingReader{})
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	if err := r.Deserialize(&sample{}); err == nil {
		t.Error("expected read error")
	}
}
