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
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/akaregi/imperatrix/pkg/defaults"
	"github.com/akaregi/imperatrix/pkg/header"
	"github.com/akaregi/imperatrix/pkg/k8s/client"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
)

const (
	// ConfigMapURIScheme prefixes ConfigMap locations: cm://namespace/name.
	ConfigMapURIScheme = "cm://"

	// ConfigMapFormatKey is the data entry naming the stored format.
	ConfigMapFormatKey = "format"

	// ConfigMapTimestampKey is the data entry recording the write time.
	ConfigMapTimestampKey = "timestamp"

	// DefaultConfigMapDataKey is the base name of the document entry.
	DefaultConfigMapDataKey = "document"

	fieldManager = "imperatrix"
)

// headed is implemented by documents embedding header.Header.
type headed interface {
	GetKind() header.Kind
	GetMetadata() map[string]string
}

// ConfigMapOption configures a ConfigMapWriter.
type ConfigMapOption func(*ConfigMapWriter)

// WithConfigMapClient sets the Kubernetes client used by the writer. When
// unset the shared client from client.GetKubeClient is used.
func WithConfigMapClient(c client.Interface) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		w.client = c
	}
}

// WithConfigMapDataKey sets the base name of the document data entry.
func WithConfigMapDataKey(key string) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		if key = strings.TrimSpace(key); key != "" {
			w.dataKey = key
		}
	}
}

// ConfigMapWriter writes serialized documents to a Kubernetes ConfigMap,
// creating or updating it with server-side apply.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	dataKey   string
	client    client.Interface
}

// NewConfigMapWriter creates a writer for the ConfigMap namespace/name.
func NewConfigMapWriter(namespace, name string, format Format, opts ...ConfigMapOption) *ConfigMapWriter {
	w := &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    normalizeFormat(format),
		dataKey:   DefaultConfigMapDataKey,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Serialize stores v in the ConfigMap. The ConfigMap holds:
//   - <dataKey>.<ext>: the serialized document
//   - format: the format used
//   - timestamp: RFC 3339 time of the document or of the write
func (w *ConfigMapWriter) Serialize(ctx context.Context, v any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	c := w.client
	if c == nil {
		var err error
		c, _, err = client.GetKubeClient()
		if err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
	}

	content, err := Marshal(w.format, v)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	kind := "document"
	version := "unknown"
	timestamp := ""
	if h, ok := v.(headed); ok {
		if k := h.GetKind(); k != "" {
			kind = k.String()
		}
		if md := h.GetMetadata(); md != nil {
			if ver := md["version"]; ver != "" {
				version = ver
			}
			timestamp = md["timestamp"]
		}
	}
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	data := map[string]string{
		w.dataKey + "." + w.format.Extension(): string(content),
		ConfigMapFormatKey:                    string(w.format),
		ConfigMapTimestampKey:                 timestamp,
	}

	cm := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":      "imperatrix",
			"app.kubernetes.io/component": strings.ToLower(kind),
			"app.kubernetes.io/version":   version,
		}).
		WithData(data)

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"format", w.format,
		"size", len(content))

	_, err = c.CoreV1().ConfigMaps(w.namespace).Apply(writeCtx, cm, metav1.ApplyOptions{
		FieldManager: fieldManager,
		Force:        true,
	})
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}
	return nil
}

// Close is a no-op; ConfigMapWriter holds no resources.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// FromConfigMap reads the document stored in namespace/name and decodes it
// into T. The document entry is chosen by the "format" data entry, falling
// back to the first .yaml, .yml or .json entry in key order.
func FromConfigMap[T any](ctx context.Context, c client.Interface, namespace, name string) (*T, error) {
	readCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapReadTimeout)
	defer cancel()

	cm, err := c.CoreV1().ConfigMaps(namespace).Get(readCtx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}

	content, format, err := configMapDocument(cm.Data)
	if err != nil {
		return nil, fmt.Errorf("ConfigMap %s/%s: %w", namespace, name, err)
	}

	slog.Debug("reading from ConfigMap",
		"namespace", namespace,
		"name", name,
		"format", format,
		"size", len(content))

	var out T
	if err := Unmarshal(format, []byte(content), &out); err != nil {
		return nil, fmt.Errorf("failed to deserialize ConfigMap %s/%s: %w", namespace, name, err)
	}
	return &out, nil
}

func configMapDocument(data map[string]string) (string, Format, error) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if f, ok := data[ConfigMapFormatKey]; ok {
		format, err := ParseFormat(f)
		if err != nil {
			return "", "", err
		}
		suffix := "." + format.Extension()
		for _, k := range keys {
			if strings.HasSuffix(k, suffix) {
				return data[k], format, nil
			}
		}
	}

	for _, k := range keys {
		switch {
		case strings.HasSuffix(k, ".yaml"), strings.HasSuffix(k, ".yml"):
			return data[k], FormatYAML, nil
		case strings.HasSuffix(k, ".json"):
			return data[k], FormatJSON, nil
		}
	}
	return "", "", fmt.Errorf("no document data found")
}

// ParseConfigMapURI splits cm://namespace/name into its parts.
func ParseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	ns, n, ok := strings.Cut(strings.TrimPrefix(uri, ConfigMapURIScheme), "/")
	if !ok {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(ns)
	name = strings.TrimSpace(n)

	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid ConfigMap URI: invalid name %q", name)
	}
	return namespace, name, nil
}
