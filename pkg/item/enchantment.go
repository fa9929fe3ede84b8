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

package item

import (
	"fmt"
	"strings"
)

// DefaultNamespace is the namespace assumed for vanilla enchantments.
const DefaultNamespace = "minecraft"

// EnchantmentKey identifies an enchantment by name and optional namespace.
// An empty Namespace denotes the plain form of the key.
type EnchantmentKey struct {
	Namespace string
	Name      string
}

// ParseEnchantmentKey parses "name" or "namespace:name". Surrounding
// whitespace is ignored.
func ParseEnchantmentKey(s string) EnchantmentKey {
	s = strings.TrimSpace(s)
	if ns, name, ok := strings.Cut(s, ":"); ok {
		return EnchantmentKey{Namespace: strings.TrimSpace(ns), Name: strings.TrimSpace(name)}
	}
	return EnchantmentKey{Name: s}
}

// NewEnchantmentKey returns the plain form of the named enchantment.
func NewEnchantmentKey(name string) EnchantmentKey {
	return EnchantmentKey{Name: name}
}

// Plain returns the key without its namespace.
func (k EnchantmentKey) Plain() string {
	return k.Name
}

// Namespaced returns the key in "namespace:name" form, using
// DefaultNamespace for plain keys.
func (k EnchantmentKey) Namespaced() string {
	ns := k.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return ns + ":" + k.Name
}

// IsPlain reports whether the key was given without a namespace.
func (k EnchantmentKey) IsPlain() bool {
	return k.Namespace == ""
}

// Matches reports whether k and other refer to the same enchantment.
// Names must be equal; namespaces must be equal unless either key is plain.
func (k EnchantmentKey) Matches(other EnchantmentKey) bool {
	if k.Name != other.Name {
		return false
	}
	if k.IsPlain() || other.IsPlain() {
		return true
	}
	return k.Namespace == other.Namespace
}

// String returns the key as it was written.
func (k EnchantmentKey) String() string {
	if k.IsPlain() {
		return k.Name
	}
	return k.Namespace + ":" + k.Name
}

// MarshalText implements encoding.TextMarshaler so keys can be used in
// JSON and YAML maps.
func (k EnchantmentKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EnchantmentKey) UnmarshalText(text []byte) error {
	parsed := ParseEnchantmentKey(string(text))
	if parsed.Name == "" {
		return fmt.Errorf("invalid enchantment key %q: empty name", string(text))
	}
	*k = parsed
	return nil
}
