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

package cli

import (
	"github.com/akaregi/imperatrix/pkg/header"
	"github.com/akaregi/imperatrix/pkg/item"
)

// ParseResult is the document printed by the parse command.
type ParseResult struct {
	Identifier string      `json:"identifier" yaml:"identifier"`
	Canonical  string      `json:"canonical" yaml:"canonical"`
	Query      *item.Query `json:"query" yaml:"query"`
}

// MatchResult is the document printed by the match and lore commands.
type MatchResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Player    string `json:"player,omitempty" yaml:"player,omitempty"`
	Query     string `json:"query,omitempty" yaml:"query,omitempty"`
	Substring string `json:"substring,omitempty" yaml:"substring,omitempty"`
	Held      bool   `json:"held,omitempty" yaml:"held,omitempty"`
	Records   int    `json:"records" yaml:"records"`

	item.Outcome `json:",inline" yaml:",inline"`
}

func newMatchResult() *MatchResult {
	r := &MatchResult{}
	r.Init(header.KindMatchResult, header.APIVersionV1, version)
	return r
}

// PlaceholderResult is the document printed by the resolve command.
type PlaceholderResult struct {
	header.Header `json:",inline" yaml:",inline"`

	Player     string `json:"player" yaml:"player"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Value      string `json:"value" yaml:"value"`
}
