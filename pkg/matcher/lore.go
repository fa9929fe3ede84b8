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

package matcher

import (
	"fmt"
	"regexp"

	ac "github.com/petar-dambovaliev/aho-corasick"

	"github.com/akaregi/imperatrix/pkg/item"
)

// LorePattern is a compiled partial lore match.
type LorePattern struct {
	source  string
	literal *ac.AhoCorasick
	re      *regexp.Regexp
}

// CompileLorePattern compiles substring as an unanchored regular
// expression. Substrings without metacharacters are matched literally
// through an Aho-Corasick automaton, which gives the same result.
func CompileLorePattern(substring string) (*LorePattern, error) {
	p := &LorePattern{source: substring}

	if isLiteral(substring) {
		builder := ac.NewAhoCorasickBuilder(ac.Opts{
			MatchKind: ac.LeftMostLongestMatch,
		})
		automaton := builder.Build([]string{substring})
		p.literal = &automaton
		return p, nil
	}

	re, err := regexp.Compile(substring)
	if err != nil {
		return nil, fmt.Errorf("invalid lore pattern %q: %w", substring, err)
	}
	p.re = re
	return p, nil
}

// String returns the pattern source.
func (p *LorePattern) String() string {
	return p.source
}

// IsLiteral reports whether the pattern is matched without the regexp engine.
func (p *LorePattern) IsLiteral() bool {
	return p.literal != nil
}

// MatchLine reports whether the pattern occurs in line. Empty lines never
// match.
func (p *LorePattern) MatchLine(line string) bool {
	if line == "" {
		return false
	}
	if p.literal != nil {
		return len(p.literal.FindAll(line)) > 0
	}
	return p.re.MatchString(line)
}

// MatchRecord reports whether any lore line of r matches.
func (p *LorePattern) MatchRecord(r *item.Record) bool {
	for _, line := range r.Lore {
		if p.MatchLine(line) {
			return true
		}
	}
	return false
}

// MatchAny reports whether any lore line of any record matches.
func (p *LorePattern) MatchAny(records []item.Record) bool {
	for i := range records {
		if p.MatchRecord(&records[i]) {
			return true
		}
	}
	return false
}

// PartialLoreMatch reports whether any non-empty lore line of any record
// matches substring as an unanchored regular expression. An invalid
// expression matches nothing.
func PartialLoreMatch(records []item.Record, substring string) bool {
	p, err := CompileLorePattern(substring)
	if err != nil {
		return false
	}
	return p.MatchAny(records)
}

func isLiteral(s string) bool {
	return s != "" && regexp.QuoteMeta(s) == s
}
