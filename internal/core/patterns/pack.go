// Package patterns loads and compiles the extraction profile from the embedded
// patterns.json. It prepares ordered regex rules, shape bounds, and the
// denylist for the extractor
package patterns

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

//go:embed patterns.json
var embedded []byte

type rawShape struct {
	MinLen  int    `json:"min_len"`
	MaxLen  int    `json:"max_len"`
	Symbols string `json:"symbols"`
}

type rawRule struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Group   int    `json:"group"`
	Label   string `json:"label,omitempty"`
}

type rawPack struct {
	Version       int            `json:"version"`
	Meta          map[string]any `json:"meta"`
	Shape         rawShape       `json:"shape"`
	FieldKeywords []string       `json:"field_keywords"`
	Platforms     []string       `json:"platforms"`
	Deny          []string       `json:"deny"`
	Rules         []rawRule      `json:"rules"`
}

// Rule is one compiled extraction rule. Group selects the capture group
// that carries the identifier (0 = whole match)
type Rule struct {
	ID    string
	Label string
	Group int
	Re    *regexp.Regexp
}

// Shape bounds the textual form of an acceptable identifier
type Shape struct {
	MinLen  int
	MaxLen  int
	symbols map[rune]struct{}
}

// AllowedRune reports whether r may appear in an identifier
func (s Shape) AllowedRune(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
		return true
	}
	_, ok := s.symbols[r]
	return ok
}

// Pack is a compiled extraction profile
type Pack struct {
	Version int
	Meta    map[string]any

	Shape         Shape
	FieldKeywords []string
	Platforms     []string

	// Denylist entries are lowercased substrings; candidates containing any
	// of them are rejected. Blunt, but greedy catchall rules over-match
	Denylist []string

	// Rules keep their configured order; the extractor unions matches from
	// all of them rather than stopping at the first hit
	Rules []Rule
}

// Load returns the compiled pack from the embedded patterns.json
func Load() (*Pack, error) {
	return Parse(embedded)
}

// Parse compiles a pack from raw JSON bytes (seam for tests and tooling)
func Parse(data []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("patterns: parse patterns.json: %w", err)
	}
	if rp.Version != 1 {
		return nil, fmt.Errorf("patterns: unsupported patterns.json version %d (want 1)", rp.Version)
	}
	if rp.Shape.MinLen <= 0 || rp.Shape.MaxLen < rp.Shape.MinLen {
		return nil, fmt.Errorf("patterns: bad shape bounds min=%d max=%d", rp.Shape.MinLen, rp.Shape.MaxLen)
	}

	p := &Pack{
		Version:       rp.Version,
		Meta:          rp.Meta,
		FieldKeywords: dedupLower(rp.FieldKeywords),
		Platforms:     append([]string(nil), rp.Platforms...),
		Shape: Shape{
			MinLen:  rp.Shape.MinLen,
			MaxLen:  rp.Shape.MaxLen,
			symbols: make(map[rune]struct{}, len(rp.Shape.Symbols)),
		},
	}
	for _, r := range rp.Shape.Symbols {
		p.Shape.symbols[r] = struct{}{}
	}

	for _, d := range dedupLower(rp.Deny) {
		p.Denylist = append(p.Denylist, d)
	}

	for _, rr := range rp.Rules {
		if strings.TrimSpace(rr.Pattern) == "" {
			return nil, fmt.Errorf("patterns: rule %q has empty pattern", rr.ID)
		}
		re, err := regexp.Compile(rr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("patterns: compile rule %q: %w", rr.ID, err)
		}
		if rr.Group < 0 || rr.Group > re.NumSubexp() {
			return nil, fmt.Errorf("patterns: rule %q group %d out of range (have %d)", rr.ID, rr.Group, re.NumSubexp())
		}
		p.Rules = append(p.Rules, Rule{ID: rr.ID, Label: rr.Label, Group: rr.Group, Re: re})
	}
	if len(p.Rules) == 0 {
		return nil, fmt.Errorf("patterns: no rules configured")
	}

	return p, nil
}

// Denied reports whether candidate case-insensitively contains a deny entry
func (p *Pack) Denied(candidate string) bool {
	lc := strings.ToLower(candidate)
	for _, d := range p.Denylist {
		if strings.Contains(lc, d) {
			return true
		}
	}
	return false
}

// ValidShape checks length bounds and alphabet for one candidate
func (p *Pack) ValidShape(candidate string) bool {
	n := len([]rune(candidate))
	if n < p.Shape.MinLen || n > p.Shape.MaxLen {
		return false
	}
	for _, r := range candidate {
		if !p.Shape.AllowedRune(r) {
			return false
		}
	}
	return true
}

// dedupLower lowercases, trims, and dedups while preserving first-seen order
func dedupLower(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
