// Package extract pulls candidate identifiers out of normalized message text
// using the compiled patterns pack
package extract

import (
	"strings"

	"joinfeed/internal/core/normalize"
	"joinfeed/internal/core/patterns"
)

// Extractor applies the pack's ordered rules to text
type Extractor struct {
	pack *patterns.Pack
}

// New constructs an Extractor over a compiled pack
func New(p *patterns.Pack) *Extractor {
	return &Extractor{pack: p}
}

// Pack exposes the underlying profile (read-only use)
func (e *Extractor) Pack() *patterns.Pack { return e.pack }

// Extract returns every valid candidate found in text, first-seen order.
// All rules run and their matches are unioned; nothing short-circuits on the
// first rule that hits, so recall survives inconsistent upstream formats.
// Candidates failing shape bounds or containing a denylisted substring are
// dropped. Given identical input and pack, output is identical
func (e *Extractor) Extract(text string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]struct{}, 8)
	var out []string

	for _, rule := range e.pack.Rules {
		ms := rule.Re.FindAllStringSubmatch(text, -1)
		for _, m := range ms {
			if rule.Group >= len(m) {
				continue
			}
			cand := strings.TrimSpace(m[rule.Group])
			if cand == "" {
				continue
			}
			if !e.pack.ValidShape(cand) {
				continue
			}
			if e.pack.Denied(cand) {
				continue
			}
			if _, dup := seen[cand]; dup {
				continue
			}
			seen[cand] = struct{}{}
			out = append(out, cand)
		}
	}
	return out
}

// ExtractMessage runs field-first extraction over a flattened message:
// values of keyword-matching structured fields are scanned before the full
// text, so higher-confidence candidates come out first
func (e *Extractor) ExtractMessage(text string, blocks []normalize.Block) []string {
	seen := make(map[string]struct{}, 8)
	var out []string

	add := func(cands []string) {
		for _, c := range cands {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}

	for _, fv := range normalize.FieldValues(blocks, e.pack.FieldKeywords) {
		add(e.Extract(normalize.Clean(fv)))
	}
	add(e.Extract(normalize.Clean(normalize.Flatten(text, blocks))))

	return out
}

// Platform returns the first configured platform keyword present in text
// (case-insensitive, canonical casing from the pack), or "" when none is.
// Best-effort metadata only
func (e *Extractor) Platform(text string) string {
	lc := strings.ToLower(text)
	for _, p := range e.pack.Platforms {
		if strings.Contains(lc, strings.ToLower(p)) {
			return p
		}
	}
	return ""
}
