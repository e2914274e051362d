// Package normalize flattens heterogeneous upstream messages into plain text
// for the extractor. Pipeline order for Clean
// 1 control-char sanitize (see sanitize.go)
// 2 UTF-8 repair drop invalid bytes
// 3 Unicode NFKC normalization
// 4 Remove zero-width and format chars
// 5 Width fold fullwidth to ASCII
// 6 Collapse whitespace runs, preserving line breaks
//
// No case folding: identifiers are case-sensitive and must survive verbatim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Field is one named value inside a structured block
type Field struct {
	Name  string
	Value string
}

// Block is a structured sub-document of a message (title/description/fields)
type Block struct {
	Title       string
	Description string
	Fields      []Field
}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)), // strip format chars ZWJ ZWNJ FEFF etc
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// Clean returns the cleaned form of s following the pipeline described above
func Clean(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	return collapseSpaces(ns)
}

// Flatten concatenates, in order: plain text, then per block title,
// description, and "name: value" for every field, one line each.
// The ordering is stable so first-seen extraction order is deterministic
func Flatten(text string, blocks []Block) string {
	var b strings.Builder
	b.Grow(len(text) + 64*len(blocks))

	push := func(s string) {
		if s == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
	}

	push(text)
	for _, blk := range blocks {
		push(blk.Title)
		push(blk.Description)
		for _, f := range blk.Fields {
			if f.Value == "" {
				continue
			}
			if f.Name != "" {
				push(f.Name + ": " + f.Value)
			} else {
				push(f.Value)
			}
		}
	}
	return b.String()
}

// FieldValues returns the values of fields whose name case-insensitively
// contains one of the keywords, in block order. Structured fields are a
// higher-confidence signal than free text, so callers scan these first
func FieldValues(blocks []Block, keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	var out []string
	for _, blk := range blocks {
		for _, f := range blk.Fields {
			if f.Value == "" {
				continue
			}
			name := strings.ToLower(f.Name)
			for _, kw := range keywords {
				if strings.Contains(name, strings.ToLower(kw)) {
					out = append(out, f.Value)
					break
				}
			}
		}
	}
	return out
}

// collapseSpaces converts whitespace runs to a single ASCII space, but preserves line breaks.
// Runs that contain any newline are collapsed to a single newline. Leading/trailing spaces/newlines are trimmed
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	sawNL := false
	flush := func() {
		if !inWS {
			return
		}
		if sawNL {
			b.WriteByte('\n')
		} else {
			b.WriteByte(' ')
		}
		inWS = false
		sawNL = false
	}
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			if r == '\n' || r == '\r' {
				sawNL = true
			}
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	out := b.String()
	// Trim both spaces and newlines on edges
	out = strings.Trim(out, " \n\t\r")
	return out
}
