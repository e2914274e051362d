package patterns

import (
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if p.Version != 1 {
		t.Fatalf("version = %d, want 1", p.Version)
	}
	if len(p.Rules) == 0 {
		t.Fatalf("expected compiled rules")
	}
	for _, r := range p.Rules {
		if r.Re == nil {
			t.Fatalf("rule %q has nil regexp", r.ID)
		}
		if r.Group > r.Re.NumSubexp() {
			t.Fatalf("rule %q group out of range", r.ID)
		}
	}
	if p.Shape.MinLen != 8 || p.Shape.MaxLen != 70 {
		t.Fatalf("shape bounds = %d..%d", p.Shape.MinLen, p.Shape.MaxLen)
	}
	if len(p.FieldKeywords) == 0 || len(p.Platforms) == 0 {
		t.Fatalf("expected field keywords and platforms")
	}
}

func TestRuleOrderPreserved(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	// labeled-id must come before the catchall so first-seen order favors it
	var labeledIdx, bareIdx = -1, -1
	for i, r := range p.Rules {
		switch r.ID {
		case "labeled-id":
			labeledIdx = i
		case "bare-token":
			bareIdx = i
		}
	}
	if labeledIdx < 0 || bareIdx < 0 {
		t.Fatalf("expected labeled-id and bare-token rules, got %+v", p.Rules)
	}
	if labeledIdx > bareIdx {
		t.Fatalf("labeled-id (%d) must precede bare-token (%d)", labeledIdx, bareIdx)
	}
}

func TestDenied(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if !p.Denied("JavaScript_undefined_12345") {
		t.Fatalf("expected denylisted candidate to be rejected")
	}
	if p.Denied("AbCdEfGh12345678") {
		t.Fatalf("clean candidate rejected")
	}
}

func TestValidShape(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	tests := []struct {
		in   string
		want bool
	}{
		{"AbCdEfGh12345678", true},
		{"dGhpcyBpcw==", true}, // base64 padding is within the symbol set
		{"short", false},
		{"has space inside!", false},
		{"with+slash/equals=ok-", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := p.ValidShape(tt.in); got != tt.want {
			t.Fatalf("ValidShape(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRejectsBadPacks(t *testing.T) {
	cases := map[string]string{
		"bad version": `{"version":9,"shape":{"min_len":8,"max_len":70},"rules":[{"id":"x","pattern":"a+"}]}`,
		"bad shape":   `{"version":1,"shape":{"min_len":0,"max_len":70},"rules":[{"id":"x","pattern":"a+"}]}`,
		"bad regex":   `{"version":1,"shape":{"min_len":8,"max_len":70},"rules":[{"id":"x","pattern":"("}]}`,
		"bad group":   `{"version":1,"shape":{"min_len":8,"max_len":70},"rules":[{"id":"x","pattern":"a+","group":2}]}`,
		"no rules":    `{"version":1,"shape":{"min_len":8,"max_len":70},"rules":[]}`,
		"not json":    `{`,
		"empty rule":  `{"version":1,"shape":{"min_len":8,"max_len":70},"rules":[{"id":"x","pattern":"  "}]}`,
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
