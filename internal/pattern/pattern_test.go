package pattern_test

import (
	"testing"

	"modmerge/internal/modfile"
	"modmerge/internal/pattern"
)

// expectKind проверяет только вид строки
func expectKind(t *testing.T, raw string, want pattern.LineKind) pattern.Line {
	t.Helper()
	ln := pattern.Classify(raw)
	if ln.Kind != want {
		t.Fatalf("Classify(%q).Kind = %v, want %v", raw, ln.Kind, want)
	}
	return ln
}

func TestClassifyKinds(t *testing.T) {
	cases := []struct {
		raw  string
		want pattern.LineKind
	}{
		{"", pattern.KindBlank},
		{"   \t ", pattern.KindBlank},
		{"-- a comment", pattern.KindComment},
		{"  -- indented comment", pattern.KindComment},
		{`#modname "Better Dragons"`, pattern.KindMetadata},
		{`#description "Long text`, pattern.KindMetadata},
		{`#icon "banner.tga"`, pattern.KindMetadata},
		{"#version 1.02", pattern.KindMetadata},
		{"#domversion 5.50", pattern.KindMetadata},
		{"#newmonster 150", pattern.KindEntity},
		{"#selectmonster 150", pattern.KindEntity},
		{"#newweapon 801", pattern.KindEntity},
		{"#selectnation 42", pattern.KindEntity},
		{"#newspell", pattern.KindBlockStart},
		{`#selectspell "Fireball"`, pattern.KindBlockStart},
		{"#selectspell 1300", pattern.KindBlockStart},
		{"#damage 150", pattern.KindSubCommand},
		{"#damage -1505", pattern.KindSubCommand},
		{"#end", pattern.KindBlockEnd},
		{"  #end", pattern.KindBlockEnd},
		{"#gcost 30", pattern.KindPlain},
		{"#newmonster", pattern.KindPlain}, // no ID, not an entity header
		{"random text", pattern.KindPlain},
	}
	for _, tc := range cases {
		expectKind(t, tc.raw, tc.want)
	}
}

func TestClassifyExtractsID(t *testing.T) {
	cases := []struct {
		raw      string
		wantType modfile.EntityType
		wantID   int32
	}{
		{"#newmonster 150", modfile.EntityMonster, 150},
		{"#selectarmor 301", modfile.EntityArmor, 301},
		{"#newitem 500", modfile.EntityItem, 500},
		{"#newsite 1501", modfile.EntitySite, 1501},
		{"#damage -1505", modfile.EntityMonster, -1505},
		{"#selectspell 1300", modfile.EntitySpell, 1300},
	}
	for _, tc := range cases {
		ln := pattern.Classify(tc.raw)
		if !ln.HasID {
			t.Errorf("Classify(%q): no ID extracted", tc.raw)
			continue
		}
		if ln.Type != tc.wantType || ln.ID != tc.wantID {
			t.Errorf("Classify(%q) = (%v, %d), want (%v, %d)",
				tc.raw, ln.Type, ln.ID, tc.wantType, tc.wantID)
		}
	}
}

func TestClassifyBadLiteral(t *testing.T) {
	ln := pattern.Classify("#newmonster 99999999999")
	if ln.Kind != pattern.KindEntity {
		t.Fatalf("Kind = %v, want entity", ln.Kind)
	}
	if ln.Err == nil {
		t.Fatal("expected Err for an out-of-range literal")
	}
	if ln.HasID {
		t.Fatal("HasID must be false on a bad literal")
	}
}

func TestReplaceIDTouchesOnlyIDToken(t *testing.T) {
	raw := "#newmonster 150 -- dragon number 150"
	ln := expectKind(t, raw, pattern.KindEntity)
	got := ln.ReplaceID(raw, 3500)
	want := "#newmonster 3500 -- dragon number 150"
	if got != want {
		t.Errorf("ReplaceID = %q, want %q", got, want)
	}
}

func TestReplaceIDKeepsSign(t *testing.T) {
	raw := "#damage -1505"
	ln := expectKind(t, raw, pattern.KindSubCommand)
	got := ln.ReplaceID(raw, -1000)
	if got != "#damage -1000" {
		t.Errorf("ReplaceID = %q, want %q", got, "#damage -1000")
	}
}

func TestReplaceIDWithoutID(t *testing.T) {
	raw := "#newspell"
	ln := expectKind(t, raw, pattern.KindBlockStart)
	if got := ln.ReplaceID(raw, 1); got != raw {
		t.Errorf("ReplaceID on a line without ID changed it: %q", got)
	}
}

func TestQuoteToggles(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{`#description "one line"`, false},
		{`#description "starts here`, true},
		{`ends here"`, true},
		{`no quotes at all`, false},
		{`"a" "b`, true},
	}
	for _, tc := range cases {
		if got := pattern.QuoteToggles(tc.raw); got != tc.want {
			t.Errorf("QuoteToggles(%q) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestQuotedValue(t *testing.T) {
	if got := pattern.QuotedValue(`#modname "Better Dragons"`); got != "Better Dragons" {
		t.Errorf("QuotedValue = %q", got)
	}
	if got := pattern.QuotedValue(`#description "unclosed`); got != "" {
		t.Errorf("QuotedValue on unclosed quote = %q, want empty", got)
	}
}
