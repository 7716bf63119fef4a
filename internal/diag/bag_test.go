package diag_test

import (
	"strings"
	"testing"

	"modmerge/internal/diag"
)

func TestBagCapDropsOverflow(t *testing.T) {
	bag := diag.NewBag(2)
	if !bag.Warnf(diag.WarnGeneral, "a", "one") {
		t.Fatal("first warning rejected")
	}
	if !bag.Warnf(diag.WarnGeneral, "a", "two") {
		t.Fatal("second warning rejected")
	}
	if bag.Warnf(diag.WarnGeneral, "a", "three") {
		t.Fatal("warning accepted past the cap")
	}
	if bag.Len() != 2 {
		t.Errorf("Len = %d, want 2", bag.Len())
	}
}

func TestBagCapClampsExtremes(t *testing.T) {
	// Завышенный лимит не должен сворачиваться в маленький.
	big := diag.NewBag(1 << 20)
	for i := 0; i < 100; i++ {
		if !big.Warnf(diag.WarnGeneral, "a", "warning %d", i) {
			t.Fatalf("warning %d rejected under an oversized cap", i)
		}
	}
	if big.Cap() != 65535 {
		t.Errorf("Cap = %d, want 65535", big.Cap())
	}

	neg := diag.NewBag(-5)
	if neg.Warnf(diag.WarnGeneral, "a", "nope") {
		t.Error("negative cap accepted a warning")
	}
}

func TestBagOrderPreserved(t *testing.T) {
	bag := diag.NewBag(8)
	bag.Warnf(diag.WarnSkippedLine, "a", "first")
	bag.Warnf(diag.WarnFormatQuirk, "b", "second")

	items := bag.Items()
	if items[0].Message != "first" || items[1].Message != "second" {
		t.Errorf("items = %v", items)
	}
}

func TestBagMergeGrows(t *testing.T) {
	a := diag.NewBag(1)
	a.Warnf(diag.WarnGeneral, "x", "kept")

	b := diag.NewBag(4)
	b.Warnf(diag.WarnGeneral, "y", "merged one")
	b.Warnf(diag.WarnGeneral, "y", "merged two")

	a.Merge(b)
	if a.Len() != 3 {
		t.Errorf("Len after merge = %d, want 3", a.Len())
	}
	a.Merge(nil) // no-op
	if a.Len() != 3 {
		t.Errorf("Len after nil merge = %d", a.Len())
	}
}

func TestWarningString(t *testing.T) {
	w := diag.Warning{Kind: diag.WarnSkippedLine, Mod: "dragons", Message: "skipped 3 header/blank line(s)"}
	s := w.String()
	if !strings.Contains(s, "dragons") || !strings.Contains(s, "skipped 3") {
		t.Errorf("String = %q", s)
	}
}
