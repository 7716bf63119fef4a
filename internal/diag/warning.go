// Package diag carries the merge run's warnings and typed fatal errors.
// Warnings accumulate in arrival order and never abort a run; the error
// types in errors.go do.
package diag

import "fmt"

// WarnKind categorizes a warning for reporting and filtering.
type WarnKind uint8

const (
	// WarnGeneral covers anything without a more specific kind.
	WarnGeneral WarnKind = iota
	// WarnSkippedLine reports header/blank lines dropped from the output.
	WarnSkippedLine
	// WarnDuplicateMod reports two sources claiming the same mod name.
	WarnDuplicateMod
	// WarnFormatQuirk reports tolerated deviations from the expected format.
	WarnFormatQuirk
	// WarnCache reports a non-fatal scan cache failure.
	WarnCache
)

func (k WarnKind) String() string {
	switch k {
	case WarnSkippedLine:
		return "skipped-line"
	case WarnDuplicateMod:
		return "duplicate-mod"
	case WarnFormatQuirk:
		return "format-quirk"
	case WarnCache:
		return "cache"
	}
	return "general"
}

// Warning is one non-fatal finding, attributed to a mod when one is known.
type Warning struct {
	Kind    WarnKind
	Mod     string
	Message string
}

func (w Warning) String() string {
	if w.Mod == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.Mod, w.Message)
}
