package diag

import (
	"fmt"

	"modmerge/internal/modfile"
)

// ScanError reports that a single mod's text could not be parsed.
// Fatal to the whole scan by default: a silently dropped mod would
// desync the merge.
type ScanError struct {
	Mod string
	Err error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Mod, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// AllocationExhausted reports that the safe ID range for one entity type
// ran out during resolution.
type AllocationExhausted struct {
	Type    modfile.EntityType
	Montag  bool // negative monster namespace
	Floor   int32
	Ceiling int32
}

func (e *AllocationExhausted) Error() string {
	name := e.Type.String()
	if e.Montag {
		name = "montag"
	}
	return fmt.Sprintf("id space exhausted for %s (range %d..%d)", name, e.Floor, e.Ceiling)
}

// ContentError wraps a failure while re-emitting a specific mod line.
// Line is a 0-based index into the mod body.
type ContentError struct {
	Mod  string
	Line int
	Err  error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("write %s: line %d: %v", e.Mod, e.Line, e.Err)
}

func (e *ContentError) Unwrap() error { return e.Err }
