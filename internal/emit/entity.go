// Package emit replays each mod's raw lines through the line classifier
// and the entity/block processors, producing the merged output stream.
package emit

import (
	"fmt"

	"modmerge/internal/modfile"
	"modmerge/internal/pattern"
)

// Annotation is the remap comment inserted immediately before a rewritten
// line, documenting the old -> new substitution for traceability.
func Annotation(t modfile.EntityType, oldID, newID int32) string {
	return fmt.Sprintf("-- modmerge: %s %d -> %d", modfile.DescribeID(t, oldID), oldID, newID)
}

// ProcessEntity rewrites the ID on a classified line against the mod's
// remap table. An identity mapping returns the line untouched with no
// comment. Only the recognized ID token is ever substituted.
func ProcessEntity(raw string, ln pattern.Line, m *modfile.MappedMod) (out, comment string, rewrote bool) {
	if !ln.HasID {
		return raw, "", false
	}
	newID, ok := m.Remap.Lookup(ln.Type, ln.ID)
	if !ok {
		return raw, "", false
	}
	return ln.ReplaceID(raw, newID), Annotation(ln.Type, ln.ID, newID), true
}
