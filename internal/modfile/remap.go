package modfile

// RemapKey addresses one original ID inside one mod's namespace.
type RemapKey struct {
	Type EntityType
	ID   int32
}

// RemapTable maps a mod's original IDs to their merge-safe replacements.
// Identity mappings are implicit: a missing key means the ID is kept as-is.
// Built once by the resolver, read-only afterwards.
type RemapTable map[RemapKey]int32

// Lookup returns the replacement for (t, id) and whether one exists.
func (rt RemapTable) Lookup(t EntityType, id int32) (int32, bool) {
	if rt == nil {
		return 0, false
	}
	newID, ok := rt[RemapKey{Type: t, ID: id}]
	return newID, ok
}

// MappedMod bundles everything the write pass needs for one mod:
// the parsed definition, its remap table and the originating file.
// Transient, lives only for the duration of the write pass.
type MappedMod struct {
	File  *ModFile
	Def   *ModDefinition
	Remap RemapTable
}
