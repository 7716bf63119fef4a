package resolve

import "modmerge/internal/modfile"

// Range bounds the modder-safe ID space for one entity type. Floor keeps
// allocations clear of the base game's reserved IDs; Ceiling is the last
// ID the allocator may hand out.
type Range struct {
	Floor   int32
	Ceiling int32
}

// Policy is the run configuration for collision resolution. Constructed
// fresh per merge invocation; never global.
type Policy struct {
	Ranges map[modfile.EntityType]Range
	// Montag bounds the magnitude of negative monster IDs, which address
	// a separate sub-kind within the monster slot namespace.
	Montag    Range
	Sentinels map[int32]bool
}

// DefaultPolicy returns the built-in safe ranges. Boundaries of the base
// game's reserved space are policy, not format: merge.toml may override
// any of them.
func DefaultPolicy() Policy {
	return Policy{
		Ranges: map[modfile.EntityType]Range{
			modfile.EntityMonster: {Floor: 3500, Ceiling: 8999},
			modfile.EntityWeapon:  {Floor: 800, Ceiling: 1999},
			modfile.EntityArmor:   {Floor: 300, Ceiling: 999},
			modfile.EntityItem:    {Floor: 500, Ceiling: 1499},
			modfile.EntitySite:    {Floor: 1500, Ceiling: 2699},
			modfile.EntityNation:  {Floor: 120, Ceiling: 499},
			modfile.EntitySpell:   {Floor: 1300, Ceiling: 2999},
		},
		Montag:    Range{Floor: 1000, Ceiling: 9999},
		Sentinels: map[int32]bool{0: true, -1: true},
	}
}

// Sentinel reports whether id is a "no entity" marker that must never be
// remapped.
func (p Policy) Sentinel(id int32) bool {
	return p.Sentinels[id]
}

// rangeFor picks the allocation range for one sign class of one type.
func (p Policy) rangeFor(t modfile.EntityType, negative bool) Range {
	if negative && t == modfile.EntityMonster {
		return p.Montag
	}
	return p.Ranges[t]
}
