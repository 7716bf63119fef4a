// Package resolve builds per-mod ID remap tables from the parsed mod set.
// It is the single place where the global "no two mods share a final ID"
// invariant is enforced, which is why it runs strictly sequentially over
// a fixed mod ordering.
package resolve

import (
	"sort"

	"modmerge/internal/diag"
	"modmerge/internal/modfile"
)

// Order returns the fixed, reproducible mod order used for both collision
// precedence and output layout: lexical by mod name.
func Order(defs map[string]*modfile.ModDefinition) []string {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type cursorKey struct {
	t   modfile.EntityType
	neg bool
}

type resolver struct {
	policy Policy
	reg    *Registry
	// next magnitude to probe per (type, sign class); avoids rescanning
	// the range from the floor on every allocation
	next map[cursorKey]int32
}

// Resolve decides the remap table for every mod. First-seen (in Order)
// keeps its IDs; later claimants of an occupied slot get the next free
// same-sign ID above the configured floor. Every mod gets a table; an
// identity merge yields empty ones.
func Resolve(defs map[string]*modfile.ModDefinition, policy Policy) (map[string]modfile.RemapTable, error) {
	r := &resolver{
		policy: policy,
		reg:    NewRegistry(),
		next:   make(map[cursorKey]int32),
	}

	tables := make(map[string]modfile.RemapTable, len(defs))
	for _, name := range Order(defs) {
		table, err := r.resolveMod(name, defs[name])
		if err != nil {
			return nil, err
		}
		tables[name] = table
	}
	return tables, nil
}

func (r *resolver) resolveMod(name string, def *modfile.ModDefinition) (modfile.RemapTable, error) {
	table := make(modfile.RemapTable)
	for _, ref := range def.Refs {
		if r.policy.Sentinel(ref.ID) {
			continue // "no entity" marker, never remapped
		}
		key := modfile.RemapKey{Type: ref.Type, ID: ref.ID}
		if _, done := table[key]; done {
			// Тот же исходный ID в том же моде — тот же новый ID.
			continue
		}
		c, taken := r.reg.lookup(key)
		if !taken {
			r.reg.claimSlot(key, name, claimOriginal)
			continue
		}
		if c.owner == name && c.kind == claimOriginal {
			continue // re-reference of the mod's own entity
		}
		// Slot lost to an earlier mod (or to one of our own allocations):
		// move this entity into the safe range, keeping its sign class.
		newID, err := r.alloc(ref.Type, ref.ID < 0)
		if err != nil {
			return nil, err
		}
		table[key] = newID
		r.reg.claimSlot(modfile.RemapKey{Type: ref.Type, ID: newID}, name, claimAllocated)
	}
	return table, nil
}

// alloc hands out the next unused ID of the requested sign class.
func (r *resolver) alloc(t modfile.EntityType, negative bool) (int32, error) {
	rng := r.policy.rangeFor(t, negative)
	cur := cursorKey{t: t, neg: negative}

	mag := rng.Floor
	if n, ok := r.next[cur]; ok && n > mag {
		mag = n
	}
	for ; mag <= rng.Ceiling; mag++ {
		id := mag
		if negative {
			id = -mag
		}
		if r.policy.Sentinel(id) || r.reg.taken(modfile.RemapKey{Type: t, ID: id}) {
			continue
		}
		r.next[cur] = mag + 1
		return id, nil
	}
	return 0, &diag.AllocationExhausted{
		Type:    t,
		Montag:  negative && t == modfile.EntityMonster,
		Floor:   rng.Floor,
		Ceiling: rng.Ceiling,
	}
}
