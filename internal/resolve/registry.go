package resolve

import "modmerge/internal/modfile"

// claimKind distinguishes an ID a mod declared itself from one the
// allocator assigned to it.
type claimKind uint8

const (
	claimOriginal claimKind = iota
	claimAllocated
)

type claim struct {
	owner string
	kind  claimKind
}

// Registry is the run-scoped global ID namespace: (type, id) → owning mod.
// Populated in the fixed mod order during resolution, discarded afterwards.
// Never shared across runs and never touched by scan tasks.
type Registry struct {
	claims map[modfile.RemapKey]claim
}

func NewRegistry() *Registry {
	return &Registry{claims: make(map[modfile.RemapKey]claim)}
}

func (r *Registry) claimSlot(key modfile.RemapKey, owner string, kind claimKind) {
	r.claims[key] = claim{owner: owner, kind: kind}
}

// lookup returns the claim on key, if any.
func (r *Registry) lookup(key modfile.RemapKey) (claim, bool) {
	c, ok := r.claims[key]
	return c, ok
}

// taken reports whether the slot is unavailable for allocation.
func (r *Registry) taken(key modfile.RemapKey) bool {
	_, ok := r.claims[key]
	return ok
}
