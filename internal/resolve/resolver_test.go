package resolve_test

import (
	"errors"
	"testing"

	"modmerge/internal/diag"
	"modmerge/internal/modfile"
	"modmerge/internal/resolve"
)

func defWithRefs(name string, refs ...modfile.EntityRef) *modfile.ModDefinition {
	return &modfile.ModDefinition{Name: name, Refs: refs}
}

func mref(id int32, line uint32) modfile.EntityRef {
	return modfile.EntityRef{Type: modfile.EntityMonster, ID: id, Line: line}
}

func mustResolve(t *testing.T, defs map[string]*modfile.ModDefinition) map[string]modfile.RemapTable {
	t.Helper()
	tables, err := resolve.Resolve(defs, resolve.DefaultPolicy())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return tables
}

func TestResolveDisjointIDs(t *testing.T) {
	defs := map[string]*modfile.ModDefinition{
		"alpha": defWithRefs("alpha", mref(150, 0)),
		"beta":  defWithRefs("beta", mref(151, 0)),
	}
	tables := mustResolve(t, defs)
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}
	for name, table := range tables {
		if len(table) != 0 {
			t.Errorf("mod %s: table %v, want empty", name, table)
		}
	}
}

func TestResolveFirstSeenWins(t *testing.T) {
	defs := map[string]*modfile.ModDefinition{
		"a_mod": defWithRefs("a_mod", mref(150, 0)),
		"b_mod": defWithRefs("b_mod", mref(150, 0), mref(150, 5)),
	}
	tables := mustResolve(t, defs)

	if len(tables["a_mod"]) != 0 {
		t.Errorf("a_mod must keep its ID: %v", tables["a_mod"])
	}
	got, ok := tables["b_mod"].Lookup(modfile.EntityMonster, 150)
	if !ok || got != 3500 {
		t.Errorf("b_mod monster 150 -> %d (found=%v), want 3500", got, ok)
	}
	// Обе ссылки на один исходный ID дают одну запись
	if len(tables["b_mod"]) != 1 {
		t.Errorf("b_mod table has %d entries, want 1", len(tables["b_mod"]))
	}
}

func TestResolveLexicalPrecedence(t *testing.T) {
	// Discovery order does not matter; "aardvark" outranks "zebra" by name.
	defs := map[string]*modfile.ModDefinition{
		"zebra":    defWithRefs("zebra", mref(150, 0)),
		"aardvark": defWithRefs("aardvark", mref(150, 0)),
	}
	tables := mustResolve(t, defs)
	if len(tables["aardvark"]) != 0 {
		t.Errorf("aardvark should win the slot: %v", tables["aardvark"])
	}
	if _, ok := tables["zebra"].Lookup(modfile.EntityMonster, 150); !ok {
		t.Error("zebra should have been remapped")
	}
}

func TestResolveSameTypeOnlyCollides(t *testing.T) {
	defs := map[string]*modfile.ModDefinition{
		"a_mod": defWithRefs("a_mod", mref(800, 0)),
		"b_mod": defWithRefs("b_mod", modfile.EntityRef{Type: modfile.EntityWeapon, ID: 800, Line: 0}),
	}
	tables := mustResolve(t, defs)
	if len(tables["a_mod"])+len(tables["b_mod"]) != 0 {
		t.Errorf("distinct types share no namespace: %v %v", tables["a_mod"], tables["b_mod"])
	}
}

func TestResolveMontagKeepsSign(t *testing.T) {
	defs := map[string]*modfile.ModDefinition{
		"a_mod": defWithRefs("a_mod", mref(-1505, 0)),
		"b_mod": defWithRefs("b_mod", mref(-1505, 0)),
	}
	tables := mustResolve(t, defs)
	got, ok := tables["b_mod"].Lookup(modfile.EntityMonster, -1505)
	if !ok {
		t.Fatal("b_mod montag not remapped")
	}
	if got >= 0 {
		t.Errorf("remapped montag ID %d lost its sign", got)
	}
	if got != -1000 {
		t.Errorf("got %d, want -1000 (montag floor)", got)
	}
}

func TestResolveSentinelsUntouched(t *testing.T) {
	defs := map[string]*modfile.ModDefinition{
		"a_mod": defWithRefs("a_mod", mref(0, 0), mref(-1, 1)),
		"b_mod": defWithRefs("b_mod", mref(0, 0), mref(-1, 1)),
	}
	tables := mustResolve(t, defs)
	if len(tables["a_mod"])+len(tables["b_mod"]) != 0 {
		t.Errorf("sentinel IDs were remapped: %v %v", tables["a_mod"], tables["b_mod"])
	}
}

func TestResolveSequentialAllocations(t *testing.T) {
	defs := map[string]*modfile.ModDefinition{
		"a_mod": defWithRefs("a_mod", mref(150, 0), mref(151, 1)),
		"b_mod": defWithRefs("b_mod", mref(150, 0), mref(151, 1)),
	}
	tables := mustResolve(t, defs)
	one, _ := tables["b_mod"].Lookup(modfile.EntityMonster, 150)
	two, _ := tables["b_mod"].Lookup(modfile.EntityMonster, 151)
	if one != 3500 || two != 3501 {
		t.Errorf("got %d and %d, want 3500 and 3501", one, two)
	}
}

func TestResolveSkipsOccupiedSafeRange(t *testing.T) {
	// a_mod already sits on the floor of the safe range, so b_mod's
	// replacement has to go one past it.
	defs := map[string]*modfile.ModDefinition{
		"a_mod": defWithRefs("a_mod", mref(3500, 0), mref(150, 1)),
		"b_mod": defWithRefs("b_mod", mref(150, 0)),
	}
	tables := mustResolve(t, defs)
	got, _ := tables["b_mod"].Lookup(modfile.EntityMonster, 150)
	if got != 3501 {
		t.Errorf("got %d, want 3501", got)
	}
}

func TestResolveExhaustion(t *testing.T) {
	policy := resolve.DefaultPolicy()
	policy.Ranges[modfile.EntityMonster] = resolve.Range{Floor: 3500, Ceiling: 3500}

	defs := map[string]*modfile.ModDefinition{
		"a_mod": defWithRefs("a_mod", mref(150, 0)),
		"b_mod": defWithRefs("b_mod", mref(150, 0)),
		"c_mod": defWithRefs("c_mod", mref(150, 0)),
	}
	_, err := resolve.Resolve(defs, policy)
	var exhausted *diag.AllocationExhausted
	if !errors.As(err, &exhausted) {
		t.Fatalf("err = %v, want *diag.AllocationExhausted", err)
	}
	if exhausted.Type != modfile.EntityMonster || exhausted.Montag {
		t.Errorf("exhausted = %+v", exhausted)
	}
}

func TestResolveDeterministic(t *testing.T) {
	build := func() map[string]*modfile.ModDefinition {
		return map[string]*modfile.ModDefinition{
			"a_mod": defWithRefs("a_mod", mref(150, 0), mref(-1505, 1)),
			"b_mod": defWithRefs("b_mod", mref(150, 0), mref(-1505, 1)),
			"c_mod": defWithRefs("c_mod", mref(150, 0)),
		}
	}
	first := mustResolve(t, build())
	for i := 0; i < 5; i++ {
		again := mustResolve(t, build())
		for name, table := range first {
			if len(again[name]) != len(table) {
				t.Fatalf("run %d: table size changed for %s", i, name)
			}
			for k, v := range table {
				if again[name][k] != v {
					t.Fatalf("run %d: %s %v -> %d, was %d", i, name, k, again[name][k], v)
				}
			}
		}
	}
}

func TestOrder(t *testing.T) {
	defs := map[string]*modfile.ModDefinition{
		"c": nil, "a": nil, "b": nil,
	}
	got := resolve.Order(defs)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Order = %v, want %v", got, want)
		}
	}
}
