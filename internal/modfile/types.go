package modfile

// EntityType enumerates the ID-addressable kinds a mod script can declare.
type EntityType uint8

const (
	EntityMonster EntityType = iota
	EntityWeapon
	EntityArmor
	EntityItem
	EntitySite
	EntityNation
	EntitySpell
)

func (t EntityType) String() string {
	switch t {
	case EntityMonster:
		return "monster"
	case EntityWeapon:
		return "weapon"
	case EntityArmor:
		return "armor"
	case EntityItem:
		return "item"
	case EntitySite:
		return "site"
	case EntityNation:
		return "nation"
	case EntitySpell:
		return "spell"
	}
	return "unknown"
}

// EntityTypes lists every known type in a fixed order (для детерминированных отчётов).
var EntityTypes = []EntityType{
	EntityMonster, EntityWeapon, EntityArmor,
	EntityItem, EntitySite, EntityNation, EntitySpell,
}

// DescribeID names an ID for human-readable output. A negative monster ID
// addresses a montag (a restricted sub-kind sharing the monster slot space).
func DescribeID(t EntityType, id int32) string {
	if t == EntityMonster && id < 0 {
		return "montag"
	}
	return t.String()
}

// ModFile is the immutable raw input for one mod: its name, where it came
// from, and the full script text. Created once at discovery, never mutated.
type ModFile struct {
	Name    string // map key, unique within a run
	Path    string // source location (диагностика)
	Content []byte
}

// EntityRef is one recognized ID occurrence inside a mod body.
type EntityRef struct {
	Type EntityType
	ID   int32
	Line uint32 // 0-based line index in the mod body
}

// BlockRegion marks a multi-line spell block by its bounding line indexes.
// End points at the #end line; End == Start means the block never closed.
type BlockRegion struct {
	Start uint32
	End   uint32
}

// ModDefinition is the parsed, read-only view of one ModFile: its body split
// into lines plus every recognized entity reference and block region in
// source order.
type ModDefinition struct {
	Name        string
	DisplayName string // from #modname, NFC-normalized; falls back to Name
	Lines       []string
	Refs        []EntityRef
	Blocks      []BlockRegion
}

// Title returns the name to show in banners and reports.
func (d *ModDefinition) Title() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}

// RefsOf returns the definition's references of one type, in source order.
func (d *ModDefinition) RefsOf(t EntityType) []EntityRef {
	var out []EntityRef
	for _, r := range d.Refs {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}
