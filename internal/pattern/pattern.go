// Package pattern classifies raw mod-script lines into a closed set of
// line kinds and extracts the numeric entity ID where one is present.
// Classification is stateless; tracking block/description state across
// lines belongs to the writer.
package pattern

import (
	"regexp"
	"strconv"
	"strings"

	"modmerge/internal/modfile"
)

// LineKind tags the lexical shape of one line.
type LineKind uint8

const (
	// KindBlank is a line containing only whitespace.
	KindBlank LineKind = iota
	// KindComment is a line whose first two non-space characters are "--".
	KindComment
	// KindMetadata is a mod header field (#modname, #description, #icon, #version, #domversion).
	KindMetadata
	// KindEntity is an entity header carrying an inline numeric ID (#newmonster 150, ...).
	KindEntity
	// KindBlockStart opens a spell block (#newspell / #selectspell).
	KindBlockStart
	// KindSubCommand is an ID-bearing command valid inside a block (#damage N).
	KindSubCommand
	// KindBlockEnd closes the innermost open block (#end).
	KindBlockEnd
	// KindPlain is any other line; passed through untouched.
	KindPlain
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindMetadata:
		return "metadata"
	case KindEntity:
		return "entity"
	case KindBlockStart:
		return "block-start"
	case KindSubCommand:
		return "sub-command"
	case KindBlockEnd:
		return "block-end"
	case KindPlain:
		return "plain"
	}
	return "unknown"
}

// MetaField identifies which header field a metadata line declares.
type MetaField uint8

const (
	MetaModName MetaField = iota
	MetaDescription
	MetaIcon
	MetaVersion
	MetaDomVersion
)

// Line is the classification result for one raw line. For ID-bearing kinds
// the ID token's byte span is kept so substitution touches nothing else.
type Line struct {
	Kind  LineKind
	Type  modfile.EntityType
	Meta  MetaField
	ID    int32
	HasID bool
	Err   error // set when a numeric token is present but does not fit int32

	idLo, idHi int // byte offsets of the ID token in the raw line
}

// Фиксированные лексические формы формата; менять их — ломать совместимость.
var (
	commentRE    = regexp.MustCompile(`^\s*--`)
	metaRE       = regexp.MustCompile(`^\s*#(modname|description|icon|version|domversion)\b`)
	entityRE     = regexp.MustCompile(`^\s*#(?:new|select)(monster|weapon|armor|item|site|nation)\s+(-?\d+)`)
	blockStartRE = regexp.MustCompile(`^\s*#(?:new|select)spell\b(?:\s+(-?\d+))?`)
	subCmdRE     = regexp.MustCompile(`^\s*#damage\s+(-?\d+)`)
	blockEndRE   = regexp.MustCompile(`^\s*#end\b`)
	quotedRE     = regexp.MustCompile(`"([^"]*)"`)
)

var entityTypeByName = map[string]modfile.EntityType{
	"monster": modfile.EntityMonster,
	"weapon":  modfile.EntityWeapon,
	"armor":   modfile.EntityArmor,
	"item":    modfile.EntityItem,
	"site":    modfile.EntitySite,
	"nation":  modfile.EntityNation,
}

var metaFieldByName = map[string]MetaField{
	"modname":     MetaModName,
	"description": MetaDescription,
	"icon":        MetaIcon,
	"version":     MetaVersion,
	"domversion":  MetaDomVersion,
}

// Classify tags one raw line. It never fails: a malformed numeric token is
// reported through Line.Err so the scanner can decide whether it is fatal.
func Classify(raw string) Line {
	if strings.TrimSpace(raw) == "" {
		return Line{Kind: KindBlank}
	}
	if commentRE.MatchString(raw) {
		return Line{Kind: KindComment}
	}
	if m := metaRE.FindStringSubmatch(raw); m != nil {
		return Line{Kind: KindMetadata, Meta: metaFieldByName[m[1]]}
	}
	if blockEndRE.MatchString(raw) {
		return Line{Kind: KindBlockEnd}
	}
	if idx := blockStartRE.FindStringSubmatchIndex(raw); idx != nil {
		ln := Line{Kind: KindBlockStart, Type: modfile.EntitySpell}
		if idx[2] >= 0 { // optional numeric selector
			ln.fillID(raw, idx[2], idx[3])
		}
		return ln
	}
	if idx := subCmdRE.FindStringSubmatchIndex(raw); idx != nil {
		ln := Line{Kind: KindSubCommand, Type: modfile.EntityMonster}
		ln.fillID(raw, idx[2], idx[3])
		return ln
	}
	if idx := entityRE.FindStringSubmatchIndex(raw); idx != nil {
		name := raw[idx[2]:idx[3]]
		ln := Line{Kind: KindEntity, Type: entityTypeByName[name]}
		ln.fillID(raw, idx[4], idx[5])
		return ln
	}
	return Line{Kind: KindPlain}
}

func (l *Line) fillID(raw string, lo, hi int) {
	n, err := strconv.ParseInt(raw[lo:hi], 10, 32)
	if err != nil {
		l.Err = err
		return
	}
	l.ID = int32(n)
	l.HasID = true
	l.idLo, l.idHi = lo, hi
}

// ReplaceID returns raw with the recognized ID token substituted by newID.
// Collateral text (names, comments, unrelated numbers) is never touched.
// Calling it on a line without an ID returns raw unchanged.
func (l Line) ReplaceID(raw string, newID int32) string {
	if !l.HasID {
		return raw
	}
	return raw[:l.idLo] + strconv.FormatInt(int64(newID), 10) + raw[l.idHi:]
}

// QuoteToggles reports whether the line flips the "inside quoted text"
// state: true when it contains an odd number of quote characters.
func QuoteToggles(raw string) bool {
	return strings.Count(raw, `"`)%2 == 1
}

// QuotedValue extracts the first fully quoted value on the line, e.g. the
// name from `#modname "Better Dragons"`. Returns "" when none is closed on
// the same line.
func QuotedValue(raw string) string {
	m := quotedRE.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}
