package emit

import (
	"modmerge/internal/modfile"
	"modmerge/internal/pattern"
)

// Block is the writer's InBlock state, threaded explicitly through the
// scan loop so line sequences can be unit-tested directly. Idle is the
// zero value; Open moves to InBlock; the matching #end discards it.
type Block struct {
	open  bool
	start int // line index of the block header
}

// Open enters the InBlock state at header line i.
func (b *Block) Open(i int) {
	b.open = true
	b.start = i
}

// Opened reports whether a block is currently open.
func (b *Block) Opened() bool { return b.open }

// Feed processes one line inside the open block. Sub-command lines with a
// mapped ID come back as annotation + rewritten line; everything else
// passes through verbatim. closed is true once the end marker is seen,
// at which point the block state is discarded.
func (b *Block) Feed(raw string, ln pattern.Line, m *modfile.MappedMod) (lines []string, closed bool) {
	if ln.Kind == pattern.KindBlockEnd {
		b.open = false
		return []string{raw}, true
	}
	// Sub-commands are the usual case; any other ID-bearing line inside an
	// unterminated block still honors the remap table so no occurrence of a
	// remapped entity escapes rewriting.
	out, comment, rewrote := ProcessEntity(raw, ln, m)
	if rewrote {
		return []string{comment, out}, false
	}
	return []string{raw}, false
}
