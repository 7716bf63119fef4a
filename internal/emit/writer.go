package emit

import (
	"fmt"

	"modmerge/internal/diag"
	"modmerge/internal/modfile"
	"modmerge/internal/pattern"
)

// LineWriter is the generic "write one line" capability supplied by the
// caller; the writer never opens files itself.
type LineWriter interface {
	WriteLine(s string) error
}

// SinkFunc adapts a plain function to LineWriter.
type SinkFunc func(string) error

func (f SinkFunc) WriteLine(s string) error { return f(s) }

// BeginBanner and EndBanner wrap each mod's body in the merged stream.
func BeginBanner(name string) string { return fmt.Sprintf("-- === begin %s ===", name) }

func EndBanner(name string) string { return fmt.Sprintf("-- === end %s ===", name) }

// WriteMerged emits every mod's rewritten body, in the order given, which
// must be the same fixed order the resolver used. Fail-fast: any error
// aborts the stream, partial output is not a valid merge.
func WriteMerged(sink LineWriter, mods []*modfile.MappedMod, bag *diag.Bag) error {
	for _, m := range mods {
		if err := WriteMod(sink, m, bag); err != nil {
			return err
		}
	}
	return nil
}

// WriteMod replays one mod: a single forward scan over its raw lines with
// the description/block state threaded through, then a seam post-pass,
// wrapped in begin/end banners.
func WriteMod(sink LineWriter, m *modfile.MappedMod, bag *diag.Bag) error {
	body, err := renderBody(m, bag)
	if err != nil {
		return err
	}
	body = collapseDuplicateEnds(body)

	name := m.Def.Title()
	if err := sink.WriteLine(BeginBanner(name)); err != nil {
		return fmt.Errorf("write banner for %s: %w", m.Def.Name, err)
	}
	for _, s := range body {
		if err := sink.WriteLine(s); err != nil {
			return fmt.Errorf("write body of %s: %w", m.Def.Name, err)
		}
	}
	if err := sink.WriteLine(EndBanner(name)); err != nil {
		return fmt.Errorf("write banner for %s: %w", m.Def.Name, err)
	}
	return nil
}

func renderBody(m *modfile.MappedMod, bag *diag.Bag) ([]string, error) {
	out := make([]string, 0, len(m.Def.Lines))

	inDesc := false // внутри многострочного #description
	emitted := false
	skipped := 0
	var block Block

	for i, raw := range m.Def.Lines {
		if inDesc {
			if pattern.QuoteToggles(raw) {
				inDesc = false
			}
			skipped++
			continue
		}
		ln := pattern.Classify(raw)
		if ln.Err != nil {
			return nil, &diag.ContentError{Mod: m.Def.Name, Line: i, Err: fmt.Errorf("bad id literal: %w", ln.Err)}
		}

		switch ln.Kind {
		case pattern.KindBlank:
			if !emitted {
				skipped++ // leading blank before any content
				continue
			}
			out = append(out, raw)
		case pattern.KindMetadata:
			if ln.Meta == pattern.MetaDescription && pattern.QuoteToggles(raw) {
				inDesc = true
			}
			skipped++
		case pattern.KindBlockStart:
			// The header itself may carry a remappable spell ID.
			line, comment, rewrote := ProcessEntity(raw, ln, m)
			if rewrote {
				out = append(out, comment)
			}
			out = append(out, line)
			block.Open(i)
			emitted = true
		default:
			if block.Opened() {
				lines, _ := block.Feed(raw, ln, m)
				out = append(out, lines...)
				emitted = true
				continue
			}
			line, comment, rewrote := ProcessEntity(raw, ln, m)
			if rewrote {
				out = append(out, comment)
			}
			out = append(out, line)
			emitted = true
		}
	}

	if skipped > 0 {
		bag.Warnf(diag.WarnSkippedLine, m.Def.Name, "skipped %d header/blank line(s)", skipped)
	}
	return out, nil
}

// collapseDuplicateEnds drops consecutive duplicate block-end markers that
// merge boundary seams introduce, keeping the first. Comment lines never
// break a seam and are always retained verbatim, as is every non-end line.
func collapseDuplicateEnds(lines []string) []string {
	out := make([]string, 0, len(lines))
	prevEnd := false
	for _, s := range lines {
		ln := pattern.Classify(s)
		switch ln.Kind {
		case pattern.KindComment:
			out = append(out, s)
		case pattern.KindBlockEnd:
			if prevEnd {
				continue
			}
			prevEnd = true
			out = append(out, s)
		default:
			prevEnd = false
			out = append(out, s)
		}
	}
	return out
}
