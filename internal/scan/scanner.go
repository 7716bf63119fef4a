// Package scan turns raw mod files into structured definitions. Parsing is
// line-oriented and single-pass; each file is independent, so the full set
// is parsed by concurrent tasks joined before resolution.
package scan

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"modmerge/internal/diag"
	"modmerge/internal/modfile"
	"modmerge/internal/pattern"
)

// SplitLines normalizes CRLF and splits a mod body into lines. A trailing
// newline does not produce a phantom empty line.
func SplitLines(content []byte) []string {
	s := strings.ReplaceAll(string(content), "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// Parse builds the structured view of one mod body: every recognized
// (type, ID, line) occurrence plus block regions, in source order.
// Format quirks (stray #end, unterminated blocks) are tolerated and
// reported through bag; an unreadable ID literal is fatal for the file.
func Parse(file *modfile.ModFile, bag *diag.Bag) (*modfile.ModDefinition, error) {
	def := &modfile.ModDefinition{
		Name:  file.Name,
		Lines: SplitLines(file.Content),
	}

	inDesc := false // внутри многострочного #description
	openBlock := -1 // line index of the open block start, -1 when idle

	for i, raw := range def.Lines {
		if inDesc {
			if pattern.QuoteToggles(raw) {
				inDesc = false
			}
			continue
		}
		ln := pattern.Classify(raw)
		if ln.Err != nil {
			return nil, &diag.ScanError{
				Mod: file.Name,
				Err: fmt.Errorf("line %d: bad id literal: %w", i, ln.Err),
			}
		}
		switch ln.Kind {
		case pattern.KindMetadata:
			switch ln.Meta {
			case pattern.MetaModName:
				if v := pattern.QuotedValue(raw); v != "" && def.DisplayName == "" {
					def.DisplayName = norm.NFC.String(v)
				}
			case pattern.MetaDescription:
				if pattern.QuoteToggles(raw) {
					inDesc = true
				}
			}
		case pattern.KindEntity:
			def.Refs = append(def.Refs, modfile.EntityRef{Type: ln.Type, ID: ln.ID, Line: uint32(i)})
		case pattern.KindBlockStart:
			if openBlock >= 0 {
				bag.Warnf(diag.WarnFormatQuirk, file.Name,
					"line %d: block opened at line %d never closed", i, openBlock)
				def.Blocks = append(def.Blocks, modfile.BlockRegion{Start: uint32(openBlock), End: uint32(openBlock)})
			}
			openBlock = i
			if ln.HasID {
				def.Refs = append(def.Refs, modfile.EntityRef{Type: ln.Type, ID: ln.ID, Line: uint32(i)})
			}
		case pattern.KindSubCommand:
			if openBlock < 0 {
				bag.Warnf(diag.WarnFormatQuirk, file.Name, "line %d: #damage outside a block", i)
			}
			def.Refs = append(def.Refs, modfile.EntityRef{Type: ln.Type, ID: ln.ID, Line: uint32(i)})
		case pattern.KindBlockEnd:
			if openBlock >= 0 {
				def.Blocks = append(def.Blocks, modfile.BlockRegion{Start: uint32(openBlock), End: uint32(i)})
				openBlock = -1
			}
			// stray #end is left to the writer's seam collapse
		}
	}

	if openBlock >= 0 {
		bag.Warnf(diag.WarnFormatQuirk, file.Name, "block opened at line %d never closed", openBlock)
		def.Blocks = append(def.Blocks, modfile.BlockRegion{Start: uint32(openBlock), End: uint32(openBlock)})
	}
	if inDesc {
		bag.Warnf(diag.WarnFormatQuirk, file.Name, "unterminated #description")
	}
	return def, nil
}
