// Package sqlcore wires the scanner, parser, analyzer, catalog, and
// cursor packages into the Script lifecycle: a single mutable text buffer
// moving through Scan -> Parse -> Analyze -> Reindex, with an edit at any
// point invalidating the stages downstream of it.
package sqlcore

import (
	"github.com/sqlstudio/sqlcore/internal/analyzer"
	"github.com/sqlstudio/sqlcore/internal/catalog"
	"github.com/sqlstudio/sqlcore/internal/cursor"
	"github.com/sqlstudio/sqlcore/internal/parser"
	"github.com/sqlstudio/sqlcore/internal/rope"
	"github.com/sqlstudio/sqlcore/internal/scanner"
	"github.com/sqlstudio/sqlcore/ffi"
)

// Script is a single editable SQL document moving through the
// Scan/Parse/Analyze/Reindex pipeline, identified by a non-zero context
// id unique within its Catalog.
type Script struct {
	contextID uint32
	catalog   *catalog.Catalog
	text      *rope.Rope

	scanned  *scanner.ScannedScript
	parsed   *parser.ParsedScript
	analyzed *analyzer.AnalyzedScript

	cursorPos    cursor.Position
	completionEn *cursor.Engine
}

// NewScript constructs a Script bound to cat (which may be nil for a
// standalone script with no external-table resolution) under contextID.
// contextID must be non-zero.
func NewScript(contextID uint32, cat *catalog.Catalog, text string) (*Script, ffi.Status) {
	if contextID == 0 {
		return nil, ffi.ContextIDZero
	}
	if cat != nil {
		if _, exists := cat.Get(contextID); exists {
			return nil, ffi.ContextIDDuplicate
		}
	}
	return &Script{
		contextID:    contextID,
		catalog:      cat,
		text:         rope.NewRope(text),
		completionEn: cursor.NewEngine(),
	}, ffi.OK
}

// InsertTextAt inserts text at offset (byte offset, snapped left to a
// code-point boundary by the rope), invalidating every downstream stage.
func (s *Script) InsertTextAt(offset int, text string) {
	s.text.InsertAt(offset, text)
	s.invalidate()
}

// EraseTextAt erases length bytes starting at offset (clamped and
// code-point aligned by the rope), invalidating every downstream stage.
func (s *Script) EraseTextAt(offset, length int) {
	s.text.EraseAt(offset, length)
	s.invalidate()
}

func (s *Script) invalidate() {
	s.scanned = nil
	s.parsed = nil
	s.analyzed = nil
	s.cursorPos = cursor.Position{TokenID: -1, StatementID: -1}
}

// Scan runs the scanner over the current buffer contents.
func (s *Script) Scan() ffi.ResultBuffer {
	scanned, err := scanner.ScanRope(s.text)
	if err != nil {
		return ffi.Err(ffi.ScannerInputInvalid, nil)
	}
	s.scanned = scanned
	s.parsed = nil
	s.analyzed = nil
	return ffi.Ok(nil)
}

// Parse runs the parser over the current scan. Requires a prior
// successful Scan.
func (s *Script) Parse() ffi.ResultBuffer {
	if s.scanned == nil {
		return ffi.Err(ffi.ParserInputNotScanned, nil)
	}
	parsed := parser.Parse(s.scanned)
	s.parsed = parsed
	s.analyzed = nil
	if len(parsed.Errors) > 0 {
		return ffi.ResultBuffer{Status: ffi.OK, Errors: parsed.Errors}
	}
	return ffi.Ok(nil)
}

// AnalyzeOptions configures an Analyze call: Database/Schema supply the
// script-level defaults used to resolve qualified table references, and
// External names another context id in the shared catalog whose declared
// tables should be visible as external tables.
type AnalyzeOptions struct {
	Database string
	Schema   string
	External *uint32
}

// Analyze runs name resolution over the current parse, optionally
// registering another catalog entry's tables as external declarations.
// Requires a prior successful Parse.
func (s *Script) Analyze(opts AnalyzeOptions) ffi.ResultBuffer {
	if s.parsed == nil {
		return ffi.Err(ffi.AnalyzerInputNotParsed, nil)
	}
	b := analyzer.New(analyzer.Options{
		ContextID: s.contextID,
		Database:  opts.Database,
		Schema:    opts.Schema,
	})
	if opts.External != nil {
		if s.catalog == nil {
			return ffi.Err(ffi.CatalogDescriptorPoolUnknown, nil)
		}
		ext, ok := s.catalog.Get(*opts.External)
		if !ok {
			return ffi.Err(ffi.CatalogDescriptorPoolUnknown, nil)
		}
		b.RegisterExternalTables(ext)
	}
	if s.catalog != nil {
		// Every other script registered in the shared catalog participates
		// in resolution.
		s.catalog.RegisterInto(b, s.contextID)
	}
	result, err := b.Analyze(s.parsed)
	if err != nil {
		return ffi.Err(ffi.AnalyzerInputInvalid, nil)
	}
	s.analyzed = result
	if len(result.Errors) > 0 {
		return ffi.ResultBuffer{Status: ffi.OK, Errors: result.Errors}
	}
	return ffi.Ok(nil)
}

// Reindex registers the current analysis with the script's catalog,
// replacing any prior entry for this context id atomically.
func (s *Script) Reindex() ffi.ResultBuffer {
	if s.analyzed == nil {
		return ffi.Err(ffi.AnalyzerInputNotParsed, nil)
	}
	if s.catalog != nil {
		s.catalog.AddScript(s.analyzed)
	}
	return ffi.Ok(nil)
}

// MoveCursor updates the script's cursor state for offset. Requires a
// prior successful Analyze so completion has scope information to draw
// on.
func (s *Script) MoveCursor(offset int) ffi.ResultBuffer {
	if s.parsed == nil || s.analyzed == nil {
		return ffi.Err(ffi.AnalyzerInputNotParsed, nil)
	}
	s.cursorPos = cursor.Move(s.parsed, offset)
	return ffi.Ok(nil)
}

// CompleteAtCursor returns up to limit ranked completions for the token
// at the current cursor position.
func (s *Script) CompleteAtCursor(typed string, limit int) []cursor.Completion {
	if s.parsed == nil {
		return nil
	}
	return s.completionEn.Complete(s.parsed, s.analyzed, s.cursorPos, typed, limit)
}

// Delete removes this script's entry from its catalog, if any.
func (s *Script) Delete() {
	if s.catalog != nil {
		s.catalog.DropScript(s.contextID)
	}
}

// Analyzed returns the script's current analysis result, or nil if
// Analyze has not run since the last edit.
func (s *Script) Analyzed() *analyzer.AnalyzedScript { return s.analyzed }

// Parsed returns the script's current parse result, or nil if Parse has
// not run since the last edit.
func (s *Script) Parsed() *parser.ParsedScript { return s.parsed }

// Scanned returns the script's current scan result, or nil if Scan has
// not run since the last edit. Callers drive syntax highlighting off its
// Pack output.
func (s *Script) Scanned() *scanner.ScannedScript { return s.scanned }

// ContextID returns the script's catalog identity.
func (s *Script) ContextID() uint32 { return s.contextID }

// Text returns the current buffer contents.
func (s *Script) Text() string { return s.text.String() }
