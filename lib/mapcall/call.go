// Package mapcall recognizes, extracts and re-renders the two gettextmap
// call shapes in Go source: Mapper (map form) and MapperString (string
// form). Matching is syntactic only; nothing is type-checked or evaluated.
package mapcall

import (
	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("mapcall")

// Kind identifies which of the two recognized calls a record came from.
type Kind string

const (
	KindMapper       Kind = "Mapper"
	KindMapperString Kind = "MapperString"
)

const (
	useName     = "Use"
	optionsName = "Options"

	optionDomain = "Domain"
	optionMsgID  = "MsgID"
)

// Span is the exact source text of one recognized call. Text starts at the
// callee (qualifier included, when written) and runs through the call's
// closing parenthesis. Indent is the leading whitespace of the line the call
// starts on; replacement text gets its continuation lines re-prefixed with
// it so the original indentation survives rewrites.
type Span struct {
	Text   string
	Indent string
}

// Record is one recognized call site.
type Record struct {
	Macro        Kind
	Qualifier    string // package qualifier as written, "" when dot-imported
	Translations map[string]string
	LocaleOrder  []string // key order as written in the literal
	Domain       *string  // call-level Options.Domain; nil means inherited
	MsgID        *string  // call-level Options.MsgID
	File         string
	Line         int   // 1-based
	Offset       int   // byte offset of the callee, qualifier included
	RawSpan      *Span // nil when span extraction failed; such calls are skipped
}

// CallName returns the callee exactly as written at the call site.
func (r *Record) CallName() string {
	if r.Qualifier == "" {
		return string(r.Macro)
	}
	return r.Qualifier + "." + string(r.Macro)
}

// EffectiveMsgID resolves the catalog lookup key for the record: the
// explicit MsgID when present, else the default-locale text, else the "en"
// text. ok is false when nothing resolves; such calls are skipped with a
// warning by the engines.
func (r *Record) EffectiveMsgID(defaultLocale string) (string, bool) {
	if r.MsgID != nil && *r.MsgID != "" {
		return *r.MsgID, true
	}
	if s, ok := r.Translations[defaultLocale]; ok && s != "" {
		return s, true
	}
	if s, ok := r.Translations["en"]; ok && s != "" {
		return s, true
	}
	return "", false
}

// File is everything the parser found in one source file.
type File struct {
	Domain  *string  // file-level Use(Options{Domain: ...}); nil when absent
	Records []Record // recognized calls in source order
}
