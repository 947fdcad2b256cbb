package mapcall

import (
	"go/format"
	"sort"
	"strings"
)

// wrapWidth is the widest a single-line call may be, indent included;
// past it the map wraps one locale per line.
const wrapWidth = 100

// CallSpec is everything the formatter needs to render one replacement
// call.
type CallSpec struct {
	Name          string            // callee exactly as it should appear, e.g. "gettextmap.Mapper"
	Translations  map[string]string // must be non-empty
	Hint          []string          // locales to emit first, in this order; the rest sort ascending
	Domain        *string           // emitted only when set and different from DefaultDomain
	MsgID         *string           // emitted whenever set
	DefaultDomain string
	Indent        string // original indent, counted against the wrap width but not emitted
}

// Formatter renders recognized calls back to source text. Candidates go
// through gofmt for canonical spacing; a failing gofmt falls back to the
// unformatted candidate rather than losing the rewrite.
type Formatter struct {
	// Gofmt formats a rendered candidate; nil means go/format.Source.
	Gofmt func([]byte) ([]byte, error)
}

// Call renders a full replacement call. The first line carries no
// indentation (the splice point keeps the original line prefix);
// continuation lines are indented from column zero and re-prefixed by the
// caller.
func (f *Formatter) Call(c CallSpec) string {
	locales := orderedLocales(c.Translations, c.Hint)

	var opt string
	if o := optionsLiteral(c); o != "" {
		opt = ", " + o
	}

	flat := c.Name + "(" + mapLiteralFlat(c.Translations, locales) + opt + ")"
	if len(c.Indent)+len(flat) <= wrapWidth {
		return f.gofmt(flat)
	}

	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString("(map[string]string{\n")
	for _, loc := range locales {
		b.WriteString("\t")
		writePair(&b, loc, c.Translations[loc])
		b.WriteString(",\n")
	}
	b.WriteString("}")
	b.WriteString(opt)
	b.WriteString(")")
	return f.gofmt(b.String())
}

// Map renders just the map[string]string literal, for printing computed
// translation maps.
func (f *Formatter) Map(translations map[string]string, hint []string) string {
	locales := orderedLocales(translations, hint)

	flat := mapLiteralFlat(translations, locales)
	if len(flat) <= wrapWidth {
		return flat
	}

	var b strings.Builder
	b.WriteString("map[string]string{\n")
	for _, loc := range locales {
		b.WriteString("\t")
		writePair(&b, loc, translations[loc])
		b.WriteString(",\n")
	}
	b.WriteString("}")
	return b.String()
}

func (f *Formatter) gofmt(candidate string) string {
	gofmt := f.Gofmt
	if gofmt == nil {
		gofmt = format.Source
	}
	out, err := gofmt([]byte(candidate))
	if err != nil {
		log.Debugf("gofmt failed, keeping unformatted call: %s", err)
		return candidate
	}
	return strings.TrimRight(string(out), "\n")
}

func mapLiteralFlat(translations map[string]string, locales []string) string {
	var b strings.Builder
	b.WriteString("map[string]string{")
	for i, loc := range locales {
		if i > 0 {
			b.WriteString(", ")
		}
		writePair(&b, loc, translations[loc])
	}
	b.WriteString("}")
	return b.String()
}

func writePair(b *strings.Builder, locale, value string) {
	b.WriteString(`"`)
	b.WriteString(escape(locale))
	b.WriteString(`": "`)
	b.WriteString(escape(value))
	b.WriteString(`"`)
}

// optionsLiteral renders the Options argument, empty when there is nothing
// to emit. An inherited or default domain never materializes in source; the
// Options type carries the same qualifier as the callee.
func optionsLiteral(c CallSpec) string {
	var fields []string
	if c.Domain != nil && *c.Domain != "" && *c.Domain != c.DefaultDomain {
		fields = append(fields, optionDomain+`: "`+escape(*c.Domain)+`"`)
	}
	if c.MsgID != nil && *c.MsgID != "" {
		fields = append(fields, optionMsgID+`: "`+escape(*c.MsgID)+`"`)
	}
	if len(fields) == 0 {
		return ""
	}
	return optionsType(c.Name) + "{" + strings.Join(fields, ", ") + "}"
}

func optionsType(callee string) string {
	if i := strings.LastIndexByte(callee, '.'); i >= 0 {
		return callee[:i+1] + optionsName
	}
	return optionsName
}

// orderedLocales returns the map's locales, hinted ones first in hint
// order, the rest ascending.
func orderedLocales(translations map[string]string, hint []string) []string {
	out := make([]string, 0, len(translations))
	seen := make(map[string]struct{}, len(translations))
	for _, loc := range hint {
		if _, ok := translations[loc]; !ok {
			continue
		}
		if _, dup := seen[loc]; dup {
			continue
		}
		out = append(out, loc)
		seen[loc] = struct{}{}
	}
	rest := make([]string, 0, len(translations)-len(out))
	for loc := range translations {
		if _, ok := seen[loc]; !ok {
			rest = append(rest, loc)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// escape makes a string safe inside a double-quoted Go literal: backslashes
// first, then double quotes, newlines and tabs. The same four escapes the
// catalog files use; everything else, UTF-8 included, passes through
// verbatim.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return strings.ReplaceAll(s, "\t", `\t`)
}
