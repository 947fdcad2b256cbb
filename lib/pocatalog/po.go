package pocatalog

import (
	"strings"
)

// entry is one msgid block of a PO file, with the line range its msgstr
// occupies so upserts can splice the value without touching anything else.
// The catalog header is the entry with an empty msgid.
type entry struct {
	msgid      string
	msgstr     string
	msgstrLine int // index of the "msgstr ..." line, -1 when absent
	msgstrEnd  int // index just past the last msgstr continuation line
}

// scanEntries walks PO lines with a small state machine: msgid/msgstr lines
// start a value, bare quoted lines continue it, comments and blank lines end
// it. Plural and context entries (msgid_plural, msgctxt, msgstr[n]) don't
// match the flat prefixes and are left invisible, which keeps them safely
// untouched by upserts.
func scanEntries(lines []string) []entry {
	const (
		stNone = iota
		stMsgid
		stMsgstr
	)

	var entries []entry
	var cur entry
	open := false
	st := stNone

	flush := func() {
		if open {
			entries = append(entries, cur)
		}
		open = false
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "msgid "):
			flush()
			cur = entry{msgid: poString(trimmed[len("msgid "):]), msgstrLine: -1}
			open = true
			st = stMsgid
		case strings.HasPrefix(trimmed, "msgstr "):
			if !open {
				st = stNone
				continue
			}
			cur.msgstr = poString(trimmed[len("msgstr "):])
			cur.msgstrLine = i
			cur.msgstrEnd = i + 1
			st = stMsgstr
		case strings.HasPrefix(trimmed, `"`):
			switch st {
			case stMsgid:
				cur.msgid += poString(trimmed)
			case stMsgstr:
				cur.msgstr += poString(trimmed)
				cur.msgstrEnd = i + 1
			}
		default:
			st = stNone
		}
	}
	flush()

	return entries
}

// poString strips the surrounding quotes of one PO segment and unescapes
// its body.
func poString(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return unescapePO(s)
}

// escapePO makes a string safe inside one quoted PO segment.
func escapePO(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}

// unescapePO reverses escapePO in a single pass; unknown escapes pass
// through verbatim.
func unescapePO(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// upsertEntry replaces the msgstr of the matching entry in place, or
// appends a fresh block at the end. changed is false when the stored value
// already equals msgstr, so callers can skip the write entirely.
func upsertEntry(content, msgid, msgstr string) (string, bool) {
	lines := strings.Split(content, "\n")
	for _, e := range scanEntries(lines) {
		if e.msgid != msgid || e.msgid == "" {
			continue
		}
		if e.msgstr == msgstr && e.msgstrLine >= 0 {
			return content, false
		}
		if e.msgstrLine < 0 {
			continue
		}
		out := make([]string, 0, len(lines))
		out = append(out, lines[:e.msgstrLine]...)
		out = append(out, `msgstr "`+escapePO(msgstr)+`"`)
		out = append(out, lines[e.msgstrEnd:]...)
		return strings.Join(out, "\n"), true
	}

	return appendBlock(content, msgid, msgstr), true
}

// appendBlock adds a new msgid/msgstr block, separated from the previous
// content by one blank line and ending in a newline.
func appendBlock(content, msgid, msgstr string) string {
	out := strings.TrimRight(content, "\n")
	if out != "" {
		out += "\n"
	}
	return out + "\nmsgid \"" + escapePO(msgid) + "\"\nmsgstr \"" + escapePO(msgstr) + "\"\n"
}
