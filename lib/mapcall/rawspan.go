package mapcall

import (
	"strings"
)

// spanTokens are the call names the raw-span scan recognizes, longest first
// so Mapper never claims the head of MapperString.
var spanTokens = []string{string(KindMapperString), string(KindMapper)}

// ExtractSpan returns the exact source text of the first recognized call at
// or after the 1-based fromLine. The scan is purely textual: find a call
// name immediately followed by "(", widen left over a package qualifier,
// then count parentheses until the opener closes. Counting is naive:
// parentheses inside string literals count too, so pathological string
// content can unbalance the scan; that yields nil and the call is skipped
// rather than rewritten wrongly.
func ExtractSpan(src string, fromLine int) *Span {
	start := lineOffset(src, fromLine)
	if start < 0 {
		return nil
	}

	tok := findToken(src, start)
	if tok < 0 {
		return nil
	}
	begin := widenQualifier(src, tok)

	depth := 0
	for i := tok; i < len(src); i++ {
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return &Span{
					Text:   src[begin : i+1],
					Indent: lineIndent(src, begin),
				}
			}
		}
	}
	return nil
}

// findToken scans forward from offset for the first call name immediately
// followed by "(" and not preceded by an identifier byte. At any position
// the longer name is tried first.
func findToken(src string, offset int) int {
	for i := offset; i < len(src); i++ {
		if i > 0 && isIdentByte(src[i-1]) {
			continue
		}
		for _, name := range spanTokens {
			end := i + len(name)
			if end >= len(src) || src[end] != '(' {
				continue
			}
			if src[i:end] == name {
				return i
			}
		}
	}
	return -1
}

// widenQualifier steps back over an immediately preceding "ident." so the
// span covers the callee exactly as written.
func widenQualifier(src string, tok int) int {
	if tok == 0 || src[tok-1] != '.' {
		return tok
	}
	dot := tok - 1
	j := dot
	for j > 0 && isIdentByte(src[j-1]) {
		j--
	}
	if j == dot {
		return tok
	}
	return j
}

// isIdentByte treats every byte that can appear inside a Go identifier as
// identifier-like; all non-ASCII bytes count, since identifiers may carry
// unicode letters.
func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		b >= 0x80
}

// lineOffset returns the byte offset of the 1-based line, or -1 past EOF.
func lineOffset(src string, line int) int {
	if line <= 1 {
		return 0
	}
	off := 0
	for n := 1; n < line; n++ {
		nl := strings.IndexByte(src[off:], '\n')
		if nl < 0 {
			return -1
		}
		off += nl + 1
	}
	return off
}

// lineIndent returns the leading whitespace of the line containing offset.
func lineIndent(src string, offset int) string {
	ls := strings.LastIndexByte(src[:offset], '\n') + 1
	le := ls
	for le < len(src) && (src[le] == ' ' || src[le] == '\t') {
		le++
	}
	return src[ls:le]
}
