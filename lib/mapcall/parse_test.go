package mapcall

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestParseMapForm(t *testing.T) {
	src := `package x

import "github.com/gettextmap/gettextmap"

var labels = gettextmap.Mapper(map[string]string{
	"de": "Hallo",
	"en": "Hello",
})
`
	res := Parse("test.go", []byte(src))
	require.Nil(t, res.Domain)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	require.Equal(t, KindMapper, rec.Macro)
	require.Equal(t, "gettextmap", rec.Qualifier)
	require.Equal(t, "gettextmap.Mapper", rec.CallName())
	require.Equal(t, map[string]string{"de": "Hallo", "en": "Hello"}, rec.Translations)
	require.Equal(t, []string{"de", "en"}, rec.LocaleOrder)
	require.Nil(t, rec.Domain)
	require.Nil(t, rec.MsgID)
	require.Equal(t, "test.go", rec.File)
	require.Equal(t, 5, rec.Line)

	require.NotNil(t, rec.RawSpan)
	require.Equal(t, "gettextmap.Mapper(map[string]string{\n\t\"de\": \"Hallo\",\n\t\"en\": \"Hello\",\n})", rec.RawSpan.Text)
	require.Equal(t, "", rec.RawSpan.Indent)
	require.Equal(t, rec.RawSpan.Text, src[rec.Offset:rec.Offset+len(rec.RawSpan.Text)], "span sits at the record's offset")
}

func TestParseStringFormWithAlias(t *testing.T) {
	src := `package x

import gm "github.com/gettextmap/gettextmap"

func title() string {
	return gm.MapperString(map[string]string{"en": "Welcome"}, gm.Options{Domain: "checkout", MsgID: "title.welcome"})
}
`
	res := Parse("test.go", []byte(src))
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	require.Equal(t, KindMapperString, rec.Macro)
	require.Equal(t, "gm", rec.Qualifier)
	require.Equal(t, "gm.MapperString", rec.CallName())
	require.Equal(t, map[string]string{"en": "Welcome"}, rec.Translations)
	require.Equal(t, strp("checkout"), rec.Domain)
	require.Equal(t, strp("title.welcome"), rec.MsgID)
	require.Equal(t, 6, rec.Line)
	require.NotNil(t, rec.RawSpan)
	require.Equal(t, "\t", rec.RawSpan.Indent)
}

func TestParseDotImport(t *testing.T) {
	src := `package x

import . "github.com/gettextmap/gettextmap"

var m = Mapper(map[string]string{"en": "Hello"})
`
	res := Parse("test.go", []byte(src))
	require.Len(t, res.Records, 1)
	require.Equal(t, "", res.Records[0].Qualifier)
	require.Equal(t, "Mapper", res.Records[0].CallName())
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{
			name: "call in line comment",
			src: `package x

// gettextmap.Mapper(map[string]string{"en": "Hello"})
var _ = 1
`,
		},
		{
			name: "call in block comment",
			src: `package x

/*
gettextmap.MapperString(map[string]string{"en": "Hello"})
*/
var _ = 1
`,
		},
		{
			name: "call text inside string literal",
			src: `package x

var s = "gettextmap.Mapper(map[string]string{\"en\": \"x\"})"
`,
		},
		{
			name: "first argument is a variable",
			src: `package x

var m = map[string]string{"en": "Hello"}
var _ = gettextmap.Mapper(m)
`,
		},
		{
			name: "wrong map type",
			src: `package x

var _ = gettextmap.Mapper(map[string]int{"en": 1})
`,
		},
		{
			name: "no literal pairs survive",
			src: `package x

var _ = gettextmap.Mapper(map[string]string{"en": fmt.Sprintf("hi %s", name)})
`,
		},
		{
			name: "chained selector callee",
			src: `package x

var _ = a.b.Mapper(map[string]string{"en": "Hello"})
`,
		},
		{
			name: "similar name",
			src: `package x

var _ = gettextmap.MapperStrings(map[string]string{"en": "Hello"})
`,
		},
		{
			name: "no arguments",
			src: `package x

var _ = gettextmap.Mapper()
`,
		},
		{
			name: "unparseable source",
			src:  "package x\n\nfunc (broken {\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Parse("test.go", []byte(tc.src))
			require.Empty(t, res.Records)
		})
	}
}

func TestParseOptions(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		domain *string
		msgid  *string
	}{
		{
			name: "domain only",
			src: `package x

var _ = gettextmap.Mapper(map[string]string{"en": "Hi"}, gettextmap.Options{Domain: "emails"})
`,
			domain: strp("emails"),
		},
		{
			name: "msgid only",
			src: `package x

var _ = gettextmap.Mapper(map[string]string{"en": "Hi"}, gettextmap.Options{MsgID: "greeting.hi"})
`,
			msgid: strp("greeting.hi"),
		},
		{
			name: "unknown fields ignored",
			src: `package x

var _ = gettextmap.Mapper(map[string]string{"en": "Hi"}, gettextmap.Options{Domain: "emails", Comment: "x"})
`,
			domain: strp("emails"),
		},
		{
			name: "non-literal domain ignored",
			src: `package x

var _ = gettextmap.Mapper(map[string]string{"en": "Hi"}, gettextmap.Options{Domain: someVar})
`,
		},
		{
			name: "only first options literal counts",
			src: `package x

var _ = gettextmap.Mapper(map[string]string{"en": "Hi"}, gettextmap.Options{Domain: "a"}, gettextmap.Options{Domain: "b"})
`,
			domain: strp("a"),
		},
		{
			name: "bare options with dot import",
			src: `package x

var _ = Mapper(map[string]string{"en": "Hi"}, Options{Domain: "emails"})
`,
			domain: strp("emails"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Parse("test.go", []byte(tc.src))
			require.Len(t, res.Records, 1)
			require.Equal(t, tc.domain, res.Records[0].Domain)
			require.Equal(t, tc.msgid, res.Records[0].MsgID)
		})
	}
}

func TestParseFileDomain(t *testing.T) {
	src := `package x

import "github.com/gettextmap/gettextmap"

var _ = gettextmap.Use(gettextmap.Options{Domain: "checkout"})
var _ = gettextmap.Use(gettextmap.Options{Domain: "ignored"})

var m = gettextmap.Mapper(map[string]string{"en": "Hello"})
`
	res := Parse("test.go", []byte(src))
	require.Equal(t, strp("checkout"), res.Domain)
	require.Len(t, res.Records, 1)
	// inherited, not materialized on the record
	require.Nil(t, res.Records[0].Domain)
}

func TestParseFileDomainSkipsNonLiteral(t *testing.T) {
	src := `package x

var _ = gettextmap.Use(gettextmap.Options{Domain: someVar})
var _ = gettextmap.Use(gettextmap.Options{Domain: "emails"})
`
	res := Parse("test.go", []byte(src))
	require.Equal(t, strp("emails"), res.Domain)
}

func TestParseDropsNonLiteralPairs(t *testing.T) {
	src := `package x

var m = gettextmap.Mapper(map[string]string{
	"de": "Hallo",
	"en": name,
	"fr": "Bonjour",
})
`
	res := Parse("test.go", []byte(src))
	require.Len(t, res.Records, 1)
	require.Equal(t, map[string]string{"de": "Hallo", "fr": "Bonjour"}, res.Records[0].Translations)
	require.Equal(t, []string{"de", "fr"}, res.Records[0].LocaleOrder)
}

func TestParseSourceOrder(t *testing.T) {
	src := `package x

var a = gettextmap.Mapper(map[string]string{"en": "first"})

func f() {
	_ = gettextmap.MapperString(map[string]string{"en": "second"})
	_ = gettextmap.Mapper(map[string]string{"en": "third"})
}
`
	res := Parse("test.go", []byte(src))
	require.Len(t, res.Records, 3)
	require.Equal(t, "first", res.Records[0].Translations["en"])
	require.Equal(t, "second", res.Records[1].Translations["en"])
	require.Equal(t, "third", res.Records[2].Translations["en"])
	require.True(t, res.Records[0].Line < res.Records[1].Line)
	require.True(t, res.Records[1].Line < res.Records[2].Line)
}

func TestParseSharedLineSpans(t *testing.T) {
	src := `package x

var a, b = Mapper(map[string]string{"en": "Hi"}), Mapper(map[string]string{"en": "Bye"})
var c, d = Mapper(map[string]string{"en": "Yo"}), Mapper(map[string]string{"en": "Yo"})
`
	res := Parse("test.go", []byte(src))
	require.Len(t, res.Records, 4)

	// the line scan sees only the first call on a line, so the second
	// record gets no span of its own rather than its neighbor's
	require.NotNil(t, res.Records[0].RawSpan)
	require.Equal(t, `Mapper(map[string]string{"en": "Hi"})`, res.Records[0].RawSpan.Text)
	require.Nil(t, res.Records[1].RawSpan)

	// identical text on a shared line is safe: each record's offset
	// points at its own copy
	require.NotNil(t, res.Records[2].RawSpan)
	require.NotNil(t, res.Records[3].RawSpan)
	require.True(t, res.Records[2].Offset < res.Records[3].Offset)
	for _, rec := range res.Records[2:] {
		require.Equal(t, rec.RawSpan.Text, src[rec.Offset:rec.Offset+len(rec.RawSpan.Text)])
	}
}

func TestParseUnquotesEscapes(t *testing.T) {
	src := `package x

var m = gettextmap.Mapper(map[string]string{"en": "a \"quoted\" word and a \\ slash"})
`
	res := Parse("test.go", []byte(src))
	require.Len(t, res.Records, 1)
	require.Equal(t, `a "quoted" word and a \ slash`, res.Records[0].Translations["en"])
}

func TestEffectiveMsgID(t *testing.T) {
	cases := []struct {
		name   string
		rec    Record
		defloc string
		want   string
		ok     bool
	}{
		{
			name:   "explicit msgid wins",
			rec:    Record{MsgID: strp("greeting.hi"), Translations: map[string]string{"en": "Hi"}},
			defloc: "en",
			want:   "greeting.hi",
			ok:     true,
		},
		{
			name:   "default locale text",
			rec:    Record{Translations: map[string]string{"de": "Hallo", "en": "Hi"}},
			defloc: "de",
			want:   "Hallo",
			ok:     true,
		},
		{
			name:   "en fallback",
			rec:    Record{Translations: map[string]string{"en": "Hi", "fr": "Salut"}},
			defloc: "nl",
			want:   "Hi",
			ok:     true,
		},
		{
			name:   "unresolvable",
			rec:    Record{Translations: map[string]string{"fr": "Salut"}},
			defloc: "nl",
			ok:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.rec.EffectiveMsgID(tc.defloc)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}
