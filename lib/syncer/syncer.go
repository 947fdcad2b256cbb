// Package syncer pulls catalog translations back into Go source: every
// recognized call site gets its map literal rewritten from the PO catalogs,
// in place, preserving the file's formatting conventions.
package syncer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/xerrors"

	"github.com/gettextmap/gettextmap/lib/mapcall"
)

var log = logging.Logger("syncer")

// Catalog is the read side of the PO store.
type Catalog interface {
	Lookup(domain, locale, msgid string) (string, bool)
	KnownLocales(domain string) []string
}

// Syncer rewrites source files from catalog state. The zero DryRun mode
// writes changed files back; DryRun prints unified diffs instead, running
// the exact same transformation so the preview is what a real run would do.
type Syncer struct {
	store Catalog
	fmtr  *mapcall.Formatter

	defaultLocale string
	defaultDomain string

	DryRun bool
	Out    io.Writer
}

// Stats is the per-run summary.
type Stats struct {
	Files     int // files scanned
	Calls     int // recognized calls seen
	Rewritten int // calls whose text actually changed
	Updated   int // files written (or would-write in dry-run)
	Failed    int // files skipped on read/write errors
	Warnings  int // calls skipped with a warning
}

func New(store Catalog, defaultLocale, defaultDomain string) *Syncer {
	return &Syncer{
		store:         store,
		fmtr:          &mapcall.Formatter{},
		defaultLocale: defaultLocale,
		defaultDomain: defaultDomain,
		Out:           os.Stdout,
	}
}

// Run processes each file in order. A file that fails to read or write is
// logged and counted, never fatal; only context cancellation stops the run.
func (s *Syncer) Run(ctx context.Context, files []string) (Stats, error) {
	var st Stats
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Files++

		updated, err := s.syncFile(path, &st)
		if err != nil {
			log.Errorf("sync %s: %s", path, err)
			st.Failed++
			continue
		}
		if updated {
			st.Updated++
		}
	}
	return st, nil
}

func (s *Syncer) syncFile(path string, st *Stats) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return false, xerrors.Errorf("reading: %w", err)
	}

	pf := mapcall.Parse(path, b)
	st.Calls += len(pf.Records)
	if len(pf.Records) == 0 {
		return false, nil
	}

	content := string(b)
	next, rewritten, warnings := s.rewrite(content, pf)
	st.Rewritten += rewritten
	st.Warnings += warnings
	if next == content {
		return false, nil
	}

	if s.DryRun {
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(content),
			B:        difflib.SplitLines(next),
			FromFile: path,
			ToFile:   path + " (synced)",
			Context:  3,
		})
		if err != nil {
			return false, xerrors.Errorf("diffing: %w", err)
		}
		fmt.Fprintf(s.Out, "would update %s\n", path)
		s.printDiff(diff)
		return true, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return false, xerrors.Errorf("stat: %w", err)
	}
	if err := os.WriteFile(path, []byte(next), fi.Mode().Perm()); err != nil {
		return false, xerrors.Errorf("writing: %w", err)
	}
	return true, nil
}

// rewrite is the pure transformation: splice an updated rendering over
// every call's raw span. Each search is anchored at the record's own byte
// offset, carried through earlier edits by a running length delta, so span
// text mirrored in comments or strings before the call is out of reach; a
// forward cursor on top keeps identical spans being replaced each on
// their own turn.
func (s *Syncer) rewrite(content string, pf mapcall.File) (next string, rewritten, warnings int) {
	cursor := 0
	delta := 0
	for i := range pf.Records {
		rec := &pf.Records[i]
		if rec.RawSpan == nil {
			log.Debugf("%s:%d: raw span extraction failed, leaving call untouched", rec.File, rec.Line)
			continue
		}

		domain := s.defaultDomain
		if rec.Domain != nil {
			domain = *rec.Domain
		} else if pf.Domain != nil {
			domain = *pf.Domain
		}

		key, ok := rec.EffectiveMsgID(s.defaultLocale)
		if !ok {
			s.warnf("%s:%d: no msgid and no %q or \"en\" text to look up, skipping", rec.File, rec.Line, s.defaultLocale)
			warnings++
			continue
		}

		merged := make(map[string]string, len(rec.Translations))
		for locale, text := range rec.Translations {
			merged[locale] = text
		}
		for _, locale := range s.store.KnownLocales(domain) {
			// empty or missing catalog entries keep the call's own text;
			// a value the developer wrote is never erased
			if text, ok := s.store.Lookup(domain, locale, key); ok && text != "" {
				merged[locale] = text
			}
		}

		replacement := s.fmtr.Call(mapcall.CallSpec{
			Name:          rec.CallName(),
			Translations:  merged,
			Domain:        rec.Domain, // inherited domains stay out of the call text
			MsgID:         rec.MsgID,
			DefaultDomain: s.defaultDomain,
			Indent:        rec.RawSpan.Indent,
		})
		replacement = reindent(replacement, rec.RawSpan.Indent)

		from := rec.Offset + delta
		if from < cursor {
			from = cursor
		}
		at := strings.Index(content[from:], rec.RawSpan.Text)
		if at < 0 {
			log.Debugf("%s:%d: raw span no longer present, skipping", rec.File, rec.Line)
			continue
		}
		at += from

		if replacement != rec.RawSpan.Text {
			rewritten++
		}
		content = content[:at] + replacement + content[at+len(rec.RawSpan.Text):]
		delta += len(replacement) - len(rec.RawSpan.Text)
		cursor = at + len(replacement)
	}
	return content, rewritten, warnings
}

// Message renders the translation map the catalogs hold for one literal
// message under the default domain, without touching any file.
func (s *Syncer) Message(msg string) string {
	m := map[string]string{s.defaultLocale: msg}
	for _, locale := range s.store.KnownLocales(s.defaultDomain) {
		if text, ok := s.store.Lookup(s.defaultDomain, locale, msg); ok && text != "" {
			m[locale] = text
		}
	}
	return s.fmtr.Map(m, nil)
}

// reindent prefixes every continuation line with the original indent. The
// first line stays bare: the splice point already carries the original
// line's leading whitespace.
func reindent(text, indent string) string {
	lines := strings.Split(text, "\n")
	lines[0] = strings.TrimLeft(lines[0], " \t")
	for i := 1; i < len(lines); i++ {
		if lines[i] == "" {
			continue
		}
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

func (s *Syncer) printDiff(diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(s.Out, color.GreenString("%s", line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(s.Out, color.RedString("%s", line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(s.Out, color.CyanString("%s", line))
		default:
			fmt.Fprintln(s.Out, line)
		}
	}
}

func (s *Syncer) warnf(format string, args ...interface{}) {
	fmt.Fprintln(s.Out, color.YellowString("WARNING: "+format, args...))
}
