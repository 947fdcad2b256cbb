// Package extractor pushes source translation strings out into the PO
// catalogs: recognized calls are grouped by message id and domain, their
// maps merged, and every locale's text upserted into the store.
package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"

	"github.com/gettextmap/gettextmap/lib/mapcall"
)

var log = logging.Logger("extractor")

// Catalog is the write side of the PO store.
type Catalog interface {
	Upsert(domain, locale, msgid, msgstr string) (bool, error)
	UpsertTemplate(domain, msgid string) (bool, error)
}

// Extractor writes call-site translations into catalog files.
type Extractor struct {
	store Catalog

	defaultLocale string
	defaultDomain string

	DryRun bool
	Out    io.Writer
}

// Stats is the per-run summary.
type Stats struct {
	Files    int // files scanned
	Calls    int // recognized calls seen
	Messages int // distinct (message id, domain) groups
	Written  int // catalog entries actually changed
	Failed   int // files skipped on read errors and catalog writes that failed
	Warnings int
}

func New(store Catalog, defaultLocale, defaultDomain string) *Extractor {
	return &Extractor{
		store:         store,
		defaultLocale: defaultLocale,
		defaultDomain: defaultDomain,
		Out:           os.Stdout,
	}
}

// group is all call sites sharing one (message id, domain), merged.
type group struct {
	msgid  string
	domain string

	translations map[string]string
	source       map[string]string // locale → "file:line" that set the current text
}

// site formats a record's position for warnings.
func site(rec *mapcall.Record) string {
	return fmt.Sprintf("%s:%d", rec.File, rec.Line)
}

// collect parses every file and folds the records into groups, in discovery
// order. Later records overwrite earlier translations for the same locale;
// a conflicting overwrite warns with both sites but still merges.
func collect(ctx context.Context, files []string, defaultLocale, defaultDomain string, warnf func(string, ...interface{})) ([]*group, Stats, error) {
	type key struct{ msgid, domain string }

	var st Stats
	byKey := make(map[key]*group)
	var order []*group

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		st.Files++

		src, err := os.ReadFile(path)
		if err != nil {
			log.Errorf("extract %s: reading: %s", path, err)
			st.Failed++
			continue
		}

		pf := mapcall.Parse(path, src)
		st.Calls += len(pf.Records)

		for i := range pf.Records {
			rec := &pf.Records[i]

			domain := defaultDomain
			if rec.Domain != nil {
				domain = *rec.Domain
			} else if pf.Domain != nil {
				domain = *pf.Domain
			}

			msgid, ok := rec.EffectiveMsgID(defaultLocale)
			if !ok {
				warnf("%s: no msgid and no %q or \"en\" text, dropping call", site(rec), defaultLocale)
				st.Warnings++
				continue
			}

			g := byKey[key{msgid, domain}]
			if g == nil {
				g = &group{
					msgid:        msgid,
					domain:       domain,
					translations: make(map[string]string),
					source:       make(map[string]string),
				}
				byKey[key{msgid, domain}] = g
				order = append(order, g)
			}

			for locale, text := range rec.Translations {
				if prev, ok := g.translations[locale]; ok && prev != text {
					warnf("%s: %q (%s/%s) already has %q from %s, overwriting",
						site(rec), msgid, domain, locale, prev, g.source[locale])
					st.Warnings++
				}
				g.translations[locale] = text
				g.source[locale] = site(rec)
			}
		}
	}

	st.Messages = len(order)
	return order, st, nil
}

// Run extracts every call under files into the catalog store. A catalog
// write that fails is logged and counted, never fatal; only context
// cancellation stops the run.
func (e *Extractor) Run(ctx context.Context, files []string) (Stats, error) {
	groups, st, err := collect(ctx, files, e.defaultLocale, e.defaultDomain, e.warnf)
	if err != nil {
		return st, err
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		// an id derived from the default-locale text doubles as that text
		// in gettext convention, so writing it back would be redundant
		redundantDefault := g.translations[e.defaultLocale] == g.msgid

		for _, locale := range sortedLocales(g.translations) {
			if locale == e.defaultLocale && redundantDefault {
				continue
			}
			text := g.translations[locale]

			if e.DryRun {
				fmt.Fprintf(e.Out, "would write %s/%s: msgid %q msgstr %q\n", g.domain, locale, g.msgid, text)
				continue
			}
			changed, err := e.store.Upsert(g.domain, locale, g.msgid, text)
			if err != nil {
				log.Errorf("extract %s/%s: upserting %q: %s", g.domain, locale, g.msgid, err)
				st.Failed++
				continue
			}
			if changed {
				st.Written++
			}
		}

		if e.DryRun {
			continue
		}
		changed, err := e.store.UpsertTemplate(g.domain, g.msgid)
		if err != nil {
			log.Errorf("extract %s: template upsert of %q: %s", g.domain, g.msgid, err)
			st.Failed++
			continue
		}
		if changed {
			st.Written++
		}
	}

	return st, nil
}

func sortedLocales(translations map[string]string) []string {
	locales := make([]string, 0, len(translations))
	for locale := range translations {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

func (e *Extractor) warnf(format string, args ...interface{}) {
	fmt.Fprintln(e.Out, color.YellowString("WARNING: "+format, args...))
}
