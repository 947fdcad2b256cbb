package extractor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
)

// CheckCatalog is the read side of the PO store needed for coverage checks.
type CheckCatalog interface {
	Lookup(domain, locale, msgid string) (string, bool)
	KnownLocales(domain string) []string
}

// Checker reports catalog entries that extraction would have produced but
// that are missing or left untranslated.
type Checker struct {
	store CheckCatalog

	defaultLocale string
	defaultDomain string

	// Locales to demand for every message. Empty means whatever locales the
	// catalog already carries per domain.
	Locales []string

	Quiet bool
	Out   io.Writer
}

// CheckStats is the per-run summary.
type CheckStats struct {
	Files    int
	Calls    int
	Messages int
	Missing  int // entries absent from their catalog
	Empty    int // entries present with an empty msgstr
	Failed   int
	Warnings int
}

// Complete reports whether every demanded entry is present and translated.
func (s CheckStats) Complete() bool {
	return s.Missing == 0 && s.Empty == 0
}

func NewChecker(store CheckCatalog, defaultLocale, defaultDomain string) *Checker {
	return &Checker{
		store:         store,
		defaultLocale: defaultLocale,
		defaultDomain: defaultDomain,
		Out:           os.Stdout,
	}
}

// Run scans files and reports coverage gaps against the catalog.
func (c *Checker) Run(ctx context.Context, files []string) (CheckStats, error) {
	groups, est, err := collect(ctx, files, c.defaultLocale, c.defaultDomain, c.warnf)
	if err != nil {
		return CheckStats{}, err
	}

	st := CheckStats{
		Files:    est.Files,
		Calls:    est.Calls,
		Messages: est.Messages,
		Failed:   est.Failed,
		Warnings: est.Warnings,
	}

	known := make(map[string][]string)

	for _, g := range groups {
		locales := c.Locales
		if len(locales) == 0 {
			if _, ok := known[g.domain]; !ok {
				known[g.domain] = c.store.KnownLocales(g.domain)
			}
			locales = known[g.domain]
		}

		// the default-locale entry is only ever written for messages with a
		// custom id; for the rest the id is the text and nothing is missing
		redundantDefault := g.translations[c.defaultLocale] == g.msgid

		for _, locale := range sortedCopy(locales) {
			if locale == c.defaultLocale && redundantDefault {
				continue
			}
			text, ok := c.store.Lookup(g.domain, locale, g.msgid)
			switch {
			case !ok:
				st.Missing++
				c.reportf("%s/%s: missing %q (%s)", g.domain, locale, g.msgid, g.anySite())
			case text == "":
				st.Empty++
				c.reportf("%s/%s: untranslated %q (%s)", g.domain, locale, g.msgid, g.anySite())
			}
		}
	}

	return st, nil
}

// anySite names one call site of the group, for check reports.
func (g *group) anySite() string {
	sites := make([]string, 0, len(g.source))
	for _, s := range g.source {
		sites = append(sites, s)
	}
	sort.Strings(sites)
	if len(sites) == 0 {
		return "unknown site"
	}
	return sites[0]
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func (c *Checker) reportf(format string, args ...interface{}) {
	if c.Quiet {
		return
	}
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *Checker) warnf(format string, args ...interface{}) {
	if c.Quiet {
		return
	}
	fmt.Fprintln(c.Out, color.YellowString("WARNING: "+format, args...))
}
