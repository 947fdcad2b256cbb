// Package pocatalog reads and writes gettext PO catalogs laid out as
// <priv>/<locale>/LC_MESSAGES/<domain>.po, plus the per-domain .pot
// templates next to the locale directories. Files are treated as text:
// lookups scan for the matching msgid block, upserts splice a new msgstr in
// place or append a block, and everything not touched stays byte-identical.
package pocatalog

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/text/language"
	"golang.org/x/xerrors"
)

var log = logging.Logger("pocatalog")

// Store is a PO catalog tree rooted at one priv directory.
type Store struct {
	priv string
}

func NewStore(priv string) *Store {
	return &Store{priv: priv}
}

// Priv returns the catalog root directory.
func (s *Store) Priv() string {
	return s.priv
}

// Path returns the catalog file for one locale and domain.
func (s *Store) Path(domain, locale string) string {
	return filepath.Join(s.priv, locale, "LC_MESSAGES", domain+".po")
}

// TemplatePath returns the domain's .pot template file.
func (s *Store) TemplatePath(domain string) string {
	return filepath.Join(s.priv, domain+".pot")
}

// Lookup finds the msgstr stored for msgid. A missing file or missing entry
// is ok=false, never an error: an absent catalog just means no translation
// yet. An entry whose msgstr is empty comes back as ("", true).
func (s *Store) Lookup(domain, locale, msgid string) (string, bool) {
	if msgid == "" {
		return "", false
	}
	content, err := os.ReadFile(s.Path(domain, locale))
	if err != nil {
		return "", false
	}
	for _, e := range scanEntries(strings.Split(string(content), "\n")) {
		if e.msgid == msgid && e.msgstrLine >= 0 {
			return e.msgstr, true
		}
	}
	return "", false
}

// KnownLocales lists the locale directories under priv that carry a catalog
// file for domain, sorted ascending. Directory names that do not parse as
// language tags are skipped.
func (s *Store) KnownLocales(domain string) []string {
	dirs, err := os.ReadDir(s.priv)
	if err != nil {
		return nil
	}

	var locales []string
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		name := d.Name()
		if _, err := language.Parse(name); err != nil {
			log.Debugf("skipping non-locale directory %s: %s", filepath.Join(s.priv, name), err)
			continue
		}
		if _, err := os.Stat(s.Path(domain, name)); err != nil {
			continue
		}
		locales = append(locales, name)
	}
	sort.Strings(locales)
	return locales
}

// Upsert sets msgid's msgstr in the locale's catalog for domain, creating
// the file with a header when absent. Only the matching entry's msgstr
// changes; upserting the stored value again is a no-op. changed reports
// whether the file was written.
func (s *Store) Upsert(domain, locale, msgid, msgstr string) (bool, error) {
	if msgid == "" {
		return false, xerrors.New("empty msgid")
	}
	return s.upsertFile(s.Path(domain, locale), localeHeader(locale), msgid, msgstr)
}

// UpsertTemplate records msgid in the domain's .pot template with an empty
// msgstr, creating the template when absent. An existing entry is left
// alone whatever its msgstr says.
func (s *Store) UpsertTemplate(domain, msgid string) (bool, error) {
	if msgid == "" {
		return false, xerrors.New("empty msgid")
	}

	path := s.TemplatePath(domain)
	content, err := s.readOrHeader(path, templateHeader())
	if err != nil {
		return false, err
	}

	for _, e := range scanEntries(strings.Split(content, "\n")) {
		if e.msgid == msgid && e.msgstrLine >= 0 {
			return false, nil
		}
	}

	return true, s.writeFile(path, appendBlock(content, msgid, ""))
}

func (s *Store) upsertFile(path, header, msgid, msgstr string) (bool, error) {
	content, err := s.readOrHeader(path, header)
	if err != nil {
		return false, err
	}

	updated, changed := upsertEntry(content, msgid, msgstr)
	if !changed {
		return false, nil
	}
	return true, s.writeFile(path, updated)
}

// readOrHeader reads a catalog file, standing in the header block for a
// file that does not exist yet.
func (s *Store) readOrHeader(path, header string) (string, error) {
	content, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return header, nil
	case err != nil:
		return "", xerrors.Errorf("reading catalog %s: %w", path, err)
	}
	return string(content), nil
}

func (s *Store) writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return xerrors.Errorf("creating catalog directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return xerrors.Errorf("writing catalog %s: %w", path, err)
	}
	return nil
}

// localeHeader is the conventional PO prologue for a fresh catalog file.
func localeHeader(locale string) string {
	return `msgid ""
msgstr ""
"Language: ` + locale + `\n"
"MIME-Version: 1.0\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Content-Transfer-Encoding: 8bit\n"
`
}

// templateHeader is the .pot prologue; templates carry no Language line.
func templateHeader() string {
	return `msgid ""
msgstr ""
"MIME-Version: 1.0\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Content-Transfer-Encoding: 8bit\n"
`
}
