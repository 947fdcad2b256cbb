// Package gettextmap keeps translated strings inline in Go source as
// map[string]string literals keyed by locale code, and defines the call
// shapes the gettextmap command recognizes when synchronizing those literals
// with gettext PO catalogs.
//
// Application code wraps its literals in one of two calls:
//
//	labels := gettextmap.Mapper(map[string]string{
//		"de": "Hallo",
//		"en": "Hello",
//	})
//
//	title := gettextmap.MapperString(map[string]string{
//		"de": "Willkommen",
//		"en": "Welcome",
//	})
//
// Mapper returns the map unchanged; MapperString returns the current
// locale's string. Translations live in the source itself; nothing is
// loaded from catalog files at runtime. The gettextmap tool rewrites the
// literals from the catalogs (sync) and fills the catalogs from the literals
// (extract).
package gettextmap

import (
	"strings"
	"sync"
)

// Options carries per-call settings read by the gettextmap tool. Domain
// selects the catalog domain for one call, overriding a file-level Use
// declaration. MsgID sets an explicit message id instead of deriving one
// from the default-locale text. Values must be literal strings to be visible
// to the tool; at runtime Options is inert.
type Options struct {
	Domain string
	MsgID  string
}

// Use declares file-level settings for the gettextmap tool, anchored in a
// blank var so it survives formatting and vet:
//
//	var _ = gettextmap.Use(gettextmap.Options{Domain: "checkout"})
//
// The first Use in a file with a literal Domain sets the domain for every
// call in that file. Use has no runtime effect.
func Use(opts ...Options) bool {
	return true
}

// Mapper returns m unchanged.
func Mapper(m map[string]string, opts ...Options) map[string]string {
	return m
}

// MapperString returns the translation in m for the current locale, falling
// back to the default locale, then to "en", then to the empty string.
func MapperString(m map[string]string, opts ...Options) string {
	if len(m) == 0 {
		return ""
	}
	if s, ok := m[CurrentLocale()]; ok && s != "" {
		return s
	}
	if s, ok := m[DefaultLocale()]; ok && s != "" {
		return s
	}
	return m["en"]
}

var (
	localeLk      sync.RWMutex
	currentLocale string
	defaultLocale = "en"
	localeFn      func() string
)

// SetLocale sets the process-wide current locale. Blank values are ignored.
func SetLocale(locale string) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return
	}
	localeLk.Lock()
	currentLocale = locale
	localeLk.Unlock()
}

// SetLocaleFunc installs a resolver consulted before the process-wide
// locale, for request-scoped resolution (e.g. reading a context or goroutine
// local). A nil fn removes the resolver.
func SetLocaleFunc(fn func() string) {
	localeLk.Lock()
	localeFn = fn
	localeLk.Unlock()
}

// CurrentLocale returns the locale MapperString selects by: the installed
// resolver's non-blank answer, else the locale set with SetLocale, else the
// default locale.
func CurrentLocale() string {
	localeLk.RLock()
	fn, cur, def := localeFn, currentLocale, defaultLocale
	localeLk.RUnlock()

	if fn != nil {
		if loc := strings.TrimSpace(fn()); loc != "" {
			return loc
		}
	}
	if cur != "" {
		return cur
	}
	return def
}

// SetDefaultLocale sets the fallback locale, "en" unless changed. Blank
// values are ignored.
func SetDefaultLocale(locale string) {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return
	}
	localeLk.Lock()
	defaultLocale = locale
	localeLk.Unlock()
}

// DefaultLocale returns the fallback locale.
func DefaultLocale() string {
	localeLk.RLock()
	defer localeLk.RUnlock()
	return defaultLocale
}
