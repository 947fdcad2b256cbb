package config

func DefaultConfig() *Config {
	return &Config{
		SourceRoots: []string{"."},
	}
}

// Config is the gettextmap.toml file.
type Config struct {
	// DefaultBackend names the backend used when --backend is not given.
	// A file with exactly one backend does not need it.
	DefaultBackend string `toml:"default_backend"`

	// SourceRoots are the directories walked when a command gets no path
	// arguments.
	SourceRoots []string `toml:"source_roots"`

	// Exclude holds glob patterns for files the walk skips, matched against
	// slash-separated paths and against bare file names.
	Exclude []string `toml:"exclude"`

	Backends map[string]Backend `toml:"backends"`
}

// Backend is one catalog location with its locale conventions.
type Backend struct {
	// Priv is the catalog root directory. Locale catalogs live at
	// <priv>/<locale>/LC_MESSAGES/<domain>.po, templates at
	// <priv>/<domain>.pot.
	Priv string `toml:"priv"`

	// DefaultLocale is the locale whose text doubles as the message id when
	// no explicit id is given. Empty means "en".
	DefaultLocale string `toml:"default_locale"`

	// DefaultDomain is the domain of calls that declare none. Empty means
	// "default".
	DefaultDomain string `toml:"default_domain"`

	// Locales is the set the check command demands for every message. Empty
	// means whatever locales the catalog already carries.
	Locales []string `toml:"locales"`
}

func (b Backend) withDefaults() Backend {
	if b.DefaultLocale == "" {
		b.DefaultLocale = "en"
	}
	if b.DefaultDomain == "" {
		b.DefaultDomain = "default"
	}
	return b
}

// normalize applies backend field defaults after decode so empty fields and
// explicit values read the same downstream.
func (c *Config) normalize() {
	for name, b := range c.Backends {
		c.Backends[name] = b.withDefaults()
	}
}
