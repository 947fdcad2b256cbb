package config

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/xerrors"
)

// DiscoveryPriv is the conventional catalog directory probed when neither
// flags nor configuration name a backend.
const DiscoveryPriv = "priv/gettext"

// ErrNoBackend aborts a run: without a backend there is no catalog location
// to read or write.
var ErrNoBackend = xerrors.New("no backend configured: pass --backend or --priv, set default_backend in gettextmap.toml, or create priv/gettext")

// ResolveBackend picks the backend for one invocation. Precedence: the
// explicit name, then default_backend, then a lone configured backend, then
// a backend synthesized from privOverride, then discovery of priv/gettext.
// privOverride additionally replaces the priv directory of whichever
// backend wins.
func (c *Config) ResolveBackend(name, privOverride string) (Backend, error) {
	b, err := c.pickBackend(name, privOverride)
	if err != nil {
		return Backend{}, err
	}
	if privOverride != "" {
		b.Priv = privOverride
	}
	priv, err := homedir.Expand(b.Priv)
	if err != nil {
		return Backend{}, xerrors.Errorf("expanding priv path %s: %w", b.Priv, err)
	}
	b.Priv = priv
	return b, nil
}

func (c *Config) pickBackend(name, privOverride string) (Backend, error) {
	if name != "" {
		b, ok := c.Backends[name]
		if !ok {
			return Backend{}, xerrors.Errorf("backend '%s' not found in configuration", name)
		}
		return b, nil
	}
	if c.DefaultBackend != "" {
		b, ok := c.Backends[c.DefaultBackend]
		if !ok {
			return Backend{}, xerrors.Errorf("default_backend '%s' not found in configuration", c.DefaultBackend)
		}
		return b, nil
	}
	if len(c.Backends) == 1 {
		for _, b := range c.Backends {
			return b, nil
		}
	}
	if len(c.Backends) > 1 {
		return Backend{}, xerrors.Errorf("%d backends configured and no default_backend: pass --backend", len(c.Backends))
	}
	if privOverride != "" {
		return Backend{Priv: privOverride}.withDefaults(), nil
	}
	if st, err := os.Stat(DiscoveryPriv); err == nil && st.IsDir() {
		return Backend{Priv: DiscoveryPriv}.withDefaults(), nil
	}
	return Backend{}, ErrNoBackend
}
