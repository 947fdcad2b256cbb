package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into dir and back on cleanup; discovery probes are
// relative to the working directory.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func twoBackends() *Config {
	return &Config{
		Backends: map[string]Backend{
			"app":    {Priv: "priv/gettext", DefaultLocale: "en", DefaultDomain: "default"},
			"emails": {Priv: "mail/gettext", DefaultLocale: "de", DefaultDomain: "emails"},
		},
	}
}

func TestResolveExplicitName(t *testing.T) {
	b, err := twoBackends().ResolveBackend("emails", "")
	require.NoError(t, err)
	require.Equal(t, "mail/gettext", b.Priv)
	require.Equal(t, "de", b.DefaultLocale)
}

func TestResolveUnknownNameFatal(t *testing.T) {
	_, err := twoBackends().ResolveBackend("nope", "")
	require.ErrorContains(t, err, "'nope' not found")
}

func TestResolveDefaultBackend(t *testing.T) {
	cfg := twoBackends()
	cfg.DefaultBackend = "app"

	b, err := cfg.ResolveBackend("", "")
	require.NoError(t, err)
	require.Equal(t, "priv/gettext", b.Priv)
}

func TestResolveSingleBackendNeedsNoDefault(t *testing.T) {
	cfg := &Config{Backends: map[string]Backend{
		"only": {Priv: "some/gettext", DefaultLocale: "en", DefaultDomain: "default"},
	}}

	b, err := cfg.ResolveBackend("", "")
	require.NoError(t, err)
	require.Equal(t, "some/gettext", b.Priv)
}

func TestResolveAmbiguousBackends(t *testing.T) {
	_, err := twoBackends().ResolveBackend("", "")
	require.ErrorContains(t, err, "--backend")
}

func TestResolvePrivOverridesWinner(t *testing.T) {
	cfg := twoBackends()
	cfg.DefaultBackend = "app"

	b, err := cfg.ResolveBackend("", "/tmp/other")
	require.NoError(t, err)
	require.Equal(t, "/tmp/other", b.Priv)
	require.Equal(t, "en", b.DefaultLocale, "the rest of the backend survives the override")
}

func TestResolvePrivAloneSynthesizes(t *testing.T) {
	b, err := (&Config{}).ResolveBackend("", "/tmp/cat")
	require.NoError(t, err)
	require.Equal(t, "/tmp/cat", b.Priv)
	require.Equal(t, "en", b.DefaultLocale)
	require.Equal(t, "default", b.DefaultDomain)
}

func TestResolveDiscovery(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "priv", "gettext"), 0755))
	chdir(t, dir)

	b, err := (&Config{}).ResolveBackend("", "")
	require.NoError(t, err)
	require.Equal(t, DiscoveryPriv, b.Priv)
	require.Equal(t, "en", b.DefaultLocale)
}

func TestResolveNothingConfiguredFatal(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := (&Config{}).ResolveBackend("", "")
	require.ErrorIs(t, err, ErrNoBackend)
}

func TestResolveExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.Reset()
	t.Cleanup(homedir.Reset)

	cfg := &Config{Backends: map[string]Backend{
		"app": {Priv: "~/priv/gettext", DefaultLocale: "en", DefaultDomain: "default"},
	}}

	b, err := cfg.ResolveBackend("app", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "priv", "gettext"), b.Priv)
}
