package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

const sampleToml = `
default_backend = "app"
source_roots = ["internal", "cmd"]
exclude = ["**/zz_generated*.go"]

[backends.app]
priv = "priv/gettext"
locales = ["de", "en", "fr"]

[backends.emails]
priv = "mail/gettext"
default_locale = "de"
default_domain = "emails"
`

func TestFromReaderDefaults(t *testing.T) {
	cfg, err := FromReader(strings.NewReader(""), DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(Config{SourceRoots: []string{"."}}, *cfg))
}

func TestFromReaderFull(t *testing.T) {
	cfg, err := FromReader(strings.NewReader(sampleToml), DefaultConfig())
	require.NoError(t, err)

	want := Config{
		DefaultBackend: "app",
		SourceRoots:    []string{"internal", "cmd"},
		Exclude:        []string{"**/zz_generated*.go"},
		Backends: map[string]Backend{
			"app": {
				Priv:          "priv/gettext",
				DefaultLocale: "en",
				DefaultDomain: "default",
				Locales:       []string{"de", "en", "fr"},
			},
			"emails": {
				Priv:          "mail/gettext",
				DefaultLocale: "de",
				DefaultDomain: "emails",
			},
		},
	}
	require.Empty(t, cmp.Diff(want, *cfg))
}

func TestFromFileMissingFallsBackOnDefault(t *testing.T) {
	cfg, err := FromFile(filepath.Join(t.TempDir(), "gettextmap.toml"))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(*DefaultConfig(), *cfg))
}

func TestFromFileMissingCanBeDisallowed(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "gettextmap.toml"),
		SetCanFallbackOnDefault(func() error { return xerrors.New("explicit config required") }))
	require.ErrorContains(t, err, "explicit config required")
}

func TestFromFileReadsToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gettextmap.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleToml), 0644))

	cfg, err := FromFile(path)
	require.NoError(t, err)
	require.Equal(t, "app", cfg.DefaultBackend)
	require.Equal(t, "en", cfg.Backends["app"].DefaultLocale)
}

func TestFromFileInvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gettextmap.toml")
	require.NoError(t, os.WriteFile(path, []byte("default_backend = [unclosed"), 0644))

	_, err := FromFile(path)
	require.Error(t, err)
}

func TestFromReaderWarnsOnUnknownKeys(t *testing.T) {
	var warnings bytes.Buffer
	_, err := FromReader(strings.NewReader("defualt_backend = \"app\"\n"), DefaultConfig(),
		SetWarningWriter(&warnings))
	require.NoError(t, err)
	require.Contains(t, warnings.String(), "unknown configuration key 'defualt_backend'")
}

func TestFromReaderEnvOverride(t *testing.T) {
	t.Setenv("GETTEXTMAP_DEFAULTBACKEND", "staging")

	cfg, err := FromReader(strings.NewReader(`default_backend = "app"`), DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.DefaultBackend)
}

func TestFromFileCustomDefault(t *testing.T) {
	cfg, err := FromFile(filepath.Join(t.TempDir(), "gettextmap.toml"),
		SetDefault(func() (*Config, error) {
			return &Config{Backends: map[string]Backend{"app": {Priv: "x"}}}, nil
		}))
	require.NoError(t, err)
	require.Equal(t, "en", cfg.Backends["app"].DefaultLocale, "defaults normalize the fallback config too")
}
