// Package deps provides the dependencies for the gettextmap commands:
// loaded configuration, the resolved backend and the catalog store.
package deps

import (
	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/gettextmap/gettextmap/deps/config"
	"github.com/gettextmap/gettextmap/lib/pocatalog"
)

var log = logging.Logger("gettextmap/deps")

const (
	FlagConfig  = "config"
	FlagBackend = "backend"
	FlagPriv    = "priv"
)

type Deps struct {
	Cfg     *config.Config
	Backend config.Backend
	Store   *pocatalog.Store
}

func GetDeps(cctx *cli.Context) (*Deps, error) {
	var deps Deps
	return &deps, deps.PopulateRemainingDeps(cctx)
}

func (deps *Deps) PopulateRemainingDeps(cctx *cli.Context) error {
	var err error

	if deps.Cfg == nil {
		path, err := homedir.Expand(cctx.String(FlagConfig))
		if err != nil {
			return xerrors.Errorf("expanding config path: %w", err)
		}
		deps.Cfg, err = config.FromFile(path)
		if err != nil {
			return xerrors.Errorf("reading config %s: %w", path, err)
		}
	}

	log.Debugw("config", "config", deps.Cfg)

	if deps.Store == nil {
		deps.Backend, err = deps.Cfg.ResolveBackend(cctx.String(FlagBackend), cctx.String(FlagPriv))
		if err != nil {
			return err
		}
		log.Debugw("backend",
			"priv", deps.Backend.Priv,
			"defaultLocale", deps.Backend.DefaultLocale,
			"defaultDomain", deps.Backend.DefaultDomain)

		deps.Store = pocatalog.NewStore(deps.Backend.Priv)
	}

	return nil
}

// SourcePaths returns the explicit path arguments, or the configured source
// roots when the command got none.
func (deps *Deps) SourcePaths(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return deps.Cfg.SourceRoots
}

// Excludes merges the configured exclude globs with per-invocation ones.
func (deps *Deps) Excludes(extra []string) []string {
	return append(append([]string{}, deps.Cfg.Exclude...), extra...)
}
