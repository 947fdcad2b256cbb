package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/gettextmap/gettextmap/deps"
	"github.com/gettextmap/gettextmap/lib/reqcontext"
	"github.com/gettextmap/gettextmap/lib/srcfiles"
	"github.com/gettextmap/gettextmap/lib/syncer"
)

var syncCmd = &cli.Command{
	Name:      "sync",
	Usage:     "Rewrite in-source translation maps from catalog state",
	ArgsUsage: "[paths...]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "print per-file diffs, write nothing",
		},
		&cli.StringFlag{
			Name:  "message",
			Usage: "print the computed translation map for one message id and exit",
		},
		&cli.StringFlag{
			Name:  deps.FlagPriv,
			Usage: "catalog root directory, overrides the resolved backend",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "glob patterns for files to skip, in addition to configured ones",
		},
	},
	Action: func(cctx *cli.Context) error {
		d, err := deps.GetDeps(cctx)
		if err != nil {
			return err
		}

		s := syncer.New(d.Store, d.Backend.DefaultLocale, d.Backend.DefaultDomain)
		s.DryRun = cctx.Bool("dry-run")

		if cctx.IsSet("message") {
			fmt.Println(s.Message(cctx.String("message")))
			return nil
		}

		files, err := srcfiles.Find(d.SourcePaths(cctx.Args().Slice()), d.Excludes(cctx.StringSlice("exclude")))
		if err != nil {
			return xerrors.Errorf("listing source files: %w", err)
		}

		st, err := s.Run(reqcontext.ReqContext(cctx), files)
		if err != nil {
			return err
		}

		fmt.Printf("processed %d files (%d calls, %d rewritten), updated %d, %d warnings\n", st.Files, st.Calls, st.Rewritten, st.Updated, st.Warnings)
		return nil
	},
}
