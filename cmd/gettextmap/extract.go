package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/gettextmap/gettextmap/deps"
	"github.com/gettextmap/gettextmap/lib/extractor"
	"github.com/gettextmap/gettextmap/lib/reqcontext"
	"github.com/gettextmap/gettextmap/lib/srcfiles"
)

var extractCmd = &cli.Command{
	Name:      "extract",
	Usage:     "Write in-source translation maps out into catalog files",
	ArgsUsage: "[paths...]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "print would-be catalog writes, write nothing",
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

		e := extractor.New(d.Store, d.Backend.DefaultLocale, d.Backend.DefaultDomain)
		e.DryRun = cctx.Bool("dry-run")

		files, err := srcfiles.Find(d.SourcePaths(cctx.Args().Slice()), d.Excludes(cctx.StringSlice("exclude")))
		if err != nil {
			return xerrors.Errorf("listing source files: %w", err)
		}

		st, err := e.Run(reqcontext.ReqContext(cctx), files)
		if err != nil {
			return err
		}

		fmt.Printf("processed %d files (%d calls, %d messages), wrote %d catalog entries, %d warnings\n",
			st.Files, st.Calls, st.Messages, st.Written, st.Warnings)
		return nil
	},
}
