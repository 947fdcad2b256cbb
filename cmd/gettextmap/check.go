package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/gettextmap/gettextmap"
	"github.com/gettextmap/gettextmap/deps"
	"github.com/gettextmap/gettextmap/lib/extractor"
	"github.com/gettextmap/gettextmap/lib/reqcontext"
	"github.com/gettextmap/gettextmap/lib/srcfiles"
)

var checkHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#2AA198"))

var checkCmd = &cli.Command{
	Name:      "check",
	Usage:     "Report catalog entries missing or untranslated for in-source messages",
	ArgsUsage: "[paths...]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "print only the summary line",
		},
		&cli.StringSliceFlag{
			Name:  "locale",
			Usage: "locales to demand for every message, defaults to the backend's list",
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

		c := extractor.NewChecker(d.Store, d.Backend.DefaultLocale, d.Backend.DefaultDomain)
		c.Locales = d.Backend.Locales
		if cctx.IsSet("locale") {
			c.Locales = cctx.StringSlice("locale")
		}
		c.Quiet = cctx.Bool("quiet")

		if !c.Quiet {
			fmt.Println(checkHeader.Render(gettextmap.MapperString(map[string]string{
				"de": "Katalogabdeckung",
				"en": "Catalog coverage",
			})))
		}

		files, err := srcfiles.Find(d.SourcePaths(cctx.Args().Slice()), d.Excludes(cctx.StringSlice("exclude")))
		if err != nil {
			return xerrors.Errorf("listing source files: %w", err)
		}

		st, err := c.Run(reqcontext.ReqContext(cctx), files)
		if err != nil {
			return err
		}

		fmt.Printf("checked %d messages across %d files: %d missing, %d untranslated\n",
			st.Messages, st.Files, st.Missing, st.Empty)

		if !st.Complete() {
			return cli.Exit("", 1)
		}
		return nil
	},
}
