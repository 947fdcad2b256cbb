package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/gettextmap/gettextmap/build"
	"github.com/gettextmap/gettextmap/deps"
)

var log = logging.Logger("main")

func SetupLogLevels() {
	if _, set := os.LookupEnv("GOLOG_LOG_LEVEL"); !set {
		_ = logging.SetLogLevel("*", "INFO")
	}
}

func main() {
	SetupLogLevels()

	local := []*cli.Command{
		syncCmd,
		extractCmd,
		checkCmd,
	}

	for _, cmd := range local {
		cmd := cmd
		originBefore := cmd.Before
		cmd.Before = func(cctx *cli.Context) error {
			if cctx.IsSet("color") {
				color.NoColor = !cctx.Bool("color")
			}

			if originBefore != nil {
				return originBefore(cctx)
			}

			return nil
		}
	}

	app := &cli.App{
		Name:                 "gettextmap",
		Usage:                "Keep inline translation maps and gettext catalogs in sync",
		Version:              build.UserVersion(),
		EnableBashCompletion: true,
		Before: func(cctx *cli.Context) error {
			if cctx.Bool("vv") {
				_ = logging.SetLogLevel("*", "DEBUG")
			}
			return nil
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				// examined in the Before above
				Name: "color",

				Usage:       "use color in display output",
				DefaultText: "depends on output being a TTY",
			},
			&cli.StringFlag{
				Name:    deps.FlagConfig,
				EnvVars: []string{"GETTEXTMAP_CONFIG"},
				Usage:   "path to the configuration file",
				Value:   "gettextmap.toml",
			},
			&cli.StringFlag{
				Name:    deps.FlagBackend,
				EnvVars: []string{"GETTEXTMAP_BACKEND"},
				Usage:   "named backend from the configuration file",
			},
			&cli.BoolFlag{
				Name:  "vv",
				Usage: "enables very verbose mode, useful for debugging the CLI",
			},
		},
		Commands: local,
	}

	runApp(app)
}

func runApp(app *cli.App) {
	if err := app.Run(os.Args); err != nil {
		if os.Getenv("GETTEXTMAP_DEV") != "" {
			log.Warnf("%+v", err)
		} else {
			_, _ = fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err) // nolint:errcheck
		}

		var phe *PrintHelpErr
		if errors.As(err, &phe) {
			_ = cli.ShowCommandHelp(phe.Ctx, phe.Ctx.Command.Name)
		}
		os.Exit(1)
	}
}

type PrintHelpErr struct {
	Err error
	Ctx *cli.Context
}

func (e *PrintHelpErr) Error() string {
	return e.Err.Error()
}
