package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/conanfanli/py2ts/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

// translateFlags are shared by translate and watch
func translateFlags(f *commands.Flags) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to py2ts.yaml (default: search upward from the working directory)",
			Destination: &f.Config,
		},
		&cli.StringFlag{
			Name:        "manifest",
			Aliases:     []string{"m"},
			Usage:       "schema manifest to translate",
			Destination: &f.Manifest,
		},
		&cli.StringFlag{
			Name:        "profile",
			Aliases:     []string{"p"},
			Usage:       "target profile (see `py2ts profiles`)",
			Destination: &f.Profile,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output file",
			Destination: &f.Output,
		},
		&cli.StringSliceFlag{
			Name:        "root",
			Aliases:     []string{"r"},
			Usage:       "root schema to translate; repeatable (default: every schema in the manifest)",
			Destination: &f.Roots,
		},
	}
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "py2ts",
		Usage:   "Translate Python schema declarations into TypeScript, GraphQL, graphene, protobuf and Go types",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("PY2TS_LOG_LEVEL"),
				Value:       "warn",
				Destination: &ctrl.Flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create py2ts.yaml and a starter manifest",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "overwrite an existing py2ts.yaml",
						Destination: &ctrl.Flags.Force,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
			{
				Name:  "translate",
				Usage: "Generate target types from the schema manifest",
				Flags: append(translateFlags(ctrl.Flags), &cli.BoolFlag{
					Name:        "stdout",
					Usage:       "write to stdout instead of the output file",
					Destination: &ctrl.Flags.Stdout,
				}),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Translate(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate whenever the manifest or config changes",
				Flags: translateFlags(ctrl.Flags),
				Action: func(ctx context.Context, c *cli.Command) error {
					ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
					defer stop()
					return ctrl.Watch(ctx)
				},
			},
			{
				Name:  "profiles",
				Usage: "List the available target profiles",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Profiles(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run py2ts")
	}
}
