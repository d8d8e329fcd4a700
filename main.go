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

	"github.com/okra-platform/oasgen/internal/codegen"
	"github.com/okra-platform/oasgen/internal/commands"
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

// generateFlags are shared by generate and watch
func generateFlags(flags *commands.Flags) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to oasgen.json (default: searched upwards from the working directory)",
			Destination: &flags.Config,
		},
		&cli.StringFlag{
			Name:        "document",
			Aliases:     []string{"d"},
			Usage:       "OpenAPI document, JSON or YAML",
			Destination: &flags.Document,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output directory",
			Destination: &flags.Output,
		},
		&cli.StringFlag{
			Name:        "target",
			Aliases:     []string{"t"},
			Usage:       fmt.Sprintf("web framework of the generated code %v", codegen.DefaultRegistry.Names()),
			Destination: &flags.Target,
		},
		&cli.StringFlag{
			Name:        "package",
			Usage:       "package name of the generated routers",
			Destination: &flags.Package,
		},
		&cli.StringFlag{
			Name:        "module",
			Usage:       "import path of the output directory (default: derived from go.mod)",
			Destination: &flags.Module,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "fail on unresolved references instead of skipping them",
			Destination: &flags.Strict,
		},
	}
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "oasgen",
		Usage:   "Generate Go handler stubs and routers from an OpenAPI document",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Value:       "info",
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
				Usage: "Create an oasgen.json in the current directory",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
			{
				Name:  "generate",
				Usage: "Generate handlers and routers once",
				Flags: generateFlags(ctrl.Flags),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate whenever the document or the configuration changes",
				Flags: generateFlags(ctrl.Flags),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Watch(ctx)
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		log.Fatal().Err(err).Msg("failed to run oasgen")
	}
}
