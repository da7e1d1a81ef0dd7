package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/folio/internal"
	pkgconfig "github.com/starford/folio/pkg/config"
)

// rootArg returns the single optional positional argument.
func rootArg(cmd *cli.Command) (string, error) {
	args := cmd.Args().Slice()
	switch len(args) {
	case 0:
		return ".", nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected at most one repository root, got %d arguments", len(args))
	}
}

// setup loads the configuration for the repository at root and applies the
// command line overrides shared by every subcommand.
func setup(cmd *cli.Command) ([]internal.Option, *internal.Config, error) {
	root, err := rootArg(cmd)
	if err != nil {
		return nil, nil, err
	}

	configPath := cmd.String("config")
	if configPath == "" {
		configPath = filepath.Join(root, "config.yaml")
	}

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if level := cmd.String("log-level"); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithRoot(root),
		internal.WithLogger(logger),
	}
	return opts, cfg, nil
}

func build(ctx context.Context, cmd *cli.Command) error {
	opts, _, err := setup(cmd)
	if err != nil {
		return err
	}
	if err := internal.Build(ctx, opts...); err != nil {
		return fmt.Errorf("build error: %w", err)
	}
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("port") {
		cfg.Serve.Port = int(cmd.Int("port"))
		if err := cfg.Serve.Validate(); err != nil {
			return fmt.Errorf("invalid port: %w", err)
		}
	}
	opts = append(opts, internal.WithWatch(cmd.Bool("watch")))

	if err := internal.Serve(ctx, opts...); err != nil {
		return fmt.Errorf("serve error: %w", err)
	}
	return nil
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "<root>/config.yaml",
			Sources:     cli.EnvVars("FOLIO_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "folio",
		Usage: "Build a static site from a tree of Markdown documents",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() == 0 {
				return fmt.Errorf("missing command: expected build or serve")
			}
			return fmt.Errorf("unknown command %q: expected build or serve", cmd.Args().First())
		},
		Commands: []*cli.Command{
			{
				Name:      "build",
				Usage:     "Generate the site into the artifacts directory",
				ArgsUsage: "[root]",
				Flags:     commonFlags(),
				Action:    build,
			},
			{
				Name:      "serve",
				Usage:     "Serve the artifacts directory for local preview",
				ArgsUsage: "[root]",
				Flags: append(commonFlags(),
					&cli.IntFlag{
						Name:  "port",
						Usage: "Preview server port",
						Value: 8080,
					},
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Rebuild on source changes and notify open pages",
					},
				),
				Action: serve,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
