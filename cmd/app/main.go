package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/momwise/momwise/internal"
	"github.com/momwise/momwise/internal/auth"
	"github.com/momwise/momwise/internal/profile"
	pkgconfig "github.com/momwise/momwise/pkg/config"
)

const defaultConfigFile = "config/config.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, string, error) {
	cfg := internal.NewDefaultConfig()
	path, err := pkgconfig.LoadWithDefaults(cmd.String("config"), defaultConfigFile, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, path, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigFile(path),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, cmd.String("user"), internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func token(_ context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tok, err := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL).Issue(cmd.String("user"))
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}

func setProfile(ctx context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	in := profile.Input{
		PregnancyStatus: cmd.String("status"),
		DueDate:         cmd.String("due-date"),
		LastPeriodDate:  cmd.String("last-period"),
	}
	if err := internal.UpdateProfile(ctx, cmd.String("user"), in, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "User id to act as",
		Required: true,
		Sources:  cli.EnvVars("MOMWISE_USER"),
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "momwise",
		Usage:  "Pregnancy companion backend: weekly diet plans, development timelines and an assistant",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigFile,
				Value:       defaultConfigFile,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tools over stdio",
				Flags:  []cli.Flag{userFlag()},
				Action: mcp,
			},
			{
				Name:   "token",
				Usage:  "Print a bearer token for local development",
				Flags:  []cli.Flag{userFlag()},
				Action: token,
			},
			{
				Name:  "profile",
				Usage: "Create or replace a user's pregnancy profile",
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{Name: "status", Usage: "Pregnancy status, e.g. pregnant"},
					&cli.StringFlag{Name: "due-date", Usage: "Due date (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "last-period", Usage: "First day of the last period (YYYY-MM-DD)"},
				},
				Action: setProfile,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
