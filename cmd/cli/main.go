package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/farm-atlas/pkg/runtime/terminal"
	"github.com/de-tools/farm-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/farm-atlas/pkg/services/app"
	"github.com/de-tools/farm-atlas/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cli := terminal.NewCLI(terminal.Options{
		Load: func(ctx context.Context, configPath string) (commands.Stack, error) {
			settings, err := config.Load(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load settings: %w", err)
			}
			if level, err := zerolog.ParseLevel(settings.Log.Level); err == nil {
				logger = logger.Level(level)
			}
			a, err := app.New(logger.WithContext(ctx), settings)
			if err != nil {
				return nil, err
			}
			return a, nil
		},
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
