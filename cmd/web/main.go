package main

import (
	"fmt"
	"os"

	"github.com/de-tools/farm-atlas/pkg/handlers/webhook"
	"github.com/de-tools/farm-atlas/pkg/server"
	"github.com/de-tools/farm-atlas/pkg/services/app"
	"github.com/de-tools/farm-atlas/pkg/services/config"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the farm report webhook server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "", "Path to a YAML settings file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(settings.Log.Level); err == nil {
		logger = logger.Level(level)
	} else {
		logger.Warn().Err(err).Str("level", settings.Log.Level).Msg("unknown log level, using debug")
	}
	ctx := logger.WithContext(cmd.Context())

	a, err := app.New(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to start report stack: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close datasource")
		}
	}()

	deps := server.Dependencies{
		Info: webhook.Info{
			ServiceName: settings.App.ServiceName,
			Version:     settings.App.Version,
			Environment: settings.App.Environment,
			Driver:      settings.Datasource.Driver,
			Modules:     a.ModuleNames(ctx),
		},
	}
	// Leave the interfaces nil in mock mode.
	if a.Orchestrator != nil {
		deps.Reports = a.Orchestrator
	}
	if a.Gateway != nil {
		deps.Towers = a.Gateway
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            settings.Addr(),
		ShutdownTimeout: settings.Server.ShutdownTimeout,
		RequestTimeout:  settings.Server.RequestTimeout,
		Dependencies:    deps,
	})

	return api.Start()
}
