// Package app assembles the report stack shared by the web server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/services/config"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
	"github.com/de-tools/farm-atlas/pkg/services/reports/modules"
	"github.com/de-tools/farm-atlas/pkg/store/datasource"
	"github.com/de-tools/farm-atlas/pkg/store/farm"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	"github.com/rs/zerolog"
)

type App struct {
	Settings     *config.Settings
	Orchestrator *reports.Orchestrator
	Gateway      *query.Gateway
	Farms        *farm.Names

	db *sql.DB
}

// New connects to the configured datasource and registers every report
// module. With no driver configured the app runs in mock mode: Gateway and
// Orchestrator stay nil.
func New(ctx context.Context, settings *config.Settings) (*App, error) {
	logger := zerolog.Ctx(ctx)
	a := &App{Settings: settings}

	if settings.Datasource.Driver == "" {
		logger.Warn().Msg("no datasource configured, running in mock mode")
		return a, nil
	}

	gw, db, err := datasource.Open(ctx, settings.Datasource)
	if err != nil {
		return nil, err
	}
	a.Gateway, a.db = gw, db

	a.Farms, err = farm.NewNames(gw, settings.FarmCache.Size)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	registry := reports.Load(ctx, modules.All(modules.Deps{Store: gw, Farms: a.Farms}))
	if registry.Len() == 0 {
		_ = db.Close()
		return nil, fmt.Errorf("failed to start: %w", reports.ErrNoModulesAvailable)
	}

	a.Orchestrator = reports.NewOrchestrator(registry, reports.Options{
		Priority: settings.Routing.Priority,
		Fallback: settings.Routing.Fallback,
	})

	logger.Info().
		Int("modules", registry.Len()).
		Strs("priority", settings.Routing.Priority).
		Str("fallback", settings.Routing.Fallback).
		Msg("report modules loaded")
	return a, nil
}

// ErrMockMode is returned by Process when no datasource is configured.
var ErrMockMode = errors.New("no datasource configured")

// router routes with the live orchestrator, or with modules that have no
// store in mock mode so routing can still be inspected.
func (a *App) router(ctx context.Context) *reports.Orchestrator {
	if a.Orchestrator != nil {
		return a.Orchestrator
	}
	return reports.NewOrchestrator(reports.Load(ctx, modules.All(modules.Deps{})), reports.Options{
		Priority: a.Settings.Routing.Priority,
		Fallback: a.Settings.Routing.Fallback,
	})
}

func (a *App) Route(ctx context.Context, message string) (reports.Selection, error) {
	return a.router(ctx).Route(message)
}

func (a *App) Process(ctx context.Context, message string, farmID domain.FarmID) (*domain.Report, error) {
	if a.Orchestrator == nil {
		return nil, ErrMockMode
	}
	return a.Orchestrator.Process(ctx, message, farmID)
}

// Modules lists registered modules in routing order, fallback last.
func (a *App) Modules(ctx context.Context) []reports.Module {
	reg := a.router(ctx).Modules()
	keys := append(append([]string(nil), a.Settings.Routing.Priority...), a.Settings.Routing.Fallback)

	var out []reports.Module
	for _, key := range keys {
		if m, ok := reg.Get(key); ok {
			out = append(out, m)
		}
	}
	return out
}

func (a *App) ModuleNames(ctx context.Context) []string {
	var names []string
	for _, m := range a.Modules(ctx) {
		names = append(names, m.Name)
	}
	return names
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
