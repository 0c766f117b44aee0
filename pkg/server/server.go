package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/farm-atlas/pkg/handlers/webhook"
	atlasmiddleware "github.com/de-tools/farm-atlas/pkg/server/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

// Dependencies are nil in mock mode.
type Dependencies struct {
	Reports handlers.Processor
	Towers  handlers.TowerSource
	Info    handlers.Info
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	h := handlers.NewHandler(handlers.Options{
		Reports: config.Dependencies.Reports,
		Towers:  config.Dependencies.Towers,
		Info:    config.Dependencies.Info,
	})

	router := chi.NewRouter()

	router.Use(atlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	if config.RequestTimeout > 0 {
		router.Use(middleware.Timeout(config.RequestTimeout))
	}

	router.Get("/", h.Health)
	router.Get("/test", h.Test)
	router.Post("/webhook/n8n", h.Webhook)
	router.Route("/api", func(r chi.Router) {
		r.Get("/tower-data/{farmId}", h.TowerData)
		r.Get("/temp-data/{tableId}", h.TempData)
	})
	router.NotFound(h.NotFound)

	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: config.ShutdownTimeout,
	}
}

func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start serves until SIGINT or SIGTERM.
func (w *WebAPI) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return w.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully.
func (w *WebAPI) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if serveErr := <-serverErrors; err == nil && !errors.Is(serveErr, http.ErrServerClosed) {
			err = serveErr
		}
		return err
	}
}
