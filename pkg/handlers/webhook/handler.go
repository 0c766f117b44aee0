package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/api"
	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/de-tools/farm-atlas/pkg/server/middleware"
	"github.com/de-tools/farm-atlas/pkg/store/query"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 10 << 20

type Processor interface {
	Process(ctx context.Context, message string, farmID domain.FarmID) (*domain.Report, error)
}

type TowerSource interface {
	Select(ctx context.Context, q *query.Query) ([]store.Row, error)
}

// Info is what the health endpoint reports about the running service.
type Info struct {
	ServiceName string
	Version     string
	Environment string
	Driver      string
	Modules     []string
}

// Options configure a Handler. Reports and Towers are nil in mock mode.
type Options struct {
	Reports Processor
	Towers  TowerSource
	Info    Info
	Clock   func() time.Time
}

type Handler struct {
	reports Processor
	towers  TowerSource
	info    Info
	now     func() time.Time
}

func NewHandler(opts Options) *Handler {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Handler{
		reports: opts.Reports,
		towers:  opts.Towers,
		info:    opts.Info,
		now:     opts.Clock,
	}
}

var (
	features = []string{
		"Smart Query Parsing",
		"Modular Data Handling",
		"Filtered Results",
		"Multi-Data Source Support",
	}
	endpoints = []string{
		"GET / - Health check",
		"GET /test - Connectivity check",
		"POST /webhook/n8n - Main webhook",
		"GET /api/temp-data/{tableId} - Get temp data",
		"GET /api/tower-data/{farmId} - Get tower data",
	}
	tempRows = []api.TempRow{
		{Name: "John Doe", Email: "john@example.com", Status: "Active"},
		{Name: "Jane Smith", Email: "jane@example.com", Status: "Pending"},
		{Name: "Bob Johnson", Email: "bob@example.com", Status: "Inactive"},
	}
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(r.Context(), w, http.StatusOK, api.Health{
		Status:      "Report server is running",
		Service:     h.info.ServiceName,
		Version:     h.info.Version,
		Environment: h.info.Environment,
		Timestamp:   h.now().UTC(),
		Datasource: api.DatasourceStatus{
			Connected: h.reports != nil,
			Driver:    h.info.Driver,
		},
		Features:    features,
		DataSources: h.info.Modules,
		Endpoints:   endpoints,
	})
}

func (h *Handler) Test(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(r.Context(), w, http.StatusOK, api.Diagnostic{
		Status:  "success",
		Message: "Hello from the report server! The basic connection is working.",
	})
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.WebhookRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Warn().Err(err).Msg("invalid webhook body")
		h.writeError(ctx, w, http.StatusBadRequest, "Invalid request body.", err)
		return
	}

	farmID := req.Farm()
	message := req.Normalized()
	now := h.now()
	tableID := fmt.Sprintf("table_%s_%d", req.SessionID, now.UnixMilli())

	logger.Info().
		Str("session_id", req.SessionID).
		Stringer("farm_id", farmID).
		Str("message", message).
		Msg("webhook received")

	var report *domain.Report
	if h.reports != nil && farmID.Valid() {
		report, err = h.reports.Process(ctx, message, farmID)
		if err != nil {
			logger.Error().Err(err).Stringer("farm_id", farmID).Msg("failed to process query")
			h.writeError(ctx, w, http.StatusInternalServerError, "Internal server error. Please check the server logs.", err)
			return
		}
	} else {
		logger.Warn().
			Bool("datasource", h.reports != nil).
			Bool("farm_id", farmID.Valid()).
			Msg("missing requirements, serving mock table")
		report = h.mockReport(message)
	}

	h.writeJSON(ctx, w, http.StatusOK, api.WebhookResponse{
		Success:     true,
		Message:     "Data retrieved successfully!",
		TableID:     tableID,
		WidgetCode:  report.HTMLContent,
		TempDataURL: "/api/temp-data/" + tableID,
		Metadata: api.WebhookMetadata{
			Metadata:        report.Metadata,
			FarmID:          farmID,
			UserMessage:     message,
			OriginalMessage: req.Text(),
			CreatedAt:       now.UTC(),
		},
		RequestID: middleware.RequestID(ctx),
		Timestamp: now.UTC(),
	})
}

func (h *Handler) mockReport(message string) *domain.Report {
	description := "Datasource not available"
	if h.reports != nil {
		description = "No farm ID provided"
	}
	return &domain.Report{
		HTMLContent: html.MockTable(message),
		Metadata: domain.Metadata{
			Title:           "Mock Data Table",
			Description:     description,
			RecordCount:     len(html.MockRows),
			DataType:        "mock",
			MatchedKeywords: []string{},
		},
	}
}

func (h *Handler) TowerData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if h.towers == nil {
		h.writeError(ctx, w, http.StatusServiceUnavailable, "Database service not available", nil)
		return
	}

	farmID, err := domain.ParseFarmID(chi.URLParam(r, "farmId"))
	if err != nil {
		h.writeError(ctx, w, http.StatusBadRequest, "Invalid farm id.", err)
		return
	}

	rows, err := h.towers.Select(ctx, query.From("tower_display_with_plants").ForFarm(int64(farmID)))
	if err != nil {
		logger.Error().Err(err).Stringer("farm_id", farmID).Msg("failed to load tower data")
		h.writeError(ctx, w, http.StatusInternalServerError, "Internal server error. Please check the server logs.", err)
		return
	}

	h.writeJSON(ctx, w, http.StatusOK, api.TowerData{
		Success:   true,
		FarmID:    farmID,
		Data:      rows,
		Count:     len(rows),
		Timestamp: h.now().UTC(),
	})
}

func (h *Handler) TempData(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(r.Context(), w, http.StatusOK, api.TempData{
		TableID:   chi.URLParam(r, "tableId"),
		Data:      tempRows,
		Count:     len(tempRows),
		Timestamp: h.now().UTC(),
	})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(r.Context(), w, http.StatusNotFound, "Endpoint not found", nil)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	resp := api.ErrorResponse{
		Success:   false,
		Message:   message,
		Timestamp: h.now().UTC(),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	h.writeJSON(ctx, w, status, resp)
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")
	}
}
