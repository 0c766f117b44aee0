package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/runtime/html"
	"github.com/rs/zerolog"
)

type Stage string

const (
	StageRouting   Stage = "routing"
	StageParsing   Stage = "parsing"
	StageFetching  Stage = "fetching"
	StageEmpty     Stage = "empty"
	StageRendering Stage = "rendering"
	StageDone      Stage = "done"
	StageError     Stage = "error"
)

const ErrorTypeUserFriendly = "user_friendly"

type Options struct {
	Priority []string
	Fallback string
	Clock    func() time.Time
}

// Orchestrator runs one query end to end: route, parse, fetch, then either the
// standard no-data page or the module's render. Each call is a single pass.
type Orchestrator struct {
	modules  *Registry
	priority []string
	fallback string
	now      func() time.Time
}

func NewOrchestrator(modules *Registry, opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Orchestrator{
		modules:  modules,
		priority: append([]string(nil), opts.Priority...),
		fallback: opts.Fallback,
		now:      opts.Clock,
	}
}

func (o *Orchestrator) Modules() *Registry {
	return o.modules
}

func (o *Orchestrator) Priority() []string {
	return append([]string(nil), o.priority...)
}

func (o *Orchestrator) Route(message string) (Selection, error) {
	return SelectModule(message, o.priority, o.modules, o.fallback)
}

// Process only returns an error when no module can serve the message at all.
// Every other failure is turned into a friendly error report.
func (o *Orchestrator) Process(ctx context.Context, message string, farmID domain.FarmID) (*domain.Report, error) {
	logger := zerolog.Ctx(ctx)
	start := o.now()

	sel, err := o.Route(message)
	if err != nil {
		logger.Error().Err(err).Interface("trace", sel.Trace).Msg("routing failed")
		return nil, err
	}
	logger.Debug().
		Str("module", sel.Module.Key).
		Strs("matched", sel.Matched).
		Msg("module selected")

	report, stage, err := o.run(ctx, sel.Module, message, farmID)
	if err != nil {
		logger.Error().
			Err(err).
			Str("module", sel.Module.Key).
			Str("stage", string(stage)).
			Stringer("farm_id", farmID).
			Msg("report failed")
		return o.errorReport(sel, farmID), nil
	}

	report.Metadata.FarmID = farmID
	report.Metadata.QueryTime = o.now().Sub(start).Milliseconds()
	report.Metadata.MatchedKeywords = sel.Matched
	report.Metadata.ModuleSelection = sel.Trace

	logger.Info().
		Str("module", sel.Module.Key).
		Str("stage", string(stage)).
		Int("records", report.Metadata.RecordCount).
		Int64("query_ms", report.Metadata.QueryTime).
		Msg("report ready")
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, m Module, message string, farmID domain.FarmID) (report *domain.Report, stage Stage, err error) {
	stage = StageParsing
	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = &RenderError{Module: m.Name, Stage: stage, Err: fmt.Errorf("panic: %v", r)}
			stage = StageError
		}
	}()

	params := m.Parse(message)
	if params == nil {
		return nil, StageError, &RenderError{Module: m.Name, Stage: stage, Err: errors.New("parse returned no parameters")}
	}

	stage = StageFetching
	rows, err := m.Fetch(ctx, farmID, params)
	if err != nil {
		return nil, StageError, &DataSourceError{Module: m.Name, Err: err}
	}

	if len(rows) == 0 {
		return o.noDataReport(m, params), StageEmpty, nil
	}

	stage = StageRendering
	report, err = m.Render(rows, params)
	if err != nil {
		return nil, StageError, &RenderError{Module: m.Name, Stage: stage, Err: err}
	}
	if report == nil {
		return nil, StageError, &RenderError{Module: m.Name, Stage: stage, Err: errors.New("render returned no report")}
	}

	return report, StageDone, nil
}

func (o *Orchestrator) noDataReport(m Module, params Params) *domain.Report {
	terms := params.SearchTerms()
	return &domain.Report{
		HTMLContent: html.NoData(m.Name, terms, o.now()),
		Metadata: domain.Metadata{
			Title:       fmt.Sprintf("No %s Found", m.Name),
			Description: "No data found for the specified criteria.",
			RecordCount: 0,
			DataType:    m.DataType,
			SearchQuery: strings.Join(terms, ", "),
		},
	}
}

func (o *Orchestrator) errorReport(sel Selection, farmID domain.FarmID) *domain.Report {
	m := sel.Module
	return &domain.Report{
		HTMLContent: html.FriendlyError(m.Name),
		Metadata: domain.Metadata{
			Title:           "Temporary Data Issue",
			Description:     fmt.Sprintf("Unable to access %s at this time", strings.ToLower(m.Name)),
			RecordCount:     0,
			DataType:        m.DataType,
			FarmID:          farmID,
			MatchedKeywords: sel.Matched,
			ModuleSelection: sel.Trace,
			Error:           true,
			ErrorType:       ErrorTypeUserFriendly,
			ModuleUsed:      m.Key,
		},
	}
}
