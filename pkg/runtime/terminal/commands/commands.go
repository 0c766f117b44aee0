package commands

import (
	"context"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/services/reports"
)

// Stack is the report stack a command runs against.
type Stack interface {
	Route(ctx context.Context, message string) (reports.Selection, error)
	Process(ctx context.Context, message string, farmID domain.FarmID) (*domain.Report, error)
	Modules(ctx context.Context) []reports.Module
	Close() error
}

// Opener builds the stack once flags are parsed.
type Opener func(ctx context.Context) (Stack, error)
