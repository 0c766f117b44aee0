package reports

import (
	"context"
	"fmt"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/models/store"
)

// Params is what every module's parsed query exposes to the outside. Filter
// fields stay private to the module that defined them.
type Params interface {
	SearchTerms() []string
}

// Terms is embedded in module parameter structs.
type Terms []string

func (t Terms) SearchTerms() []string {
	if t == nil {
		return []string{}
	}
	return t
}

// Add appends a term once.
func (t *Terms) Add(term string) {
	for _, existing := range *t {
		if existing == term {
			return
		}
	}
	*t = append(*t, term)
}

type (
	ParseFunc  func(message string) Params
	FetchFunc  func(ctx context.Context, farmID domain.FarmID, p Params) ([]store.Row, error)
	RenderFunc func(rows []store.Row, p Params) (*domain.Report, error)
)

// Module is one report type: how to recognise it, how to read its filters
// from a message, how to load its rows and how to turn them into a page.
type Module struct {
	Key      string
	Name     string
	Keywords []string
	DataType string
	Parse    ParseFunc
	Fetch    FetchFunc
	Render   RenderFunc
}

// Definition is the typed form of a Module used by module authors.
type Definition[P Params] struct {
	Key      string
	Name     string
	Keywords []string
	DataType string
	Parse    func(message string) P
	Fetch    func(ctx context.Context, farmID domain.FarmID, p P) ([]store.Row, error)
	Render   func(rows []store.Row, p P) (*domain.Report, error)
}

// Define erases a module's parameter type. Capabilities left nil stay nil so
// the registry can reject the module.
func Define[P Params](s Definition[P]) Module {
	m := Module{
		Key:      s.Key,
		Name:     s.Name,
		Keywords: s.Keywords,
		DataType: s.DataType,
	}

	if s.Parse != nil {
		m.Parse = func(message string) Params {
			return s.Parse(message)
		}
	}

	if s.Fetch != nil {
		m.Fetch = func(ctx context.Context, farmID domain.FarmID, p Params) (rows []store.Row, err error) {
			typed, ok := p.(P)
			if !ok {
				return nil, fmt.Errorf("%s: unexpected params %T", s.Key, p)
			}
			defer func() {
				if r := recover(); r != nil {
					rows, err = nil, fmt.Errorf("%s: fetch panicked: %v", s.Key, r)
				}
			}()
			return s.Fetch(ctx, farmID, typed)
		}
	}

	if s.Render != nil {
		m.Render = func(rows []store.Row, p Params) (*domain.Report, error) {
			typed, ok := p.(P)
			if !ok {
				return nil, fmt.Errorf("%s: unexpected params %T", s.Key, p)
			}
			return s.Render(rows, typed)
		}
	}

	return m
}
