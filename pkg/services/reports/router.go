package reports

import (
	"strings"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"golang.org/x/text/cases"
)

// Trace outcomes recorded per candidate module.
const (
	OutcomeNotFound   = "not_found"
	OutcomeNoKeywords = "no_keywords"
	OutcomeNoMatch    = "no_match"
	OutcomeSelected   = "selected"
	OutcomeFallback   = "fallback"
)

// Lookup is the part of the registry routing needs.
type Lookup interface {
	Get(key string) (Module, bool)
}

type Selection struct {
	Module  Module
	Matched []string
	Trace   []domain.SelectionStep
}

// SelectModule walks priority in order and returns the first module with at
// least one keyword contained in message. Matching ignores case. When nothing
// matches, the fallback module is returned with no matched keywords.
func SelectModule(message string, priority []string, modules Lookup, fallback string) (Selection, error) {
	// cases.Caser is stateful, so one per call.
	folder := cases.Fold()
	folded := folder.String(message)

	trace := make([]domain.SelectionStep, 0, len(priority)+1)
	for _, key := range priority {
		m, ok := modules.Get(key)
		if !ok {
			trace = append(trace, domain.SelectionStep{Module: key, Outcome: OutcomeNotFound})
			continue
		}
		if len(m.Keywords) == 0 {
			trace = append(trace, domain.SelectionStep{Module: key, Outcome: OutcomeNoKeywords})
			continue
		}

		var matched []string
		for _, kw := range m.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(folded, folder.String(kw)) {
				matched = append(matched, kw)
			}
		}

		if len(matched) > 0 {
			trace = append(trace, domain.SelectionStep{Module: key, Outcome: OutcomeSelected, Matched: matched})
			return Selection{Module: m, Matched: matched, Trace: trace}, nil
		}
		trace = append(trace, domain.SelectionStep{Module: key, Outcome: OutcomeNoMatch})
	}

	m, ok := modules.Get(fallback)
	if !ok {
		trace = append(trace, domain.SelectionStep{Module: fallback, Outcome: OutcomeNotFound})
		return Selection{Trace: trace}, ErrNoModulesAvailable
	}
	trace = append(trace, domain.SelectionStep{Module: fallback, Outcome: OutcomeFallback})
	return Selection{Module: m, Matched: []string{}, Trace: trace}, nil
}
