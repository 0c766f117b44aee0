package reports

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoModulesAvailable means routing found no keyword match and the fallback
// module is not registered either.
var ErrNoModulesAvailable = errors.New("no report modules available")

type ModuleValidationError struct {
	Key     string
	Missing []string
}

func (e *ModuleValidationError) Error() string {
	key := e.Key
	if key == "" {
		key = "<unnamed>"
	}
	return fmt.Sprintf("module %s is missing required capabilities: %s", key, strings.Join(e.Missing, ", "))
}

// DataSourceError wraps a failed fetch.
type DataSourceError struct {
	Module string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("database error in %s: %v", e.Module, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// RenderError covers failures while parsing or rendering, including panics.
type RenderError struct {
	Module string
	Stage  Stage
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("%s failed during %s: %v", e.Module, e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
