package reports

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Registry holds the report modules known to the process. It is filled once at
// startup and only read afterwards.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Load registers every module, logging and skipping the ones that fail validation.
func Load(ctx context.Context, modules []Module) *Registry {
	logger := zerolog.Ctx(ctx)
	r := NewRegistry()
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			logger.Error().Err(err).Str("module", m.Key).Msg("skipping report module")
			continue
		}
		logger.Debug().Str("module", m.Key).Int("keywords", len(m.Keywords)).Msg("registered report module")
	}
	logger.Info().Int("modules", r.Len()).Msg("report modules loaded")
	return r
}

func (r *Registry) Register(m Module) error {
	if err := validate(m); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[m.Key]; exists {
		return fmt.Errorf("module %q is already registered", m.Key)
	}

	r.modules[m.Key] = m
	r.order = append(r.order, m.Key)
	return nil
}

func validate(m Module) error {
	var missing []string
	if m.Key == "" {
		missing = append(missing, "key")
	}
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Keywords == nil {
		missing = append(missing, "keywords")
	}
	if m.DataType == "" {
		missing = append(missing, "dataType")
	}
	if m.Parse == nil {
		missing = append(missing, "parse")
	}
	if m.Fetch == nil {
		missing = append(missing, "fetch")
	}
	if m.Render == nil {
		missing = append(missing, "render")
	}
	if len(missing) > 0 {
		return &ModuleValidationError{Key: m.Key, Missing: missing}
	}
	return nil
}

func (r *Registry) Get(key string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[key]
	return m, ok
}

// All returns modules in registration order.
func (r *Registry) All() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Module, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.modules[key])
	}
	return out
}

func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
