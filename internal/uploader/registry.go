package uploader

import (
	"fmt"
	"log/slog"
	"sort"
)

// Registry holds the validated uploader configs for the process lifetime.
// It is built once at startup and never mutated afterwards.
type Registry struct {
	byID map[string]*Config
}

// NewRegistry validates and indexes the given definitions.
//
// A definition that fails validation is skipped with a warning rather
// than aborting startup: one bad schema must not take down the rest of
// the service.
func NewRegistry(defs ...*Config) *Registry {
	r := &Registry{byID: make(map[string]*Config, len(defs))}

	for _, def := range defs {
		if err := validate(def); err != nil {
			slog.Warn("uploader: skipping invalid definition",
				"id", idForLog(def),
				"error", err,
			)
			continue
		}
		if _, exists := r.byID[def.ID]; exists {
			slog.Warn("uploader: skipping duplicate definition", "id", def.ID)
			continue
		}
		r.byID[def.ID] = def
	}

	return r
}

// validate checks that a definition is usable.
func validate(def *Config) error {
	if def == nil {
		return fmt.Errorf("nil definition")
	}
	if def.ID == "" {
		return fmt.Errorf("empty id")
	}
	if def.MapRow == nil {
		return fmt.Errorf("missing MapRow")
	}
	if def.BuildKey == nil {
		return fmt.Errorf("missing BuildKey")
	}
	if len(def.AcceptedFileTypes) == 0 {
		return fmt.Errorf("no accepted file types")
	}
	return nil
}

func idForLog(def *Config) string {
	if def == nil {
		return "(nil)"
	}
	return def.ID
}

// Get returns the config for an uploader id.
func (r *Registry) Get(id string) (*Config, bool) {
	cfg, ok := r.byID[id]
	return cfg, ok
}

// List returns summary projections for all uploaders, sorted by id for
// consistent ordering.
func (r *Registry) List() []Summary {
	result := make([]Summary, 0, len(r.byID))
	for _, cfg := range r.byID {
		headers := cfg.FormatHeaders
		if headers == nil {
			headers = []string{}
		}
		result = append(result, Summary{
			ID:                cfg.ID,
			DisplayName:       cfg.DisplayName,
			AcceptedFileTypes: cfg.AcceptedFileTypes,
			FormatHeaders:     headers,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Format returns the expected-column description for an uploader.
func (r *Registry) Format(id string) (*Format, bool) {
	cfg, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	headers := cfg.FormatHeaders
	if headers == nil {
		headers = []string{}
	}
	return &Format{
		ID:          cfg.ID,
		DisplayName: cfg.DisplayName,
		Headers:     headers,
	}, true
}

// Count returns the number of registered uploaders.
func (r *Registry) Count() int {
	return len(r.byID)
}

// Definitions lists every uploader shipped with the service. New uploader
// types are added here.
func Definitions() []*Config {
	return []*Config{
		Bcase(),
	}
}
