package siteconfig

import (
	"context"
	"fmt"
	"log"
)

// Store provides read/write access to the singleton SiteConfig document.
// Reads never fail: any backend error degrades to the hardcoded fallback
// so the site always has a renderable template. Writes surface their
// failures to the caller.
type Store struct {
	backend Backend
}

// NewStore creates a Store over the given backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Get returns the current configuration, or the fallback when the
// backend cannot be read.
func (s *Store) Get(ctx context.Context) SiteConfig {
	cfg, err := s.GetStrict(ctx)
	if err != nil {
		log.Printf("siteconfig: read failed, using fallback: %v", err)
		return Fallback()
	}
	return cfg
}

// GetStrict returns the current configuration or the backend error.
// API routes use this to surface store failures with an error code;
// everything else should use Get.
func (s *Store) GetStrict(ctx context.Context) (SiteConfig, error) {
	cfg, err := s.backend.Fetch(ctx)
	if err != nil {
		return SiteConfig{}, err
	}
	return *cfg, nil
}

// Update merges the partial onto the current document (shallow, at the
// top-level keys) and persists the result. The merged document must
// satisfy the invariant that the active template is one of the available
// ones; a persist failure is returned as *PersistError.
func (s *Store) Update(ctx context.Context, p Partial) (SiteConfig, error) {
	merged := s.Get(ctx)

	if p.ActiveTemplate != nil {
		merged.ActiveTemplate = *p.ActiveTemplate
	}
	if p.AvailableTemplates != nil {
		merged.AvailableTemplates = p.AvailableTemplates
	}

	if err := validate(merged); err != nil {
		return SiteConfig{}, err
	}

	if err := s.backend.Persist(ctx, merged); err != nil {
		return SiteConfig{}, &PersistError{Err: err}
	}
	return merged, nil
}

// SetActiveTemplate switches the active template to id. Fails with
// ErrUnknownTemplate when id is not in the available set; the stored
// document is left unchanged in that case.
func (s *Store) SetActiveTemplate(ctx context.Context, id string) (SiteConfig, error) {
	current := s.Get(ctx)
	if !current.HasTemplate(id) {
		return SiteConfig{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return s.Update(ctx, Partial{ActiveTemplate: &id})
}

// AddTemplate appends a template to the catalog. Fails with
// ErrDuplicateTemplate when the id already exists.
func (s *Store) AddTemplate(ctx context.Context, t Template) (SiteConfig, error) {
	current := s.Get(ctx)
	if current.HasTemplate(t.ID) {
		return SiteConfig{}, fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.ID)
	}
	return s.Update(ctx, Partial{
		AvailableTemplates: append(current.AvailableTemplates, t),
	})
}

// validate enforces the document invariants before persisting: unique
// template ids, and an active template drawn from the available set.
func validate(cfg SiteConfig) error {
	seen := make(map[string]bool, len(cfg.AvailableTemplates))
	for _, t := range cfg.AvailableTemplates {
		if seen[t.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.ID)
		}
		seen[t.ID] = true
	}
	if !cfg.HasTemplate(cfg.ActiveTemplate) {
		return fmt.Errorf("%w: %q", ErrUnknownTemplate, cfg.ActiveTemplate)
	}
	return nil
}
