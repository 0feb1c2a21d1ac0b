// Package selector implements the cascading provider → model → language
// selection. Changing a parent level always clears its children, so an
// orphaned child can never be observed.
package selector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"voicedash/config/models"
	"voicedash/internal/apperr"
	"voicedash/internal/catalog"
	"voicedash/internal/logging"
	"voicedash/internal/store"
)

// Stage is how far the selection has progressed.
type Stage int

const (
	StageEmpty Stage = iota
	StageProviderChosen
	StageModelChosen
	StageComplete
)

func (s Stage) String() string {
	switch s {
	case StageProviderChosen:
		return "provider chosen"
	case StageModelChosen:
		return "model chosen"
	case StageComplete:
		return "complete"
	default:
		return "empty"
	}
}

// StatusKind classifies a status message
type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is the transient message shown after save, reset or a failed load.
type Status struct {
	Kind StatusKind
	Text string
}

// Empty reports whether there is no message.
func (s Status) Empty() bool {
	return s.Text == ""
}

const (
	msgSaved      = "Configuration saved successfully!"
	msgSaveFailed = "Failed to save configuration."
)

// Resolved is the display record for a complete selection.
type Resolved struct {
	ProviderName  string
	ProviderValue string
	ModelName     string
	ModelValue    string
	LanguageName  string
	LanguageValue string
}

// Selector owns the working selection and the last saved snapshot.
type Selector struct {
	mu sync.Mutex

	source catalog.Source
	store  store.Store
	logger *slog.Logger

	catalog   *catalog.Catalog
	selection models.Selection
	saved     *models.Selection
	loadErr   error
	status    Status
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Selector reading its catalog from src and persisting to st.
// Call Load before offering choices.
func New(src catalog.Source, st store.Store, opts ...Option) *Selector {
	s := &Selector{
		source: src,
		store:  st,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the catalog and the saved selection. On catalog failure the
// selector stays unloaded and the error is kept for LoadError.
func (s *Selector) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := catalog.Load(ctx, s.source)
	if err != nil {
		s.catalog = nil
		s.loadErr = err
		s.status = Status{Kind: StatusError, Text: apperr.UserMessage(err)}
		s.logger.Error("failed to load catalog", "error", err)
		return err
	}

	s.catalog = c
	s.loadErr = nil
	s.status = Status{}
	s.selection = models.Selection{}
	s.saved = nil

	saved, ok := s.readSaved(ctx)
	if ok {
		s.saved = &saved
		s.selection = s.sanitize(saved)
		if s.selection != saved {
			s.logger.Warn("saved selection no longer matches catalog",
				"provider", saved.Provider, "model", saved.Model, "language", saved.Language)
		}
	}

	s.logger.Debug("selector loaded", "providers", len(c.Providers), "saved", ok)
	return nil
}

// readSaved returns the persisted selection. A missing, unreadable or
// corrupt value is treated as never saved.
func (s *Selector) readSaved(ctx context.Context) (models.Selection, bool) {
	var sel models.Selection
	err := store.GetJSON(ctx, s.store, models.KeySTTConfig, &sel)
	switch {
	case err == nil:
		return sel, true
	case errors.Is(err, store.ErrNotFound):
	default:
		s.logger.Warn("ignoring saved selection", "key", models.KeySTTConfig, "error", err)
	}
	return models.Selection{}, false
}

// sanitize keeps the longest prefix of sel that exists in the catalog.
func (s *Selector) sanitize(sel models.Selection) models.Selection {
	var out models.Selection
	p, ok := s.catalog.Provider(sel.Provider)
	if !ok {
		return out
	}
	out.Provider = p.Value
	m, ok := p.Model(sel.Model)
	if !ok {
		return out
	}
	out.Model = m.Value
	if l, ok := m.Language(sel.Language); ok {
		out.Language = l.Value
	}
	return out
}

// Loaded reports whether a catalog is available.
func (s *Selector) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog != nil
}

// LoadError returns the last catalog failure, if any.
func (s *Selector) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// SetProvider selects a provider and clears model and language.
func (s *Selector) SetProvider(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil {
		return apperr.E("selector.SetProvider", apperr.KindInvalidKey, errors.New("catalog not loaded"))
	}
	if key == s.selection.Provider {
		return nil
	}
	if key != "" {
		if _, ok := s.catalog.Provider(key); !ok {
			return apperr.E("selector.SetProvider", apperr.KindInvalidKey, fmt.Errorf("unknown provider %q", key))
		}
	}

	s.selection = models.Selection{Provider: key}
	return nil
}

// SetModel selects a model of the current provider and clears language.
func (s *Selector) SetModel(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil || s.selection.Provider == "" {
		return apperr.E("selector.SetModel", apperr.KindInvalidKey, errors.New("no provider selected"))
	}
	if key == s.selection.Model {
		return nil
	}
	if key != "" {
		if _, ok := s.catalog.Model(s.selection.Provider, key); !ok {
			return apperr.E("selector.SetModel", apperr.KindInvalidKey,
				fmt.Errorf("provider %q has no model %q", s.selection.Provider, key))
		}
	}

	s.selection.Model = key
	s.selection.Language = ""
	return nil
}

// SetLanguage selects a language of the current model.
func (s *Selector) SetLanguage(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.catalog == nil || s.selection.Model == "" {
		return apperr.E("selector.SetLanguage", apperr.KindInvalidKey, errors.New("no model selected"))
	}
	if key != "" {
		if _, ok := s.catalog.Language(s.selection.Provider, s.selection.Model, key); !ok {
			return apperr.E("selector.SetLanguage", apperr.KindInvalidKey,
				fmt.Errorf("model %q has no language %q", s.selection.Model, key))
		}
	}

	s.selection.Language = key
	return nil
}

// Resolve returns display names for a complete selection.
func (s *Selector) Resolve() (Resolved, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.catalog.Provider(s.selection.Provider)
	if !ok {
		return Resolved{}, false
	}
	m, ok := p.Model(s.selection.Model)
	if !ok {
		return Resolved{}, false
	}
	l, ok := m.Language(s.selection.Language)
	if !ok {
		return Resolved{}, false
	}

	return Resolved{
		ProviderName:  p.Name,
		ProviderValue: p.Value,
		ModelName:     m.Name,
		ModelValue:    m.Value,
		LanguageName:  l.Name,
		LanguageValue: l.Value,
	}, true
}

// IsDirty reports whether the selection differs from the saved snapshot.
// Nothing saved yet counts as dirty.
func (s *Selector) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved == nil || *s.saved != s.selection
}

// Save persists a complete selection under sttConfig.
func (s *Selector) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.selection.Complete() {
		err := apperr.E("selector.Save", apperr.KindIncompleteSelection, nil)
		s.status = Status{Kind: StatusError, Text: apperr.UserMessage(err)}
		return err
	}

	op, err := store.PutJSON(models.KeySTTConfig, s.selection)
	if err == nil {
		err = s.store.Apply(ctx, op)
	}
	if err != nil {
		s.status = Status{Kind: StatusError, Text: msgSaveFailed}
		s.logger.Error("failed to save selection", "error", err)
		return apperr.E("selector.Save", apperr.KindPersistence, err)
	}

	saved := s.selection
	s.saved = &saved
	s.status = Status{Kind: StatusSuccess, Text: msgSaved}
	s.logger.Info("selection saved",
		"provider", saved.Provider, "model", saved.Model, "language", saved.Language)
	return nil
}

// Reset clears the working selection and the status message. The saved
// snapshot is kept.
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = models.Selection{}
	s.status = Status{}
}

// ClearStatus drops the current status message
func (s *Selector) ClearStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = Status{}
}

// Status returns the current status message.
func (s *Selector) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Selection returns a copy of the working selection.
func (s *Selector) Selection() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Saved returns a copy of the saved snapshot.
func (s *Selector) Saved() (models.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return models.Selection{}, false
	}
	return *s.saved, true
}

// Stage returns the completeness of the working selection.
func (s *Selector) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.selection.Language != "":
		return StageComplete
	case s.selection.Model != "":
		return StageModelChosen
	case s.selection.Provider != "":
		return StageProviderChosen
	default:
		return StageEmpty
	}
}

// Providers lists every provider once the catalog is loaded.
func (s *Selector) Providers() []catalog.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return nil
	}
	return append([]catalog.Provider(nil), s.catalog.Providers...)
}

// Models lists the current provider's models, or nil before one is chosen.
func (s *Selector) Models() []catalog.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.catalog.Provider(s.selection.Provider)
	if !ok {
		return nil
	}
	return append([]catalog.Model(nil), p.Models...)
}

// Languages lists the current model's languages, or nil before one is chosen.
func (s *Selector) Languages() []catalog.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.catalog.Model(s.selection.Provider, s.selection.Model)
	if !ok {
		return nil
	}
	return append([]catalog.Language(nil), m.Languages...)
}
