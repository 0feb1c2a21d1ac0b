// Package session holds the single active login. The profile is kept by
// value: callers always receive copies, so nothing outside the session can
// change it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"voicedash/config/models"
)

// ErrMalformedSnapshot is returned when a persisted snapshot cannot be used.
var ErrMalformedSnapshot = errors.New("malformed session snapshot")

// RestorePolicy decides what happens to a persisted session on startup.
type RestorePolicy string

const (
	// RestoreTrust adopts any well-formed snapshot as is.
	RestoreTrust RestorePolicy = "trust"
	// RestoreValidate drops a snapshot whose account no longer exists.
	RestoreValidate RestorePolicy = "validate"
)

// ParseRestorePolicy parses a policy name. Empty means trust.
func ParseRestorePolicy(s string) (RestorePolicy, error) {
	switch RestorePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", RestoreTrust:
		return RestoreTrust, nil
	case RestoreValidate:
		return RestoreValidate, nil
	default:
		return "", fmt.Errorf("unknown session restore policy %q (want trust or validate)", s)
	}
}

// Session is the active login, if any.
type Session struct {
	mu      sync.Mutex
	profile *models.Profile
}

// Begin makes p the active profile, replacing any previous one.
func (s *Session) Begin(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
}

// End clears the active profile.
func (s *Session) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
}

// Current returns a copy of the active profile.
func (s *Session) Current() (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return *s.profile, true
}

// Active reports whether a profile is active.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile != nil
}

// Encode serializes a profile as the persisted snapshot.
func Encode(p models.Profile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize session: %w", err)
	}
	return data, nil
}

// Decode parses a persisted snapshot. A snapshot must at least carry an id
// and an email.
func Decode(data []byte) (models.Profile, error) {
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Profile{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	if p.ID == "" || p.Email == "" {
		return models.Profile{}, fmt.Errorf("%w: missing id or email", ErrMalformedSnapshot)
	}
	return p, nil
}

type contextKey struct{}

// NewContext returns a context carrying the authenticated profile.
func NewContext(ctx context.Context, p models.Profile) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the profile stored by NewContext.
func FromContext(ctx context.Context) (models.Profile, bool) {
	p, ok := ctx.Value(contextKey{}).(models.Profile)
	return p, ok
}
