// Package apperr defines the fault taxonomy shared by the selector and the
// account store. Every fault is recoverable and is turned into a message the
// caller can display.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a coarse-grained categorization for faults.
type Kind string

const (
	KindCatalogUnavailable  Kind = "catalog_unavailable"
	KindInvalidKey          Kind = "invalid_key"
	KindIncompleteSelection Kind = "incomplete_selection"
	KindPersistence         Kind = "persistence_error"
	KindDuplicateEmail      Kind = "duplicate_email"
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindNoActiveSession     Kind = "no_active_session"
	KindInvalidInput        Kind = "invalid_input"
)

// Sentinel errors, one per kind. An *Error unwraps to the sentinel of its
// kind, so callers can use errors.Is.
var (
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrInvalidKey          = errors.New("invalid key")
	ErrIncompleteSelection = errors.New("incomplete selection")
	ErrPersistence         = errors.New("persistence error")
	ErrDuplicateEmail      = errors.New("duplicate email")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNoActiveSession     = errors.New("no active session")
	ErrInvalidInput        = errors.New("invalid input")
)

var sentinels = map[Kind]error{
	KindCatalogUnavailable:  ErrCatalogUnavailable,
	KindInvalidKey:          ErrInvalidKey,
	KindIncompleteSelection: ErrIncompleteSelection,
	KindPersistence:         ErrPersistence,
	KindDuplicateEmail:      ErrDuplicateEmail,
	KindInvalidCredentials:  ErrInvalidCredentials,
	KindNoActiveSession:     ErrNoActiveSession,
	KindInvalidInput:        ErrInvalidInput,
}

// User-facing messages for each kind
var userMessages = map[Kind]string{
	KindCatalogUnavailable:  "Failed to load STT configuration data.",
	KindInvalidKey:          "The selected option is not available.",
	KindIncompleteSelection: "Please select all configuration options.",
	KindPersistence:         "Failed to save changes. Please try again.",
	KindDuplicateEmail:      "An account with this email already exists.",
	KindInvalidCredentials:  "Invalid email or password.",
	KindNoActiveSession:     "You are not logged in.",
	KindInvalidInput:        "Some fields are invalid.",
}

// Error wraps an underlying error with operation context and a kind.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

// E builds an *Error for op.
func E(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

// Unwrap exposes both the kind's sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, 2)
	if s, ok := sentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf returns the kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// UserMessage returns the message to display for err. Input validation
// faults carry their own detail; every other kind uses a fixed message so
// that, in particular, a failed login never reveals which check failed.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if !errors.As(err, &ae) {
		return "An unknown error occurred."
	}
	if ae.Kind == KindInvalidInput && ae.Err != nil {
		return ae.Err.Error()
	}
	if msg, ok := userMessages[ae.Kind]; ok {
		return msg
	}
	return "An unknown error occurred."
}
