package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MinCredentialLength applies to credential changes only; signup keeps
// the original app's behaviour of accepting any non-empty credential.
const MinCredentialLength = 6

// InputValidator validates user input
type InputValidator struct {
}

// NewInputValidator creates a new InputValidator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateUsername checks if a username is valid
func (iv *InputValidator) ValidateUsername(username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if strings.ContainsAny(username, "<>\"'&/\\") {
		return fmt.Errorf("username contains invalid characters")
	}
	if len(username) > 64 {
		return fmt.Errorf("username is too long (max 64 characters)")
	}
	return nil
}

// ValidateEmail checks for a local@domain shape
func (iv *InputValidator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return fmt.Errorf("email cannot contain spaces")
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid email format")
	}
	domain := email[at+1:]
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePhone checks an optional phone number
func (iv *InputValidator) ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	for _, r := range phone {
		if unicode.IsDigit(r) || strings.ContainsRune(" +-()", r) {
			continue
		}
		return fmt.Errorf("phone number contains invalid characters")
	}
	if len(phone) > 32 {
		return fmt.Errorf("phone number is too long (max 32 characters)")
	}
	return nil
}

// ValidateCredential checks that a credential was given
func (iv *InputValidator) ValidateCredential(credential string) error {
	if credential == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}

// ValidateCredentialChange checks a new credential and its confirmation
func (iv *InputValidator) ValidateCredentialChange(next, confirm string) error {
	if next != confirm {
		return errors.New("New passwords do not match.")
	}
	if len([]rune(next)) < MinCredentialLength {
		return fmt.Errorf("New password must be at least %d characters long.", MinCredentialLength)
	}
	return nil
}
