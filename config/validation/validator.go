package validation

import (
	"voicedash/config/models"
)

// Validator validates account requests
type Validator struct {
	input *InputValidator
}

// NewValidator creates a new Validator
func NewValidator() *Validator {
	return &Validator{input: NewInputValidator()}
}

// ValidateSignup validates every field of a signup request
func (v *Validator) ValidateSignup(req models.Signup) error {
	if err := v.input.ValidateUsername(req.Username); err != nil {
		return err
	}
	if err := v.input.ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := v.input.ValidatePhone(req.Phone); err != nil {
		return err
	}
	return v.input.ValidateCredential(req.Credential)
}

// ValidateUpdate validates the fields present in a partial update
func (v *Validator) ValidateUpdate(u models.ProfileUpdate) error {
	if u.Username != nil {
		if err := v.input.ValidateUsername(*u.Username); err != nil {
			return err
		}
	}
	if u.Email != nil {
		if err := v.input.ValidateEmail(*u.Email); err != nil {
			return err
		}
	}
	if u.Phone != nil {
		if err := v.input.ValidatePhone(*u.Phone); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCredentialChange validates a credential change
func (v *Validator) ValidateCredentialChange(next, confirm string) error {
	return v.input.ValidateCredentialChange(next, confirm)
}
