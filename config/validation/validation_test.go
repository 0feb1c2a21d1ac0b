package validation

import (
	"testing"

	"voicedash/config/models"
)

func TestValidateEmail(t *testing.T) {
	iv := NewInputValidator()
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"a@x.com", false},
		{"first.last+tag@sub.example.org", false},
		{"A@X.COM", false},
		{"", true},
		{"plain", true},
		{"@x.com", true},
		{"a@", true},
		{"a b@x.com", true},
		{"a@.com", true},
		{"a@x.", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := iv.ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	iv := NewInputValidator()
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"simple", "alice", false},
		{"with space", "Alice Smith", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"markup", "<script>", true},
		{"too long", string(long), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iv.ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	iv := NewInputValidator()
	tests := []struct {
		phone   string
		wantErr bool
	}{
		{"", false},
		{"555", false},
		{"+1 (555) 123-4567", false},
		{"555-CALL", true},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := iv.ValidatePhone(tt.phone)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePhone(%q) error = %v, wantErr %v", tt.phone, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCredentialChange(t *testing.T) {
	iv := NewInputValidator()
	tests := []struct {
		name    string
		next    string
		confirm string
		wantMsg string
	}{
		{"ok", "secret1", "secret1", ""},
		{"mismatch", "secret1", "secret2", "New passwords do not match."},
		{"too short", "pw1", "pw1", "New password must be at least 6 characters long."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := iv.ValidateCredentialChange(tt.next, tt.confirm)
			got := ""
			if err != nil {
				got = err.Error()
			}
			if got != tt.wantMsg {
				t.Errorf("ValidateCredentialChange() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestValidateSignup(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		name    string
		req     models.Signup
		wantErr bool
	}{
		{"minimal", models.Signup{Username: "a", Email: "a@x.com", Credential: "pw1"}, false},
		{"with phone", models.Signup{Username: "a", Email: "a@x.com", Phone: "555", Credential: "pw1"}, false},
		{"no username", models.Signup{Email: "a@x.com", Credential: "pw1"}, true},
		{"bad email", models.Signup{Username: "a", Email: "a", Credential: "pw1"}, true},
		{"bad phone", models.Signup{Username: "a", Email: "a@x.com", Phone: "x", Credential: "pw1"}, true},
		{"no credential", models.Signup{Username: "a", Email: "a@x.com"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSignup(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSignup() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewValidator()
	empty := ""
	bad := "nope"
	good := "b@x.com"

	if err := v.ValidateUpdate(models.ProfileUpdate{}); err != nil {
		t.Errorf("empty update error = %v", err)
	}
	if err := v.ValidateUpdate(models.ProfileUpdate{Phone: &empty}); err != nil {
		t.Errorf("clearing phone error = %v", err)
	}
	if err := v.ValidateUpdate(models.ProfileUpdate{Email: &good}); err != nil {
		t.Errorf("valid email error = %v", err)
	}
	if err := v.ValidateUpdate(models.ProfileUpdate{Email: &bad}); err == nil {
		t.Error("invalid email should fail")
	}
	if err := v.ValidateUpdate(models.ProfileUpdate{Username: &empty}); err == nil {
		t.Error("empty username should fail")
	}
}
