package tui

import (
	"strings"
	"testing"

	"voicedash/config/models"
)

func TestProfileFormDataUpdate(t *testing.T) {
	p := models.Profile{ID: "id-1", Username: "alice", Email: "alice@example.com", Phone: "123"}

	tests := []struct {
		name         string
		data         ProfileFormData
		wantUsername *string
		wantEmail    *string
		wantPhone    *string
	}{
		{
			name: "unchanged",
			data: ProfileFormData{Username: "alice", Email: "alice@example.com", Phone: "123"},
		},
		{
			name:         "whitespace is trimmed before comparing",
			data:         ProfileFormData{Username: " alice ", Email: "alice@example.com", Phone: "123"},
			wantUsername: nil,
		},
		{
			name:         "changed username",
			data:         ProfileFormData{Username: "bob", Email: "alice@example.com", Phone: "123"},
			wantUsername: ptr("bob"),
		},
		{
			name:      "cleared phone",
			data:      ProfileFormData{Username: "alice", Email: "alice@example.com"},
			wantPhone: ptr(""),
		},
		{
			name:      "changed email",
			data:      ProfileFormData{Username: "alice", Email: "new@example.com", Phone: "123"},
			wantEmail: ptr("new@example.com"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.data.Update(p)
			checkField(t, "Username", u.Username, tt.wantUsername)
			checkField(t, "Email", u.Email, tt.wantEmail)
			checkField(t, "Phone", u.Phone, tt.wantPhone)
		})
	}
}

func ptr(s string) *string { return &s }

func checkField(t *testing.T, name string, got, want *string) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Errorf("%s = %v, want %v", name, got, want)
	case *got != *want:
		t.Errorf("%s = %q, want %q", name, *got, *want)
	}
}

func TestChangesCredential(t *testing.T) {
	tests := []struct {
		name string
		data ProfileFormData
		want bool
	}{
		{"nothing entered", ProfileFormData{}, false},
		{"only current", ProfileFormData{CurrentPassword: "x"}, false},
		{"new password", ProfileFormData{NewPassword: "abcdef"}, true},
		{"only confirm", ProfileFormData{ConfirmPassword: "abcdef"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.data.ChangesCredential(); got != tt.want {
				t.Errorf("ChangesCredential() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFocusField(t *testing.T) {
	inputs := LoginInputs()

	if got := focusField(inputs, 0, 1); got != 1 {
		t.Errorf("focusField(0, 1) = %d, want 1", got)
	}
	if inputs[0].Focused() || !inputs[1].Focused() {
		t.Error("focus should move to the second field")
	}
	if got := focusField(inputs, 1, 2); got != 0 {
		t.Errorf("focusField(1, 2) = %d, want 0 (wrap)", got)
	}
	if got := focusField(inputs, 0, -1); got != 1 {
		t.Errorf("focusField(0, -1) = %d, want 1 (wrap)", got)
	}
	if got := focusField(nil, 0, 1); got != 0 {
		t.Errorf("focusField(nil) = %d, want 0", got)
	}
}

func TestProfileInputs(t *testing.T) {
	p := models.Profile{Username: "alice", Email: "alice@example.com", Phone: "555"}
	inputs := ProfileInputs(p)

	if len(inputs) != ProfileFieldCount {
		t.Fatalf("len = %d, want %d", len(inputs), ProfileFieldCount)
	}
	data := getProfileFormData(inputs)
	if data.Username != "alice" || data.Email != "alice@example.com" || data.Phone != "555" {
		t.Errorf("getProfileFormData() = %+v", data)
	}
	if data.ChangesCredential() {
		t.Error("fresh form should not change the password")
	}
	if !inputs[ProfileFieldUsername].Focused() {
		t.Error("username should be focused")
	}
}

func TestRenderForm(t *testing.T) {
	out := renderForm("Sign in", loginLabels(), LoginInputs(), 0, "Invalid email or password.", "Enter: submit")
	for _, want := range []string{"Sign in", "Email:", "Password:", "Invalid email or password.", "Enter: submit"} {
		if !strings.Contains(out, want) {
			t.Errorf("renderForm() missing %q", want)
		}
	}
}
