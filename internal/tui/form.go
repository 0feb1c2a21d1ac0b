package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"voicedash/config/models"
)

// Login form fields
const (
	LoginFieldEmail = iota
	LoginFieldPassword
	LoginFieldCount // Total number of fields
)

// Profile form fields
const (
	ProfileFieldUsername = iota
	ProfileFieldEmail
	ProfileFieldPhone
	ProfileFieldCurrentPassword
	ProfileFieldNewPassword
	ProfileFieldConfirmPassword
	ProfileFieldCount // Total number of fields
)

// ProfileFormData represents the data collected from the profile form
type ProfileFormData struct {
	Username        string
	Email           string
	Phone           string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// Update returns a partial update holding only the fields that differ
// from p.
func (f ProfileFormData) Update(p models.Profile) models.ProfileUpdate {
	var u models.ProfileUpdate
	if username := strings.TrimSpace(f.Username); username != p.Username {
		u.Username = &username
	}
	if email := strings.TrimSpace(f.Email); email != p.Email {
		u.Email = &email
	}
	if phone := strings.TrimSpace(f.Phone); phone != p.Phone {
		u.Phone = &phone
	}
	return u
}

// ChangesCredential reports whether a new password was entered
func (f ProfileFormData) ChangesCredential() bool {
	return f.NewPassword != "" || f.ConfirmPassword != ""
}

// Form styles
var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	formInputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	formFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

func newInput(placeholder string, limit int, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 40
	in.Prompt = ""
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

// LoginInputs creates the login form fields
func LoginInputs() []textinput.Model {
	inputs := make([]textinput.Model, LoginFieldCount)
	inputs[LoginFieldEmail] = newInput("you@example.com", 254, false)
	inputs[LoginFieldPassword] = newInput("password", 128, true)
	inputs[LoginFieldEmail].Focus()
	return inputs
}

// ProfileInputs creates the profile form fields prefilled from p
func ProfileInputs(p models.Profile) []textinput.Model {
	inputs := make([]textinput.Model, ProfileFieldCount)
	inputs[ProfileFieldUsername] = newInput("username", 64, false)
	inputs[ProfileFieldEmail] = newInput("you@example.com", 254, false)
	inputs[ProfileFieldPhone] = newInput("optional", 32, false)
	inputs[ProfileFieldCurrentPassword] = newInput("required to change password", 128, true)
	inputs[ProfileFieldNewPassword] = newInput("leave empty to keep", 128, true)
	inputs[ProfileFieldConfirmPassword] = newInput("repeat new password", 128, true)

	inputs[ProfileFieldUsername].SetValue(p.Username)
	inputs[ProfileFieldEmail].SetValue(p.Email)
	inputs[ProfileFieldPhone].SetValue(p.Phone)
	inputs[ProfileFieldUsername].Focus()
	return inputs
}

// loginLabels returns the labels for the login form
func loginLabels() []string {
	return []string{"Email:", "Password:"}
}

// profileLabels returns the labels for the profile form
func profileLabels() []string {
	return []string{
		"Username:",
		"Email:",
		"Phone:",
		"Current password:",
		"New password:",
		"Confirm password:",
	}
}

// getProfileFormData extracts data from the profile inputs
func getProfileFormData(inputs []textinput.Model) ProfileFormData {
	if len(inputs) < ProfileFieldCount {
		return ProfileFormData{}
	}
	return ProfileFormData{
		Username:        inputs[ProfileFieldUsername].Value(),
		Email:           inputs[ProfileFieldEmail].Value(),
		Phone:           inputs[ProfileFieldPhone].Value(),
		CurrentPassword: inputs[ProfileFieldCurrentPassword].Value(),
		NewPassword:     inputs[ProfileFieldNewPassword].Value(),
		ConfirmPassword: inputs[ProfileFieldConfirmPassword].Value(),
	}
}

// focusField moves focus to index i, wrapping around
func focusField(inputs []textinput.Model, current, i int) int {
	if len(inputs) == 0 {
		return 0
	}
	i = (i + len(inputs)) % len(inputs)
	if current >= 0 && current < len(inputs) {
		inputs[current].Blur()
	}
	inputs[i].Focus()
	return i
}

// renderForm renders a labelled form with an optional error line
func renderForm(title string, labels []string, inputs []textinput.Model, focus int, errMsg, hint string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	for i, in := range inputs {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		labelStyle := formLabelStyle
		if i == focus {
			labelStyle = labelStyle.Inherit(formFocusedStyle)
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(formInputStyle.Render(in.View()))
		b.WriteString("\n")
	}

	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(formErrorStyle.Render("✗ " + errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formHintStyle.Render(hint))
	return b.String()
}
