package cmd

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestCommandDefinitions(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		use  string
		runE bool
	}{
		{signupCmd, "signup", true},
		{loginCmd, "login", true},
		{logoutCmd, "logout", true},
		{whoamiCmd, "whoami", true},
		{profileCmd, "profile", false},
		{profileUpdateCmd, "update", true},
		{profilePasswdCmd, "passwd", true},
		{sttCmd, "stt", false},
		{sttProvidersCmd, "providers", true},
		{sttModelsCmd, "models <provider>", true},
		{sttLanguagesCmd, "languages <provider> <model>", true},
		{sttShowCmd, "show", true},
		{sttSetCmd, "set <provider> <model> <language>", true},
		{dashboardCmd, "dashboard", true},
		{configCmd, "config", false},
		{configInitCmd, "init", true},
		{configPathCmd, "path", true},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			if tt.cmd.Use != tt.use {
				t.Errorf("Use = %q, want %q", tt.cmd.Use, tt.use)
			}
			if tt.cmd.Short == "" {
				t.Error("Short should not be empty")
			}
			if (tt.cmd.RunE != nil) != tt.runE {
				t.Errorf("RunE set = %v, want %v", tt.cmd.RunE != nil, tt.runE)
			}
		})
	}
}

func TestRootRegistersSubcommands(t *testing.T) {
	want := []string{"signup", "login", "logout", "whoami", "profile", "stt", "dashboard", "config", "version"}
	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("rootCmd is missing %q", name)
		}
	}
}

func TestArgValidation(t *testing.T) {
	setupTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"models without provider", []string{"stt", "models"}},
		{"languages with one arg", []string{"stt", "languages", "openai"}},
		{"set with two args", []string{"stt", "set", "openai", "whisper-1"}},
		{"whoami with args", []string{"whoami", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := executeCommand(t, "", tt.args...); err == nil {
				t.Error("expected an argument error")
			}
		})
	}
}
