package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// setupTestEnv points the config directory at a temp dir and selects the
// file backend. Returns the voicedash config directory.
func setupTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("VOICEDASH_STORE_BACKEND", "file")
	t.Setenv("VOICEDASH_STORE_PATH", "")
	t.Setenv("VOICEDASH_CATALOG", "")
	t.Setenv("VOICEDASH_SESSION_RESTORE", "")
	t.Setenv("VOICEDASH_LOG_LEVEL", "debug")

	return filepath.Join(home, ".config", "voicedash")
}

// executeCommand runs the root command with args and stdin, returning
// stdout and stderr
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd, err)
	}
	return out.String(), errOut.String(), err
}

// mustExecute runs a command that is expected to succeed
func mustExecute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, errOut, err := executeCommand(t, stdin, args...)
	if err != nil {
		t.Fatalf("voicedash %s: error = %v\nstderr: %s", strings.Join(args, " "), err, errOut)
	}
	return out
}

// resetFlags restores every flag to its default, since cobra keeps flag
// values between executions
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// signupAndLogin registers alice and signs her in
func signupAndLogin(t *testing.T) {
	t.Helper()
	mustExecute(t, "", "signup", "--username", "alice", "--email", "alice@example.com", "--password", "secret1")
	mustExecute(t, "", "login", "--email", "alice@example.com", "--password", "secret1")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}
