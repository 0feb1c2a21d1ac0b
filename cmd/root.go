package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"voicedash/internal/apperr"
)

// Version information
var (
	version string
	commit  string
	date    string
)

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "voicedash",
	Short: "Voice agent dashboard",
	Long: `voicedash manages your voice agent account and its speech-to-text
configuration: pick a provider, a model and a language, and save it.

Run 'voicedash dashboard' for the interactive view.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`voicedash {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd, err)
	}
	return err
}

// printError writes the user-facing form of err. Faults from the account
// and selector layers are mapped to their fixed messages.
func printError(cmd *cobra.Command, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", apperr.UserMessage(err))
	if ae.Kind == apperr.KindNoActiveSession {
		fmt.Fprintln(cmd.ErrOrStderr(), "\n💡 Run 'voicedash login' first")
	}
}
