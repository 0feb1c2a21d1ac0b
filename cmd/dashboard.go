package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"voicedash/internal/tui"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long: `Open the terminal dashboard. Without a session it starts at the login
form; afterwards it shows the STT configuration and your profile.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		return tui.Run(ctx, a.accounts, a.selector)
	}),
}
