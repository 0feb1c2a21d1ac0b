package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"voicedash/config/models"
	"voicedash/internal/utils"
)

func init() {
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	signupCmd.Flags().StringP("username", "u", "", "Display name")
	signupCmd.Flags().StringP("email", "e", "", "Email address")
	signupCmd.Flags().String("phone", "", "Phone number (optional)")
	signupCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")

	loginCmd.Flags().StringP("email", "e", "", "Email address")
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create a voicedash account

Missing values are read from stdin:
  voicedash signup --username alice --email alice@example.com`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		phone, _ := cmd.Flags().GetString("phone")
		password, _ := cmd.Flags().GetString("password")

		in := newPrompter(cmd)
		var err error
		if username, err = in.ask(username, "Username"); err != nil {
			return err
		}
		if email, err = in.ask(email, "Email"); err != nil {
			return err
		}
		if password, err = in.askSecret(password, "Password"); err != nil {
			return err
		}

		p, err := a.accounts.Signup(ctx, models.Signup{
			Username:   username,
			Email:      email,
			Phone:      phone,
			Credential: password,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s\n", utils.MaskEmail(p.Email))
		fmt.Fprintln(cmd.OutOrStdout(), "\n💡 Run 'voicedash login' to sign in")
		return nil
	}),
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in",
	Long:  "Sign in and keep the session for later commands",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		in := newPrompter(cmd)
		var err error
		if email, err = in.ask(email, "Email"); err != nil {
			return err
		}
		if password, err = in.askSecret(password, "Password"); err != nil {
			return err
		}

		if err := a.accounts.Login(ctx, email, password); err != nil {
			return err
		}

		p, _ := a.accounts.User()
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", p.Username)
		return nil
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out",
	Long:  "End the current session",
	Args:  cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if !a.accounts.IsAuthenticated() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
			return nil
		}
		if err := a.accounts.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long:  "Show the profile of the signed-in user",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		p := currentUser(ctx)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Username: %s\n", p.Username)
		fmt.Fprintf(out, "Email:    %s\n", utils.MaskEmail(p.Email))
		if p.Phone != "" {
			fmt.Fprintf(out, "Phone:    %s\n", p.Phone)
		}
		return nil
	}),
}
