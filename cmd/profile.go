package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"voicedash/config/models"
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profilePasswdCmd)

	profileUpdateCmd.Flags().StringP("username", "u", "", "New display name")
	profileUpdateCmd.Flags().StringP("email", "e", "", "New email address")
	profileUpdateCmd.Flags().String("phone", "", "New phone number (empty to clear)")

	profilePasswdCmd.Flags().String("current", "", "Current password (prompted when omitted)")
	profilePasswdCmd.Flags().String("new", "", "New password (prompted when omitted)")
	profilePasswdCmd.Flags().String("confirm", "", "New password again (prompted when omitted)")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
	Long:  "Update profile fields or change the password of the signed-in user",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Update profile fields. Only the flags given are changed:
  voicedash profile update --username alice --phone "+1 555 0100"`,
	Args: cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		var u models.ProfileUpdate
		flags := cmd.Flags()
		if flags.Changed("username") {
			v, _ := flags.GetString("username")
			u.Username = &v
		}
		if flags.Changed("email") {
			v, _ := flags.GetString("email")
			u.Email = &v
		}
		if flags.Changed("phone") {
			v, _ := flags.GetString("phone")
			u.Phone = &v
		}
		if u.Empty() {
			return fmt.Errorf("nothing to update: pass --username, --email or --phone")
		}

		if err := a.accounts.UpdateUser(ctx, u); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Profile updated successfully!")
		return nil
	}),
}

var profilePasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your password",
	Long:  "Change the password of the signed-in user",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		current, _ := cmd.Flags().GetString("current")
		next, _ := cmd.Flags().GetString("new")
		confirm, _ := cmd.Flags().GetString("confirm")

		in := newPrompter(cmd)
		var err error
		if current, err = in.askSecret(current, "Current password"); err != nil {
			return err
		}
		if next, err = in.askSecret(next, "New password"); err != nil {
			return err
		}
		if confirm, err = in.askSecret(confirm, "Confirm new password"); err != nil {
			return err
		}

		if err := a.accounts.ChangeCredential(ctx, current, next, confirm); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password changed successfully!")
		return nil
	}),
}
