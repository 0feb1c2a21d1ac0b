package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"voicedash/config"
	"voicedash/internal/catalog"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing settings file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage voicedash settings",
	Long:  "Create the settings file and show where voicedash keeps its data",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		manager, err := config.NewConfigManager()
		if err != nil {
			return err
		}
		if err := manager.WriteDefault(force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote %s\n", manager.SettingsPath())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show settings, store and log locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := config.NewConfigManager()
		if err != nil {
			return err
		}
		settings, err := manager.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config dir: %s\n", manager.GetConfigDir())
		fmt.Fprintf(out, "Settings:   %s\n", manager.SettingsPath())
		fmt.Fprintf(out, "Log:        %s\n", manager.LogPath())

		switch settings.Store.Backend {
		case config.BackendRedis:
			fmt.Fprintf(out, "Store:      redis %s (db %d, prefix %q)\n",
				settings.Store.Redis.Addr, settings.Store.Redis.DB, settings.Store.Redis.Prefix)
		case config.BackendMemory:
			fmt.Fprintln(out, "Store:      memory (not persisted)")
		default:
			fmt.Fprintf(out, "Store:      %s\n", settings.Store.Path)
		}

		src := settings.Catalog.Source
		if host, ok := catalog.RemoteHost(src); ok {
			fmt.Fprintf(out, "Catalog:    %s (host %s)\n", src, host)
		} else if src == "" {
			fmt.Fprintln(out, "Catalog:    bundled")
		} else {
			fmt.Fprintf(out, "Catalog:    %s\n", src)
		}
		return nil
	},
}
