package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"voicedash/internal/selector"
)

func init() {
	rootCmd.AddCommand(sttCmd)
	sttCmd.AddCommand(sttProvidersCmd)
	sttCmd.AddCommand(sttModelsCmd)
	sttCmd.AddCommand(sttLanguagesCmd)
	sttCmd.AddCommand(sttShowCmd)
	sttCmd.AddCommand(sttSetCmd)
}

var sttCmd = &cobra.Command{
	Use:   "stt",
	Short: "Speech-to-text configuration",
	Long: `Browse the STT catalog and save a provider, model and language

  voicedash stt providers
  voicedash stt models openai
  voicedash stt languages openai whisper-1
  voicedash stt set openai whisper-1 en`,
}

var sttProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List STT providers",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.selector.Load(ctx); err != nil {
			return err
		}
		saved, _ := a.selector.Saved()
		var opts []optionLine
		for _, p := range a.selector.Providers() {
			opts = append(opts, optionLine{p.Name, p.Value, p.Value == saved.Provider})
		}
		printOptions(cmd.OutOrStdout(), "Providers", opts)
		return nil
	}),
}

var sttModelsCmd = &cobra.Command{
	Use:   "models <provider>",
	Short: "List the models of a provider",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.selector.Load(ctx); err != nil {
			return err
		}
		saved, _ := a.selector.Saved()
		if err := a.selector.SetProvider(args[0]); err != nil {
			return err
		}
		var opts []optionLine
		for _, m := range a.selector.Models() {
			active := saved.Provider == args[0] && m.Value == saved.Model
			opts = append(opts, optionLine{m.Name, m.Value, active})
		}
		printOptions(cmd.OutOrStdout(), "Models", opts)
		return nil
	}),
}

var sttLanguagesCmd = &cobra.Command{
	Use:   "languages <provider> <model>",
	Short: "List the languages of a model",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.selector.Load(ctx); err != nil {
			return err
		}
		saved, _ := a.selector.Saved()
		if err := a.selector.SetProvider(args[0]); err != nil {
			return err
		}
		if err := a.selector.SetModel(args[1]); err != nil {
			return err
		}
		var opts []optionLine
		for _, l := range a.selector.Languages() {
			active := saved.Provider == args[0] && saved.Model == args[1] && l.Value == saved.Language
			opts = append(opts, optionLine{l.Name, l.Value, active})
		}
		printOptions(cmd.OutOrStdout(), "Languages", opts)
		return nil
	}),
}

var sttShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved STT configuration",
	Args:  cobra.NoArgs,
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		if err := a.selector.Load(ctx); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if _, ok := a.selector.Saved(); !ok {
			fmt.Fprintln(out, "No STT configuration saved")
			fmt.Fprintln(out, "\n💡 Run 'voicedash stt set <provider> <model> <language>' to save one")
			return nil
		}

		printResolved(out, a.selector)
		if a.selector.IsDirty() {
			fmt.Fprintln(out, "\n⚠️  The saved configuration is no longer fully available in the catalog")
		}
		return nil
	}),
}

var sttSetCmd = &cobra.Command{
	Use:   "set <provider> <model> <language>",
	Short: "Save an STT configuration",
	Args:  cobra.ExactArgs(3),
	RunE: withSession(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
		sel := a.selector
		if err := sel.Load(ctx); err != nil {
			return err
		}
		if err := sel.SetProvider(args[0]); err != nil {
			return err
		}
		if err := sel.SetModel(args[1]); err != nil {
			return err
		}
		if err := sel.SetLanguage(args[2]); err != nil {
			return err
		}
		if err := sel.Save(ctx); err != nil {
			return err
		}

		a.logger.Info("stt configuration set from cli", "user_id", currentUser(ctx).ID)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ %s\n\n", sel.Status().Text)
		printResolved(out, sel)
		return nil
	}),
}

// optionLine is one catalog entry in a listing
type optionLine struct {
	name   string
	value  string
	active bool
}

// printOptions lists options, marking the saved one with *
func printOptions(w io.Writer, title string, opts []optionLine) {
	if len(opts) == 0 {
		fmt.Fprintf(w, "No %s available\n", title)
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	anyActive := false
	for _, o := range opts {
		marker := " "
		if o.active {
			marker = "*"
			anyActive = true
		}
		fmt.Fprintf(w, "%s %-16s %s\n", marker, o.value, o.name)
	}
	if anyActive {
		fmt.Fprintf(w, "\n* indicates the saved configuration\n")
	}
}

func printResolved(w io.Writer, sel *selector.Selector) {
	r, _ := sel.Resolve()
	row := func(label, name, value string) {
		if name == "" {
			fmt.Fprintf(w, "  %-9s -\n", label+":")
			return
		}
		fmt.Fprintf(w, "  %-9s %s (%s)\n", label+":", name, value)
	}
	fmt.Fprintln(w, "STT configuration:")
	row("Provider", r.ProviderName, r.ProviderValue)
	row("Model", r.ModelName, r.ModelValue)
	row("Language", r.LanguageName, r.LanguageValue)
}
