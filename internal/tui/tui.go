package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"voicedash/internal/account"
	"voicedash/internal/selector"
)

// Run starts the TUI interface
func Run(ctx context.Context, accounts *account.Store, sel *selector.Selector) error {
	// Check if we're running in a terminal
	if !isTerminal() {
		return fmt.Errorf("voicedash dashboard requires a terminal. Use subcommands for non-interactive mode")
	}

	m := NewModel(ctx, accounts, sel)

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}

	p := tea.NewProgram(m, opts...)

	_, err := p.Run()
	return err
}

// isTerminal checks if stdin is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
