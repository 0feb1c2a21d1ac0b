package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

// prompter reads answers line by line from the command's stdin. Prompts go
// to stderr so stdout stays clean for piping.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

// ask returns value when set, otherwise prompts for it
func (p *prompter) ask(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(p.cmd.ErrOrStderr(), "%s: ", label)
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// askSecret is ask with echo turned off when stdin is a terminal. Piped
// input is read as a plain line.
func (p *prompter) askSecret(value, label string) (string, error) {
	if value != "" {
		return value, nil
	}
	f, ok := p.cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return p.ask(value, label)
	}

	stderr := p.cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s: ", label)
	secret, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(secret), nil
}
