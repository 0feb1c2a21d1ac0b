package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"voicedash/internal/selector"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	activeSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Background(lipgloss.Color("57")).
				Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dirtyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1).
			Width(24)

	focusedColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("205"))
)

// Detail view styles
var (
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Width(12)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	detailSectionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)
)

// option is one row of a selection column
type option struct {
	name  string
	value string
}

// RenderAgentView renders the three selection columns with the resolved
// summary below them
func (m Model) RenderAgentView() string {
	var b strings.Builder
	width := m.getEffectiveWidth(80)

	b.WriteString(titleStyle.Render("STT Configuration"))
	if m.selector.Loaded() && m.selector.IsDirty() {
		b.WriteString("  ")
		b.WriteString(dirtyStyle.Render("● unsaved changes"))
	}
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("Loading STT configuration..."))
		b.WriteString("\n")
	case !m.selector.Loaded():
		b.WriteString(errorStyle.Render("✗ " + m.loadFailureText()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r: retry │ q: quit"))
		return b.String()
	default:
		b.WriteString(m.renderColumns())
		b.WriteString("\n\n")
		b.WriteString(m.renderSummary())
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(m.RenderStatusBar())
	return b.String()
}

func (m Model) loadFailureText() string {
	st := m.selector.Status()
	if st.Kind == selector.StatusError && st.Text != "" {
		return st.Text
	}
	return "Failed to load STT configuration data."
}

func (m Model) renderColumns() string {
	sel := m.selector.Selection()

	var providers, models, languages []option
	for _, p := range m.selector.Providers() {
		providers = append(providers, option{p.Name, p.Value})
	}
	for _, mo := range m.selector.Models() {
		models = append(models, option{mo.Name, mo.Value})
	}
	for _, l := range m.selector.Languages() {
		languages = append(languages, option{l.Name, l.Value})
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderColumn(levelProvider, "Provider", providers, sel.Provider, "No providers available"),
		m.renderColumn(levelModel, "Model", models, sel.Model, "Select a provider"),
		m.renderColumn(levelLanguage, "Language", languages, sel.Language, "Select a model"),
	)
}

// renderColumn renders one level. The chosen option is marked with "*",
// the cursor with ">".
func (m Model) renderColumn(level int, title string, opts []option, chosen, empty string) string {
	var b strings.Builder
	focused := level == m.level

	b.WriteString(detailSectionStyle.Render(title))
	b.WriteString("\n")

	if len(opts) == 0 {
		b.WriteString(dimStyle.Render(empty))
	}
	for i, o := range opts {
		isCursor := focused && i == m.cursors[level]
		isChosen := o.value == chosen

		cursor := "  "
		if isCursor {
			cursor = "> "
		}
		marker := "  "
		if isChosen {
			marker = "* "
		}
		content := cursor + marker + truncateText(o.name, 18)

		switch {
		case isCursor && isChosen:
			b.WriteString(activeSelectedStyle.Render(content))
		case isCursor:
			b.WriteString(selectedStyle.Render(content))
		case isChosen:
			b.WriteString(activeStyle.Render(content))
		default:
			b.WriteString(normalStyle.Render(content))
		}
		if i < len(opts)-1 {
			b.WriteString("\n")
		}
	}

	if focused {
		return focusedColumnStyle.Render(b.String())
	}
	return columnStyle.Render(b.String())
}

func (m Model) renderSummary() string {
	var b strings.Builder
	b.WriteString(detailSectionStyle.Render("Current selection"))
	b.WriteString("\n")

	r, complete := m.selector.Resolve()
	row := func(label, name, value string) {
		b.WriteString(detailLabelStyle.Render(label))
		if name == "" {
			b.WriteString(dimStyle.Render("-"))
		} else {
			b.WriteString(detailValueStyle.Render(fmt.Sprintf("%s (%s)", name, value)))
		}
		b.WriteString("\n")
	}
	row("Provider", r.ProviderName, r.ProviderValue)
	row("Model", r.ModelName, r.ModelValue)
	row("Language", r.LanguageName, r.LanguageValue)

	if !complete {
		b.WriteString(dimStyle.Render("Stage: " + m.selector.Stage().String()))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderProfileView renders the signed-in user's details
func (m Model) RenderProfileView() string {
	var b strings.Builder
	width := m.getEffectiveWidth(50)

	b.WriteString(titleStyle.Render("Profile"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n\n")

	p, ok := m.accounts.User()
	if !ok {
		b.WriteString(dimStyle.Render("You are not logged in."))
		b.WriteString("\n")
	} else {
		phone := p.Phone
		if phone == "" {
			phone = "-"
		}
		for _, row := range [][2]string{
			{"Username", p.Username},
			{"Email", p.Email},
			{"Phone", phone},
		} {
			b.WriteString(detailLabelStyle.Render(row[0]))
			b.WriteString(detailValueStyle.Render(row[1]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.message != "" {
		b.WriteString(messageStyle.Render("✓ " + m.message))
		b.WriteString("\n\n")
	}
	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMsg))
		b.WriteString("\n\n")
	}
	b.WriteString(helpStyle.Render("e: edit │ a/Esc: back │ L: log out │ q: quit"))
	return b.String()
}

// RenderHelpView renders the help view
func (m Model) RenderHelpView() string {
	var b strings.Builder
	width := m.getEffectiveWidth(50)

	b.WriteString(titleStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n\n")

	sections := []string{"Navigation", "Selection", "Views", "General"}
	for i, group := range m.keys.FullHelp() {
		if i < len(sections) {
			b.WriteString(detailSectionStyle.Render(sections[i]))
			b.WriteString("\n")
		}
		for _, k := range group {
			b.WriteString(renderHelpLine(k.Help().Key, k.Help().Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("?/Esc: back"))
	return b.String()
}

func renderHelpLine(key, desc string) string {
	return fmt.Sprintf("  %s  %s\n", helpKeyStyle.Width(12).Render(key), helpStyle.Render(desc))
}

// RenderStatusBar renders the save status, any error and the key hints
func (m Model) RenderStatusBar() string {
	var b strings.Builder

	st := m.selector.Status()
	switch {
	case st.Empty():
	case st.Kind == selector.StatusSuccess:
		b.WriteString(messageStyle.Render("✓ " + st.Text))
		b.WriteString("\n")
	default:
		b.WriteString(errorStyle.Render("✗ " + st.Text))
		b.WriteString("\n")
	}

	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("✗ " + m.errorMsg))
		b.WriteString("\n")
	}

	shortHelp := m.keys.ShortHelp()
	hints := make([]string, 0, len(shortHelp))
	for _, k := range shortHelp {
		keyStr := helpKeyStyle.Render(k.Help().Key)
		descStr := helpStyle.Render(k.Help().Desc)
		hints = append(hints, fmt.Sprintf("%s %s", keyStr, descStr))
	}
	b.WriteString(strings.Join(hints, helpStyle.Render(" │ ")))

	return b.String()
}

// getEffectiveWidth returns the effective width for rendering, with a minimum and maximum
func (m Model) getEffectiveWidth(defaultWidth int) int {
	if m.width <= 0 {
		return defaultWidth
	}
	maxWidth := 80
	if m.width < maxWidth {
		return m.width - 2
	}
	return maxWidth
}

// truncateText truncates text to fit within maxWidth runes
func truncateText(text string, maxWidth int) string {
	r := []rune(text)
	if len(r) <= maxWidth {
		return text
	}
	if maxWidth <= 3 {
		return string(r[:maxWidth])
	}
	return string(r[:maxWidth-3]) + "..."
}
