// Package tui provides the voicedash terminal dashboard
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"voicedash/config/models"
	"voicedash/internal/account"
	"voicedash/internal/apperr"
	"voicedash/internal/selector"
)

// StatusTimeout is how long a status message stays on screen
const StatusTimeout = 3 * time.Second

// ViewState represents the current view state
type ViewState int

const (
	ViewLogin       ViewState = iota // Login form
	ViewAgent                        // Cascading STT selection
	ViewProfile                      // Profile details
	ViewProfileEdit                  // Profile edit form
	ViewHelp                         // Help panel
)

// Selection levels in the agent view
const (
	levelProvider = iota
	levelModel
	levelLanguage
	levelCount
)

// Model is the core state model for TUI
type Model struct {
	ctx      context.Context
	accounts *account.Store
	selector *selector.Selector
	keys     KeyMap

	viewState ViewState
	prevView  ViewState // view to return to from help

	// Agent view
	loading bool
	level   int            // focused level
	cursors [levelCount]int // cursor per level

	// Form related
	formInputs []textinput.Model // Form input fields
	formFocus  int               // Currently focused input field

	// Messages and errors
	message   string // Status message
	errorMsg  string // Error message
	statusSeq int    // bumps on every selector status change

	statusTimeout time.Duration

	// Window size
	width  int
	height int
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, accounts *account.Store, sel *selector.Selector) Model {
	m := Model{
		ctx:      ctx,
		accounts: accounts,
		selector: sel,
		keys:     DefaultKeyMap(),

		statusTimeout: StatusTimeout,
		width:         80,
		height:        24,
	}
	if accounts.IsAuthenticated() {
		m.viewState = ViewAgent
		m.loading = true
	} else {
		m.initLoginForm()
	}
	return m
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	if m.viewState == ViewAgent {
		return loadCatalog(m.ctx, m.selector)
	}
	return textinput.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case LoginResultMsg:
		if msg.Err != nil {
			m.errorMsg = apperr.UserMessage(msg.Err)
			return m, nil
		}
		m.formInputs = nil
		m.errorMsg = ""
		m.viewState = ViewAgent
		m.loading = true
		return m, loadCatalog(m.ctx, m.selector)

	case CatalogLoadedMsg:
		m.loading = false
		m.level = levelProvider
		m.syncCursors()
		return m, nil

	case SelectionSavedMsg:
		m.statusSeq++
		if msg.Err != nil {
			// failures stay until the next action
			return m, nil
		}
		return m, clearStatusAfter(m.statusTimeout, m.statusSeq)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.selector.ClearStatus()
		}
		return m, nil

	case ProfileUpdatedMsg:
		if msg.Err != nil {
			m.errorMsg = profileErrorMessage(msg.Err)
			return m, nil
		}
		m.formInputs = nil
		m.errorMsg = ""
		m.message = "Profile updated successfully!"
		m.viewState = ViewProfile
		return m, nil

	case LoggedOutMsg:
		if msg.Err != nil {
			m.errorMsg = apperr.UserMessage(msg.Err)
			return m, nil
		}
		m.message = ""
		m.initLoginForm()
		return m, textinput.Blink
	}

	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewState {
	case ViewLogin:
		return m.handleLoginKeys(msg)
	case ViewAgent:
		return m.handleAgentKeys(msg)
	case ViewProfile:
		return m.handleProfileKeys(msg)
	case ViewProfileEdit:
		return m.handleProfileEditKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	default:
		return m, nil
	}
}

// handleLoginKeys handles keyboard input in the login form
func (m Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		if m.formFocus < LoginFieldCount-1 {
			m.formFocus = focusField(m.formInputs, m.formFocus, m.formFocus+1)
			return m, nil
		}
		email := m.formInputs[LoginFieldEmail].Value()
		password := m.formInputs[LoginFieldPassword].Value()
		if email == "" || password == "" {
			m.errorMsg = "Email and password are required."
			return m, nil
		}
		m.errorMsg = ""
		return m, login(m.ctx, m.accounts, email, password)

	case key.Matches(msg, m.keys.NextField):
		m.formFocus = focusField(m.formInputs, m.formFocus, m.formFocus+1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.formFocus = focusField(m.formInputs, m.formFocus, m.formFocus-1)
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// handleAgentKeys handles keyboard input in the agent view
func (m Model) handleAgentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.prevView = m.viewState
		m.viewState = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.Profile):
		m.viewState = ViewProfile
		m.message = ""
		m.errorMsg = ""
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m, logout(m.ctx, m.accounts)
	}

	if m.loading {
		return m, nil
	}
	if !m.selector.Loaded() {
		// the only recovery is a reload
		if key.Matches(msg, m.keys.Reset) {
			m.loading = true
			return m, loadCatalog(m.ctx, m.selector)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursors[m.level] > 0 {
			m.cursors[m.level]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursors[m.level] < m.optionCount(m.level)-1 {
			m.cursors[m.level]++
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.level > levelProvider {
			m.level--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.level < levelLanguage && m.optionCount(m.level+1) > 0 {
			m.level++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.chooseAtCursor()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m, saveSelection(m.ctx, m.selector)

	case key.Matches(msg, m.keys.Reset):
		m.selector.Reset()
		m.statusSeq++
		m.level = levelProvider
		m.syncCursors()
		return m, nil
	}

	return m, nil
}

// handleProfileKeys handles keyboard input in the profile view
func (m Model) handleProfileKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Agent), key.Matches(msg, m.keys.Cancel):
		m.viewState = ViewAgent
		m.message = ""
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.initProfileForm()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Logout):
		return m, logout(m.ctx, m.accounts)
	case key.Matches(msg, m.keys.Help):
		m.prevView = m.viewState
		m.viewState = ViewHelp
		return m, nil
	}
	return m, nil
}

// handleProfileEditKeys handles keyboard input in the profile form
func (m Model) handleProfileEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.formInputs = nil
		m.errorMsg = ""
		m.viewState = ViewProfile
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		current, ok := m.accounts.User()
		if !ok {
			m.initLoginForm()
			return m, nil
		}
		data := getProfileFormData(m.formInputs)
		m.errorMsg = ""
		return m, updateProfile(m.ctx, m.accounts, current, data)

	case key.Matches(msg, m.keys.NextField):
		m.formFocus = focusField(m.formInputs, m.formFocus, m.formFocus+1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.formFocus = focusField(m.formInputs, m.formFocus, m.formFocus-1)
		return m, nil
	}

	return m.updateFocusedInput(msg)
}

// handleHelpKeys handles keyboard input in help view
func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel):
		m.viewState = m.prevView
	}
	return m, nil
}

func (m Model) updateFocusedInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.formFocus < 0 || m.formFocus >= len(m.formInputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// chooseAtCursor applies the option under the cursor at the focused level
// and moves focus to the next level.
func (m *Model) chooseAtCursor() {
	i := m.cursors[m.level]
	var err error
	switch m.level {
	case levelProvider:
		opts := m.selector.Providers()
		if i >= len(opts) {
			return
		}
		err = m.selector.SetProvider(opts[i].Value)
	case levelModel:
		opts := m.selector.Models()
		if i >= len(opts) {
			return
		}
		err = m.selector.SetModel(opts[i].Value)
	case levelLanguage:
		opts := m.selector.Languages()
		if i >= len(opts) {
			return
		}
		err = m.selector.SetLanguage(opts[i].Value)
	}
	if err != nil {
		m.errorMsg = apperr.UserMessage(err)
		return
	}

	m.errorMsg = ""
	m.syncCursors()
	if m.level < levelLanguage && m.optionCount(m.level+1) > 0 {
		m.level++
	}
}

// syncCursors points each level's cursor at its chosen option
func (m *Model) syncCursors() {
	sel := m.selector.Selection()
	m.cursors[levelProvider] = 0
	for i, p := range m.selector.Providers() {
		if p.Value == sel.Provider {
			m.cursors[levelProvider] = i
		}
	}
	m.cursors[levelModel] = 0
	for i, mo := range m.selector.Models() {
		if mo.Value == sel.Model {
			m.cursors[levelModel] = i
		}
	}
	m.cursors[levelLanguage] = 0
	for i, l := range m.selector.Languages() {
		if l.Value == sel.Language {
			m.cursors[levelLanguage] = i
		}
	}
}

func (m Model) optionCount(level int) int {
	switch level {
	case levelProvider:
		return len(m.selector.Providers())
	case levelModel:
		return len(m.selector.Models())
	case levelLanguage:
		return len(m.selector.Languages())
	}
	return 0
}

func (m *Model) initLoginForm() {
	m.viewState = ViewLogin
	m.formInputs = LoginInputs()
	m.formFocus = LoginFieldEmail
	m.errorMsg = ""
}

func (m *Model) initProfileForm() {
	p, _ := m.accounts.User()
	m.viewState = ViewProfileEdit
	m.formInputs = ProfileInputs(p)
	m.formFocus = ProfileFieldUsername
	m.message = ""
	m.errorMsg = ""
}

// profileErrorMessage maps a failed profile edit to the message shown
func profileErrorMessage(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindPersistence, "":
		return "Failed to update profile. Please try again."
	case apperr.KindInvalidCredentials:
		return "Current password is incorrect."
	default:
		return apperr.UserMessage(err)
	}
}

// View renders the current view
func (m Model) View() string {
	switch m.viewState {
	case ViewLogin:
		return renderForm("voicedash · Sign in", loginLabels(), m.formInputs, m.formFocus, m.errorMsg,
			"Tab: next field · Enter: submit · Esc: quit")
	case ViewAgent:
		return m.RenderAgentView()
	case ViewProfile:
		return m.RenderProfileView()
	case ViewProfileEdit:
		return renderForm("Edit profile", profileLabels(), m.formInputs, m.formFocus, m.errorMsg,
			"Tab: next field · Enter: save · Esc: cancel")
	case ViewHelp:
		return m.RenderHelpView()
	}
	return ""
}

// Commands

func loadCatalog(ctx context.Context, sel *selector.Selector) tea.Cmd {
	return func() tea.Msg {
		return CatalogLoadedMsg{Err: sel.Load(ctx)}
	}
}

func login(ctx context.Context, accounts *account.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		return LoginResultMsg{Err: accounts.Login(ctx, email, password)}
	}
}

func logout(ctx context.Context, accounts *account.Store) tea.Cmd {
	return func() tea.Msg {
		return LoggedOutMsg{Err: accounts.Logout(ctx)}
	}
}

func saveSelection(ctx context.Context, sel *selector.Selector) tea.Cmd {
	return func() tea.Msg {
		return SelectionSavedMsg{Err: sel.Save(ctx)}
	}
}

// updateProfile applies the field changes first, then the password change
// when one was requested.
func updateProfile(ctx context.Context, accounts *account.Store, current models.Profile, data ProfileFormData) tea.Cmd {
	return func() tea.Msg {
		var change *models.CredentialChange
		if data.ChangesCredential() {
			change = &models.CredentialChange{
				Current: data.CurrentPassword,
				Next:    data.NewPassword,
				Confirm: data.ConfirmPassword,
			}
		}
		return ProfileUpdatedMsg{Err: accounts.UpdateProfile(ctx, data.Update(current), change)}
	}
}

func clearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
