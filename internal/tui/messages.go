package tui

// CatalogLoadedMsg is sent when the selector finished loading
type CatalogLoadedMsg struct {
	Err error
}

// LoginResultMsg is sent when a login attempt completes
type LoginResultMsg struct {
	Err error
}

// LoggedOutMsg is sent when logout completes
type LoggedOutMsg struct {
	Err error
}

// SelectionSavedMsg is sent when a save completes
type SelectionSavedMsg struct {
	Err error
}

// ProfileUpdatedMsg is sent when a profile edit completes
type ProfileUpdatedMsg struct {
	Err error
}

// clearStatusMsg clears the status set by the save with the same seq
type clearStatusMsg struct {
	seq int
}
