package models

// Storage keys shared by the selector and the account store
const (
	KeySTTConfig   = "sttConfig"
	KeyCurrentUser = "currentUser"
	KeyUsers       = "users"
)

// Selection is the provider/model/language triple, each field either empty
// or a catalog key at its level.
type Selection struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// Complete reports whether all three levels are chosen.
func (s Selection) Complete() bool {
	return s.Provider != "" && s.Model != "" && s.Language != ""
}

// Account is a registered user as stored in the account list.
// Credential holds an argon2id hash (or a legacy plaintext value that is
// upgraded on next login).
type Account struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Credential string `json:"password"`
}

// Profile returns a detached copy of the account without the credential.
func (a Account) Profile() Profile {
	return Profile{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		Phone:    a.Phone,
	}
}

// Profile is the credential-stripped snapshot held by the session
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// ProfileUpdate is a shallow partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	Username *string
	Email    *string
	Phone    *string
}

// Empty reports whether the update changes nothing.
func (u ProfileUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Phone == nil
}

// ApplyTo merges the update into p and returns the result.
func (u ProfileUpdate) ApplyTo(p Profile) Profile {
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
	return p
}

// ApplyToAccount merges the update into a and returns the result.
// The credential and id are never touched.
func (u ProfileUpdate) ApplyToAccount(a Account) Account {
	p := u.ApplyTo(a.Profile())
	a.Username = p.Username
	a.Email = p.Email
	a.Phone = p.Phone
	return a
}

// CredentialChange replaces the account credential once Current verifies.
type CredentialChange struct {
	Current string
	Next    string
	Confirm string
}

// Signup is the input to account creation.
type Signup struct {
	Username   string
	Email      string
	Phone      string
	Credential string
}
