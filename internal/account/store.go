// Package account manages registered accounts and the single active
// session, both persisted in the shared key-value store under the users
// and currentUser keys.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"voicedash/config/models"
	"voicedash/config/session"
	"voicedash/config/validation"
	"voicedash/internal/apperr"
	"voicedash/internal/crypto"
	"voicedash/internal/logging"
	"voicedash/internal/store"
	"voicedash/internal/utils"
)

// Store owns the account list and the session.
type Store struct {
	mu sync.Mutex

	kv        store.Store
	session   session.Session
	hasher    crypto.Hasher
	validator *validation.Validator
	policy    session.RestorePolicy
	newID     func() string
	logger    *slog.Logger

	dummyOnce sync.Once
	dummy     string
}

// Option configures a Store.
type Option func(*Store)

// WithHasher sets the credential hasher. Default is argon2id with
// crypto.DefaultParams.
func WithHasher(h crypto.Hasher) Option {
	return func(s *Store) {
		s.hasher = h
	}
}

// WithLogger sets the logger. Default discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRestorePolicy sets how Restore treats a persisted session.
func WithRestorePolicy(p session.RestorePolicy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// WithIDGenerator replaces the account id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// New creates an account store backed by kv. Call Restore once at startup.
func New(kv store.Store, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		hasher:    crypto.NewArgon2Hasher(crypto.DefaultParams),
		validator: validation.NewValidator(),
		policy:    session.RestoreTrust,
		newID:     uuid.NewString,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore adopts the persisted session snapshot, if any. A malformed
// snapshot is ignored. Under RestoreValidate a snapshot whose account is
// gone is dropped and removed from the store.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.kv.Get(ctx, models.KeyCurrentUser)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.session.End()
			return nil
		}
		return apperr.E("account.Restore", apperr.KindPersistence, err)
	}

	p, err := session.Decode(data)
	if err != nil {
		s.logger.Warn("ignoring persisted session", "error", err)
		s.session.End()
		return nil
	}

	if s.policy == session.RestoreValidate {
		users, err := s.readUsers(ctx)
		if err != nil {
			return apperr.E("account.Restore", apperr.KindPersistence, err)
		}
		if indexByID(users, p.ID) < 0 {
			s.logger.Warn("dropping session for missing account", "user_id", p.ID)
			s.session.End()
			if err := s.kv.Delete(ctx, models.KeyCurrentUser); err != nil {
				return apperr.E("account.Restore", apperr.KindPersistence, err)
			}
			return nil
		}
	}

	s.session.Begin(p)
	logging.WithUser(s.logger, p.ID).Debug("session restored", "policy", string(s.policy))
	return nil
}

// Signup registers a new account. It does not log the user in.
func (s *Store) Signup(ctx context.Context, req models.Signup) (models.Profile, error) {
	const op = "account.Signup"

	if err := s.validator.ValidateSignup(req); err != nil {
		return models.Profile{}, apperr.E(op, apperr.KindInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers(ctx)
	if err != nil {
		return models.Profile{}, apperr.E(op, apperr.KindPersistence, err)
	}
	if indexByEmail(users, req.Email) >= 0 {
		return models.Profile{}, apperr.E(op, apperr.KindDuplicateEmail, nil)
	}

	hash, err := s.hasher.Hash(req.Credential)
	if err != nil {
		return models.Profile{}, apperr.E(op, apperr.KindPersistence, err)
	}

	acct := models.Account{
		ID:         s.newID(),
		Username:   req.Username,
		Email:      req.Email,
		Phone:      req.Phone,
		Credential: hash,
	}
	users = append(users, acct)

	if err := s.writeUsers(ctx, users); err != nil {
		return models.Profile{}, apperr.E(op, apperr.KindPersistence, err)
	}

	logging.WithUser(s.logger, acct.ID).Info("account created", "email", utils.MaskEmail(acct.Email))
	return acct.Profile(), nil
}

// Login starts a session for the account matching email and credential.
// Any mismatch yields the same InvalidCredentials error.
func (s *Store) Login(ctx context.Context, email, credential string) error {
	const op = "account.Login"

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsers(ctx)
	if err != nil {
		return apperr.E(op, apperr.KindPersistence, err)
	}

	i := indexByEmail(users, email)
	if i < 0 {
		// keep timing close to the wrong-credential path
		_, _, _ = s.hasher.Verify(credential, s.dummyHash())
		s.logger.Info("login failed", "email", utils.MaskEmail(email))
		return apperr.E(op, apperr.KindInvalidCredentials, nil)
	}

	acct := users[i]
	ok, rehash, err := s.hasher.Verify(credential, acct.Credential)
	if err != nil {
		logging.WithUser(s.logger, acct.ID).Warn("stored credential unreadable", "error", err)
	}
	if !ok {
		s.logger.Info("login failed", "email", utils.MaskEmail(email))
		return apperr.E(op, apperr.KindInvalidCredentials, nil)
	}

	profile := acct.Profile()
	data, err := session.Encode(profile)
	if err != nil {
		return apperr.E(op, apperr.KindPersistence, err)
	}
	ops := []store.Op{store.Put(models.KeyCurrentUser, data)}

	if rehash {
		if hash, err := s.hasher.Hash(credential); err == nil {
			users[i].Credential = hash
			usersOp, err := store.PutJSON(models.KeyUsers, users)
			if err != nil {
				return apperr.E(op, apperr.KindPersistence, err)
			}
			ops = append(ops, usersOp)
		}
	}

	if err := s.kv.Apply(ctx, ops...); err != nil {
		return apperr.E(op, apperr.KindPersistence, err)
	}

	s.session.Begin(profile)
	logging.WithUser(s.logger, acct.ID).Info("login succeeded", "rehashed", len(ops) > 1)
	return nil
}

// Logout ends the session and removes its snapshot. Without a session it
// does nothing.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.session.Current()
	if !ok {
		return nil
	}

	if err := s.kv.Delete(ctx, models.KeyCurrentUser); err != nil {
		return apperr.E("account.Logout", apperr.KindPersistence, err)
	}

	s.session.End()
	logging.WithUser(s.logger, p.ID).Info("logged out")
	return nil
}

// UpdateUser merges u into the session profile and the matching account,
// writing both keys in one batch. Memory is only updated once the batch
// is committed.
func (s *Store) UpdateUser(ctx context.Context, u models.ProfileUpdate) error {
	return s.update(ctx, "account.UpdateUser", u, nil)
}

// ChangeCredential replaces the active account's credential after
// checking the current one.
func (s *Store) ChangeCredential(ctx context.Context, current, next, confirm string) error {
	return s.update(ctx, "account.ChangeCredential", models.ProfileUpdate{},
		&models.CredentialChange{Current: current, Next: next, Confirm: confirm})
}

// UpdateProfile applies u and, when change is non-nil, the credential
// change as a single batch. Nothing is written unless every check passes.
func (s *Store) UpdateProfile(ctx context.Context, u models.ProfileUpdate, change *models.CredentialChange) error {
	return s.update(ctx, "account.UpdateProfile", u, change)
}

func (s *Store) update(ctx context.Context, op string, u models.ProfileUpdate, change *models.CredentialChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.session.Current()
	if !ok {
		return apperr.E(op, apperr.KindNoActiveSession, nil)
	}
	if err := s.validator.ValidateUpdate(u); err != nil {
		return apperr.E(op, apperr.KindInvalidInput, err)
	}
	if change != nil {
		if err := s.validator.ValidateCredentialChange(change.Next, change.Confirm); err != nil {
			return apperr.E(op, apperr.KindInvalidInput, err)
		}
	}
	if u.Empty() && change == nil {
		return nil
	}

	users, err := s.readUsers(ctx)
	if err != nil {
		return apperr.E(op, apperr.KindPersistence, err)
	}

	if u.Email != nil && *u.Email != current.Email {
		if j := indexByEmail(users, *u.Email); j >= 0 && users[j].ID != current.ID {
			return apperr.E(op, apperr.KindDuplicateEmail, nil)
		}
	}

	i := indexByID(users, current.ID)
	var hash string
	if change != nil {
		if i < 0 {
			return apperr.E(op, apperr.KindInvalidCredentials, nil)
		}
		if ok, _, _ := s.hasher.Verify(change.Current, users[i].Credential); !ok {
			return apperr.E(op, apperr.KindInvalidCredentials, nil)
		}
		if hash, err = s.hasher.Hash(change.Next); err != nil {
			return apperr.E(op, apperr.KindPersistence, err)
		}
	}

	var ops []store.Op
	updated := u.ApplyTo(current)
	if !u.Empty() {
		data, err := session.Encode(updated)
		if err != nil {
			return apperr.E(op, apperr.KindPersistence, err)
		}
		ops = append(ops, store.Put(models.KeyCurrentUser, data))
	}

	if i >= 0 {
		users[i] = u.ApplyToAccount(users[i])
		if change != nil {
			users[i].Credential = hash
		}
		usersOp, err := store.PutJSON(models.KeyUsers, users)
		if err != nil {
			return apperr.E(op, apperr.KindPersistence, err)
		}
		ops = append(ops, usersOp)
	} else {
		logging.WithUser(s.logger, current.ID).Warn("session has no matching account, updating snapshot only")
	}

	if err := s.kv.Apply(ctx, ops...); err != nil {
		return apperr.E(op, apperr.KindPersistence, err)
	}

	s.session.Begin(updated)
	logger := logging.WithUser(s.logger, current.ID)
	if !u.Empty() {
		logger.Info("profile updated")
	}
	if change != nil {
		logger.Info("credential changed")
	}
	return nil
}

// User returns a copy of the active profile.
func (s *Store) User() (models.Profile, bool) {
	return s.session.Current()
}

// IsAuthenticated reports whether a session is active.
func (s *Store) IsAuthenticated() bool {
	return s.session.Active()
}

func (s *Store) readUsers(ctx context.Context) ([]models.Account, error) {
	var users []models.Account
	err := store.GetJSON(ctx, s.kv, models.KeyUsers, &users)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return users, nil
}

func (s *Store) writeUsers(ctx context.Context, users []models.Account) error {
	op, err := store.PutJSON(models.KeyUsers, users)
	if err != nil {
		return err
	}
	return s.kv.Apply(ctx, op)
}

func (s *Store) dummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummy, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.dummy
}

// indexByEmail matches the stored value exactly, case included.
func indexByEmail(users []models.Account, email string) int {
	for i, u := range users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func indexByID(users []models.Account, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
