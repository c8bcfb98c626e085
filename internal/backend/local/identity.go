package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskhub/internal/backend/authstate"
	"taskhub/internal/service"
)

// minPasswordLength matches the hosted provider's password rule.
const minPasswordLength = 6

// Identity is an IdentityProvider backed by the users table.
// The signed-in identity is persisted in the session file.
type Identity struct {
	db   *sql.DB
	file authstate.File
	hub  *authstate.Hub
	cost int
	log  *slog.Logger
}

var _ service.IdentityProvider = (*Identity)(nil)

func newIdentity(db *sql.DB, file authstate.File, cost int, logger *slog.Logger) (*Identity, error) {
	rec, err := file.Load()
	if err != nil {
		return nil, fmt.Errorf("local backend: %w", err)
	}

	var current *service.User
	if rec != nil {
		u := rec.User()
		current = &u
	}
	return &Identity{
		db:   db,
		file: file,
		hub:  authstate.NewHub(current),
		cost: cost,
		log:  logger,
	}, nil
}

// SignIn checks the password hash and persists the session.
func (i *Identity) SignIn(ctx context.Context, email, password string) (service.User, error) {
	email = normalizeEmail(email)

	var uid, hash string
	err := i.db.QueryRowContext(ctx,
		`SELECT uid, password_hash FROM users WHERE email = ?`, email).Scan(&uid, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		i.log.Debug("sign in rejected", "reason", "unknown email")
		return service.User{}, &service.AuthError{Kind: service.AuthInvalidCredentials}
	}
	if err != nil {
		return service.User{}, &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		i.log.Debug("sign in rejected", "reason", "password mismatch")
		return service.User{}, &service.AuthError{Kind: service.AuthInvalidCredentials}
	}

	u := service.User{UID: uid, Email: email}
	if err := i.establish(u); err != nil {
		return service.User{}, err
	}
	return u, nil
}

// SignUp creates the account and signs it in.
func (i *Identity) SignUp(ctx context.Context, email, password string) (service.User, error) {
	email = normalizeEmail(email)
	if len(password) < minPasswordLength {
		return service.User{}, &service.AuthError{
			Kind: service.AuthWeakPassword,
			Err:  fmt.Errorf("password should be at least %d characters", minPasswordLength),
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), i.cost)
	if err != nil {
		return service.User{}, &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}

	u := service.User{UID: uuid.NewString(), Email: email}
	_, err = i.db.ExecContext(ctx,
		`INSERT INTO users (uid, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		u.UID, u.Email, string(hash), timestamp())
	if err != nil {
		if isUniqueViolation(err) {
			return service.User{}, &service.AuthError{Kind: service.AuthEmailInUse}
		}
		return service.User{}, &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}
	i.log.Debug("user created", "uid", u.UID)

	if err := i.establish(u); err != nil {
		return service.User{}, err
	}
	return u, nil
}

// SignOut removes the persisted session.
func (i *Identity) SignOut(ctx context.Context) error {
	if err := i.file.Remove(); err != nil {
		return &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}
	i.hub.Publish(nil)
	return nil
}

// Subscribe delivers the current identity, then every change.
func (i *Identity) Subscribe(fn func(*service.User)) func() {
	return i.hub.Subscribe(fn)
}

func (i *Identity) establish(u service.User) error {
	if err := i.file.Save(authstate.Record{UID: u.UID, Email: u.Email}); err != nil {
		return &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}
	i.hub.Publish(&u)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isUniqueViolation matches SQLite's unique constraint failure message.
func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
