// Package auth exposes login, logout and registration over the identity provider.
package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"taskhub/internal/service"
)

// Provider wraps an identity provider so every failure is a *service.AuthError.
type Provider struct {
	idp service.IdentityProvider
	log *slog.Logger
}

// New creates an auth provider.
func New(idp service.IdentityProvider, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provider{idp: idp, log: logger}
}

// Login signs in with email and password.
func (p *Provider) Login(ctx context.Context, email, password string) (service.User, error) {
	u, err := p.idp.SignIn(ctx, email, password)
	if err != nil {
		p.log.Debug("login failed", "error", err)
		return service.User{}, asAuthError(err)
	}
	p.log.Debug("login succeeded", "uid", u.UID)
	return u, nil
}

// Logout signs out the current identity.
func (p *Provider) Logout(ctx context.Context) error {
	if err := p.idp.SignOut(ctx); err != nil {
		p.log.Debug("logout failed", "error", err)
		return asAuthError(err)
	}
	p.log.Debug("logout succeeded")
	return nil
}

// Register creates an account. The new identity is signed in on success.
func (p *Provider) Register(ctx context.Context, email, password string) (service.User, error) {
	u, err := p.idp.SignUp(ctx, email, password)
	if err != nil {
		p.log.Debug("register failed", "error", err)
		return service.User{}, asAuthError(err)
	}
	p.log.Debug("register succeeded", "uid", u.UID)
	return u, nil
}

func asAuthError(err error) error {
	var ae *service.AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
}
