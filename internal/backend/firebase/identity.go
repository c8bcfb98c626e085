// Package firebase implements the identity provider on the Identity Toolkit
// API and the document store on the Firestore REST API.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"taskhub/internal/backend/authstate"
	"taskhub/internal/service"
)

const (
	// DefaultTokenEndpoint exchanges refresh tokens for new ID tokens.
	DefaultTokenEndpoint = "https://securetoken.googleapis.com/v1/token"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 10 * time.Second

	// idTokenLifetime is the lifetime of ID tokens issued on sign-in.
	idTokenLifetime = time.Hour
)

// errNotSignedIn is returned by the token source when no session exists.
var errNotSignedIn = errors.New("not signed in")

// IdentityOptions configures NewIdentity.
type IdentityOptions struct {
	APIKey      string
	SessionPath string

	// Endpoint overrides the Identity Toolkit base URL.
	Endpoint string

	// TokenEndpoint overrides DefaultTokenEndpoint.
	TokenEndpoint string

	// HTTPClient replaces the default transport (for testing).
	HTTPClient *http.Client

	Timeout time.Duration
	Logger  *slog.Logger
}

// Identity implements service.IdentityProvider with email/password accounts.
type Identity struct {
	svc     *identitytoolkit.Service
	oauth   *oauth2.Config
	client  *http.Client
	file    authstate.File
	hub     *authstate.Hub
	timeout time.Duration
	log     *slog.Logger

	mu     sync.Mutex
	record *authstate.Record
}

var _ service.IdentityProvider = (*Identity)(nil)

// NewIdentity creates the provider and restores any persisted session.
func NewIdentity(ctx context.Context, opts IdentityOptions) (*Identity, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("firebase: api key required")
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.HTTPClient != nil {
		clientOpts = []option.ClientOption{option.WithHTTPClient(opts.HTTPClient)}
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	svc, err := identitytoolkit.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity toolkit service: %w", err)
	}

	file := authstate.File{Path: opts.SessionPath}
	rec, err := file.Load()
	if err != nil {
		return nil, fmt.Errorf("firebase: %w", err)
	}
	var current *service.User
	if rec != nil {
		u := rec.User()
		current = &u
	}

	tokenURL := opts.TokenEndpoint
	if tokenURL == "" {
		tokenURL = DefaultTokenEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = discardLogger()
	}

	return &Identity{
		svc: svc,
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL + "?key=" + url.QueryEscape(opts.APIKey),
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client:  client,
		file:    file,
		hub:     authstate.NewHub(current),
		timeout: timeout,
		log:     logger,
		record:  rec,
	}, nil
}

// SignIn verifies the password and persists the returned tokens.
func (c *Identity) SignIn(ctx context.Context, email, password string) (service.User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		c.log.Debug("verifyPassword failed", "error", err)
		return service.User{}, translateAuthError(err)
	}

	return c.establish(authstate.Record{
		UID:          resp.LocalId,
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       time.Now().Add(idTokenLifetime),
	})
}

// SignUp creates the account; the provider signs it in immediately.
func (c *Identity) SignUp(ctx context.Context, email, password string) (service.User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		c.log.Debug("signupNewUser failed", "error", err)
		return service.User{}, translateAuthError(err)
	}

	return c.establish(authstate.Record{
		UID:          resp.LocalId,
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		Expiry:       time.Now().Add(idTokenLifetime),
	})
}

// SignOut forgets the local session. Tokens are not revoked server-side.
func (c *Identity) SignOut(ctx context.Context) error {
	c.mu.Lock()
	err := c.file.Remove()
	c.record = nil
	c.mu.Unlock()

	if err != nil {
		return &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}
	c.hub.Publish(nil)
	return nil
}

// Subscribe delivers the current identity, then every change.
func (c *Identity) Subscribe(fn func(*service.User)) func() {
	return c.hub.Subscribe(fn)
}

// TokenSource returns ID tokens for the signed-in user, refreshing and
// persisting them when they expire.
func (c *Identity) TokenSource(ctx context.Context) oauth2.TokenSource {
	return oauth2.ReuseTokenSource(nil, &sessionTokenSource{ctx: ctx, id: c})
}

func (c *Identity) establish(rec authstate.Record) (service.User, error) {
	c.mu.Lock()
	err := c.file.Save(rec)
	if err == nil {
		c.record = &rec
	}
	c.mu.Unlock()

	if err != nil {
		return service.User{}, &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}
	u := rec.User()
	c.hub.Publish(&u)
	c.log.Debug("signed in", "uid", u.UID)
	return u, nil
}

type sessionTokenSource struct {
	ctx context.Context
	id  *Identity
}

func (s *sessionTokenSource) Token() (*oauth2.Token, error) {
	c := s.id
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.record == nil {
		return nil, &service.AuthError{Kind: service.AuthProviderFailure, Err: errNotSignedIn}
	}
	current := &oauth2.Token{
		AccessToken:  c.record.IDToken,
		RefreshToken: c.record.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.record.Expiry,
	}
	if current.Valid() {
		return current, nil
	}

	ctx, cancel := context.WithTimeout(context.WithValue(s.ctx, oauth2.HTTPClient, c.client), c.timeout)
	defer cancel()

	fresh, err := c.oauth.TokenSource(ctx, current).Token()
	if err != nil {
		c.log.Debug("token refresh failed", "error", err)
		return nil, &service.AuthError{Kind: service.AuthProviderFailure, Err: fmt.Errorf("refresh session: %w", err)}
	}
	// The ID token, not the access token, authorizes Firestore requests.
	if idToken, ok := fresh.Extra("id_token").(string); ok && idToken != "" {
		fresh.AccessToken = idToken
	}

	rec := *c.record
	rec.IDToken = fresh.AccessToken
	rec.RefreshToken = fresh.RefreshToken
	rec.Expiry = fresh.Expiry
	if err := c.file.Save(rec); err != nil {
		c.log.Warn("failed to persist refreshed session", "error", err)
	}
	c.record = &rec
	c.log.Debug("session refreshed", "uid", rec.UID, "expiry", rec.Expiry)
	return fresh, nil
}

// translateAuthError maps provider error codes onto service.AuthErrorKind.
func translateAuthError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		if errors.Is(err, context.DeadlineExceeded) {
			return &service.AuthError{Kind: service.AuthProviderFailure, Err: fmt.Errorf("request timed out")}
		}
		return &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}

	// Messages look like "EMAIL_EXISTS" or "WEAK_PASSWORD : Password should be ...".
	code, _, _ := strings.Cut(gerr.Message, ":")
	switch strings.TrimSpace(code) {
	case "EMAIL_EXISTS":
		return &service.AuthError{Kind: service.AuthEmailInUse, Err: err}
	case "WEAK_PASSWORD":
		return &service.AuthError{Kind: service.AuthWeakPassword, Err: err}
	case "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "INVALID_EMAIL":
		return &service.AuthError{Kind: service.AuthInvalidCredentials, Err: err}
	default:
		return &service.AuthError{Kind: service.AuthProviderFailure, Err: err}
	}
}
