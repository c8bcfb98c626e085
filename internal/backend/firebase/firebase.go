package firebase

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Options configures Open.
type Options struct {
	APIKey      string
	ProjectID   string
	DatabaseID  string
	SessionPath string

	// Endpoint overrides, used for emulators and tests.
	AuthEndpoint      string
	TokenEndpoint     string
	FirestoreEndpoint string

	// HTTPClient is the base transport for every request (for testing).
	HTTPClient *http.Client

	Timeout time.Duration
	Logger  *slog.Logger
}

// Backend pairs the identity provider with a store authorized by its session.
type Backend struct {
	identity *Identity
	store    *Store
}

// Open creates the identity provider and a document store whose requests
// carry the signed-in user's ID token.
func Open(ctx context.Context, opts Options) (*Backend, error) {
	identity, err := NewIdentity(ctx, IdentityOptions{
		APIKey:        opts.APIKey,
		SessionPath:   opts.SessionPath,
		Endpoint:      opts.AuthEndpoint,
		TokenEndpoint: opts.TokenEndpoint,
		HTTPClient:    opts.HTTPClient,
		Timeout:       opts.Timeout,
		Logger:        opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	store, err := NewStore(StoreOptions{
		ProjectID:  opts.ProjectID,
		DatabaseID: opts.DatabaseID,
		Endpoint:   opts.FirestoreEndpoint,
		HTTPClient: oauth2.NewClient(ctx, identity.TokenSource(ctx)),
		Timeout:    opts.Timeout,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Backend{identity: identity, store: store}, nil
}

// Identity returns the identity provider.
func (b *Backend) Identity() *Identity { return b.identity }

// Store returns the document store.
func (b *Backend) Store() *Store { return b.store }
