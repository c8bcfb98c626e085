package service

import "context"

// IdentityProvider is the external identity service.
// Commands never import a provider SDK directly.
type IdentityProvider interface {
	// SignIn authenticates with email and password.
	// On success the new identity is published to subscribers.
	SignIn(ctx context.Context, email, password string) (User, error)

	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, email, password string) (User, error)

	// SignOut clears the current identity.
	SignOut(ctx context.Context) error

	// Subscribe registers fn for identity changes.
	// fn is called once with the current identity (nil when signed out)
	// before Subscribe returns, then once per change, in order.
	// The returned func unsubscribes and is safe to call more than once.
	Subscribe(fn func(*User)) (unsubscribe func())
}

// DocumentStore is the external document database.
type DocumentStore interface {
	// Add creates a document with a store-generated ID and returns the ID.
	Add(ctx context.Context, collection string, fields Fields) (string, error)

	// GetAll returns every document in the collection.
	// Order is unspecified.
	GetAll(ctx context.Context, collection string) ([]Document, error)

	// GetByID returns one document.
	// Returns *NotFoundError if the document does not exist.
	GetByID(ctx context.Context, collection, id string) (Document, error)

	// Update merges fields into an existing document.
	// Fields not named are left untouched.
	// Returns *NotFoundError if the document does not exist.
	Update(ctx context.Context, collection, id string, fields Fields) error

	// Delete removes a document. Deleting an absent ID succeeds.
	Delete(ctx context.Context, collection, id string) error
}
