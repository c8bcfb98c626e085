// Package store wraps the document store with logging and error normalization.
package store

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"taskhub/internal/service"
)

// Provider is a service.DocumentStore whose failures are *service.StoreError,
// except GetByID which returns *service.NotFoundError unwrapped.
type Provider struct {
	backend service.DocumentStore
	log     *slog.Logger
}

var _ service.DocumentStore = (*Provider)(nil)

// New creates a store provider over backend.
func New(backend service.DocumentStore, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provider{backend: backend, log: logger}
}

// Add creates a document and returns its ID.
func (p *Provider) Add(ctx context.Context, collection string, fields service.Fields) (string, error) {
	id, err := p.backend.Add(ctx, collection, fields)
	if err != nil {
		return "", p.fail("add", collection, "", err)
	}
	p.log.Debug("store add", "collection", collection, "id", id)
	return id, nil
}

// GetAll returns every document in the collection.
func (p *Provider) GetAll(ctx context.Context, collection string) ([]service.Document, error) {
	docs, err := p.backend.GetAll(ctx, collection)
	if err != nil {
		return nil, p.fail("getAll", collection, "", err)
	}
	p.log.Debug("store getAll", "collection", collection, "count", len(docs))
	return docs, nil
}

// GetByID returns *service.NotFoundError for unknown IDs.
func (p *Provider) GetByID(ctx context.Context, collection, id string) (service.Document, error) {
	doc, err := p.backend.GetByID(ctx, collection, id)
	if err != nil {
		var nf *service.NotFoundError
		if errors.As(err, &nf) {
			p.log.Debug("store getByID not found", "collection", collection, "id", id)
			return service.Document{}, nf
		}
		return service.Document{}, p.fail("getByID", collection, id, err)
	}
	p.log.Debug("store getByID", "collection", collection, "id", id)
	return doc, nil
}

// Update merges fields into an existing document.
// Updating an unknown ID fails with a *service.StoreError wrapping *service.NotFoundError.
func (p *Provider) Update(ctx context.Context, collection, id string, fields service.Fields) error {
	if err := p.backend.Update(ctx, collection, id, fields); err != nil {
		return p.fail("update", collection, id, err)
	}
	p.log.Debug("store update", "collection", collection, "id", id, "fields", len(fields))
	return nil
}

// Delete removes a document.
func (p *Provider) Delete(ctx context.Context, collection, id string) error {
	if err := p.backend.Delete(ctx, collection, id); err != nil {
		return p.fail("delete", collection, id, err)
	}
	p.log.Debug("store delete", "collection", collection, "id", id)
	return nil
}

func (p *Provider) fail(op, collection, id string, err error) error {
	p.log.Debug("store "+op+" failed", "collection", collection, "id", id, "error", err)
	var se *service.StoreError
	if errors.As(err, &se) {
		return se
	}
	return &service.StoreError{Op: op, Collection: collection, ID: id, Err: err}
}
