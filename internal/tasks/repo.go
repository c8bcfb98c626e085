package tasks

import (
	"context"

	"taskhub/internal/service"
)

// Repo reads and writes tasks in one collection of a document store.
type Repo struct {
	store      service.DocumentStore
	collection string
}

// NewRepo creates a repo over collection.
func NewRepo(store service.DocumentStore, collection string) *Repo {
	return &Repo{store: store, collection: collection}
}

// Collection returns the collection name.
func (r *Repo) Collection() string { return r.collection }

// Create stores t and returns the new ID. t.ID is ignored.
func (r *Repo) Create(ctx context.Context, t Task) (string, error) {
	return r.store.Add(ctx, r.collection, t.Fields())
}

// All returns every task in store order.
func (r *Repo) All(ctx context.Context) ([]Task, error) {
	docs, err := r.store.GetAll(ctx, r.collection)
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(docs))
	for _, d := range docs {
		out = append(out, FromDocument(d))
	}
	return out, nil
}

// Get returns one task.
func (r *Repo) Get(ctx context.Context, id string) (Task, error) {
	doc, err := r.store.GetByID(ctx, r.collection, id)
	if err != nil {
		return Task{}, err
	}
	return FromDocument(doc), nil
}

// Update writes only the given fields.
func (r *Repo) Update(ctx context.Context, id string, changes service.Fields) error {
	return r.store.Update(ctx, r.collection, id, changes)
}

// Delete removes a task.
func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.collection, id)
}
