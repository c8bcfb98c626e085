// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"taskhub/internal/backend/authstate"
	"taskhub/internal/service"
)

// FakeBackend is an in-memory identity provider and document store for testing.
type FakeBackend struct {
	Identity *FakeIdentity
	Store    *FakeStore
}

// NewFakeBackend creates an empty, signed-out fake backend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Identity: NewFakeIdentity(),
		Store:    NewFakeStore(),
	}
}

// Backend returns the fake as a service.Backend.
func (f *FakeBackend) Backend() *service.Backend {
	return &service.Backend{Identity: f.Identity, Store: f.Store}
}

// SignIn registers email (if needed) and makes it the current identity.
func (f *FakeBackend) SignIn(email string) service.User {
	u := f.Identity.AddUser(email, "password")
	f.Identity.hub.Publish(&u)
	return u
}

// FakeIdentity implements service.IdentityProvider.
type FakeIdentity struct {
	mu     sync.Mutex
	users  map[string]fakeAccount // by email
	hub    *authstate.Hub
	nextID int

	// Error injection for testing
	SignInErr  error
	SignUpErr  error
	SignOutErr error

	// SignInCalls counts SignIn invocations, including failed ones.
	SignInCalls int
}

type fakeAccount struct {
	user     service.User
	password string
}

// NewFakeIdentity creates a signed-out fake identity provider.
func NewFakeIdentity() *FakeIdentity {
	return &FakeIdentity{
		users: make(map[string]fakeAccount),
		hub:   authstate.NewHub(nil),
	}
}

// AddUser registers an account and returns it. Existing accounts are returned unchanged.
func (f *FakeIdentity) AddUser(email, password string) service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(email, password)
}

func (f *FakeIdentity) addLocked(email, password string) service.User {
	if acct, ok := f.users[email]; ok {
		return acct.user
	}
	f.nextID++
	u := service.User{UID: fmt.Sprintf("user-%d", f.nextID), Email: email}
	f.users[email] = fakeAccount{user: u, password: password}
	return u
}

// Current returns the current identity, or nil.
func (f *FakeIdentity) Current() *service.User {
	return f.hub.Current()
}

// SignIn implements service.IdentityProvider.
func (f *FakeIdentity) SignIn(ctx context.Context, email, password string) (service.User, error) {
	f.mu.Lock()
	f.SignInCalls++
	if f.SignInErr != nil {
		f.mu.Unlock()
		return service.User{}, f.SignInErr
	}
	acct, ok := f.users[email]
	f.mu.Unlock()

	if !ok || acct.password != password {
		return service.User{}, &service.AuthError{Kind: service.AuthInvalidCredentials}
	}
	f.hub.Publish(&acct.user)
	return acct.user, nil
}

// SignUp implements service.IdentityProvider.
func (f *FakeIdentity) SignUp(ctx context.Context, email, password string) (service.User, error) {
	f.mu.Lock()
	if f.SignUpErr != nil {
		f.mu.Unlock()
		return service.User{}, f.SignUpErr
	}
	if _, ok := f.users[email]; ok {
		f.mu.Unlock()
		return service.User{}, &service.AuthError{Kind: service.AuthEmailInUse}
	}
	u := f.addLocked(email, password)
	f.mu.Unlock()

	f.hub.Publish(&u)
	return u, nil
}

// SignOut implements service.IdentityProvider.
func (f *FakeIdentity) SignOut(ctx context.Context) error {
	if f.SignOutErr != nil {
		return f.SignOutErr
	}
	f.hub.Publish(nil)
	return nil
}

// Subscribe implements service.IdentityProvider.
func (f *FakeIdentity) Subscribe(fn func(*service.User)) func() {
	return f.hub.Subscribe(fn)
}

// FakeStore implements service.DocumentStore.
// IDs are assigned sequentially as "doc-1", "doc-2", ...
type FakeStore struct {
	mu     sync.Mutex
	docs   map[string][]service.Document // collection -> documents in insertion order
	nextID int
	calls  []string

	// Error injection for testing
	AddErr     error
	GetAllErr  error
	GetByIDErr error
	UpdateErr  error
	DeleteErr  error
}

// NewFakeStore creates an empty fake store.
func NewFakeStore() *FakeStore {
	return &FakeStore{docs: make(map[string][]service.Document)}
}

// Seed stores a document under a fixed ID.
func (f *FakeStore) Seed(collection, id string, fields service.Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[collection] = append(f.docs[collection], service.Document{ID: id, Fields: fields.Clone()})
}

// Docs returns a copy of the documents in a collection.
func (f *FakeStore) Docs(collection string) []service.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Document, 0, len(f.docs[collection]))
	for _, d := range f.docs[collection] {
		out = append(out, service.Document{ID: d.ID, Fields: d.Fields.Clone()})
	}
	return out
}

// Calls returns the operations performed so far, e.g. "update tasks/doc-1 status,title".
func (f *FakeStore) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeStore) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// Add implements service.DocumentStore.
func (f *FakeStore) Add(ctx context.Context, collection string, fields service.Fields) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("add %s", collection)
	if f.AddErr != nil {
		return "", f.AddErr
	}
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.docs[collection] = append(f.docs[collection], service.Document{ID: id, Fields: fields.Clone()})
	return id, nil
}

// GetAll implements service.DocumentStore.
func (f *FakeStore) GetAll(ctx context.Context, collection string) ([]service.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("getAll %s", collection)
	if f.GetAllErr != nil {
		return nil, f.GetAllErr
	}
	out := make([]service.Document, 0, len(f.docs[collection]))
	for _, d := range f.docs[collection] {
		out = append(out, service.Document{ID: d.ID, Fields: d.Fields.Clone()})
	}
	return out, nil
}

// GetByID implements service.DocumentStore.
func (f *FakeStore) GetByID(ctx context.Context, collection, id string) (service.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("getByID %s/%s", collection, id)
	if f.GetByIDErr != nil {
		return service.Document{}, f.GetByIDErr
	}
	i := f.indexLocked(collection, id)
	if i < 0 {
		return service.Document{}, &service.NotFoundError{Collection: collection, ID: id}
	}
	d := f.docs[collection][i]
	return service.Document{ID: d.ID, Fields: d.Fields.Clone()}, nil
}

// Update implements service.DocumentStore.
func (f *FakeStore) Update(ctx context.Context, collection, id string, fields service.Fields) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	f.record("update %s/%s %s", collection, id, strings.Join(names, ","))

	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	i := f.indexLocked(collection, id)
	if i < 0 {
		return &service.NotFoundError{Collection: collection, ID: id}
	}
	doc := &f.docs[collection][i]
	if doc.Fields == nil {
		doc.Fields = service.Fields{}
	}
	for k, v := range fields {
		doc.Fields[k] = v
	}
	return nil
}

// Delete implements service.DocumentStore.
func (f *FakeStore) Delete(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete %s/%s", collection, id)
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if i := f.indexLocked(collection, id); i >= 0 {
		docs := f.docs[collection]
		f.docs[collection] = append(docs[:i], docs[i+1:]...)
	}
	return nil
}

func (f *FakeStore) indexLocked(collection, id string) int {
	for i, d := range f.docs[collection] {
		if d.ID == id {
			return i
		}
	}
	return -1
}
