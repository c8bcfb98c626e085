// Package service defines the backend-agnostic boundary for identity and document storage.
package service

// User is the identity handle issued by the identity provider.
type User struct {
	UID   string
	Email string
}

// Fields holds a document's data keyed by field name.
// Values are JSON-compatible scalars: string, bool, int64, float64 or nil.
type Fields map[string]any

// String returns the named field as a string.
// Returns "" if the field is absent or not a string.
func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Document is a stored record and its store-assigned ID.
type Document struct {
	ID     string
	Fields Fields
}

// Backend bundles the identity provider and document store of one backend.
type Backend struct {
	Identity IdentityProvider
	Store    DocumentStore

	// Close releases backend resources. May be nil.
	Close func() error
}
