package service

import (
	"errors"
	"fmt"
)

// AuthErrorKind classifies identity provider failures.
type AuthErrorKind int

const (
	// AuthProviderFailure covers network and unexpected provider errors.
	AuthProviderFailure AuthErrorKind = iota

	// AuthInvalidCredentials means the email/password pair was rejected.
	AuthInvalidCredentials

	// AuthEmailInUse means sign-up used an email that already has an account.
	AuthEmailInUse

	// AuthWeakPassword means the provider rejected the password strength.
	AuthWeakPassword
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthInvalidCredentials:
		return "invalid credentials"
	case AuthEmailInUse:
		return "email already in use"
	case AuthWeakPassword:
		return "weak password"
	default:
		return "provider failure"
	}
}

// AuthError is returned by identity operations.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth: " + e.Kind.String()
	}
	return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsAuthKind reports whether err is an *AuthError of the given kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}

// NotFoundError reports a lookup of a document ID that does not exist.
type NotFoundError struct {
	Collection string
	ID         string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document with ID %s does not exist", e.ID)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StoreError is returned by document store operations that fail.
type StoreError struct {
	Op         string // add, getAll, getByID, update, delete
	Collection string
	ID         string
	Err        error
}

func (e *StoreError) Error() string {
	target := e.Collection
	if e.ID != "" {
		target += "/" + e.ID
	}
	return fmt.Sprintf("store: %s %s: %v", e.Op, target, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
