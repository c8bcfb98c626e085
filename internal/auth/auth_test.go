package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"taskhub/internal/service"
	"taskhub/internal/testutil"
)

func TestLoginDelegates(t *testing.T) {
	fb := testutil.NewFakeBackend()
	want := fb.Identity.AddUser("ada@example.com", "secret1")
	p := New(fb.Identity, nil)

	got, err := p.Login(context.Background(), "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if got != want {
		t.Errorf("Login() = %+v, want %+v", got, want)
	}
	if cur := fb.Identity.Current(); cur == nil || cur.UID != want.UID {
		t.Errorf("identity after Login = %+v", cur)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.Identity.AddUser("ada@example.com", "secret1")
	p := New(fb.Identity, nil)

	_, err := p.Login(context.Background(), "ada@example.com", "nope")
	if !service.IsAuthKind(err, service.AuthInvalidCredentials) {
		t.Errorf("Login() error = %v, want invalid credentials", err)
	}
}

func TestErrorsBecomeAuthErrors(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.Identity.SignInErr = errors.New("connection reset")
	fb.Identity.SignOutErr = errors.New("disk full")
	fb.Identity.SignUpErr = fmt.Errorf("wrapped: %w", &service.AuthError{Kind: service.AuthEmailInUse})
	p := New(fb.Identity, nil)
	ctx := context.Background()

	_, err := p.Login(ctx, "a@example.com", "secret1")
	if !service.IsAuthKind(err, service.AuthProviderFailure) {
		t.Errorf("Login() error = %v, want provider failure", err)
	}
	if err := p.Logout(ctx); !service.IsAuthKind(err, service.AuthProviderFailure) {
		t.Errorf("Logout() error = %v, want provider failure", err)
	}

	_, err = p.Register(ctx, "a@example.com", "secret1")
	var ae *service.AuthError
	if !errors.As(err, &ae) || ae.Kind != service.AuthEmailInUse {
		t.Errorf("Register() error = %v, want email in use", err)
	}
}

func TestRegisterSignsIn(t *testing.T) {
	fb := testutil.NewFakeBackend()
	p := New(fb.Identity, nil)

	u, err := p.Register(context.Background(), "new@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if cur := fb.Identity.Current(); cur == nil || cur.UID != u.UID {
		t.Errorf("identity after Register = %+v, want %+v", cur, u)
	}

	_, err = p.Register(context.Background(), "new@example.com", "secret1")
	if !service.IsAuthKind(err, service.AuthEmailInUse) {
		t.Errorf("second Register() error = %v, want email in use", err)
	}
}
