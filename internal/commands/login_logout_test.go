package commands_test

import (
	"errors"
	"strings"
	"testing"

	"taskhub/internal/commands"
	"taskhub/internal/exitcode"
	"taskhub/internal/service"
	"taskhub/internal/testutil"
)

// TestLoginCommand_Success verifies login signs in and shows the task list
func TestLoginCommand_Success(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.Identity.AddUser("ada@example.com", "secret1")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("ada@example.com", "secret1")
	stdout, stderr, code := runCommand(t, cmd, fb, nil, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.HasPrefix(stdout, "ok\n------------\nTask List") {
		t.Errorf("expected ok followed by the task list, got %q", stdout)
	}
	if u := fb.Identity.Current(); u == nil || u.Email != "ada@example.com" {
		t.Errorf("expected ada@example.com to be signed in, got %v", u)
	}
}

// TestLoginCommand_Prompts verifies missing credentials are read from stdin
func TestLoginCommand_Prompts(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.Identity.AddUser("ada@example.com", "secret1")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("", "")
	_, stderr, code := runCommand(t, cmd, fb, nil, "ada@example.com\nsecret1\n", true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "Email: Password: " {
		t.Errorf("expected prompts on stderr, got %q", stderr)
	}
	if fb.Identity.Current() == nil {
		t.Error("expected to be signed in")
	}
}

// TestLoginCommand_WrongPassword verifies the static failure message
func TestLoginCommand_WrongPassword(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.Identity.AddUser("ada@example.com", "secret1")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("ada@example.com", "wrong-password")
	stdout, stderr, code := runCommand(t, cmd, fb, nil, "", false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: Invalid email or password. Please try again.\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if fb.Identity.Current() != nil {
		t.Error("expected to stay signed out")
	}
}

// TestLoginCommand_ProviderFailure verifies provider errors get the same message
func TestLoginCommand_ProviderFailure(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.Identity.SignInErr = errors.New("network unreachable")

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("ada@example.com", "secret1")
	_, stderr, code := runCommand(t, cmd, fb, nil, "", false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: Invalid email or password. Please try again.\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// TestLoginCommand_InvalidForm verifies validation runs before the provider
func TestLoginCommand_InvalidForm(t *testing.T) {
	fb := testutil.NewFakeBackend()

	cmd := &commands.LoginCmd{}
	cmd.SetCredentials("not-an-email", "123")
	_, stderr, code := runCommand(t, cmd, fb, nil, "", false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "error: email: Invalid email\n") {
		t.Errorf("expected email error, got %q", stderr)
	}
	if !strings.Contains(stderr, "error: password: ") {
		t.Errorf("expected password error, got %q", stderr)
	}
	if fb.Identity.SignInCalls != 0 {
		t.Errorf("expected no sign-in attempt, got %d", fb.Identity.SignInCalls)
	}
}

// TestRegisterCommand_Success verifies register creates and signs in the account
func TestRegisterCommand_Success(t *testing.T) {
	fb := testutil.NewFakeBackend()

	cmd := &commands.RegisterCmd{}
	cmd.SetCredentials("new@example.com", "secret1", "secret1")
	stdout, stderr, code := runCommand(t, cmd, fb, nil, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", stdout)
	}
	if u := fb.Identity.Current(); u == nil || u.Email != "new@example.com" {
		t.Errorf("expected new@example.com to be signed in, got %v", u)
	}
}

// TestRegisterCommand_Prompts verifies all three values can come from stdin
func TestRegisterCommand_Prompts(t *testing.T) {
	fb := testutil.NewFakeBackend()

	cmd := &commands.RegisterCmd{}
	cmd.SetCredentials("new@example.com", "", "")
	_, stderr, code := runCommand(t, cmd, fb, nil, "secret1\nsecret1\n", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "Password: Confirm Password: " {
		t.Errorf("expected prompts on stderr, got %q", stderr)
	}
}

// TestRegisterCommand_PasswordMismatch verifies the confirmation check
func TestRegisterCommand_PasswordMismatch(t *testing.T) {
	fb := testutil.NewFakeBackend()

	cmd := &commands.RegisterCmd{}
	cmd.SetCredentials("new@example.com", "secret1", "secret2")
	_, stderr, code := runCommand(t, cmd, fb, nil, "", false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: confirmPassword: Passwords do not match\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if fb.Identity.Current() != nil {
		t.Error("expected no account to be created")
	}
}

// TestRegisterCommand_EmailInUse verifies the duplicate email message
func TestRegisterCommand_EmailInUse(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.Identity.AddUser("ada@example.com", "secret1")

	cmd := &commands.RegisterCmd{}
	cmd.SetCredentials("ada@example.com", "secret1", "secret1")
	_, stderr, code := runCommand(t, cmd, fb, nil, "", false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: Email already in use\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// TestRegisterCommand_Failures verifies other provider errors
func TestRegisterCommand_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		expected string
	}{
		{
			name:     "weak password",
			err:      &service.AuthError{Kind: service.AuthWeakPassword},
			code:     exitcode.AuthError,
			expected: "error: Password is too weak\n",
		},
		{
			name:     "provider failure",
			err:      errors.New("quota exceeded"),
			code:     exitcode.BackendError,
			expected: "error: Registration failed. Please try again.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := testutil.NewFakeBackend()
			fb.Identity.SignUpErr = tt.err

			cmd := &commands.RegisterCmd{}
			cmd.SetCredentials("new@example.com", "secret1", "secret1")
			_, stderr, code := runCommand(t, cmd, fb, nil, "", false)

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if stderr != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stderr)
			}
		})
	}
}

// TestLogoutCommand_SignedIn verifies logout clears the identity
func TestLogoutCommand_SignedIn(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.SignIn("ada@example.com")

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, fb, nil, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected %q, got %q", "ok\n", stdout)
	}
	if fb.Identity.Current() != nil {
		t.Error("expected to be signed out")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout when already signed out
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	fb := testutil.NewFakeBackend()

	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, fb, nil, "", false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "not logged in\n" {
		t.Errorf("expected %q, got %q", "not logged in\n", stdout)
	}
}

// TestLogoutCommand_Failure verifies a failed sign-out is an auth error
func TestLogoutCommand_Failure(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.SignIn("ada@example.com")
	fb.Identity.SignOutErr = errors.New("session file locked")

	_, stderr, code := runCommand(t, &commands.LogoutCmd{}, fb, nil, "", false)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasPrefix(stderr, "error: failed to log out: ") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}
