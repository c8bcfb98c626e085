package nav

import (
	"reflect"
	"testing"

	"taskhub/internal/service"
	"taskhub/internal/session"
)

func labels(b Bar) []string {
	out := []string{b.Brand.Label}
	for _, l := range b.Links {
		out = append(out, l.Label)
	}
	return out
}

func TestBuildSignedOut(t *testing.T) {
	bar, ok := Build("/", session.SignedOut{})
	if !ok {
		t.Fatal("Build() hidden on /")
	}
	want := []string{"Task Hub", "Tasks", "Add Task", "Register", "Login"}
	if got := labels(bar); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if last := bar.Links[len(bar.Links)-1]; last.Target != "/login" {
		t.Errorf("Login target = %q", last.Target)
	}
}

func TestBuildSignedIn(t *testing.T) {
	bar, ok := Build("/tasklist", session.SignedIn{User: service.User{UID: "u1"}})
	if !ok {
		t.Fatal("Build() hidden on /tasklist")
	}
	last := bar.Links[len(bar.Links)-1]
	if last.Label != "Logout" || last.Target != "" {
		t.Errorf("last link = %+v, want Logout action", last)
	}
}

func TestBuildHiddenOnLogin(t *testing.T) {
	if _, ok := Build("/login", session.SignedOut{}); ok {
		t.Error("Build(/login) ok = true, want hidden")
	}
}
