package backend

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskhub/internal/config"
	"taskhub/internal/service"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	settings := config.DefaultSettings()
	settings.Backend = backend
	return &config.Config{Dir: t.TempDir(), Settings: settings}
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestOpenLocal(t *testing.T) {
	ctx := context.Background()
	b, err := Open(ctx, testConfig(t, config.BackendLocal), discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	id, err := b.Store.Add(ctx, "tasks", service.Fields{"title": "x"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := b.Store.GetByID(ctx, "tasks", id); err != nil {
		t.Errorf("GetByID() error = %v", err)
	}
}

func TestOpenFirebaseRequiresCredentials(t *testing.T) {
	_, err := Open(context.Background(), testConfig(t, config.BackendFirebase), discard())
	if err == nil || !strings.Contains(err.Error(), "requires api_key and project_id") {
		t.Fatalf("Open() error = %v, want missing credentials", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), testConfig(t, "mongo"), discard())
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("Open() error = %v, want unknown backend", err)
	}
}

func TestOpenCreatesConfigDir(t *testing.T) {
	cfg := testConfig(t, config.BackendLocal)
	cfg.Dir = filepath.Join(cfg.Dir, "nested", "taskhub")

	b, err := Open(context.Background(), cfg, discard())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer b.Close()

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		t.Fatalf("config dir not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("config dir mode = %o, want 700", perm)
	}
}

func TestOpenConfigDirError(t *testing.T) {
	cfg := testConfig(t, config.BackendLocal)
	blocker := filepath.Join(cfg.Dir, "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}
	cfg.Dir = filepath.Join(blocker, "taskhub")

	if _, err := Open(context.Background(), cfg, discard()); err == nil || !strings.Contains(err.Error(), "create config dir") {
		t.Fatalf("Open() error = %v, want config dir error", err)
	}
}
