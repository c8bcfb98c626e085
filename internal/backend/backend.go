// Package backend opens the identity provider and document store selected in config.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"taskhub/internal/backend/firebase"
	"taskhub/internal/backend/local"
	"taskhub/internal/config"
	"taskhub/internal/service"
)

// Open returns the configured backend. The caller must call Close when done.
// The config directory is created first; it holds the session file and the
// default database.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service.Backend, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	switch cfg.Settings.Backend {
	case config.BackendFirebase:
		return openFirebase(ctx, cfg, logger)
	case config.BackendLocal, "":
		return openLocal(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown backend: %q", cfg.Settings.Backend)
	}
}

func openFirebase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service.Backend, error) {
	fb := cfg.Settings.Firebase
	if fb.APIKey == "" || fb.ProjectID == "" {
		return nil, fmt.Errorf("firebase backend requires api_key and project_id (set them in %s or %s/%s)",
			cfg.SettingsPath(), config.EnvFirebaseAPIKey, config.EnvFirebaseProjectID)
	}

	b, err := firebase.Open(ctx, firebase.Options{
		APIKey:            fb.APIKey,
		ProjectID:         fb.ProjectID,
		DatabaseID:        fb.DatabaseID,
		SessionPath:       cfg.SessionPath(),
		AuthEndpoint:      fb.AuthEndpoint,
		TokenEndpoint:     fb.TokenEndpoint,
		FirestoreEndpoint: fb.FirestoreEndpoint,
		Timeout:           fb.Timeout,
		Logger:            logger.With("backend", config.BackendFirebase),
	})
	if err != nil {
		return nil, err
	}
	return &service.Backend{Identity: b.Identity(), Store: b.Store()}, nil
}

func openLocal(cfg *config.Config, logger *slog.Logger) (*service.Backend, error) {
	b, err := local.Open(local.Options{
		Path:        cfg.DatabasePath(),
		SessionPath: cfg.SessionPath(),
		Logger:      logger.With("backend", config.BackendLocal),
	})
	if err != nil {
		return nil, err
	}
	return &service.Backend{Identity: b.Identity(), Store: b.Store(), Close: b.Close}, nil
}
