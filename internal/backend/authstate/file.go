package authstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"taskhub/internal/service"
)

// Record is the persisted sign-in session.
// Token fields are empty for backends that do not issue tokens.
type Record struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	IDToken      string    `json:"id_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

// User returns the identity stored in the record.
func (r Record) User() service.User {
	return service.User{UID: r.UID, Email: r.Email}
}

// File reads and writes a Record at Path.
type File struct {
	Path string
}

// Load returns the stored record, or nil if no session is stored.
func (f File) Load() (*Record, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if rec.UID == "" {
		return nil, errors.New("parse session: missing uid")
	}
	return &rec, nil
}

// Save writes the record with mode 0600, creating the directory with mode 0700.
func (f File) Save(rec Record) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0600)
}

// Remove deletes the stored session. A missing file is not an error.
func (f File) Remove() error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
