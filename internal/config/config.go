// Package config handles the XDG configuration directory, file paths and backend settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskhub"

	// SettingsFile is the backend settings filename.
	SettingsFile = "config.yaml"

	// SessionFile is the persisted sign-in session filename.
	SessionFile = "session.json"

	// DatabaseFile is the local backend database filename.
	DatabaseFile = "taskhub.db"
)

// Backend names accepted in Settings.Backend.
const (
	BackendLocal    = "local"
	BackendFirebase = "firebase"
)

// Environment overrides applied after config.yaml is read.
const (
	EnvBackend           = "TASKHUB_BACKEND"
	EnvFirebaseAPIKey    = "TASKHUB_FIREBASE_API_KEY"
	EnvFirebaseProjectID = "TASKHUB_FIREBASE_PROJECT_ID"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are the backend settings from config.yaml and the environment.
	Settings Settings
}

// Settings is the on-disk config.yaml layout.
type Settings struct {
	Backend    string           `yaml:"backend"`
	Collection string           `yaml:"collection"`
	Firebase   FirebaseSettings `yaml:"firebase"`
	Local      LocalSettings    `yaml:"local"`
}

// FirebaseSettings configures the hosted identity and document store backend.
type FirebaseSettings struct {
	APIKey     string        `yaml:"api_key"`
	ProjectID  string        `yaml:"project_id"`
	DatabaseID string        `yaml:"database_id"`
	Timeout    time.Duration `yaml:"timeout"`

	// Endpoint overrides, used for emulators.
	AuthEndpoint      string `yaml:"auth_endpoint"`
	TokenEndpoint     string `yaml:"token_endpoint"`
	FirestoreEndpoint string `yaml:"firestore_endpoint"`
}

// LocalSettings configures the embedded SQLite backend.
type LocalSettings struct {
	// Path overrides the database location. Relative paths are resolved
	// against the config directory.
	Path string `yaml:"path"`
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Backend:    BackendLocal,
		Collection: "tasks",
		Firebase: FirebaseSettings{
			DatabaseID: "(default)",
			Timeout:    10 * time.Second,
		},
	}
}

// New creates a new Config with the default or specified config directory
// and loads its settings.
// If configDir is empty, uses XDG_CONFIG_HOME/taskhub or $HOME/.config/taskhub.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	settings, err := LoadSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	settings.applyEnv()
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.SettingsPath(), err)
	}
	cfg.Settings = settings
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadSettings reads settings from path, filling unset values with defaults.
// A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	settings.fillDefaults()
	return settings, nil
}

func (s *Settings) fillDefaults() {
	def := DefaultSettings()
	if s.Backend == "" {
		s.Backend = def.Backend
	}
	if s.Collection == "" {
		s.Collection = def.Collection
	}
	if s.Firebase.DatabaseID == "" {
		s.Firebase.DatabaseID = def.Firebase.DatabaseID
	}
	if s.Firebase.Timeout <= 0 {
		s.Firebase.Timeout = def.Firebase.Timeout
	}
}

func (s *Settings) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		s.Backend = v
	}
	if v := os.Getenv(EnvFirebaseAPIKey); v != "" {
		s.Firebase.APIKey = v
	}
	if v := os.Getenv(EnvFirebaseProjectID); v != "" {
		s.Firebase.ProjectID = v
	}
}

// Validate checks that the selected backend is known.
// Firebase credentials are checked when the backend is opened so that
// commands without a backend still run.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendLocal, BackendFirebase:
		return nil
	default:
		return fmt.Errorf("unknown backend: %q (want %q or %q)", s.Backend, BackendLocal, BackendFirebase)
	}
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SessionPath returns the path to the persisted session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// DatabasePath returns the path to the local backend database.
func (c *Config) DatabasePath() string {
	p := c.Settings.Local.Path
	if p == "" {
		return filepath.Join(c.Dir, DatabaseFile)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Logger returns the command logger.
// With Debug set it writes text records to w; otherwise records are discarded.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	if !c.Debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("app", AppName)
}
