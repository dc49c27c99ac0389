// Package session holds the operator's authenticated connection to the store
// and the on-disk credential file behind login and logout.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNoCredentials is returned by Load when nobody is logged in.
var ErrNoCredentials = errors.New("no saved credentials")

// Credentials is what login persists.
type Credentials struct {
	StoreURL   string    `yaml:"url"`
	AdminToken string    `yaml:"admin_token"`
	Contest    string    `yaml:"contest,omitempty"`
	SavedAt    time.Time `yaml:"saved_at"`
}

// CredentialStore reads and writes a single credentials file.
type CredentialStore struct {
	path string
}

// NewCredentialStore returns a store backed by path.
func NewCredentialStore(path string) *CredentialStore {
	return &CredentialStore{path: path}
}

// DefaultCredentialStore returns the store at ~/.graphway/credentials.yaml.
func DefaultCredentialStore() (*CredentialStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locating home directory: %w", err)
	}

	return NewCredentialStore(filepath.Join(home, ".graphway", "credentials.yaml")), nil
}

// Path returns the file location.
func (s *CredentialStore) Path() string { return s.path }

// Load reads the saved credentials.
func (s *CredentialStore) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var c Credentials
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if c.AdminToken == "" {
		return nil, ErrNoCredentials
	}

	return &c, nil
}

// Save writes c with owner-only permissions, replacing any previous file.
func (s *CredentialStore) Save(c Credentials) error {
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now().UTC()
	}

	data, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing credentials: %w", err)
	}

	return nil
}

// Clear removes the file. Clearing an absent file is not an error.
func (s *CredentialStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}

	return nil
}
