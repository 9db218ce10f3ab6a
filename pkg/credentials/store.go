package credentials

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/switchboard/pkg/dotdir"
	"github.com/papercomputeco/switchboard/pkg/llm"
)

const (
	storeFile = "credentials.toml"

	storeVersion = 1
)

// storedFile is the on-disk layout of credentials.toml.
type storedFile struct {
	Version   int                  `toml:"version"`
	Providers map[string]storedKey `toml:"providers"`
}

type storedKey struct {
	APIKey    string    `toml:"api_key"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// Entry describes one stored key without exposing it.
type Entry struct {
	Provider  string
	EnvVar    string
	UpdatedAt time.Time
}

// Store is the credentials.toml file written by "switchboard auth". It is a
// Source, so stored keys back the gateway when the environment has none.
type Store struct {
	path string
}

// OpenStore locates credentials.toml in the .switchboard/ directory chosen
// by configDir (see dotdir). The file itself need not exist yet.
func OpenStore(configDir string) (*Store, error) {
	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving credentials dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, storeFile)}, nil
}

// Path is the location of credentials.toml.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Name() string {
	return storeFile
}

// Lookup returns the stored key for provider, or "" when none is stored.
func (s *Store) Lookup(_ context.Context, provider string) (string, error) {
	f, err := s.read()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(f.Providers[provider].APIKey), nil
}

// Put stores key for a supported provider, replacing any previous key.
func (s *Store) Put(provider, key string) error {
	if !llm.IsKnownProvider(provider) {
		return fmt.Errorf("unsupported provider: %q", provider)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key cannot be empty")
	}

	f, err := s.read()
	if err != nil {
		return err
	}
	f.Providers[provider] = storedKey{APIKey: key, UpdatedAt: time.Now().UTC().Truncate(time.Second)}

	return s.write(f)
}

// Delete removes the key for provider and reports whether one was stored.
func (s *Store) Delete(provider string) (bool, error) {
	f, err := s.read()
	if err != nil {
		return false, err
	}
	if _, ok := f.Providers[provider]; !ok {
		return false, nil
	}

	delete(f.Providers, provider)
	return true, s.write(f)
}

// Entries lists stored keys sorted by provider.
func (s *Store) Entries() ([]Entry, error) {
	f, err := s.read()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(f.Providers))
	for name, k := range f.Providers {
		entries = append(entries, Entry{
			Provider:  name,
			EnvVar:    EnvVarForProvider(name),
			UpdatedAt: k.UpdatedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Provider < entries[j].Provider
	})

	return entries, nil
}

// read loads credentials.toml. A missing file is an empty store.
func (s *Store) read() (*storedFile, error) {
	f := &storedFile{Version: storeVersion, Providers: map[string]storedKey{}}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	if err := toml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if f.Version > storeVersion {
		return nil, fmt.Errorf("%s has version %d, newer than supported version %d", s.path, f.Version, storeVersion)
	}
	if f.Providers == nil {
		f.Providers = map[string]storedKey{}
	}

	return f, nil
}

// write replaces credentials.toml atomically with mode 0600.
func (s *Store) write(f *storedFile) error {
	f.Version = storeVersion

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f); err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating credentials dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*.toml")
	if err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}
