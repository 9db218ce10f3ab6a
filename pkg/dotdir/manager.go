// Package dotdir locates the .switchboard/ directory that holds
// config.toml and credentials.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the directory switchboard keeps its files in.
const DirName = ".switchboard"

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target resolves and creates the .switchboard/ directory, returning its
// absolute path. An explicit override wins, then ./.switchboard/ if it
// already exists, then ~/.switchboard/.
func (m *Manager) Target(override string) (string, error) {
	dir := override
	if dir == "" {
		var err error
		if dir, err = m.discover(); err != nil {
			return "", err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating switchboard directory %s: %w", dir, err)
	}
	return filepath.Abs(dir)
}

func (m *Manager) discover() (string, error) {
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, DirName)
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}
