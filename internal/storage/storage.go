// Package storage resolves the application's private data directory and
// the derived-asset directories beneath it.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// CoversDirName is the subdirectory of the data directory holding thumbnails.
const CoversDirName = "covers"

// ErrNoDataDir reports that no data directory could be determined.
var ErrNoDataDir = errors.New("storage: cannot determine data directory")

// Resolver supplies the base directory for derived assets.
type Resolver interface {
	DataDir() (string, error)
}

// Fixed is a Resolver that always returns the same directory.
type Fixed string

// DataDir returns the configured directory as an absolute path.
func (f Fixed) DataDir() (string, error) {
	dir := strings.TrimSpace(string(f))
	if dir == "" {
		return "", fmt.Errorf("%w: empty path", ErrNoDataDir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoDataDir, err)
	}
	return abs, nil
}

// Platform resolves the per-user application data directory for AppID:
// $XDG_DATA_HOME/<AppID> when set, ~/.local/share/<AppID> on Linux and
// the OS configuration base (os.UserConfigDir) elsewhere.
type Platform struct {
	AppID string

	// Lookup and the two directory functions default to the os package;
	// tests substitute them.
	Lookup  func(string) (string, bool)
	HomeDir func() (string, error)
	BaseDir func() (string, error)
	GOOS    string
}

// DataDir implements Resolver.
func (p Platform) DataDir() (string, error) {
	app := strings.TrimSpace(p.AppID)
	if app == "" {
		return "", fmt.Errorf("%w: empty application id", ErrNoDataDir)
	}

	lookup := p.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if base, ok := lookup("XDG_DATA_HOME"); ok && filepath.IsAbs(strings.TrimSpace(base)) {
		return filepath.Join(strings.TrimSpace(base), app), nil
	}

	if p.goos() == "linux" {
		home := p.HomeDir
		if home == nil {
			home = os.UserHomeDir
		}
		dir, err := home()
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrNoDataDir, err)
		}
		return filepath.Join(dir, ".local", "share", app), nil
	}

	base := p.BaseDir
	if base == nil {
		base = os.UserConfigDir
	}
	dir, err := base()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoDataDir, err)
	}
	return filepath.Join(dir, app), nil
}

func (p Platform) goos() string {
	if p.GOOS != "" {
		return p.GOOS
	}
	return runtime.GOOS
}

// CoversDir returns the thumbnail directory under base.
func CoversDir(base string) string {
	return filepath.Join(base, CoversDirName)
}

// EnsureDir creates dir and any missing parents. An existing directory,
// including one created concurrently, is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
