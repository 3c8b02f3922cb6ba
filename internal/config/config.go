package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/simp-lee/shelf/internal/storage"
	"github.com/simp-lee/shelf/internal/thumbnail"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths locates the data directory and the catalog database.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	CatalogDB string `toml:"catalog_db"`
}

// Covers sizes and encodes cover thumbnails.
type Covers struct {
	MaxWidth  int `toml:"max_width"`
	MaxHeight int `toml:"max_height"`
	Quality   int `toml:"quality"`
}

// Import controls batch imports.
type Import struct {
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for shelf.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Covers  Covers  `toml:"covers"`
	Import  Import  `toml:"import"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file
// is not an error; defaults apply. It returns the config, the path that was
// considered, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// Resolver returns the data directory resolver for the ingestion core.
func (c *Config) Resolver() storage.Resolver {
	return storage.Fixed(c.Paths.DataDir)
}

// Thumbnail returns the cover normalizer options.
func (c *Config) Thumbnail() thumbnail.Options {
	return thumbnail.Options{
		MaxWidth:  c.Covers.MaxWidth,
		MaxHeight: c.Covers.MaxHeight,
		Quality:   c.Covers.Quality,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// SetDataDir replaces paths.data_dir. A catalog path that was derived
// from the old data directory follows it.
func (c *Config) SetDataDir(dir string) error {
	expanded, err := expandPath(strings.TrimSpace(dir))
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if expanded == "" {
		return errors.New("data dir: empty path")
	}
	if c.Paths.CatalogDB == "" || c.Paths.CatalogDB == filepath.Join(c.Paths.DataDir, defaultCatalogName) {
		c.Paths.CatalogDB = filepath.Join(expanded, defaultCatalogName)
	}
	c.Paths.DataDir = expanded
	return nil
}

// CreateSample writes a sample configuration file to path. Unless overwrite
// is set, an existing file is left alone and reported as fs.ErrExist.
func CreateSample(path string, overwrite bool) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := storage.EnsureDir(filepath.Dir(expanded)); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(expanded, flags, 0o644)
	if err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	if _, err := f.WriteString(sampleConfig); err != nil {
		_ = f.Close()
		return fmt.Errorf("write sample config: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
