package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simp-lee/shelf/internal/storage"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if env, ok := os.LookupEnv(DataDirEnv); ok && strings.TrimSpace(env) != "" {
		c.Paths.DataDir = strings.TrimSpace(env)
	}

	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		if c.Paths.DataDir, err = (storage.Platform{AppID: appID}).DataDir(); err != nil {
			return fmt.Errorf("paths.data_dir: %w", err)
		}
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.CatalogDB) == "" {
		c.Paths.CatalogDB = filepath.Join(c.Paths.DataDir, defaultCatalogName)
	}
	if c.Paths.CatalogDB, err = expandPath(strings.TrimSpace(c.Paths.CatalogDB)); err != nil {
		return fmt.Errorf("paths.catalog_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
