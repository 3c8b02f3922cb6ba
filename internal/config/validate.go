package config

import (
	"fmt"
	"slices"
)

var (
	logFormats = []string{"console", "json"}
	logLevels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCovers(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCovers() error {
	if c.Covers.MaxWidth <= 0 {
		return fmt.Errorf("covers.max_width must be positive, got %d", c.Covers.MaxWidth)
	}
	if c.Covers.MaxHeight <= 0 {
		return fmt.Errorf("covers.max_height must be positive, got %d", c.Covers.MaxHeight)
	}
	if c.Covers.Quality < 1 || c.Covers.Quality > 100 {
		return fmt.Errorf("covers.quality must be between 1 and 100, got %d", c.Covers.Quality)
	}
	return nil
}

func (c *Config) validateImport() error {
	if c.Import.Workers < 1 || c.Import.Workers > maxWorkers {
		return fmt.Errorf("import.workers must be between 1 and %d, got %d", maxWorkers, c.Import.Workers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v, got %q", logFormats, c.Logging.Format)
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", logLevels, c.Logging.Level)
	}
	return nil
}
