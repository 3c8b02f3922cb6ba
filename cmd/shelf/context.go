package main

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/simp-lee/shelf/internal/catalog"
	"github.com/simp-lee/shelf/internal/config"
	"github.com/simp-lee/shelf/internal/ingest"
	"github.com/simp-lee/shelf/internal/logging"
	"github.com/simp-lee/shelf/internal/thumbnail"
)

type globalFlags struct {
	config   string
	dataDir  string
	logLevel string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the configuration once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if dir := strings.TrimSpace(c.flags.dataDir); dir != "" {
			if err := cfg.SetDataDir(dir); err != nil {
				c.configErr = err
				return
			}
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(w io.Writer) (zerolog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return zerolog.Nop(), err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: w,
	})
}

func (c *commandContext) importer(log zerolog.Logger) (*ingest.Importer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ingest.New(
		cfg.Resolver(),
		ingest.WithLogger(logging.WithComponent(log, "ingest")),
		ingest.WithNormalizer(thumbnail.New(cfg.Thumbnail())),
	), nil
}

// withStore opens the catalog for the duration of fn.
func (c *commandContext) withStore(ctx context.Context, fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(ctx, cfg.Paths.CatalogDB)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
