package config

import "github.com/simp-lee/shelf/internal/thumbnail"

const (
	appID              = "shelf"
	defaultConfigPath  = "~/.config/shelf/config.toml"
	projectConfigName  = "shelf.toml"
	defaultCatalogName = "catalog.db"
	defaultWorkers     = 4
	maxWorkers         = 64
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	// DataDirEnv overrides paths.data_dir when set.
	DataDirEnv = "SHELF_DATA_DIR"
)

// Default returns a Config populated with repository defaults. An empty
// data_dir is resolved to the platform data directory during Load.
func Default() Config {
	return Config{
		Covers: Covers{
			MaxWidth:  thumbnail.DefaultMaxWidth,
			MaxHeight: thumbnail.DefaultMaxHeight,
			Quality:   thumbnail.DefaultQuality,
		},
		Import: Import{
			Workers: defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
