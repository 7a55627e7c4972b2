package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Build    BuildConfig    `yaml:"build"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	Path         string        `yaml:"path"           env:"DATABASE_PATH"           env-default:"jmdict.db"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"   env:"DATABASE_BUSY_TIMEOUT"   env-default:"5s"`
	MaxOpenConns int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS" env-default:"4"`
}

// BuildConfig holds store build settings.
type BuildConfig struct {
	BatchSize int    `yaml:"batch_size" env:"BUILD_BATCH_SIZE" env-default:"500"`
	GlossLang string `yaml:"gloss_lang" env:"BUILD_GLOSS_LANG" env-default:"eng"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
