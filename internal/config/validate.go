package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout must be >= 0 (got %v)", c.Database.BusyTimeout)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be >= 1 (got %d)", c.Database.MaxOpenConns)
	}
	if c.Build.BatchSize < 1 {
		return fmt.Errorf("build.batch_size must be >= 1 (got %d)", c.Build.BatchSize)
	}
	if c.Build.GlossLang == "" {
		return fmt.Errorf("build.gloss_lang must not be empty")
	}
	return nil
}
