package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Save writes cfg to path in TOML form, creating parent directories as
// needed. Values are normalized the same way Load normalizes them, so a
// saved file always loads back to an equal Config.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New("config path is empty and $HOME is not set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(sanitize(cfg))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
