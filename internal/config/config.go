package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the only persisted config file schema. It exposes the
// widget tunables the C ancestor left hard-coded.
type Config struct {
	HistoryLimit    int    `toml:"history_limit"`
	CompletionLimit int    `toml:"completion_limit"`
	PopupMaxLines   int    `toml:"popup_max_lines"`
	LogFile         string `toml:"log_file"`
	Source          string `toml:"-"`
}

func Default() Config {
	return Config{
		HistoryLimit:    128,
		CompletionLimit: 64,
		PopupMaxLines:   8,
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tuikit", "config.toml")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(sanitize(cfg)), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv("TUIKIT_HISTORY_LIMIT")); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}
	if env := strings.TrimSpace(os.Getenv("TUIKIT_COMPLETION_LIMIT")); env != "" {
		if n, err := strconv.Atoi(env); err == nil && n > 0 {
			cfg.CompletionLimit = n
		}
	}
	if env := strings.TrimSpace(os.Getenv("TUIKIT_LOG_FILE")); env != "" {
		cfg.LogFile = env
	}
	return cfg
}

func sanitize(cfg Config) Config {
	def := Default()
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = def.HistoryLimit
	}
	if cfg.CompletionLimit <= 0 {
		cfg.CompletionLimit = def.CompletionLimit
	}
	if cfg.PopupMaxLines <= 0 {
		cfg.PopupMaxLines = def.PopupMaxLines
	}
	return cfg
}
