package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "history_limit":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.HistoryLimit = n
			}
		case "completion_limit":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.CompletionLimit = n
			}
		case "popup_max_lines":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				cfg.PopupMaxLines = n
			}
		case "log_file":
			cfg.LogFile = val
		}
	}
	return cfg
}
