package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Limits(t *testing.T) {
	cfg := Default()
	if cfg.HistoryLimit != 128 {
		t.Fatalf("Default().HistoryLimit = %d, want 128", cfg.HistoryLimit)
	}
	if cfg.CompletionLimit != 64 {
		t.Fatalf("Default().CompletionLimit = %d, want 64", cfg.CompletionLimit)
	}
	if cfg.PopupMaxLines != 8 {
		t.Fatalf("Default().PopupMaxLines = %d, want 8", cfg.PopupMaxLines)
	}
}

func TestLoad_MissingFile_UsesDefaults(t *testing.T) {
	t.Setenv("TUIKIT_HISTORY_LIMIT", "")
	t.Setenv("TUIKIT_COMPLETION_LIMIT", "")
	t.Setenv("TUIKIT_LOG_FILE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != path {
		t.Fatalf("cfg.Source = %q, want %q", cfg.Source, path)
	}
	if cfg.HistoryLimit != 128 {
		t.Fatalf("cfg.HistoryLimit = %d, want 128", cfg.HistoryLimit)
	}
}

func TestLoad_LimitsFromTOML(t *testing.T) {
	t.Setenv("TUIKIT_HISTORY_LIMIT", "")
	t.Setenv("TUIKIT_COMPLETION_LIMIT", "")
	t.Setenv("TUIKIT_LOG_FILE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`
history_limit = 32
completion_limit = 16
popup_max_lines = -1
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HistoryLimit != 32 {
		t.Fatalf("cfg.HistoryLimit = %d, want 32", cfg.HistoryLimit)
	}
	if cfg.CompletionLimit != 16 {
		t.Fatalf("cfg.CompletionLimit = %d, want 16", cfg.CompletionLimit)
	}
	// 非法值回落默认。
	if cfg.PopupMaxLines != 8 {
		t.Fatalf("cfg.PopupMaxLines = %d, want 8", cfg.PopupMaxLines)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TUIKIT_HISTORY_LIMIT", "7")
	t.Setenv("TUIKIT_COMPLETION_LIMIT", "")
	t.Setenv("TUIKIT_LOG_FILE", "/tmp/widgets.log")

	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HistoryLimit != 7 {
		t.Fatalf("cfg.HistoryLimit = %d, want 7", cfg.HistoryLimit)
	}
	if cfg.LogFile != "/tmp/widgets.log" {
		t.Fatalf("cfg.LogFile = %q", cfg.LogFile)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("TUIKIT_HISTORY_LIMIT", "")
	t.Setenv("TUIKIT_COMPLETION_LIMIT", "")
	t.Setenv("TUIKIT_LOG_FILE", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")

	in := Config{HistoryLimit: 20, CompletionLimit: -1, PopupMaxLines: 4, LogFile: "w.log"}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.HistoryLimit != 20 || got.PopupMaxLines != 4 || got.LogFile != "w.log" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	// 非法值在写入时即被归一。
	if got.CompletionLimit != 64 {
		t.Fatalf("got.CompletionLimit = %d, want 64", got.CompletionLimit)
	}
}

func TestApplyKVOverrides_Limits(t *testing.T) {
	cfg := Default()
	got := ApplyKVOverrides(cfg, []string{"history_limit=5", "bogus", "completion_limit=0"})
	if got.HistoryLimit != 5 {
		t.Fatalf("ApplyKVOverrides(...).HistoryLimit = %d, want 5", got.HistoryLimit)
	}
	if got.CompletionLimit != 64 {
		t.Fatalf("ApplyKVOverrides(...).CompletionLimit = %d, want 64", got.CompletionLimit)
	}
}
