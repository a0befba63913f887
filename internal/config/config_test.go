package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromPathDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Storage.Backend != "yaml" {
		t.Errorf("default backend %q, want yaml", cfg.Storage.Backend)
	}
	if filepath.Base(cfg.Storage.Path) != "collections.yaml" {
		t.Errorf("default path %q, want a collections.yaml", cfg.Storage.Path)
	}
	if cfg.Engine.TickInterval != 3*time.Second {
		t.Errorf("default tick %s, want 3s", cfg.Engine.TickInterval)
	}
	if cfg.Board.RefreshRate != time.Second {
		t.Errorf("default refresh %s, want 1s", cfg.Board.RefreshRate)
	}
}

func TestLoadFromPathOverrides(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, `
storage:
  backend: sqlite
  path: /tmp/tracker.db
  watch: true
engine:
  tick_interval: 10s
  debug_log: /tmp/engine.log
board:
  refresh_rate: 250ms
`))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Path != "/tmp/tracker.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if !cfg.Storage.Watch {
		t.Error("watch flag not read")
	}
	if cfg.Engine.TickInterval != 10*time.Second {
		t.Errorf("tick %s, want 10s", cfg.Engine.TickInterval)
	}
	if cfg.Engine.DebugLog != "/tmp/engine.log" {
		t.Errorf("debug log %q", cfg.Engine.DebugLog)
	}
	if cfg.Board.RefreshRate != 250*time.Millisecond {
		t.Errorf("refresh %s, want 250ms", cfg.Board.RefreshRate)
	}
}

func TestLoadFromPathSQLiteDefaultPath(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "storage:\n  backend: sqlite\n"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if filepath.Base(cfg.Storage.Path) != "sprintforge.db" {
		t.Errorf("sqlite default path %q", cfg.Storage.Path)
	}
}

func TestLoadFromPathRejectsUnknownBackend(t *testing.T) {
	if _, err := LoadFromPath(writeConfig(t, "storage:\n  backend: postgres\n")); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestLoadFromPathRejectsOversizedTick(t *testing.T) {
	if _, err := LoadFromPath(writeConfig(t, "engine:\n  tick_interval: 48h\n")); err == nil {
		t.Error("tick interval beyond a day accepted")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPRINTFORGE_STORAGE_BACKEND", "sqlite")
	t.Setenv("SPRINTFORGE_STORAGE_PATH", "/tmp/env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Path != "/tmp/env.db" {
		t.Errorf("environment not applied: %+v", cfg.Storage)
	}
}
