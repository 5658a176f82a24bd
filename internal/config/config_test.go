package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/tavla.db", "/tmp/kanban.json")
	if cfg.Storage.Backend != BackendSQLite {
		t.Fatalf("unexpected backend %q", cfg.Storage.Backend)
	}
	if cfg.Storage.Path() != "/tmp/tavla.db" {
		t.Fatalf("unexpected store path %q", cfg.Storage.Path())
	}
	if cfg.Board.TodoTitle != "TODO" || cfg.Board.DoingTitle != "Doing" || cfg.Board.DoneTitle != "Done" {
		t.Fatalf("unexpected titles %#v", cfg.Board)
	}
	if cfg.Keys.MoveToTodo != "A" || cfg.Keys.Exit != "q" {
		t.Fatalf("unexpected keys %#v", cfg.Keys)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/tavla.db", "/tmp/kanban.json")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.SQLitePath != defaults.Storage.SQLitePath {
		t.Fatalf("expected default db path, got %q", cfg.Storage.SQLitePath)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[storage]
backend = "json"
json_path = "/custom/kanban.json"

[board]
doing_title = "In Progress"

[logging]
level = "debug"

[logging.dev_file]
enabled = false

[keys]
exit = "Q"
delete = "X"
`)

	cfg, err := Load(path, Default("/tmp/default.db", "/tmp/default.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.Backend != BackendJSON || cfg.Storage.Path() != "/custom/kanban.json" {
		t.Fatalf("unexpected storage %#v", cfg.Storage)
	}
	if cfg.Storage.SQLitePath != "/tmp/default.db" {
		t.Fatalf("expected untouched sqlite path, got %q", cfg.Storage.SQLitePath)
	}
	if cfg.Board.DoingTitle != "In Progress" || cfg.Board.TodoTitle != "TODO" {
		t.Fatalf("unexpected board titles %#v", cfg.Board)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.DevFile.Enabled {
		t.Fatalf("unexpected logging %#v", cfg.Logging)
	}
	if cfg.Keys.Exit != "Q" || cfg.Keys.Delete != "X" || cfg.Keys.MoveUp != "k" {
		t.Fatalf("unexpected keys %#v", cfg.Keys)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "backend",
			content: "[storage]\nbackend = \"postgres\"\n",
			wantErr: "storage.backend",
		},
		{
			name:    "blank title",
			content: "[board]\ndone_title = \"  \"\n",
			wantErr: "board.done_title",
		},
		{
			name:    "log level",
			content: "[logging]\nlevel = \"loud\"\n",
			wantErr: "logging.level",
		},
		{
			name:    "blank key",
			content: "[keys]\nmove_up = \"\"\n",
			wantErr: "keys.move_up is required",
		},
		{
			name:    "duplicate key",
			content: "[keys]\ndelete = \"j\"\n",
			wantErr: "keys.delete duplicates keys.move_down",
		},
		{
			name:    "bad toml",
			content: "[keys\n",
			wantErr: "decode toml",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := Load(path, Default("/tmp/tavla.db", "/tmp/kanban.json"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateRequiresBackendPath(t *testing.T) {
	cfg := Default("", "/tmp/kanban.json")
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "storage.sqlite_path") {
		t.Fatalf("expected sqlite path error, got %v", err)
	}
	cfg.Storage.Backend = BackendJSON
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateAllowsSpaceKey(t *testing.T) {
	cfg := Default("/tmp/tavla.db", "/tmp/kanban.json")
	cfg.Keys.ToggleEdit = " "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
