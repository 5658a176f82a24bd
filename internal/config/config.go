package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendJSON   Backend = "json"
)

type Config struct {
	Storage StorageConfig `toml:"storage"`
	Board   BoardConfig   `toml:"board"`
	Logging LoggingConfig `toml:"logging"`
	Keys    KeyConfig     `toml:"keys"`
}

type StorageConfig struct {
	Backend    Backend `toml:"backend"`
	SQLitePath string  `toml:"sqlite_path"`
	JSONPath   string  `toml:"json_path"`
}

// Path returns the store path for the selected backend.
func (s StorageConfig) Path() string {
	if s.Backend == BackendJSON {
		return s.JSONPath
	}
	return s.SQLitePath
}

type BoardConfig struct {
	TodoTitle  string `toml:"todo_title"`
	DoingTitle string `toml:"doing_title"`
	DoneTitle  string `toml:"done_title"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// KeyConfig holds the rebindable normal-mode keys. Editing-mode keys are fixed.
type KeyConfig struct {
	Exit        string `toml:"exit"`
	MoveDown    string `toml:"move_down"`
	MoveUp      string `toml:"move_up"`
	ToggleEdit  string `toml:"toggle_edit"`
	FocusTodo   string `toml:"focus_todo"`
	FocusDoing  string `toml:"focus_doing"`
	FocusDone   string `toml:"focus_done"`
	MoveToTodo  string `toml:"move_to_todo"`
	MoveToDoing string `toml:"move_to_doing"`
	MoveToDone  string `toml:"move_to_done"`
	Delete      string `toml:"delete"`
	Help        string `toml:"help"`
}

func Default(sqlitePath, jsonPath string) Config {
	return Config{
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: sqlitePath,
			JSONPath:   jsonPath,
		},
		Board: BoardConfig{
			TodoTitle:  "TODO",
			DoingTitle: "Doing",
			DoneTitle:  "Done",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     "log",
			},
		},
		Keys: KeyConfig{
			Exit:        "q",
			MoveDown:    "j",
			MoveUp:      "k",
			ToggleEdit:  "e",
			FocusTodo:   "a",
			FocusDoing:  "s",
			FocusDone:   "d",
			MoveToTodo:  "A",
			MoveToDoing: "S",
			MoveToDone:  "D",
			Delete:      "x",
			Help:        "?",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return errors.New("storage.sqlite_path is required")
		}
	case BackendJSON:
		if strings.TrimSpace(c.Storage.JSONPath) == "" {
			return errors.New("storage.json_path is required")
		}
	default:
		return fmt.Errorf("invalid storage.backend: %q", c.Storage.Backend)
	}

	titles := []struct {
		field string
		value string
	}{
		{"board.todo_title", c.Board.TodoTitle},
		{"board.doing_title", c.Board.DoingTitle},
		{"board.done_title", c.Board.DoneTitle},
	}
	for _, title := range titles {
		if strings.TrimSpace(title.value) == "" {
			return fmt.Errorf("%s is required", title.field)
		}
	}

	if _, err := charmLog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	seenKeys := map[string]string{}
	for _, binding := range c.Keys.bindings() {
		key := strings.TrimSpace(binding.value)
		if key == "" && binding.value != " " {
			return fmt.Errorf("keys.%s is required", binding.field)
		}
		if key == "" {
			key = " "
		}
		if other, ok := seenKeys[key]; ok {
			return fmt.Errorf("keys.%s duplicates keys.%s: %q", binding.field, other, key)
		}
		seenKeys[key] = binding.field
	}

	return nil
}

type keyField struct {
	field string
	value string
}

func (k KeyConfig) bindings() []keyField {
	return []keyField{
		{"exit", k.Exit},
		{"move_down", k.MoveDown},
		{"move_up", k.MoveUp},
		{"toggle_edit", k.ToggleEdit},
		{"focus_todo", k.FocusTodo},
		{"focus_doing", k.FocusDoing},
		{"focus_done", k.FocusDone},
		{"move_to_todo", k.MoveToTodo},
		{"move_to_doing", k.MoveToDoing},
		{"move_to_done", k.MoveToDone},
		{"delete", k.Delete},
		{"help", k.Help},
	}
}
