package tui

import "context"

// KeyConfig mirrors the [keys] config section. Blank fields keep defaults.
type KeyConfig struct {
	Exit        string
	MoveDown    string
	MoveUp      string
	ToggleEdit  string
	FocusTodo   string
	FocusDoing  string
	FocusDone   string
	MoveToTodo  string
	MoveToDoing string
	MoveToDone  string
	Delete      string
	Help        string
}

type Option func(*Model)

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyConfig(cfg)
	}
}

// WithClipboardReader replaces the system clipboard used by ctrl+v.
func WithClipboardReader(read func() (string, error)) Option {
	return func(m *Model) {
		if read != nil {
			m.readClipboard = read
		}
	}
}

// WithContext sets the context passed to service dispatches.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}
