package tui

import (
	"strings"
	"unicode"

	"charm.land/bubbles/v2/key"
)

// keyMap holds the normal-mode bindings. Hint bindings only feed the help bar.
type keyMap struct {
	quit        key.Binding
	forceQuit   key.Binding
	toggleHelp  key.Binding
	moveUp      key.Binding
	moveDown    key.Binding
	toggleEdit  key.Binding
	focusTodo   key.Binding
	focusDoing  key.Binding
	focusDone   key.Binding
	moveToTodo  key.Binding
	moveToDoing key.Binding
	moveToDone  key.Binding
	deleteItem  key.Binding

	navHint   key.Binding
	focusHint key.Binding
	moveHint  key.Binding
}

// newKeyMap constructs the default key map.
func newKeyMap() keyMap {
	k := keyMap{
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "save and quit")),
	}
	k.applyConfig(KeyConfig{})
	return k
}

// applyConfig rebinds configurable keys. Blank fields keep their defaults.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.quit, cfg.Exit, "q", "save and quit")
	configureBinding(&k.toggleHelp, cfg.Help, "?", "toggle help")
	configureBinding(&k.moveDown, cfg.MoveDown, "j", "move down")
	configureBinding(&k.moveUp, cfg.MoveUp, "k", "move up")
	configureBinding(&k.toggleEdit, cfg.ToggleEdit, "e", "new task")
	configureBinding(&k.focusTodo, cfg.FocusTodo, "a", "focus todo")
	configureBinding(&k.focusDoing, cfg.FocusDoing, "s", "focus doing")
	configureBinding(&k.focusDone, cfg.FocusDone, "d", "focus done")
	configureBinding(&k.moveToTodo, cfg.MoveToTodo, "A", "move item to todo")
	configureBinding(&k.moveToDoing, cfg.MoveToDoing, "S", "move item to doing")
	configureBinding(&k.moveToDone, cfg.MoveToDone, "D", "move item to done")
	configureBinding(&k.deleteItem, cfg.Delete, "x", "delete item")

	appendKeys(&k.quit, "esc")
	appendKeys(&k.moveDown, "down")
	appendKeys(&k.moveUp, "up")

	k.navHint = hintBinding("move", k.moveDown, k.moveUp)
	k.focusHint = hintBinding("focus list", k.focusTodo, k.focusDoing, k.focusDone)
	k.moveHint = hintBinding("move item", k.moveToTodo, k.moveToDoing, k.moveToDone)
}

// ShortHelp returns the footer bindings.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.navHint, k.focusHint, k.moveHint, k.toggleEdit, k.deleteItem, k.toggleHelp, k.quit}
}

// FullHelp returns grouped bindings.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveDown, k.moveUp, k.focusTodo, k.focusDoing, k.focusDone},
		{k.moveToTodo, k.moveToDoing, k.moveToDone, k.deleteItem},
		{k.toggleEdit, k.toggleHelp, k.quit, k.forceQuit},
	}
}

// editingKeyMap holds the fixed editing-mode bindings.
type editingKeyMap struct {
	confirm   key.Binding
	cancel    key.Binding
	backspace key.Binding
	left      key.Binding
	right     key.Binding
	paste     key.Binding
	forceQuit key.Binding
}

// newEditingKeyMap constructs editing-mode bindings.
func newEditingKeyMap() editingKeyMap {
	return editingKeyMap{
		confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to board")),
		backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete char")),
		left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "cursor left")),
		right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "cursor right")),
		paste:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "save and quit")),
	}
}

// ShortHelp returns the footer bindings.
func (k editingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.confirm, k.cancel, k.left, k.right, k.paste, k.forceQuit}
}

// FullHelp returns grouped bindings.
func (k editingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.confirm, k.cancel, k.backspace},
		{k.left, k.right, k.paste, k.forceQuit},
	}
}

// parseBindingKeys turns one configured key into matcher keys and a help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if value == "" && raw != "" {
		value = "space"
	}
	if value == "" {
		value = fallback
	}
	if strings.EqualFold(value, "space") {
		return []string{" ", "space"}, "space"
	}
	runes := []rune(value)
	if len(runes) == 1 {
		if unicode.IsUpper(runes[0]) {
			return []string{value, "shift+" + strings.ToLower(value)}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// configureBinding applies one configured key to a binding.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, help := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(help, desc)
}

// appendKeys adds fixed alias keys and lists them in the help label.
func appendKeys(b *key.Binding, aliases ...string) {
	keys := append(append([]string{}, b.Keys()...), aliases...)
	b.SetKeys(keys...)
	b.SetHelp(b.Help().Key+"/"+strings.Join(aliases, "/"), b.Help().Desc)
}

// hintBinding summarizes several bindings under one help entry.
func hintBinding(desc string, bindings ...key.Binding) key.Binding {
	labels := make([]string, 0, len(bindings))
	keys := make([]string, 0, len(bindings))
	for _, b := range bindings {
		label := b.Help().Key
		if idx := strings.Index(label, "/"); idx > 0 {
			label = label[:idx]
		}
		labels = append(labels, label)
		keys = append(keys, b.Keys()...)
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(labels, "/"), desc))
}
