// Package jsonfile stores the board in a pretty-printed kanban.json document.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanschultz/tavla/internal/app"
	"github.com/evanschultz/tavla/internal/domain"
)

// document is the on-disk shape.
type document struct {
	Todo  []string `json:"todo"`
	Doing []string `json:"doing"`
	Done  []string `json:"done"`
}

// Store reads and writes one board file.
type Store struct {
	path string
}

// Open validates the path and ensures its directory exists. The file itself is
// created on the first save.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("json store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create json store dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the board file path.
func (s *Store) Path() string {
	return s.path
}

// Close is a no-op; it lets callers treat every backend alike.
func (s *Store) Close() error {
	return nil
}

// LoadBoard reads the board file. A missing file is an empty board; a file that
// fails schema validation is an error.
func (s *Store) LoadBoard(ctx context.Context) (domain.BoardState, error) {
	if err := ctx.Err(); err != nil {
		return domain.BoardState{}, err
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.BoardState{}.Normalized(), nil
	}
	if err != nil {
		return domain.BoardState{}, fmt.Errorf("read board file: %w", err)
	}
	if err := app.ValidateBoardPayload(raw); err != nil {
		return domain.BoardState{}, fmt.Errorf("validate %s: %w", s.path, err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.BoardState{}, fmt.Errorf("decode board file: %w", err)
	}
	return domain.BoardState{Todo: doc.Todo, Doing: doc.Doing, Done: doc.Done}.Normalized(), nil
}

// SaveBoard writes the board atomically via a temp file and rename.
func (s *Store) SaveBoard(ctx context.Context, state domain.BoardState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := state.Validate(); err != nil {
		return err
	}
	state = state.Normalized()
	encoded, err := json.MarshalIndent(document{Todo: state.Todo, Doing: state.Doing, Done: state.Done}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode board file: %w", err)
	}
	encoded = append(encoded, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp board file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp board file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp board file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace board file: %w", err)
	}
	return nil
}
