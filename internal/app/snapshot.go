package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/tavla/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "tavla.v1"

// Snapshot is the portable export form of a board. A plain kanban.json
// document decodes into a Snapshot with an empty version.
type Snapshot struct {
	Version    string    `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Todo       []string  `json:"todo" yaml:"todo"`
	Doing      []string  `json:"doing" yaml:"doing"`
	Done       []string  `json:"done" yaml:"done"`
}

// State returns the board lists carried by the snapshot.
func (s Snapshot) State() domain.BoardState {
	return domain.BoardState{
		Todo:  s.Todo,
		Doing: s.Doing,
		Done:  s.Done,
	}.Normalized()
}

// Validate checks version and labels.
func (s Snapshot) Validate() error {
	version := strings.TrimSpace(s.Version)
	if version != "" && version != SnapshotVersion {
		return fmt.Errorf("%w: %q", ErrInvalidSnapshotVersion, s.Version)
	}
	return s.State().Validate()
}

// DecodeSnapshot validates raw JSON against the board schema and decodes it.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	if err := ValidateBoardPayload(raw); err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// ExportSnapshot captures the persisted board in snapshot form.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	state, err := s.PersistedState(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Todo:       state.Todo,
		Doing:      state.Doing,
		Done:       state.Done,
	}, nil
}

// ImportSnapshot replaces the persisted board with the snapshot contents. A
// loaded session is rebuilt from the imported lists.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	state := snap.State()
	if err := s.repo.SaveBoard(ctx, state); err != nil {
		return fmt.Errorf("save imported board: %w", err)
	}
	s.logger.Info("snapshot imported",
		"todo", len(state.Todo),
		"doing", len(state.Doing),
		"done", len(state.Done),
	)
	if s.board == nil {
		return nil
	}
	board, err := domain.NewBoard(s.titles, state)
	if err != nil {
		return fmt.Errorf("build board: %w", err)
	}
	s.board = board
	return nil
}
