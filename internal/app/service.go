package app

import (
	"context"
	"fmt"
	"time"

	"github.com/evanschultz/tavla/internal/domain"
)

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	Titles domain.BoardTitles
}

// Clock returns the current time.
type Clock func() time.Time

// Service owns one board session and its repository.
type Service struct {
	repo   Repository
	logger Logger
	clock  Clock
	titles domain.BoardTitles
	board  *domain.Board
}

// NewService constructs a new value for this package.
func NewService(repo Repository, logger Logger, clock Clock, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = nopLogger{}
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:   repo,
		logger: logger,
		clock:  clock,
		titles: normalizeTitles(cfg.Titles),
	}
}

// Load reads persisted state and builds a fresh board from it.
func (s *Service) Load(ctx context.Context) error {
	state, err := s.repo.LoadBoard(ctx)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	board, err := domain.NewBoard(s.titles, state)
	if err != nil {
		return fmt.Errorf("build board: %w", err)
	}
	s.board = board
	s.logger.Info("board loaded",
		"todo", len(state.Todo),
		"doing", len(state.Doing),
		"done", len(state.Done),
	)
	return nil
}

// Dispatch applies one command. An applied exit command persists the board
// before returning; the save error, if any, is returned to the caller.
func (s *Service) Dispatch(ctx context.Context, cmd domain.Command) error {
	if s.board == nil {
		return ErrBoardNotLoaded
	}
	if !s.board.Apply(cmd) {
		s.logger.Debug("command ignored", "command", cmd.String(), "mode", s.board.Mode().String())
		return nil
	}
	s.logger.Debug("command applied", "command", cmd.String(), "mode", s.board.Mode().String())
	if cmd.Kind == domain.CommandExit && s.board.ShouldExit() {
		return s.Save(ctx)
	}
	return nil
}

// Save writes the current board lists to the repository.
func (s *Service) Save(ctx context.Context) error {
	if s.board == nil {
		return ErrBoardNotLoaded
	}
	if err := s.repo.SaveBoard(ctx, s.board.State()); err != nil {
		s.logger.Error("board save failed", "err", err)
		return fmt.Errorf("save board: %w", err)
	}
	s.logger.Info("board saved")
	return nil
}

// Snapshot returns the render view of the loaded board.
func (s *Service) Snapshot() domain.BoardSnapshot {
	if s.board == nil {
		return domain.BoardSnapshot{}
	}
	return s.board.Snapshot()
}

// ShouldExit reports whether the session received an exit command.
func (s *Service) ShouldExit() bool {
	return s.board != nil && s.board.ShouldExit()
}

// State returns the in-memory board lists.
func (s *Service) State() domain.BoardState {
	if s.board == nil {
		return domain.BoardState{}.Normalized()
	}
	return s.board.State()
}

// Titles returns the configured column titles.
func (s *Service) Titles() domain.BoardTitles {
	return s.titles
}

// PersistedState reads the stored board lists without touching the session.
func (s *Service) PersistedState(ctx context.Context) (domain.BoardState, error) {
	state, err := s.repo.LoadBoard(ctx)
	if err != nil {
		return domain.BoardState{}, fmt.Errorf("load board: %w", err)
	}
	return state.Normalized(), nil
}

// normalizeTitles fills blank titles from the defaults.
func normalizeTitles(titles domain.BoardTitles) domain.BoardTitles {
	defaults := domain.DefaultTitles()
	if titles.Todo == "" {
		titles.Todo = defaults.Todo
	}
	if titles.Doing == "" {
		titles.Doing = defaults.Doing
	}
	if titles.Done == "" {
		titles.Done = defaults.Done
	}
	return titles
}
