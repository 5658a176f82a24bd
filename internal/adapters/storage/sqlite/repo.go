package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/tavla/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// ErrUnknownColumnKey reports a stored row whose column key is not a board column.
var ErrUnknownColumnKey = errors.New("unknown column key")

// Repository stores board items in a single sqlite table.
type Repository struct {
	db    *sql.DB
	idGen func() string
	clock func() time.Time
}

// Option customizes a Repository.
type Option func(*Repository)

// WithIDGenerator overrides the row id generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) {
		if gen != nil {
			r.idGen = gen
		}
	}
}

// WithClock overrides the clock used for updated_at stamps.
func WithClock(clock func() time.Time) Option {
	return func(r *Repository) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// Open opens the database at path, creating parent directories and schema.
func Open(path string, opts ...Option) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newRepository(db, opts)
}

// OpenInMemory opens in memory.
func OpenInMemory(opts ...Option) (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	return newRepository(db, opts)
}

// newRepository applies options and migrates the schema.
func newRepository(db *sql.DB, opts []Option) (*Repository, error) {
	repo := &Repository{
		db:    db,
		idGen: uuid.NewString,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS board_items (
			id TEXT PRIMARY KEY,
			column_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_board_items_column_position ON board_items(column_key, position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// LoadBoard reads every column in position order. An empty table is an empty board.
func (r *Repository) LoadBoard(ctx context.Context) (domain.BoardState, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT column_key, label
		FROM board_items
		ORDER BY column_key ASC, position ASC
	`)
	if err != nil {
		return domain.BoardState{}, fmt.Errorf("query board items: %w", err)
	}
	defer rows.Close()

	state := domain.BoardState{}.Normalized()
	for rows.Next() {
		var (
			columnKey string
			label     string
		)
		if err := rows.Scan(&columnKey, &label); err != nil {
			return domain.BoardState{}, fmt.Errorf("scan board item: %w", err)
		}
		column, err := domain.ParseColumnID(columnKey)
		if err != nil {
			return domain.BoardState{}, fmt.Errorf("%w: %q", ErrUnknownColumnKey, columnKey)
		}
		switch column {
		case domain.ColumnTodo:
			state.Todo = append(state.Todo, label)
		case domain.ColumnDoing:
			state.Doing = append(state.Doing, label)
		case domain.ColumnDone:
			state.Done = append(state.Done, label)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.BoardState{}, fmt.Errorf("iterate board items: %w", err)
	}
	return state, nil
}

// SaveBoard replaces every stored item in one transaction.
func (r *Repository) SaveBoard(ctx context.Context, state domain.BoardState) (err error) {
	if err := state.Validate(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin board save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM board_items`); err != nil {
		return fmt.Errorf("clear board items: %w", err)
	}
	updatedAt := ts(r.clock())
	for _, column := range domain.ColumnIDs() {
		for position, label := range state.Items(column) {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO board_items(id, column_key, position, label, updated_at)
				VALUES (?, ?, ?, ?, ?)
			`, r.idGen(), column.String(), position, label, updatedAt)
			if err != nil {
				return fmt.Errorf("insert board item %s[%d]: %w", column, position, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit board save: %w", err)
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
