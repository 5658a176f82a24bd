package app

import (
	"context"

	"github.com/evanschultz/tavla/internal/domain"
)

// Repository loads and stores the persisted board lists.
type Repository interface {
	LoadBoard(context.Context) (domain.BoardState, error)
	SaveBoard(context.Context, domain.BoardState) error
}

// Logger receives structured service events as key-value pairs.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// nopLogger discards every event.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
