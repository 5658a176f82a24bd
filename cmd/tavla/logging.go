package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
)

// defaultDevLogDir is used when [logging.dev_file] dir is blank.
const defaultDevLogDir = "log"

// sessionLogger writes board session events to a styled console sink and,
// in dev mode, to a logfmt file next to the board store. Loggers derived
// with With share the file and the console mute switch.
type sessionLogger struct {
	console *charmLog.Logger
	file    *charmLog.Logger
	shared  *logSinks
}

// logSinks is the state every derived logger shares.
type logSinks struct {
	consoleMuted bool
	logFile      *os.File
}

// newSessionLogger builds the console sink and opens devLog when it is set.
func newSessionLogger(stderr io.Writer, appName, level, devLog string) (*sessionLogger, error) {
	lvl, err := charmLog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", level, err)
	}
	if stderr == nil {
		stderr = io.Discard
	}

	l := &sessionLogger{
		console: charmLog.NewWithOptions(stderr, charmLog.Options{
			Level:           lvl,
			Prefix:          appName,
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Formatter:       charmLog.TextFormatter,
		}),
		shared: &logSinks{},
	}
	if devLog == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(devLog), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	f, err := os.OpenFile(devLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}
	l.shared.logFile = f
	l.file = charmLog.NewWithOptions(f, charmLog.Options{
		Level:           lvl,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	return l, nil
}

// With returns a logger that stamps keyvals on every event of both sinks.
func (l *sessionLogger) With(keyvals ...any) *sessionLogger {
	child := &sessionLogger{
		console: l.console.With(keyvals...),
		shared:  l.shared,
	}
	if l.file != nil {
		child.file = l.file.With(keyvals...)
	}
	return child
}

// MuteConsole stops console output while the board owns the terminal.
func (l *sessionLogger) MuteConsole(muted bool) {
	l.shared.consoleMuted = muted
}

// DevLogPath returns the open dev log file, or "".
func (l *sessionLogger) DevLogPath() string {
	if l.shared.logFile == nil {
		return ""
	}
	return l.shared.logFile.Name()
}

// Close closes the dev log file.
func (l *sessionLogger) Close() error {
	if l.shared.logFile == nil {
		return nil
	}
	err := l.shared.logFile.Close()
	l.shared.logFile = nil
	l.file = nil
	return err
}

func (l *sessionLogger) log(level charmLog.Level, msg string, keyvals []any) {
	if !l.shared.consoleMuted {
		l.console.Log(level, msg, keyvals...)
	}
	if l.file != nil && l.shared.logFile != nil {
		l.file.Log(level, msg, keyvals...)
	}
}

func (l *sessionLogger) Debug(msg string, keyvals ...any) { l.log(charmLog.DebugLevel, msg, keyvals) }
func (l *sessionLogger) Info(msg string, keyvals ...any)  { l.log(charmLog.InfoLevel, msg, keyvals) }
func (l *sessionLogger) Warn(msg string, keyvals ...any)  { l.log(charmLog.WarnLevel, msg, keyvals) }
func (l *sessionLogger) Error(msg string, keyvals ...any) { l.log(charmLog.ErrorLevel, msg, keyvals) }

// devLogPath places one log file per app and day. A relative dir is taken
// from the directory holding the board store.
func devLogPath(dir, storePath, appName string, day time.Time) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultDevLogDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(storePath), dir)
	}
	stem := strings.Trim(strings.NewReplacer("/", "-", "\\", "-", " ", "-").Replace(strings.TrimSpace(appName)), "-")
	if stem == "" {
		stem = defaultAppName
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.log", stem, day.UTC().Format("20060102")))
}
