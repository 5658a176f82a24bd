package app

import "errors"

// ErrBoardNotLoaded and related errors describe validation and runtime failures.
var (
	ErrBoardNotLoaded         = errors.New("board not loaded")
	ErrInvalidSnapshotVersion = errors.New("invalid snapshot version")
)
