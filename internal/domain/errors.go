package domain

import "errors"

var (
	ErrInvalidTitle    = errors.New("invalid title")
	ErrInvalidLabel    = errors.New("invalid task label")
	ErrInvalidColumnID = errors.New("invalid column id")
)
