package models

import "errors"

var (
	// ErrNotFound is returned by stores and services when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSaveFailed wraps a persistence failure after the caller's state has been resynchronised.
	ErrSaveFailed = errors.New("failed to save changes")

	ErrInvalidHolding = errors.New("invalid holding")
	ErrInvalidGoal    = errors.New("invalid goal")
	ErrInvalidOption  = errors.New("invalid option parameters")
	ErrNoMetadata     = errors.New("no metadata found in image")
)
