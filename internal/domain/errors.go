package domain

import "errors"

// Domain errors shared by services and stores.

var (
	ErrUserModelNotFound = errors.New("user model not found")
	ErrModuleNotFound    = errors.New("module not found")
)
