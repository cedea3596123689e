package domain

import "github.com/cockroachdb/errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrSyncCooldown = errors.New("sync requested too soon")
)
