package repository

import (
	"database/sql"

	"royale-rivals/internal/domain"

	"github.com/cockroachdb/errors"
	"github.com/mattn/go-sqlite3"
)

// translate maps driver errors onto domain sentinels, keeping the original as the cause.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Mark(errors.Wrap(err, op), domain.ErrNotFound)
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return errors.Mark(errors.Wrap(err, op), domain.ErrConflict)
		case sqlite3.ErrConstraintForeignKey:
			return errors.Mark(errors.Wrap(err, op), domain.ErrNotFound)
		}
	}
	return errors.Wrap(err, op)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
