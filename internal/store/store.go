// Package store holds the sqlx-backed repositories for users, courses and
// the home/dashboard content.
package store

import (
	"database/sql"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
