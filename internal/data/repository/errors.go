package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicate reports a unique-index violation (one payment transaction
	// ID, one review per booking). The store is the authority for these
	// invariants, not the application-level pre-checks.
	ErrDuplicate = errors.New("duplicate record")

	// ErrStaleStatus reports a conditional status update that matched no
	// row: another writer moved the entity out of the expected status first.
	ErrStaleStatus = errors.New("entity status changed concurrently")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
