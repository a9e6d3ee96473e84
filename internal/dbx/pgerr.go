package dbx

import (
	"database/sql/driver"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories react to.
const (
	CodeUniqueViolation      = "23505"
	CodeForeignKeyViolation  = "23503"
	CodeCheckViolation       = "23514"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
	CodeAdminShutdown        = "57P01"
)

// PgCode returns the SQLSTATE carried by err, or "" if err is not a
// PostgreSQL error.
func PgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsTransient reports whether retrying the failed operation may succeed:
// serialization failures, deadlocks, server shutdowns, connection class
// (08xxx) errors and broken driver connections.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	switch code := PgCode(err); {
	case code == CodeSerializationFailure, code == CodeDeadlockDetected, code == CodeAdminShutdown:
		return true
	case len(code) == 5 && code[:2] == "08":
		return true
	}
	return false
}
