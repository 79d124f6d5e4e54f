package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const uniqueViolationCode = "23505"

// IsUniqueViolationOf checks if the error is a unique violation of the given constraint
func IsUniqueViolationOf(err error, constraint string) bool {
	var pqErr *pgconn.PgError
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolationCode && pqErr.ConstraintName == constraint
	}
	return false
}
