package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02" // e.g. a malformed uuid
	pgNumericOutOfRange   = "22003"

	leasesUserFK = "leases_user_id_fkey"
)

func pgCode(err error) string {
	code, _ := pgCodeAndConstraint(err)
	return code
}

func pgCodeAndConstraint(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}
