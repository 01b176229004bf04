// AngelaMos | 2026
// storeerr.go

package core

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	pgNotNullViolation  = "23502"
	pgCheckViolation    = "23514"
	pgStringTooLong     = "22001"
	pgInvalidTextRepr   = "22P02"
	pgNumericOutOfRange = "22003"
)

// TranslateStoreError maps driver failures onto the core sentinels so the
// boundary never sees a raw database error it has to interpret.
func TranslateStoreError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w", op, &DuplicateKeyError{
			Field: fieldFromConstraint(pgErr.ConstraintName),
		})
	case pgInvalidTextRepr:
		return fmt.Errorf("%s: %w", op, ErrInvalidID)
	case pgNotNullViolation, pgCheckViolation, pgStringTooLong, pgNumericOutOfRange:
		detail := pgErr.Message
		if pgErr.ColumnName != "" {
			detail = fmt.Sprintf("%s no es válido", pgErr.ColumnName)
		}
		return fmt.Errorf("%s: %w", op, ValidationFailedError([]string{detail}))
	}

	return fmt.Errorf("%s: %w", op, err)
}

// fieldFromConstraint turns "users_email_key" into "email".
func fieldFromConstraint(name string) string {
	if name == "" {
		return "valor"
	}

	name = strings.TrimSuffix(name, "_key")
	if _, field, ok := strings.Cut(name, "_"); ok && field != "" {
		return field
	}
	return name
}
