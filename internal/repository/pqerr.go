package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
)

// Postgres error codes the repositories translate.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
	pqCheckViolation      = "23514"
	pqStringTooLong       = "22001"
	pqInvalidTextRep      = "22P02"
)

// pqCode returns the SQLSTATE of err, or "" if err is not a *pq.Error.
func pqCode(err error) string {
	var pe *pq.Error
	if errors.As(err, &pe) {
		return string(pe.Code)
	}
	return ""
}

// isInputViolation reports errors caused by malformed column values.
func isInputViolation(code string) bool {
	switch code {
	case pqNotNullViolation, pqCheckViolation, pqStringTooLong, pqInvalidTextRep:
		return true
	}
	return false
}

// pqMessages holds the client messages for constraint violations of one statement.
// An empty message leaves that class of error unmapped.
type pqMessages struct {
	Unique string
	FK     string
	FKKind apperr.Kind
	Input  string
}

// mapPQError translates a driver error into the apperr taxonomy; anything
// unmapped is wrapped with op and surfaces as an internal error.
func mapPQError(err error, op string, m pqMessages) error {
	code := pqCode(err)
	switch {
	case code == pqUniqueViolation && m.Unique != "":
		return (&apperr.Error{Kind: apperr.KindConflict, Message: m.Unique}).Wrap(err)
	case code == pqForeignKeyViolation && m.FK != "":
		kind := m.FKKind
		if kind == apperr.KindInternal {
			kind = apperr.KindDependency
		}
		return (&apperr.Error{Kind: kind, Message: m.FK}).Wrap(err)
	case isInputViolation(code) && m.Input != "":
		return (&apperr.Error{Kind: apperr.KindValidation, Message: m.Input}).Wrap(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// nullIfEmpty stores "" as NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
