package repository

import (
	"database/sql"
	"errors"
)

// ErrNoRowsAffected is returned when an UPDATE or DELETE matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// nullString maps an empty string to SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
