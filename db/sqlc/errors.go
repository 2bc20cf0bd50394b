package db

import (
	"errors"

	"github.com/lib/pq"
)

const (
	DuplicateEntry pq.ErrorCode = "23505"
	EntryTooLong    pq.ErrorCode = "22001"
	CheckViolation pq.ErrorCode = "23514"
)

// IsUniqueViolation reports whether err is a postgres unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, DuplicateEntry)
}

// IsCheckViolation reports whether err is a postgres check constraint violation.
func IsCheckViolation(err error) bool {
	return hasCode(err, CheckViolation)
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	return false
}
