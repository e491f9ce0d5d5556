package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
// The storage-level unique index is the authoritative backstop against
// concurrent duplicate inserts, so services must be able to recognize the
// loser of that race and normalize it to a domain conflict. Checks the gorm
// translated error, the raw MySQL error 1062, and the SQLite message used by
// the test driver.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
