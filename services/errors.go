package services

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel errors returned by TableService. Handlers map them to HTTP
// status codes with errors.Is.
var (
	ErrTableNotFound = errors.New("table not found")
	ErrDuplicateName = errors.New("a table with that name already exists")
	ErrTableOccupied = errors.New("cannot delete an occupied table")
	ErrInvalidPaging = errors.New("invalid paging parameters")
	ErrInvalidName   = errors.New("name must not be empty")
	ErrInvalidType   = errors.New("type must be POOL or CARDS")
	ErrInvalidStatus = errors.New("status must be AVAILABLE or OCCUPIED")
)

// IsValidationError reports whether err comes from input checks rather
// than from storage.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPaging) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidStatus)
}

// isDuplicateKey recognises a unique constraint violation from any of the
// supported drivers, translated by gorm or not.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
