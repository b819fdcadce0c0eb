package timescale

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrUnexpected marks failures that are not storage-layer errors. They are
// never retried.
var ErrUnexpected = errors.New("timescale: unexpected error")

// StorageError is a retryable connect or statement failure.
type StorageError struct {
	Op   string
	Code string // SQLSTATE when the driver reports one
	Err  error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("timescale %s [%s]: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("timescale %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ExhaustedRetriesError is returned once every attempt failed with a
// retryable error.
type ExhaustedRetriesError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedRetriesError) Unwrap() error { return e.Err }

// IsRetryable reports whether err came from the storage layer.
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Code: sqlState(err), Err: err}
}

func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func sqlStateOf(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
