package timescale

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestStorageErrorExtractsSQLState(t *testing.T) {
	pqErr := storageErr("exec", &pq.Error{Code: "42P01", Message: "relation does not exist"})
	if got := sqlStateOf(pqErr); got != "42P01" {
		t.Fatalf("expected pq SQLSTATE 42P01, got %q", got)
	}

	pgxErr := storageErr("exec", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"}))
	if got := sqlStateOf(pgxErr); got != "23505" {
		t.Fatalf("expected pgx SQLSTATE 23505, got %q", got)
	}

	plain := storageErr("connect", errors.New("dial tcp: connection refused"))
	if got := sqlStateOf(plain); got != "" {
		t.Fatalf("expected empty SQLSTATE, got %q", got)
	}
	if plain.Error() != "timescale connect: dial tcp: connection refused" {
		t.Fatalf("unexpected message %q", plain.Error())
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(fmt.Errorf("attempt: %w", storageErr("commit", errors.New("boom")))) {
		t.Fatalf("expected wrapped storage error to be retryable")
	}
	if IsRetryable(fmt.Errorf("%w: bad input", ErrUnexpected)) {
		t.Fatalf("expected unexpected error to be non-retryable")
	}
}

func TestExhaustedRetriesErrorUnwraps(t *testing.T) {
	cause := storageErr("connect", errors.New("refused"))
	err := &ExhaustedRetriesError{Attempts: 5, Err: cause}

	if !IsRetryable(err) {
		t.Fatalf("expected cause to remain inspectable")
	}
	var ex *ExhaustedRetriesError
	if !errors.As(err, &ex) || ex.Attempts != 5 {
		t.Fatalf("expected ExhaustedRetriesError with 5 attempts")
	}
}
