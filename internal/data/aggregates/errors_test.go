package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainrec.ErrorCode
	}{
		{"validation", ValidationError("bad input"), domainrec.CodeValidation},
		{"conflict", ConflictError("stale"), domainrec.CodeConflict},
		{"not found", gorm.ErrRecordNotFound, domainrec.CodeNotFound},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), domainrec.CodeRetryable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainrec.CodeConflict},
		{"pg fk", &pgconn.PgError{Code: "23503"}, domainrec.CodePreconditionFailed},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainrec.CodeRetryable},
		{"sqlite unique", errors.New("UNIQUE constraint failed: phenotype.phenotype"), domainrec.CodeConflict},
		{"sqlite locked", errors.New("database is locked"), domainrec.CodeRetryable},
		{"other", errors.New("boom"), domainrec.CodeInternal},
	}
	for _, tc := range cases {
		got := MapError("op", tc.err)
		if !domainrec.IsCode(got, tc.want) {
			t.Fatalf("%s: want=%s got=%q (%v)", tc.name, tc.want, domainrec.CodeOf(got), got)
		}
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	in := domainrec.NewError(domainrec.CodeRetryable, "op", "retry", errors.New("boom"))
	if out := MapError("other", in); out != in {
		t.Fatalf("expected passthrough of coded error")
	}

	unknown := fmt.Errorf("insert: %w", &domainrec.UnknownAccessionError{Kind: "resfinder", Accession: "X1", Row: 0})
	out := MapError("reconcile.run", unknown)
	if out != unknown {
		t.Fatalf("unknown accession error should pass through unchanged")
	}
	if !errors.Is(out, domainrec.ErrUnknownAccession) {
		t.Fatalf("errors.Is(ErrUnknownAccession) lost")
	}
	if MapError("op", nil) != nil {
		t.Fatalf("MapError(nil) should be nil")
	}
}
