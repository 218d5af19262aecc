package reconcile

import (
	"errors"
	"fmt"
	"testing"
)

func TestUnknownAccessionClassification(t *testing.T) {
	var err error = &UnknownAccessionError{Kind: "resfinder", Accession: "AB000001", Row: 3}
	err = fmt.Errorf("insert batch: %w", err)

	if !errors.Is(err, ErrUnknownAccession) {
		t.Fatalf("errors.Is(ErrUnknownAccession) = false")
	}
	var ua *UnknownAccessionError
	if !errors.As(err, &ua) || ua.Row != 3 {
		t.Fatalf("errors.As: %+v", ua)
	}
	if CodeOf(err) != CodeUnknownAccession {
		t.Fatalf("CodeOf: want=%s got=%s", CodeUnknownAccession, CodeOf(err))
	}
}

func TestWrapKeepsExistingCode(t *testing.T) {
	base := NewError(CodeConflict, "create", "duplicate", nil)
	if got := Wrap(CodeInternal, "outer", base); CodeOf(got) != CodeConflict {
		t.Fatalf("Wrap overwrote code: %s", CodeOf(got))
	}
	if got := Wrap(CodeInternal, "outer", errors.New("boom")); !IsCode(got, CodeInternal) {
		t.Fatalf("Wrap plain error: %v", got)
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}
}
