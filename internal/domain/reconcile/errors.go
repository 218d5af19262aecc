package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes reconciliation failure semantics.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeUnknownAccession   ErrorCode = "unknown_accession"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Error is the canonical coded error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with a code. Errors that already carry a
// code are returned unchanged.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *Error
	if errors.As(err, &coded) {
		return err
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	var coded *Error
	if !errors.As(err, &coded) {
		return false
	}
	return coded.Code == code
}

func CodeOf(err error) ErrorCode {
	var coded *Error
	if !errors.As(err, &coded) {
		return ""
	}
	return coded.Code
}

// ErrUnknownAccession matches any UnknownAccessionError via errors.Is.
var ErrUnknownAccession = errors.New("accession not in catalog")

// UnknownAccessionError is fatal: the catalog has no entry for an accession a
// tool reported, so the catalog needs a refresh before the batch can land.
type UnknownAccessionError struct {
	Kind      string
	Accession string
	Row       int
}

func (e *UnknownAccessionError) Error() string {
	return fmt.Sprintf("%s catalog: accession %q (row %d) not found", e.Kind, e.Accession, e.Row)
}

func (e *UnknownAccessionError) Is(target error) bool { return target == ErrUnknownAccession }

// Unwrap lets CodeOf classify the error as CodeUnknownAccession.
func (e *UnknownAccessionError) Unwrap() error {
	return &Error{Code: CodeUnknownAccession, Op: "resolve", Message: e.Accession}
}
