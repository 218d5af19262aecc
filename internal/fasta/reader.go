package fasta

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/biogo/biogo/alphabet"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Record is one parsed FASTA entry. ID is the first whitespace-delimited token
// of the header line; Description is the rest of the header.
type Record struct {
	ID          string
	Description string
	Seq         string
}

func (r Record) Len() int { return len(r.Seq) }

// Scan reads FASTA records from r and calls emit for each one.
// Cancellation via ctx is honored between records.
func Scan(ctx context.Context, r io.Reader, emit func(Record) error) error {
	br := bufio.NewReader(r)
	if err := checkLeadingHeader(br); err != nil {
		return err
	}

	rd := biofasta.NewReader(br, linear.NewSeq("", nil, alphabet.DNAredundant))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fasta: read: %w", err)
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return fmt.Errorf("fasta: unexpected sequence type %T", s)
		}
		rec := Record{
			ID:          ls.Name(),
			Description: ls.Description(),
			Seq:         string(alphabet.LettersToBytes(ls.Seq)),
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
}

// checkLeadingHeader rejects input whose first non-blank byte is not '>'.
func checkLeadingHeader(br *bufio.Reader) error {
	for {
		b, err := br.Peek(1)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("fasta: read: %w", err)
		}
		if unicode.IsSpace(rune(b[0])) {
			_, _ = br.Discard(1)
			continue
		}
		if b[0] != '>' {
			return errors.New("fasta: sequence data before first header")
		}
		return nil
	}
}

// ReadAll collects every record from r.
func ReadAll(ctx context.Context, r io.Reader) ([]Record, error) {
	var out []Record
	err := Scan(ctx, r, func(rec Record) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
