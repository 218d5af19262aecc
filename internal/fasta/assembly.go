package fasta

import (
	"context"
	"io"
)

// Assembly is an in-memory assembly keyed by contig name.
type Assembly struct {
	contigs map[string]string
}

// LoadAssembly reads r and keeps only the contigs named in keep.
// A nil keep retains every contig.
func LoadAssembly(ctx context.Context, r io.Reader, keep map[string]struct{}) (*Assembly, error) {
	a := &Assembly{contigs: map[string]string{}}
	err := Scan(ctx, r, func(rec Record) error {
		if keep != nil {
			if _, ok := keep[rec.ID]; !ok {
				return nil
			}
		}
		a.contigs[rec.ID] = rec.Seq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// NewAssembly builds an assembly from already parsed records.
func NewAssembly(records []Record) *Assembly {
	a := &Assembly{contigs: make(map[string]string, len(records))}
	for _, rec := range records {
		a.contigs[rec.ID] = rec.Seq
	}
	return a
}

func (a *Assembly) Sequence(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	s, ok := a.contigs[name]
	return s, ok
}

func (a *Assembly) Length(name string) (int, bool) {
	s, ok := a.Sequence(name)
	if !ok {
		return 0, false
	}
	return len(s), true
}

func (a *Assembly) Len() int {
	if a == nil {
		return 0
	}
	return len(a.contigs)
}
