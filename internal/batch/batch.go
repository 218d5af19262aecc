// Package batch models the normalized record batch handed over by the per-tool
// parsers: rows keyed by the canonical column vocabulary, with absent columns
// read as null rather than zero.
package batch

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical column vocabulary.
const (
	ColAccession   = "accession"
	ColIdentity    = "identity"
	ColCoverage    = "coverage"
	ColRefStart    = "ref_pos_start"
	ColRefEnd      = "ref_pos_end"
	ColContig      = "contig_name"
	ColContigLen   = "contig_len"
	ColOrientation = "orientation"
	ColQCIssues    = "qc_issues"
	ColSequence    = "sequence"
	ColHash        = "crc32_hash"
	ColGene        = "gene_name"
	ColLongName    = "long_name"
	ColIsCore      = "is_core"
	ColMethod      = "method"
	ColMutation    = "mutation"
	ColNucChange   = "nuc_change"
	ColPhenotype   = "phenotype"
)

// Row is one record. Values are nil, string, int64, float64 or bool.
type Row map[string]any

// Batch is an ordered set of rows produced by one tool run.
type Batch struct {
	Rows []Row
}

func New(rows ...Row) *Batch {
	return &Batch{Rows: rows}
}

func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

// Filter returns a new batch sharing the rows for which keep returns true.
func (b *Batch) Filter(keep func(Row) bool) *Batch {
	out := &Batch{}
	for _, r := range b.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Set stores v under col; nil clears the value.
func (r Row) Set(col string, v any) {
	r[col] = v
}

func (r Row) IsNull(col string) bool {
	v, ok := r[col]
	if !ok || v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return isNullToken(t)
	case float64:
		return math.IsNaN(t)
	}
	return false
}

// String returns the value as text; false for null.
func (r Row) String(col string) (string, bool) {
	if r.IsNull(col) {
		return "", false
	}
	switch t := r[col].(type) {
	case string:
		return strings.TrimSpace(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return fmt.Sprint(t), true
	}
}

func (r Row) StringPtr(col string) *string {
	s, ok := r.String(col)
	if !ok {
		return nil
	}
	return &s
}

// Int returns the value as an integer. Floats with a fractional part and
// unparsable text are reported as not present.
func (r Row) Int(col string) (int64, bool) {
	if r.IsNull(col) {
		return 0, false
	}
	switch t := r[col].(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case string:
		s := strings.TrimSpace(t)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	}
	return 0, false
}

func (r Row) IntPtr(col string) *int64 {
	i, ok := r.Int(col)
	if !ok {
		return nil
	}
	return &i
}

func (r Row) Float(col string) (float64, bool) {
	if r.IsNull(col) {
		return 0, false
	}
	switch t := r[col].(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func (r Row) FloatPtr(col string) *float64 {
	f, ok := r.Float(col)
	if !ok {
		return nil
	}
	return &f
}

func (r Row) Bool(col string) (bool, bool) {
	if r.IsNull(col) {
		return false, false
	}
	switch t := r[col].(type) {
	case bool:
		return t, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b, true
		}
	}
	return false, false
}

func (r Row) BoolPtr(col string) *bool {
	b, ok := r.Bool(col)
	if !ok {
		return nil
	}
	return &b
}

func isNullToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "nan", "none", "null":
		return true
	}
	return false
}
