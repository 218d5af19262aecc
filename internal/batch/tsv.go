package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadTSV loads a tab-separated batch whose header row already uses the
// canonical column names. Null tokens (empty, NA, NaN, None) become nil.
func ReadTSV(r io.Reader) (*Batch, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Batch{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("batch: read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	out := &Batch{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch: read line %d: %w", line, err)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("batch: line %d has %d fields, header has %d", line, len(rec), len(header))
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(rec) || isNullToken(rec[i]) {
				row[col] = nil
				continue
			}
			row[col] = rec[i]
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}
