package reconcile

import (
	"regexp"
	"strconv"

	"github.com/yungbote/amrdb/internal/batch"
)

// fragmentRe matches contig ids of split fragments, "<name>:<start>-<end>".
var fragmentRe = regexp.MustCompile(`(\S+):(\d+)-\d+$`)

// CoordinateColumns is the whitelist of coordinate-bearing columns re-based
// when fragment offsets are present. Other numeric columns are never touched.
var CoordinateColumns = []string{
	batch.ColRefStart, batch.ColRefEnd,
	"Start", "Stop", "start", "stop",
	"start1", "end1", "start2", "end2",
	"orfBegin", "orfEnd", "isBegin", "isEnd",
	"start_attL", "end_attL", "start_attR", "end_attR",
	"is_start_pos", "is_end_pos",
	"ir_start_pos1", "ir_end_pos1", "ir_start_pos2", "ir_end_pos2",
	"orf_start_pos", "orf_end_pos",
}

// SplitFragmentID returns the original contig name and embedded start offset
// of a fragment id. ok is false for ordinary contig names.
func SplitFragmentID(id string) (name string, offset int64, ok bool) {
	m := fragmentRe.FindStringSubmatch(id)
	if m == nil {
		return id, 0, false
	}
	off, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return id, 0, false
	}
	return m[1], off, true
}

// NormalizeFragments re-bases coordinates of rows whose idCol value carries a
// fragment suffix and collapses the id to the original contig name. When no
// row carries a suffix the batch is left untouched and false is returned.
// Rows without a suffix in a mixed batch keep their coordinates (offset 0).
func NormalizeFragments(b *batch.Batch, idCol string) bool {
	if b.Len() == 0 {
		return false
	}
	type split struct {
		name   string
		offset int64
		ok     bool
	}
	splits := make([]split, len(b.Rows))
	found := false
	for i, row := range b.Rows {
		id, present := row.String(idCol)
		if !present {
			continue
		}
		name, off, ok := SplitFragmentID(id)
		splits[i] = split{name: name, offset: off, ok: ok}
		found = found || ok
	}
	if !found {
		return false
	}

	for i, row := range b.Rows {
		s := splits[i]
		if !s.ok {
			continue
		}
		for _, col := range CoordinateColumns {
			if row.IsNull(col) {
				continue
			}
			if v, ok := row.Int(col); ok {
				row.Set(col, v+s.offset)
				continue
			}
			if f, ok := row.Float(col); ok {
				row.Set(col, f+float64(s.offset))
			}
		}
		row.Set(idCol, s.name)
	}
	return true
}
