package reconcile

import (
	"fmt"
	"strings"

	"github.com/yungbote/amrdb/internal/batch"
	"github.com/yungbote/amrdb/internal/seqkit"
)

const (
	Forward = "+"
	Reverse = "-"
)

// AssemblyProvider exposes contig sequences by name. Contigs the provider
// does not know are skipped.
type AssemblyProvider interface {
	Sequence(name string) (string, bool)
	Length(name string) (int, bool)
}

// ApplyAssembly fills contig_len for every row whose contig is in asm and,
// when infer is set, derives orientation by comparing the reported sequence
// with the assembly region [start-1, end) and its reverse complement.
//
// A row that matches neither strand gets a null orientation and a
// DiagOrientationMismatch diagnostic; processing always continues.
func ApplyAssembly(b *batch.Batch, asm AssemblyProvider, infer bool) []Diagnostic {
	if asm == nil || b.Len() == 0 {
		return nil
	}
	var diags []Diagnostic
	for i, row := range b.Rows {
		contig, ok := row.String(batch.ColContig)
		if !ok {
			continue
		}
		contigSeq, ok := asm.Sequence(contig)
		if !ok {
			continue
		}
		row.Set(batch.ColContigLen, int64(len(contigSeq)))
		if !infer {
			continue
		}
		strand, diag := orient(i, row, contig, contigSeq)
		if diag != nil {
			row.Set(batch.ColOrientation, nil)
			diags = append(diags, *diag)
			continue
		}
		row.Set(batch.ColOrientation, strand)
	}
	return diags
}

// Orient compares reported against region and returns "+", "-" or "" when
// neither strand matches. Gaps are removed from both before comparing.
func Orient(region, reported string) string {
	region = seqkit.StripGaps(region)
	reported = seqkit.StripGaps(reported)
	if strings.EqualFold(region, reported) {
		return Forward
	}
	if strings.EqualFold(seqkit.RevComp(region), reported) {
		return Reverse
	}
	return ""
}

func orient(idx int, row batch.Row, contig, contigSeq string) (string, *Diagnostic) {
	mismatch := func(region, msg string) *Diagnostic {
		d := &Diagnostic{
			Kind:      DiagOrientationMismatch,
			Row:       idx,
			Contig:    contig,
			Accession: rowString(row, batch.ColAccession),
			Reported:  seqkit.StripGaps(rowString(row, batch.ColSequence)),
			Message:   msg,
		}
		if region != "" {
			d.Region = region
			d.RegionRevComp = seqkit.RevComp(region)
		}
		return d
	}

	start, okStart := row.Int(batch.ColRefStart)
	end, okEnd := row.Int(batch.ColRefEnd)
	reported, okSeq := row.String(batch.ColSequence)
	if !okStart || !okEnd || !okSeq {
		return "", mismatch("", "missing coordinates or sequence")
	}
	if start < 1 || end < start || end > int64(len(contigSeq)) {
		return "", mismatch("", fmt.Sprintf("region %d-%d outside contig of length %d", start, end, len(contigSeq)))
	}
	region := seqkit.StripGaps(contigSeq[start-1 : end])
	strand := Orient(region, reported)
	if strand == "" {
		return "", mismatch(region, "reported sequence matches neither strand")
	}
	return strand, nil
}

func rowString(row batch.Row, col string) string {
	s, _ := row.String(col)
	return s
}
