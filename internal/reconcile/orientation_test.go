package reconcile

import (
	"testing"

	"github.com/yungbote/amrdb/internal/batch"
	"github.com/yungbote/amrdb/internal/fasta"
)

func hitRow(contig string, start, end int64, seq string) batch.Row {
	return batch.Row{
		batch.ColContig:   contig,
		batch.ColRefStart: start,
		batch.ColRefEnd:   end,
		batch.ColSequence: seq,
	}
}

func TestApplyAssemblyInfersOrientation(t *testing.T) {
	asm := fasta.NewAssembly([]fasta.Record{{ID: "ctg", Seq: "AACCGGTT"}})
	b := batch.New(
		hitRow("ctg", 1, 4, "AACC"),
		hitRow("ctg", 1, 4, "GGTT"),
		hitRow("ctg", 1, 4, "TTTT"),
		hitRow("ctg", 1, 4, "AA-CC"),
	)

	diags := ApplyAssembly(b, asm, true)

	if got, _ := b.Rows[0].String(batch.ColOrientation); got != Forward {
		t.Fatalf("row 0: want=+ got=%q", got)
	}
	if got, _ := b.Rows[1].String(batch.ColOrientation); got != Reverse {
		t.Fatalf("row 1: want=- got=%q", got)
	}
	if !b.Rows[2].IsNull(batch.ColOrientation) {
		t.Fatalf("row 2: orientation should be unresolved, got %v", b.Rows[2][batch.ColOrientation])
	}
	if got, _ := b.Rows[3].String(batch.ColOrientation); got != Forward {
		t.Fatalf("gapped row: want=+ got=%q", got)
	}
	if len(diags) != 1 {
		t.Fatalf("diagnostics: want=1 got=%d (%+v)", len(diags), diags)
	}
	d := diags[0]
	if d.Kind != DiagOrientationMismatch || d.Row != 2 || d.Region != "AACC" || d.RegionRevComp != "GGTT" || d.Reported != "TTTT" {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
	for i, row := range b.Rows {
		if n, _ := row.Int(batch.ColContigLen); n != 8 {
			t.Fatalf("row %d contig_len: want=8 got=%d", i, n)
		}
	}
}

func TestApplyAssemblyWithoutInferenceOnlySetsLength(t *testing.T) {
	asm := fasta.NewAssembly([]fasta.Record{{ID: "ctg", Seq: "AACCGGTT"}})
	row := hitRow("ctg", 1, 4, "TTTT")
	row.Set(batch.ColOrientation, "-")
	b := batch.New(row, hitRow("other", 1, 4, "AACC"))

	if diags := ApplyAssembly(b, asm, false); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if got, _ := b.Rows[0].String(batch.ColOrientation); got != "-" {
		t.Fatalf("reported strand overwritten: %q", got)
	}
	if n, _ := b.Rows[0].Int(batch.ColContigLen); n != 8 {
		t.Fatalf("contig_len: %d", n)
	}
	if !b.Rows[1].IsNull(batch.ColContigLen) {
		t.Fatalf("contig absent from assembly must be skipped")
	}
}

func TestApplyAssemblyOutOfBoundsIsDiagnostic(t *testing.T) {
	asm := fasta.NewAssembly([]fasta.Record{{ID: "ctg", Seq: "AACCGGTT"}})
	b := batch.New(hitRow("ctg", 5, 12, "GGTT"), hitRow("ctg", 0, 2, "AA"))

	diags := ApplyAssembly(b, asm, true)
	if len(diags) != 2 {
		t.Fatalf("diagnostics: want=2 got=%d", len(diags))
	}
	for i, row := range b.Rows {
		if !row.IsNull(batch.ColOrientation) {
			t.Fatalf("row %d: orientation should be null", i)
		}
	}
}

func TestOrientIgnoresCase(t *testing.T) {
	if got := Orient("aacc", "AACC"); got != Forward {
		t.Fatalf("want=+ got=%q", got)
	}
	if got := Orient("aacc", "GGTT"); got != Reverse {
		t.Fatalf("want=- got=%q", got)
	}
}
