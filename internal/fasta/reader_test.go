package fasta

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sample = `>ctg1 len=8 cov=12.0
AACC
GGTT
>ctg2
ACGT

>ctg3 description
`

func TestReadAll(t *testing.T) {
	recs, err := ReadAll(context.Background(), strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records: want=3 got=%d", len(recs))
	}
	if recs[0].ID != "ctg1" || recs[0].Seq != "AACCGGTT" || recs[0].Description != "len=8 cov=12.0" {
		t.Fatalf("record 0: %+v", recs[0])
	}
	if recs[1].ID != "ctg2" || recs[1].Seq != "ACGT" {
		t.Fatalf("record 1: %+v", recs[1])
	}
	if recs[2].ID != "ctg3" || recs[2].Len() != 0 {
		t.Fatalf("record 2: %+v", recs[2])
	}
}

func TestScanRejectsHeaderlessData(t *testing.T) {
	_, err := ReadAll(context.Background(), strings.NewReader("ACGT\n>x\nA\n"))
	if err == nil {
		t.Fatalf("expected error for sequence before header")
	}
}

func TestScanHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Scan(ctx, strings.NewReader(sample), func(Record) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestLoadAssemblyFiltersContigs(t *testing.T) {
	asm, err := LoadAssembly(context.Background(), strings.NewReader(sample), map[string]struct{}{"ctg2": {}})
	if err != nil {
		t.Fatalf("LoadAssembly: %v", err)
	}
	if asm.Len() != 1 {
		t.Fatalf("contigs: want=1 got=%d", asm.Len())
	}
	if _, ok := asm.Sequence("ctg1"); ok {
		t.Fatalf("ctg1 should be filtered out")
	}
	if n, ok := asm.Length("ctg2"); !ok || n != 4 {
		t.Fatalf("Length(ctg2): n=%d ok=%v", n, ok)
	}
	var nilAsm *Assembly
	if _, ok := nilAsm.Sequence("ctg2"); ok {
		t.Fatalf("nil assembly should have no contigs")
	}
}

func TestReadAllSingleLineChromosome(t *testing.T) {
	body := strings.Repeat("ACGT", 50_000)
	recs, err := ReadAll(context.Background(), strings.NewReader(">chr1\n"+body+"\n>plasmid1\nAC\nGT\n"))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "chr1" || recs[0].Len() != len(body) {
		t.Fatalf("records: %d first=%s len=%d", len(recs), recs[0].ID, recs[0].Len())
	}
	if recs[1].Seq != "ACGT" || recs[1].Description != "" {
		t.Fatalf("record 1: %+v", recs[1])
	}
}
