package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/seqkit"
)

// SeedSequence inserts a catalog entry whose hash is computed from seq.
func SeedSequence(tb testing.TB, ctx context.Context, tx *gorm.DB, kind types.CatalogKind, name, accession, seq string) *types.CatalogedSequence {
	tb.Helper()
	return SeedSequenceWithHash(tb, ctx, tx, kind, name, accession, seq, seqkit.Hash(seq))
}

// SeedSequenceWithHash inserts a catalog entry with an explicit hash, for
// collision scenarios.
func SeedSequenceWithHash(tb testing.TB, ctx context.Context, tx *gorm.DB, kind types.CatalogKind, name, accession, seq, hash string) *types.CatalogedSequence {
	tb.Helper()
	s := &types.CatalogedSequence{
		Kind:      kind,
		Name:      name,
		Accession: accession,
		CRC32Hash: hash,
		Sequence:  seq,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sequence: %v", err)
	}
	return s
}

func SeedPhenotype(tb testing.TB, ctx context.Context, tx *gorm.DB, label string, className *string) *types.Phenotype {
	tb.Helper()
	p := &types.Phenotype{Label: label, ClassName: className}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed phenotype: %v", err)
	}
	return p
}

func SeedLink(tb testing.TB, ctx context.Context, tx *gorm.DB, seqID, phenotypeID uint) {
	tb.Helper()
	link := &types.SequencePhenotype{SequenceID: seqID, PhenotypeID: phenotypeID}
	if err := tx.WithContext(ctx).Create(link).Error; err != nil {
		tb.Fatalf("seed link: %v", err)
	}
}

func SeedSample(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Sample {
	tb.Helper()
	s := &types.Sample{Name: PtrString(name)}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sample: %v", err)
	}
	return s
}

func PtrString(v string) *string { return &v }

func PtrInt64(v int64) *int64 { return &v }

func PtrFloat(v float64) *float64 { return &v }
