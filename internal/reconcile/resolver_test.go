package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/amrdb/internal/data/repos"
	"github.com/yungbote/amrdb/internal/data/repos/testutil"
	types "github.com/yungbote/amrdb/internal/domain"
	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
)

func TestResolverSingleEntryIgnoresHash(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	r := NewResolver(repos.NewSequenceRepo(db, testutil.Logger(t)), testutil.Logger(t))

	only := testutil.SeedSequence(t, ctx, tx, types.KindResfinder, "aac_1_AF2", "AF2", "ATGCCCTAA")

	for _, hash := range []string{only.CRC32Hash, "0xdeadbeef", ""} {
		res, err := r.Resolve(dbc, types.KindResfinder, "AF2", hash, 0)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", hash, err)
		}
		if res.Sequence.ID != only.ID || res.Fallback {
			t.Fatalf("Resolve(%q): %+v", hash, res)
		}
	}
}

func TestResolverNarrowsByHash(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	r := NewResolver(repos.NewSequenceRepo(db, testutil.Logger(t)), testutil.Logger(t))

	h1 := testutil.SeedSequence(t, ctx, tx, types.KindResfinder, "blaTEM-1_1_AF1", "AF1", "ATGAAATAA")
	h2 := testutil.SeedSequence(t, ctx, tx, types.KindResfinder, "blaTEM-1_2_AF1", "AF1", "ATGCCCTAA")

	res, err := r.Resolve(dbc, types.KindResfinder, "AF1", h2.CRC32Hash, 0)
	if err != nil || res.Sequence.ID != h2.ID || res.Fallback {
		t.Fatalf("H2: res=%+v err=%v", res, err)
	}
	res, err = r.Resolve(dbc, types.KindResfinder, "AF1", h1.CRC32Hash, 0)
	if err != nil || res.Sequence.ID != h1.ID || res.Fallback {
		t.Fatalf("H1: res=%+v err=%v", res, err)
	}
	res, err = r.Resolve(dbc, types.KindResfinder, "AF1", "0x1", 0)
	if err != nil {
		t.Fatalf("H3: %v", err)
	}
	if res.Sequence.ID != h1.ID || !res.Fallback || res.Candidates != 2 {
		t.Fatalf("H3 should fall back to first entry: %+v", res)
	}
}

func TestResolverDuplicateHashFallsBack(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	r := NewResolver(repos.NewSequenceRepo(db, testutil.Logger(t)), testutil.Logger(t))

	a := testutil.SeedSequenceWithHash(t, ctx, tx, types.KindResfinder, "x_1_AF3", "AF3", "ATGAAATAA", "0xabc")
	testutil.SeedSequenceWithHash(t, ctx, tx, types.KindResfinder, "x_2_AF3", "AF3", "ATGCCCTAA", "0xabc")

	res, err := r.Resolve(dbc, types.KindResfinder, "AF3", "0xabc", 3)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Sequence.ID != a.ID || !res.Fallback {
		t.Fatalf("want fallback to first entry: %+v", res)
	}
}

func TestResolverUnknownAccession(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	r := NewResolver(repos.NewSequenceRepo(db, testutil.Logger(t)), testutil.Logger(t))

	testutil.SeedSequence(t, ctx, tx, types.KindAmrfinder, "blaTEM", "AF9", "ATGAAATAA")

	_, err := r.Resolve(dbc, types.KindResfinder, "AF9", "", 7)
	if !errors.Is(err, domainrec.ErrUnknownAccession) {
		t.Fatalf("want ErrUnknownAccession, got %v", err)
	}
	var uae *domainrec.UnknownAccessionError
	if !errors.As(err, &uae) || uae.Row != 7 || uae.Accession != "AF9" {
		t.Fatalf("unexpected error detail: %#v", err)
	}
	if domainrec.CodeOf(err) != domainrec.CodeUnknownAccession {
		t.Fatalf("code: %q", domainrec.CodeOf(err))
	}
}
