package samples

import (
	"context"
	"testing"

	"github.com/yungbote/amrdb/internal/data/repos/testutil"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
)

func TestSampleRepoGetOrCreate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewSampleRepo(db, testutil.Logger(t))

	a, created, err := repo.GetOrCreate(dbc, testutil.PtrString("isolate-7"), testutil.PtrInt64(7))
	if err != nil || !created {
		t.Fatalf("GetOrCreate a: created=%v err=%v", created, err)
	}
	b, created, err := repo.GetOrCreate(dbc, testutil.PtrString("isolate-7"), testutil.PtrInt64(7))
	if err != nil || created || b.ID != a.ID {
		t.Fatalf("GetOrCreate b: created=%v id=%d err=%v", created, b.ID, err)
	}

	anon1, _, err := repo.GetOrCreate(dbc, nil, nil)
	if err != nil {
		t.Fatalf("anon1: %v", err)
	}
	anon2, _, err := repo.GetOrCreate(dbc, nil, nil)
	if err != nil {
		t.Fatalf("anon2: %v", err)
	}
	if anon1.ID == anon2.ID {
		t.Fatalf("anonymous samples merged")
	}
	if !anon1.Anonymous() || a.Anonymous() {
		t.Fatalf("Anonymous(): anon=%v named=%v", anon1.Anonymous(), a.Anonymous())
	}

	got, err := repo.GetByID(dbc, a.ID)
	if err != nil || got == nil || *got.Name != "isolate-7" {
		t.Fatalf("GetByID: %+v err=%v", got, err)
	}
}

func TestContigRepoFillsLength(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContigRepo(db, testutil.Logger(t))

	s := testutil.SeedSample(t, ctx, tx, "S1")
	other := testutil.SeedSample(t, ctx, tx, "S2")

	c1, created, err := repo.GetOrCreate(dbc, s.ID, "ctg1", nil)
	if err != nil || !created || c1.Length != nil {
		t.Fatalf("GetOrCreate c1: %+v created=%v err=%v", c1, created, err)
	}
	c2, created, err := repo.GetOrCreate(dbc, s.ID, "ctg1", testutil.PtrInt64(4200))
	if err != nil || created || c2.ID != c1.ID {
		t.Fatalf("GetOrCreate c2: created=%v err=%v", created, err)
	}
	if c2.Length == nil || *c2.Length != 4200 {
		t.Fatalf("length not filled: %v", c2.Length)
	}

	c3, created, err := repo.GetOrCreate(dbc, other.ID, "ctg1", nil)
	if err != nil || !created || c3.ID == c1.ID {
		t.Fatalf("contig names are scoped per sample: created=%v err=%v", created, err)
	}

	list, err := repo.ListBySample(dbc, s.ID)
	if err != nil || len(list) != 1 || list[0].Length == nil || *list[0].Length != 4200 {
		t.Fatalf("ListBySample: %+v err=%v", list, err)
	}
}
