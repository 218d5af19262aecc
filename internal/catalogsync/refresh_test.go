package catalogsync

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/amrdb/internal/data/repos"
	"github.com/yungbote/amrdb/internal/data/repos/testutil"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/objstore"
)

const (
	seqA = "ATGAAACCCGGGTAA"
	seqB = "ATGCCCAAATTTTAG"
	seqV = "ATGAAACCCGGATAA"
)

const phenotypesTxt = "Gene_accession no.\tClass\tPhenotype\tPMID\n" +
	"blaTEM-1_1_AF1\tBeta-lactam\tAmpicillin, Amoxicillin\t123\n" +
	"blaTEM-2_1_AF2\tBeta-lactam\tAmpicillin\t\n" +
	"blaX_1_AF3\tBeta-lactam, Other\tWeird\t\n"

func writeDB(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func loadTestDB(t *testing.T) *ResfinderDB {
	t.Helper()
	dir := writeDB(t, map[string]string{
		"beta-lactam.fsa": ">blaTEM-1_1_AF1\n" + seqA + "\n>blaTEM-2_1_AF2\n" + seqB + "\n",
		"all.fsa":         ">junk_1_ZZ9\nACGT\n",
		"phenotypes.txt":  phenotypesTxt,
		"README.md":       "ignored",
	})
	store := objstore.New(testutil.Logger(t), objstore.S3Config{})
	t.Cleanup(func() { _ = store.Close() })

	db, err := LoadResfinderDB(context.Background(), store, dir)
	if err != nil {
		t.Fatalf("LoadResfinderDB: %v", err)
	}
	return db
}

func TestLoadResfinderDB(t *testing.T) {
	db := loadTestDB(t)
	if len(db.Entries) != 2 {
		t.Fatalf("entries: want=2 got=%d (all.fsa must be skipped)", len(db.Entries))
	}
	if db.Entries[0].Parts.Accession != "AF1" || !db.Entries[0].Parsed {
		t.Fatalf("entry 0: %+v", db.Entries[0])
	}
	if len(db.Phenotypes) != 4 {
		t.Fatalf("phenotype rows: want=4 got=%d", len(db.Phenotypes))
	}
}

func TestLoadResfinderDBRequiresPhenotypes(t *testing.T) {
	dir := writeDB(t, map[string]string{"x.fsa": ">a_1_B\nACGT\n"})
	store := objstore.New(testutil.Logger(t), objstore.S3Config{})
	if _, err := LoadResfinderDB(context.Background(), store, dir); err == nil {
		t.Fatalf("expected error for missing phenotypes.txt")
	}
}

func TestParsePhenotypesMissingColumn(t *testing.T) {
	_, err := ParsePhenotypes(strings.NewReader("Gene\tClass\n"))
	if err == nil {
		t.Fatalf("expected missing column error")
	}
}

func TestRefreshUpdatesInsertsAndRelinks(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	set := repos.NewSet(gdb, testutil.Logger(t))

	old := testutil.SeedSequence(t, ctx, gdb, types.KindResfinder, "blaTEM_old", "AF1", seqA)
	provisional := testutil.SeedSequence(t, ctx, gdb, types.KindResfinder, "blaTEM-1_LOCAL_x", "AF1", seqV)
	if err := gdb.Model(provisional).Update("provisional", true).Error; err != nil {
		t.Fatalf("mark provisional: %v", err)
	}
	stale := testutil.SeedPhenotype(t, ctx, gdb, "Stale", nil)
	testutil.SeedLink(t, ctx, gdb, old.ID, stale.ID)

	r := NewRefresher(gdb, set, nil, nil, testutil.Logger(t))
	rep, err := r.Refresh(ctx, types.KindResfinder, loadTestDB(t))
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rep.Updated != 1 || rep.Inserted != 1 || rep.LinksCleared != 1 {
		t.Fatalf("report: %+v", rep)
	}
	if rep.Phenotypes != 2 || rep.Links != 5 || rep.SkippedClasses != 1 {
		t.Fatalf("phenotype report: %+v", rep)
	}

	dbc := dbctx.Context{Ctx: ctx}
	updated, err := set.Sequences.GetByID(dbc, old.ID)
	if err != nil || updated == nil {
		t.Fatalf("GetByID: %v %v", updated, err)
	}
	if updated.Name != "blaTEM-1_1_AF1" || updated.ShortName == nil || *updated.ShortName != "blaTEM" {
		t.Fatalf("entry not updated in place: %+v", updated)
	}

	stillProvisional, _ := set.Sequences.GetByID(dbc, provisional.ID)
	if !stillProvisional.Provisional {
		t.Fatalf("variant absent from the reference database stays provisional")
	}
	phenos, err := set.Phenotypes.ListForSequence(dbc, provisional.ID)
	if err != nil {
		t.Fatalf("ListForSequence: %v", err)
	}
	if len(phenos) != 2 {
		t.Fatalf("provisional variant should pick up official phenotypes by accession: %+v", phenos)
	}
	for _, p := range phenos {
		if p.ID == stale.ID {
			t.Fatalf("stale link survived the rebuild")
		}
	}

	amp, err := set.Phenotypes.GetByLabel(dbc, "Ampicillin")
	if err != nil || amp == nil || amp.ClassName == nil || *amp.ClassName != "Beta-lactam" {
		t.Fatalf("Ampicillin: %+v %v", amp, err)
	}
	if weird, _ := set.Phenotypes.GetByLabel(dbc, "Weird"); weird != nil {
		t.Fatalf("multi-class phenotype must be skipped")
	}

	// a second refresh is stable
	rep2, err := r.Refresh(ctx, types.KindResfinder, loadTestDB(t))
	if err != nil {
		t.Fatalf("second Refresh: %v", err)
	}
	if rep2.Updated != 2 || rep2.Inserted != 0 || rep2.Links != 5 || rep2.LinksCleared != 5 {
		t.Fatalf("second report: %+v", rep2)
	}
}

func TestRefreshPromotesProvisionalVariant(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	set := repos.NewSet(gdb, testutil.Logger(t))

	v := testutil.SeedSequence(t, ctx, gdb, types.KindResfinder, "blaTEM-2_LOCAL_x", "AF1", seqB)
	if err := gdb.Model(v).Update("provisional", true).Error; err != nil {
		t.Fatalf("mark provisional: %v", err)
	}

	r := NewRefresher(gdb, set, nil, nil, testutil.Logger(t))
	if _, err := r.Refresh(ctx, types.KindResfinder, loadTestDB(t)); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	got, _ := set.Sequences.GetByID(dbctx.Context{Ctx: ctx}, v.ID)
	if got.Provisional || got.Name != "blaTEM-2_1_AF2" || got.Accession != "AF2" {
		t.Fatalf("variant not promoted: %+v", got)
	}
}

func TestRefreshRejectsUnknownKind(t *testing.T) {
	gdb := testutil.DB(t)
	r := NewRefresher(gdb, repos.NewSet(gdb, testutil.Logger(t)), nil, nil, testutil.Logger(t))
	if _, err := r.Refresh(context.Background(), "card", &ResfinderDB{}); err == nil {
		t.Fatalf("expected error")
	}
}
