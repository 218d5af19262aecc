package results

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/amrdb/internal/data/repos/testutil"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
)

func TestToolVersionGetOrCreate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewToolVersionRepo(db, testutil.Logger(t))

	v := types.ToolVersion{ToolName: testutil.PtrString("resfinder"), ToolVersion: testutil.PtrString("4.5.0"), InputType: testutil.PtrString("fasta")}
	a, err := repo.GetOrCreate(dbc, v)
	if err != nil {
		t.Fatalf("GetOrCreate a: %v", err)
	}
	b, err := repo.GetOrCreate(dbc, v)
	if err != nil {
		t.Fatalf("GetOrCreate b: %v", err)
	}
	if a.ID != b.ID {
		t.Fatalf("tool version duplicated: %d vs %d", a.ID, b.ID)
	}
	v.DBVersion = testutil.PtrString("2.3.0")
	c, err := repo.GetOrCreate(dbc, v)
	if err != nil || c.ID == a.ID {
		t.Fatalf("db version change should create a new row: id=%d err=%v", c.ID, err)
	}
}

func TestResultReposRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	sample := testutil.SeedSample(t, ctx, tx, "S1")
	seq := testutil.SeedSequence(t, ctx, tx, types.KindResfinder, "blaOXA-48_1_AY236073", "AY236073", "ATGCGTTAA")
	pheno := testutil.SeedPhenotype(t, ctx, tx, "Colistin", nil)
	runID := uuid.New()

	seqRepo := NewSequenceResultRepo(db, log)
	if _, err := seqRepo.Create(dbc, []*types.SequenceResult{{
		RunID: runID, Kind: types.KindResfinder, SampleID: sample.ID, SequenceID: seq.ID,
		Identity: 99.5, Coverage: 100, Orientation: testutil.PtrString("+"),
	}}); err != nil {
		t.Fatalf("SequenceResultRepo.Create: %v", err)
	}
	rows, err := seqRepo.ListByRun(dbc, runID)
	if err != nil || len(rows) != 1 || rows[0].SequenceID != seq.ID {
		t.Fatalf("SequenceResultRepo.ListByRun: %+v err=%v", rows, err)
	}

	mutRepo := NewMutationResultRepo(db, log)
	muts, err := mutRepo.Create(dbc, []*types.MutationResult{{
		RunID: runID, Tool: "pointfinder", SampleID: sample.ID, Mutation: "pmrB p.T157P", NucChange: testutil.PtrString("ACC -> CCC"),
	}})
	if err != nil {
		t.Fatalf("MutationResultRepo.Create: %v", err)
	}
	if err := mutRepo.LinkPhenotypes(dbc, muts[0].ID, []uint{pheno.ID, pheno.ID}); err != nil {
		t.Fatalf("LinkPhenotypes: %v", err)
	}
	listed, err := mutRepo.ListByRun(dbc, runID)
	if err != nil || len(listed) != 1 || len(listed[0].Phenotypes) != 1 {
		t.Fatalf("MutationResultRepo.ListByRun: %+v err=%v", listed, err)
	}

	runRepo := NewRunRepo(db, log)
	now := time.Now().UTC()
	run := &types.ReconcileRun{
		ID: runID, Tool: "resfinder", SampleID: &sample.ID, Status: types.RunSucceeded,
		Rows: 1, ResultsWritten: 1, Diagnostics: datatypes.JSON([]byte("[]")),
		StartedAt: now, FinishedAt: now,
	}
	if err := runRepo.Create(dbc, run); err != nil {
		t.Fatalf("RunRepo.Create: %v", err)
	}
	got, err := runRepo.GetByID(dbc, runID)
	if err != nil || got == nil || got.Status != types.RunSucceeded {
		t.Fatalf("RunRepo.GetByID: %+v err=%v", got, err)
	}
}
