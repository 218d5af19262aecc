package upsert

import (
	"context"
	"testing"

	"github.com/yungbote/amrdb/internal/data/repos/testutil"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
)

func sampleKeys(name *string, ext *int64) Keys {
	return Keys{"name": name, "external_id": ext}
}

func TestGetOrCreateReusesMatchingRow(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	name := testutil.PtrString("S-001")
	build := func() *types.Sample { return &types.Sample{Name: name} }

	first, created, err := GetOrCreate(dbc, db, sampleKeys(name, nil), build)
	if err != nil {
		t.Fatalf("GetOrCreate #1: %v", err)
	}
	if !created {
		t.Fatalf("GetOrCreate #1: expected create")
	}
	second, created, err := GetOrCreate(dbc, db, sampleKeys(testutil.PtrString("S-001"), nil), build)
	if err != nil {
		t.Fatalf("GetOrCreate #2: %v", err)
	}
	if created {
		t.Fatalf("GetOrCreate #2: expected reuse")
	}
	if first.ID != second.ID {
		t.Fatalf("ids differ: %d vs %d", first.ID, second.ID)
	}

	// null external_id must not match a row that has one
	other, created, err := GetOrCreate(dbc, db, sampleKeys(name, testutil.PtrInt64(7)), func() *types.Sample {
		return &types.Sample{Name: name, ExternalID: testutil.PtrInt64(7)}
	})
	if err != nil {
		t.Fatalf("GetOrCreate #3: %v", err)
	}
	if !created || other.ID == first.ID {
		t.Fatalf("expected distinct sample for different external id")
	}
}

func TestGetOrCreateAllNullAlwaysCreates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	build := func() *types.Sample { return &types.Sample{} }
	a, createdA, err := GetOrCreate(dbc, db, sampleKeys(nil, nil), build)
	if err != nil {
		t.Fatalf("GetOrCreate a: %v", err)
	}
	b, createdB, err := GetOrCreate(dbc, db, sampleKeys(nil, nil), build)
	if err != nil {
		t.Fatalf("GetOrCreate b: %v", err)
	}
	if !createdA || !createdB {
		t.Fatalf("anonymous samples must always be created: %v %v", createdA, createdB)
	}
	if a.ID == b.ID {
		t.Fatalf("anonymous samples merged: id=%d", a.ID)
	}
}

func TestGetOrCreateDefaultsStayOutOfLookup(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	s := testutil.SeedSample(t, ctx, tx, "S-002")

	keys := Keys{"sample_id": s.ID, "name": "ctg1"}
	c1, _, err := GetOrCreate(dbc, db, keys, func() *types.Contig {
		return &types.Contig{SampleID: s.ID, Name: "ctg1", Length: testutil.PtrInt64(1500)}
	})
	if err != nil {
		t.Fatalf("GetOrCreate c1: %v", err)
	}
	c2, created, err := GetOrCreate(dbc, db, keys, func() *types.Contig {
		return &types.Contig{SampleID: s.ID, Name: "ctg1", Length: testutil.PtrInt64(9)}
	})
	if err != nil {
		t.Fatalf("GetOrCreate c2: %v", err)
	}
	if created || c1.ID != c2.ID {
		t.Fatalf("contig not reused: created=%v %d vs %d", created, c1.ID, c2.ID)
	}
	if c2.Length == nil || *c2.Length != 1500 {
		t.Fatalf("existing length overwritten: %v", c2.Length)
	}
}

func TestKeysAllNull(t *testing.T) {
	var nilStr *string
	cases := []struct {
		name string
		keys Keys
		want bool
	}{
		{"empty", Keys{}, true},
		{"untyped nil", Keys{"a": nil}, true},
		{"typed nil", Keys{"a": nilStr, "b": nil}, true},
		{"value", Keys{"a": nilStr, "b": 0}, false},
		{"pointer value", Keys{"a": testutil.PtrString("")}, false},
	}
	for _, tc := range cases {
		if got := tc.keys.AllNull(); got != tc.want {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}
