package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/amrdb/internal/batch"
	"github.com/yungbote/amrdb/internal/catalogsync"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/fasta"
	"github.com/yungbote/amrdb/internal/reconcile"
)

// ImportRequest names a normalized tool output and its provenance.
type ImportRequest struct {
	Tool string
	// Input is a canonical-column TSV (local path, gs:// or s3://, optionally gzipped).
	Input string
	// Assembly is the FASTA the tool ran on; empty skips contig lengths and
	// orientation inference.
	Assembly    string
	InputType   string
	SampleName  string
	ExternalID  *int64
	ToolVersion string
	DBVersion   string
}

// Import loads the batch (and the contigs it references) and reconciles it.
func (a *App) Import(ctx context.Context, req ImportRequest) (*reconcile.Report, error) {
	tool, err := reconcile.ParseTool(req.Tool)
	if err != nil {
		return nil, err
	}
	inputType := types.InputType(strings.ToLower(strings.TrimSpace(req.InputType)))
	switch inputType {
	case "":
		inputType = types.InputFasta
	case types.InputFasta, types.InputFastq:
	default:
		return nil, fmt.Errorf("unsupported input type %q", req.InputType)
	}

	b, err := a.loadBatch(ctx, req.Input)
	if err != nil {
		return nil, err
	}
	in := reconcile.Input{
		Tool:       tool,
		Batch:      b,
		InputType:  inputType,
		ExternalID: req.ExternalID,
		Version:    toolVersion(tool, inputType, req.ToolVersion, req.DBVersion),
	}
	if name := strings.TrimSpace(req.SampleName); name != "" {
		in.SampleName = &name
	}
	if req.Assembly != "" {
		asm, err := a.loadAssembly(ctx, req.Assembly, referencedContigs(b))
		if err != nil {
			return nil, err
		}
		in.Assembly = asm
	}
	return a.Services.Reconcile.Run(ctx, in)
}

// RefreshCatalog applies a ResFinder database checkout in dir.
func (a *App) RefreshCatalog(ctx context.Context, dir string) (*catalogsync.Report, error) {
	refdb, err := catalogsync.LoadResfinderDB(ctx, a.Store, dir)
	if err != nil {
		return nil, err
	}
	a.Log.Info("reference database loaded", "dir", dir, "entries", len(refdb.Entries), "phenotype_rows", len(refdb.Phenotypes))
	return a.Services.Catalog.Refresh(ctx, types.KindResfinder, refdb)
}

func (a *App) loadBatch(ctx context.Context, raw string) (*batch.Batch, error) {
	rc, err := a.Store.Open(ctx, raw)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := batch.ReadTSV(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", raw, err)
	}
	return b, nil
}

func (a *App) loadAssembly(ctx context.Context, raw string, keep map[string]struct{}) (*fasta.Assembly, error) {
	rc, err := a.Store.Open(ctx, raw)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	asm, err := fasta.LoadAssembly(ctx, rc, keep)
	if err != nil {
		return nil, fmt.Errorf("read assembly %s: %w", raw, err)
	}
	a.Log.Debug("assembly loaded", "location", raw, "contigs", asm.Len())
	return asm, nil
}

// referencedContigs lists the contig names a batch points at, with fragment
// suffixes removed. Nil when no row names a contig.
func referencedContigs(b *batch.Batch) map[string]struct{} {
	var keep map[string]struct{}
	for _, row := range b.Rows {
		id, ok := row.String(batch.ColContig)
		if !ok {
			continue
		}
		if name, _, split := reconcile.SplitFragmentID(id); split {
			id = name
		}
		if keep == nil {
			keep = map[string]struct{}{}
		}
		keep[id] = struct{}{}
	}
	return keep
}

func toolVersion(tool reconcile.Tool, inputType types.InputType, version, dbVersion string) *types.ToolVersion {
	name := string(tool)
	it := string(inputType)
	tv := &types.ToolVersion{ToolName: &name, InputType: &it}
	if v := strings.TrimSpace(version); v != "" {
		tv.ToolVersion = &v
	}
	if v := strings.TrimSpace(dbVersion); v != "" {
		tv.DBVersion = &v
	}
	return tv
}
