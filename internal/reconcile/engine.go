// Package reconcile turns a normalized tool batch into canonical result rows:
// fragment coordinates are re-based, orientation is inferred from the
// assembly, near-identical hits are catalogued as variants and every hit is
// resolved to exactly one catalog entry, all inside one transaction.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/batch"
	"github.com/yungbote/amrdb/internal/data/aggregates"
	"github.com/yungbote/amrdb/internal/data/repos"
	types "github.com/yungbote/amrdb/internal/domain"
	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"github.com/yungbote/amrdb/internal/observability"
	"github.com/yungbote/amrdb/internal/platform/ctxutil"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
	"github.com/yungbote/amrdb/internal/seqkit"
)

type Tool string

const (
	ToolResfinder   Tool = "resfinder"
	ToolAmrfinder   Tool = "amrfinder"
	ToolPointfinder Tool = "pointfinder"
)

func ParseTool(s string) (Tool, error) {
	switch t := Tool(strings.ToLower(strings.TrimSpace(s))); t {
	case ToolResfinder, ToolAmrfinder, ToolPointfinder:
		return t, nil
	}
	return "", fmt.Errorf("unsupported tool %q", s)
}

// catalogKind is the catalog a tool's sequence hits resolve against; empty
// for mutation-only tools.
func (t Tool) catalogKind() types.CatalogKind {
	switch t {
	case ToolResfinder:
		return types.KindResfinder
	case ToolAmrfinder:
		return types.KindAmrfinder
	}
	return ""
}

// infersOrientation is false for tools that report strand themselves.
func (t Tool) infersOrientation() bool { return t == ToolResfinder }

// reportsCodingSequence is true for tools whose hit sequence is the recovered
// nucleotide CDS rather than a translated protein.
func (t Tool) reportsCodingSequence() bool { return t == ToolResfinder }

// Input is one batch to reconcile.
type Input struct {
	Tool  Tool
	Batch *batch.Batch
	// Assembly is optional. Without it contig lengths stay empty and
	// orientation is taken from the batch as is.
	Assembly   AssemblyProvider
	InputType  types.InputType
	SampleName *string
	ExternalID *int64
	Version    *types.ToolVersion
}

// Report summarizes a run.
type Report struct {
	RunID              uuid.UUID
	Tool               Tool
	SampleID           uint
	Rows               int
	SequenceResults    int
	MutationResults    int
	VariantsAdded      int
	Mismatches         int
	CollisionFallbacks int
	Diagnostics        []Diagnostic
}

type Options struct {
	InternalTag        string
	PhenotypeDelimiter string
	Thresholds         Thresholds
}

type Engine struct {
	deps      aggregates.BaseDeps
	repos     repos.Set
	resolver  *Resolver
	discovery *Discovery
	linker    *Linker
	metrics   *observability.Metrics
	log       *logger.Logger
}

// NewEngine wires the engine. runner may be nil to use a GORM transaction on
// db; metrics may be nil.
func NewEngine(db *gorm.DB, set repos.Set, runner aggregates.TxRunner, metrics *observability.Metrics, opts Options, baseLog *logger.Logger) *Engine {
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	return &Engine{
		deps: aggregates.BaseDeps{
			DB:     db,
			Runner: runner,
			Hooks:  aggregates.NewObservabilityHooks(metrics),
		},
		repos:     set,
		resolver:  NewResolver(set.Sequences, baseLog),
		discovery: NewDiscovery(set.Sequences, set.Phenotypes, opts.InternalTag, opts.Thresholds, baseLog),
		linker:    NewLinker(set.Phenotypes, set.MutationResults, opts.PhenotypeDelimiter, baseLog),
		metrics:   metrics,
		log:       baseLog.With("service", "ReconcileEngine"),
	}
}

// Run reconciles one batch. Either every result row of the batch is
// committed or none is; an audit row is written in both cases. An unknown
// accession aborts the run with an error matching ErrUnknownAccession.
func (e *Engine) Run(ctx context.Context, in Input) (*Report, error) {
	if in.Batch == nil {
		in.Batch = batch.New()
	}
	if in.InputType == "" {
		in.InputType = types.InputFasta
	}
	if _, err := ParseTool(string(in.Tool)); err != nil {
		return nil, domainrec.NewError(domainrec.CodeValidation, "reconcile.run", err.Error(), err)
	}

	ctx, span := observability.Tracer().Start(ctx, "reconcile.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("amrdb.tool", string(in.Tool)),
		attribute.String("amrdb.input_type", string(in.InputType)),
		attribute.Int("amrdb.rows", in.Batch.Len()),
	)

	started := time.Now()
	rep := &Report{RunID: uuid.New(), Tool: in.Tool, Rows: in.Batch.Len()}
	ctx = ctxutil.WithRunData(ctx, &ctxutil.RunData{
		RunID:   rep.RunID.String(),
		Tool:    string(in.Tool),
		TraceID: traceID(span),
	})

	if NormalizeFragments(in.Batch, batch.ColContig) {
		e.log.Debug("fragment contig ids re-based", "tool", in.Tool, "run_id", rep.RunID)
	}
	if in.Tool.catalogKind() != "" && in.Assembly != nil {
		diags := ApplyAssembly(in.Batch, in.Assembly, in.Tool.infersOrientation())
		for _, d := range diags {
			e.log.Warn("orientation unresolved",
				"run_id", rep.RunID,
				"row", d.Row,
				"contig", d.Contig,
				"accession", d.Accession,
				"region", d.Region,
				"region_revcomp", d.RegionRevComp,
				"reported", d.Reported,
				"detail", d.Message,
			)
		}
		rep.Diagnostics = append(rep.Diagnostics, diags...)
	}
	if in.Tool.reportsCodingSequence() {
		if n := FillGeneQC(in.Batch, false); n > 0 {
			e.log.Debug("gene qc issues filled", "run_id", rep.RunID, "rows", n)
		}
	}

	err := aggregates.ExecuteWrite(ctx, e.deps, "reconcile.run", func(dbc dbctx.Context) error {
		return e.write(dbc, in, rep)
	})

	rep.VariantsAdded = countKind(rep.Diagnostics, DiagProvisionalVariant)
	rep.Mismatches = countKind(rep.Diagnostics, DiagOrientationMismatch)
	rep.CollisionFallbacks = countKind(rep.Diagnostics, DiagCollisionFallback)

	e.audit(ctx, in, rep, started, err)
	e.record(in, rep, err)

	if err != nil {
		rep.SampleID = 0
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return rep, err
	}
	span.SetAttributes(
		attribute.Int("amrdb.sequence_results", rep.SequenceResults),
		attribute.Int("amrdb.mutation_results", rep.MutationResults),
		attribute.Int("amrdb.variants_added", rep.VariantsAdded),
	)
	e.log.Info("reconcile run committed",
		"run_id", rep.RunID,
		"tool", in.Tool,
		"sample_id", rep.SampleID,
		"rows", rep.Rows,
		"sequence_results", rep.SequenceResults,
		"mutation_results", rep.MutationResults,
		"variants_added", rep.VariantsAdded,
		"orientation_mismatches", rep.Mismatches,
		"collision_fallbacks", rep.CollisionFallbacks,
	)
	return rep, nil
}

func (e *Engine) write(dbc dbctx.Context, in Input, rep *Report) error {
	sample, _, err := e.repos.Samples.GetOrCreate(dbc, in.SampleName, in.ExternalID)
	if err != nil {
		return fmt.Errorf("sample: %w", err)
	}
	rep.SampleID = sample.ID

	var versionID *uint
	if in.Version != nil {
		v, err := e.repos.ToolVersions.GetOrCreate(dbc, *in.Version)
		if err != nil {
			return fmt.Errorf("tool version: %w", err)
		}
		versionID = &v.ID
	}

	seqRows, mutRows := splitRows(in.Tool, in.Batch)

	if kind := in.Tool.catalogKind(); kind != "" && seqRows.Len() > 0 {
		if in.InputType == types.InputFasta {
			_, span := observability.Tracer().Start(dbc.Ctx, "reconcile.discover")
			diags, err := e.discovery.Run(dbc, kind, seqRows)
			span.End()
			rep.Diagnostics = append(rep.Diagnostics, diags...)
			if err != nil {
				return err
			}
		}
		n, err := e.writeSequenceResults(dbc, kind, rep, sample.ID, versionID, seqRows)
		if err != nil {
			return err
		}
		rep.SequenceResults = n
	}

	if mutRows.Len() > 0 {
		n, err := e.writeMutationResults(dbc, in.Tool, rep, sample.ID, versionID, mutRows)
		if err != nil {
			return err
		}
		rep.MutationResults = n
	}
	return nil
}

// splitRows separates catalog hits from point-mutation rows. AMRFinder
// reports both, distinguished by a method containing "POINT".
func splitRows(tool Tool, b *batch.Batch) (seqRows, mutRows *batch.Batch) {
	switch tool {
	case ToolPointfinder:
		return batch.New(), b
	case ToolAmrfinder:
		isPoint := func(r batch.Row) bool {
			m, _ := r.String(batch.ColMethod)
			return strings.Contains(strings.ToUpper(m), "POINT")
		}
		mutRows = b.Filter(isPoint)
		for _, r := range mutRows.Rows {
			if r.IsNull(batch.ColMutation) {
				r.Set(batch.ColMutation, r[batch.ColGene])
			}
		}
		return b.Filter(func(r batch.Row) bool { return !isPoint(r) }), mutRows
	}
	return b, batch.New()
}

func (e *Engine) writeSequenceResults(dbc dbctx.Context, kind types.CatalogKind, rep *Report, sampleID uint, versionID *uint, b *batch.Batch) (int, error) {
	_, span := observability.Tracer().Start(dbc.Ctx, "reconcile.resolve")
	defer span.End()

	contigs := newContigCache(e.repos.Contigs, sampleID)
	out := make([]*types.SequenceResult, 0, b.Len())
	for i, row := range b.Rows {
		accession, _ := row.String(batch.ColAccession)
		res, err := e.resolver.Resolve(dbc, kind, accession, rowHash(row), i)
		if err != nil {
			return 0, err
		}
		if res.Fallback {
			rep.Diagnostics = append(rep.Diagnostics, Diagnostic{
				Kind:       DiagCollisionFallback,
				Row:        i,
				Accession:  accession,
				Hash:       rowHash(row),
				SequenceID: res.Sequence.ID,
				Message:    fmt.Sprintf("%d entries share the accession", res.Candidates),
			})
		}

		contigID, err := contigs.resolve(dbc, row)
		if err != nil {
			return 0, err
		}
		orientation := row.StringPtr(batch.ColOrientation)
		if contigID == nil {
			orientation = nil
		}
		identity, _ := row.Float(batch.ColIdentity)
		coverage, _ := row.Float(batch.ColCoverage)
		out = append(out, &types.SequenceResult{
			RunID:        rep.RunID,
			Kind:         kind,
			SampleID:     sampleID,
			ContigID:     contigID,
			SequenceID:   res.Sequence.ID,
			VersionID:    versionID,
			Identity:     identity,
			Coverage:     coverage,
			RefPosStart:  row.IntPtr(batch.ColRefStart),
			RefPosEnd:    row.IntPtr(batch.ColRefEnd),
			QCIssues:     row.StringPtr(batch.ColQCIssues),
			Orientation:  orientation,
			Method:       row.StringPtr(batch.ColMethod),
			HashFallback: res.Fallback,
		})
	}
	if _, err := e.repos.SequenceResults.Create(dbc, out); err != nil {
		return 0, err
	}
	return len(out), nil
}

func (e *Engine) writeMutationResults(dbc dbctx.Context, tool Tool, rep *Report, sampleID uint, versionID *uint, b *batch.Batch) (int, error) {
	_, span := observability.Tracer().Start(dbc.Ctx, "reconcile.mutations")
	defer span.End()

	contigs := newContigCache(e.repos.Contigs, sampleID)
	groups := GroupMutations(b, e.linker.delim)
	for _, g := range groups {
		contigID, err := contigs.resolve(dbc, g.Row)
		if err != nil {
			return 0, err
		}
		orientation := g.Row.StringPtr(batch.ColOrientation)
		if contigID == nil {
			orientation = nil
		}
		m := &types.MutationResult{
			RunID:       rep.RunID,
			Tool:        string(tool),
			SampleID:    sampleID,
			ContigID:    contigID,
			VersionID:   versionID,
			Mutation:    g.Key.Mutation,
			NucChange:   g.Row.StringPtr(batch.ColNucChange),
			Identity:    g.Row.FloatPtr(batch.ColIdentity),
			Coverage:    g.Row.FloatPtr(batch.ColCoverage),
			RefPosStart: g.Row.IntPtr(batch.ColRefStart),
			RefPosEnd:   g.Row.IntPtr(batch.ColRefEnd),
			Orientation: orientation,
			Method:      g.Row.StringPtr(batch.ColMethod),
		}
		if _, err := e.repos.MutationResults.Create(dbc, []*types.MutationResult{m}); err != nil {
			return 0, err
		}
		if err := e.linker.LinkMutation(dbc, m.ID, g.Labels); err != nil {
			return 0, err
		}
	}
	return len(groups), nil
}

// audit persists the run outside the write transaction so failed runs are
// recorded too. Audit failures are logged, never returned.
func (e *Engine) audit(ctx context.Context, in Input, rep *Report, started time.Time, runErr error) {
	run := &types.ReconcileRun{
		ID:                rep.RunID,
		Tool:              string(in.Tool),
		Status:            types.RunSucceeded,
		Rows:              rep.Rows,
		ResultsWritten:    rep.SequenceResults + rep.MutationResults,
		VariantsAdded:     rep.VariantsAdded,
		Mismatches:        rep.Mismatches,
		CollisionFallback: rep.CollisionFallbacks,
		Diagnostics:       diagnosticsJSON(rep.Diagnostics),
		StartedAt:         started,
		FinishedAt:        time.Now(),
	}
	if runErr != nil {
		msg := runErr.Error()
		run.Status = types.RunFailed
		run.Error = &msg
		run.ResultsWritten = 0
		run.VariantsAdded = 0
	} else if rep.SampleID != 0 {
		id := rep.SampleID
		run.SampleID = &id
	}
	if err := e.repos.Runs.Create(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, run); err != nil {
		e.log.Error("failed to write run audit row", "run_id", rep.RunID, "error", err)
	}
}

func (e *Engine) record(in Input, rep *Report, runErr error) {
	tool := string(in.Tool)
	kind := string(in.Tool.catalogKind())
	status := string(types.RunSucceeded)
	if runErr != nil {
		status = string(types.RunFailed)
	}
	e.metrics.IncRun(tool, status)
	e.metrics.AddRows(tool, rep.Rows)
	e.metrics.AddOrientationMismatches(tool, rep.Mismatches)
	if runErr != nil {
		if errors.Is(runErr, domainrec.ErrUnknownAccession) {
			e.metrics.IncUnknownAccession(kind)
		}
		return
	}
	e.metrics.AddResults(tool, rep.SequenceResults+rep.MutationResults)
	e.metrics.AddVariants(kind, rep.VariantsAdded)
	e.metrics.AddCollisionFallbacks(kind, rep.CollisionFallbacks)
}

func traceID(span trace.Span) string {
	sc := span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// rowHash prefers the reported hash and falls back to hashing the sequence.
func rowHash(row batch.Row) string {
	if h, ok := row.String(batch.ColHash); ok {
		return h
	}
	if s, ok := row.String(batch.ColSequence); ok {
		return seqkit.Hash(s)
	}
	return ""
}

// contigCache resolves contig names to ids for one sample, creating contigs
// the first time a result references them.
type contigCache struct {
	repo     repos.ContigRepo
	sampleID uint
	ids      map[string]uint
}

func newContigCache(repo repos.ContigRepo, sampleID uint) *contigCache {
	return &contigCache{repo: repo, sampleID: sampleID, ids: map[string]uint{}}
}

func (c *contigCache) resolve(dbc dbctx.Context, row batch.Row) (*uint, error) {
	name, ok := row.String(batch.ColContig)
	if !ok {
		return nil, nil
	}
	if id, ok := c.ids[name]; ok {
		return &id, nil
	}
	contig, _, err := c.repo.GetOrCreate(dbc, c.sampleID, name, row.IntPtr(batch.ColContigLen))
	if err != nil {
		return nil, fmt.Errorf("contig %q: %w", name, err)
	}
	c.ids[name] = contig.ID
	id := contig.ID
	return &id, nil
}
