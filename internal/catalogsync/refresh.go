package catalogsync

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/amrdb/internal/data/aggregates"
	"github.com/yungbote/amrdb/internal/data/repos"
	types "github.com/yungbote/amrdb/internal/domain"
	"github.com/yungbote/amrdb/internal/observability"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
	"github.com/yungbote/amrdb/internal/reconcile"
)

// Report summarizes a refresh.
type Report struct {
	Updated        int
	Inserted       int
	Unparsed       int
	LinksCleared   int64
	Phenotypes     int
	Links          int
	SkippedClasses int
}

// Refresher applies a loaded reference database to the catalog.
type Refresher struct {
	deps    aggregates.BaseDeps
	repos   repos.Set
	metrics *observability.Metrics
	log     *logger.Logger
}

func NewRefresher(db *gorm.DB, set repos.Set, runner aggregates.TxRunner, metrics *observability.Metrics, baseLog *logger.Logger) *Refresher {
	return &Refresher{
		deps: aggregates.BaseDeps{
			DB:     db,
			Runner: runner,
			Hooks:  aggregates.NewObservabilityHooks(metrics),
		},
		repos:   set,
		metrics: metrics,
		log:     baseLog.With("service", "CatalogRefresher"),
	}
}

// Refresh runs in one transaction:
//  1. every entry is matched by content (hash, then exact sequence) and
//     updated in place, or inserted when unseen; a matched provisional entry
//     becomes official,
//  2. all phenotype links of kind are dropped,
//  3. links are rebuilt by accession, so provisional variants sharing an
//     accession pick up the official phenotypes.
//
// Phenotypes whose class lists several classes are skipped.
func (r *Refresher) Refresh(ctx context.Context, kind types.CatalogKind, db *ResfinderDB) (*Report, error) {
	if !kind.Valid() {
		return nil, aggregates.ValidationError(fmt.Sprintf("unknown catalog kind %q", kind))
	}
	if db == nil {
		return nil, aggregates.ValidationError("nil reference database")
	}
	ctx, span := observability.Tracer().Start(ctx, "catalog.refresh")
	defer span.End()

	rep := &Report{}
	err := aggregates.ExecuteWrite(ctx, r.deps, "catalog.refresh", func(dbc dbctx.Context) error {
		*rep = Report{}
		if err := r.syncEntries(dbc, kind, db.Entries, rep); err != nil {
			return err
		}
		cleared, err := r.repos.Phenotypes.ClearSequenceLinks(dbc, kind)
		if err != nil {
			return fmt.Errorf("clear links: %w", err)
		}
		rep.LinksCleared = cleared
		return r.relink(dbc, kind, db.Phenotypes, rep)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("amrdb.catalog.updated", rep.Updated),
		attribute.Int("amrdb.catalog.inserted", rep.Inserted),
		attribute.Int("amrdb.catalog.links", rep.Links),
	)
	r.metrics.AddCatalogEntries(string(kind), "updated", rep.Updated)
	r.metrics.AddCatalogEntries(string(kind), "inserted", rep.Inserted)
	r.metrics.AddCatalogEntries(string(kind), "linked", rep.Links)
	r.log.Info("catalog refreshed",
		"kind", kind,
		"updated", rep.Updated,
		"inserted", rep.Inserted,
		"unparsed_names", rep.Unparsed,
		"links_cleared", rep.LinksCleared,
		"phenotypes", rep.Phenotypes,
		"links", rep.Links,
		"skipped_classes", rep.SkippedClasses,
	)
	return rep, nil
}

func (r *Refresher) syncEntries(dbc dbctx.Context, kind types.CatalogKind, entries []Entry, rep *Report) error {
	for _, e := range entries {
		if !e.Parsed {
			rep.Unparsed++
			r.log.Warn("reference name does not follow naming convention", "name", e.Name)
		}
		existing, err := r.findByContent(dbc, kind, e.Hash, e.Sequence)
		if err != nil {
			return err
		}
		if existing == nil {
			if _, err := r.repos.Sequences.Create(dbc, []*types.CatalogedSequence{newEntry(kind, e)}); err != nil {
				return fmt.Errorf("insert %s: %w", e.Name, err)
			}
			rep.Inserted++
			continue
		}
		if err := r.repos.Sequences.UpdateFields(dbc, existing.ID, entryUpdates(e)); err != nil {
			return fmt.Errorf("update %s: %w", e.Name, err)
		}
		if existing.Provisional {
			r.log.Info("provisional variant now in reference database", "sequence_id", existing.ID, "name", e.Name)
		}
		rep.Updated++
	}
	return nil
}

func (r *Refresher) findByContent(dbc dbctx.Context, kind types.CatalogKind, hash, seq string) (*types.CatalogedSequence, error) {
	byHash, err := r.repos.Sequences.FindByHash(dbc, kind, hash)
	if err != nil {
		return nil, err
	}
	for _, c := range byHash {
		if c.Sequence == seq {
			return c, nil
		}
	}
	return nil, nil
}

func (r *Refresher) relink(dbc dbctx.Context, kind types.CatalogKind, rows []PhenotypeRow, rep *Report) error {
	all, err := r.repos.Sequences.ListByKind(dbc, kind)
	if err != nil {
		return err
	}
	byAccession := map[string][]uint{}
	for _, s := range all {
		byAccession[s.Accession] = append(byAccession[s.Accession], s.ID)
	}

	type group struct {
		label      string
		class      string
		accessions []string
	}
	var order []string
	groups := map[string]*group{}
	skipped := map[string]struct{}{}
	for _, row := range rows {
		label := reconcile.CanonicalLabel(row.Label)
		if label == "" {
			continue
		}
		g, ok := groups[label]
		if !ok {
			g = &group{label: label}
			groups[label] = g
			order = append(order, label)
		}
		if strings.Contains(row.Class, ",") {
			skipped[row.Label+"\x00"+row.Class] = struct{}{}
		} else if g.class == "" {
			g.class = row.Class
		}
		if row.Accession != "" {
			g.accessions = append(g.accessions, row.Accession)
		}
	}
	rep.SkippedClasses = len(skipped)

	for _, label := range order {
		g := groups[label]
		// only multi-class rows carry this label
		if g.class == "" {
			continue
		}
		class := g.class
		p, created, err := r.repos.Phenotypes.GetOrCreate(dbc, g.label, &class)
		if err != nil {
			return fmt.Errorf("phenotype %q: %w", g.label, err)
		}
		if !created && (p.ClassName == nil || *p.ClassName != class) {
			if err := r.repos.Phenotypes.UpdateClass(dbc, p.ID, &class); err != nil {
				return err
			}
		}
		rep.Phenotypes++

		seen := map[uint]struct{}{}
		for _, acc := range g.accessions {
			for _, seqID := range byAccession[acc] {
				if _, dup := seen[seqID]; dup {
					continue
				}
				seen[seqID] = struct{}{}
				if err := r.repos.Phenotypes.LinkSequence(dbc, seqID, []uint{p.ID}); err != nil {
					return err
				}
				rep.Links++
			}
		}
	}
	return nil
}

func entryUpdates(e Entry) map[string]interface{} {
	updates := map[string]interface{}{
		"name":        e.Name,
		"provisional": false,
	}
	if e.Parsed {
		updates["short_name"] = strPtr(e.Parts.ShortName)
		updates["main_numbering"] = strPtr(e.Parts.MainNumbering)
		updates["subseq_numbering"] = strPtr(e.Parts.SubseqNumbering)
		updates["accession"] = e.Parts.Accession
	}
	return updates
}

func newEntry(kind types.CatalogKind, e Entry) *types.CatalogedSequence {
	s := &types.CatalogedSequence{
		Kind:      kind,
		Name:      e.Name,
		Accession: e.Name,
		CRC32Hash: e.Hash,
		Sequence:  e.Sequence,
	}
	if e.Parsed {
		s.Accession = e.Parts.Accession
		s.ShortName = strPtr(e.Parts.ShortName)
		s.MainNumbering = strPtr(e.Parts.MainNumbering)
		s.SubseqNumbering = strPtr(e.Parts.SubseqNumbering)
	}
	return s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
