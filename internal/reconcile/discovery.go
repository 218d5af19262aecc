package reconcile

import (
	"strings"

	"github.com/yungbote/amrdb/internal/batch"
	"github.com/yungbote/amrdb/internal/data/repos"
	types "github.com/yungbote/amrdb/internal/domain"
	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"github.com/yungbote/amrdb/internal/platform/ctxutil"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
	"github.com/yungbote/amrdb/internal/seqkit"
)

// Thresholds bound the near-identical band a hit must fall into to be
// catalogued as a variant.
type Thresholds struct {
	IdentityMin float64
	CoverageMin float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{IdentityMin: 95, CoverageMin: 95}
}

// FillGeneQC sets qc_issues on every row that carries a sequence but no QC
// verdict, and returns how many rows were flagged. A clean sequence keeps the
// column null.
func FillGeneQC(b *batch.Batch, ignoreMissingStop bool) int {
	flagged := 0
	for _, row := range b.Rows {
		if !row.IsNull(batch.ColQCIssues) {
			continue
		}
		seq, ok := row.String(batch.ColSequence)
		if !ok {
			continue
		}
		if issues := seqkit.GeneQC(seq, ignoreMissingStop); issues != nil {
			row.Set(batch.ColQCIssues, *issues)
			flagged++
		}
	}
	return flagged
}

// Eligible reports whether row is a clean near-identical hit:
// no QC issues, IdentityMin <= identity <= 100, coverage > CoverageMin and
// not exactly 100, and not a 100/100 hit. Rows without a sequence never
// qualify.
func Eligible(row batch.Row, th Thresholds) bool {
	if !row.IsNull(batch.ColQCIssues) || row.IsNull(batch.ColSequence) {
		return false
	}
	identity, ok := row.Float(batch.ColIdentity)
	if !ok {
		return false
	}
	coverage, ok := row.Float(batch.ColCoverage)
	if !ok {
		return false
	}
	if identity == 100 && coverage == 100 {
		return false
	}
	if identity < th.IdentityMin || identity > 100 {
		return false
	}
	return coverage > th.CoverageMin && coverage != 100
}

// Registration is the outcome of cataloguing one eligible row.
type Registration struct {
	Sequence *types.CatalogedSequence
	Relative *types.CatalogedSequence
	Created  bool
}

// Discovery registers near-identical hits as provisional catalog entries.
type Discovery struct {
	seqs       repos.SequenceRepo
	phenotypes repos.PhenotypeRepo
	tag        string
	thresholds Thresholds
	log        *logger.Logger
}

func NewDiscovery(seqs repos.SequenceRepo, phenotypes repos.PhenotypeRepo, tag string, th Thresholds, baseLog *logger.Logger) *Discovery {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = "LOCAL"
	}
	return &Discovery{
		seqs:       seqs,
		phenotypes: phenotypes,
		tag:        tag,
		thresholds: th,
		log:        baseLog.With("service", "VariantDiscovery"),
	}
}

// Run registers every eligible row of b and returns one diagnostic per newly
// catalogued variant. Rows whose sequence is already catalogued are skipped,
// so running twice over the same batch creates nothing the second time.
func (d *Discovery) Run(dbc dbctx.Context, kind types.CatalogKind, b *batch.Batch) ([]Diagnostic, error) {
	var diags []Diagnostic
	for i, row := range b.Rows {
		if !Eligible(row, d.thresholds) {
			continue
		}
		reg, err := d.Register(dbc, kind, i, row)
		if err != nil {
			return diags, err
		}
		if !reg.Created {
			continue
		}
		diags = append(diags, Diagnostic{
			Kind:       DiagProvisionalVariant,
			Row:        i,
			Accession:  reg.Sequence.Accession,
			Hash:       reg.Sequence.CRC32Hash,
			SequenceID: reg.Sequence.ID,
			Message:    "phenotypes inherited from " + reg.Relative.Name,
		})
	}
	return diags, nil
}

// Register returns the catalog entry holding row's sequence, creating a
// provisional one when the sequence is unseen. A new entry takes its
// accession and phenotypes from the first catalog entry with the row's
// accession.
func (d *Discovery) Register(dbc dbctx.Context, kind types.CatalogKind, idx int, row batch.Row) (*Registration, error) {
	seq, _ := row.String(batch.ColSequence)
	hash, ok := row.String(batch.ColHash)
	if !ok {
		hash = seqkit.Hash(seq)
	}

	existing, err := d.lookup(dbc, kind, hash, seq)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Registration{Sequence: existing}, nil
	}

	accession, _ := row.String(batch.ColAccession)
	relatives, err := d.seqs.FindByAccession(dbc, kind, accession)
	if err != nil {
		return nil, err
	}
	if len(relatives) == 0 {
		return nil, &domainrec.UnknownAccessionError{Kind: string(kind), Accession: accession, Row: idx}
	}
	relative := relatives[0]

	gene, ok := row.String(batch.ColGene)
	if !ok {
		gene = accession
	}
	internal := d.tag + "_" + hash
	entry := &types.CatalogedSequence{
		Kind:              kind,
		Name:              gene + "_" + internal,
		Accession:         relative.Accession,
		InternalNumbering: &internal,
		CRC32Hash:         hash,
		Sequence:          seq,
		Provisional:       true,
	}
	if kind == types.KindAmrfinder {
		entry.LongName = row.StringPtr(batch.ColLongName)
		entry.IsCore = row.BoolPtr(batch.ColIsCore)
	}
	if _, err := d.seqs.Create(dbc, []*types.CatalogedSequence{entry}); err != nil {
		return nil, err
	}

	inherited, err := d.phenotypes.ListForSequence(dbc, relative.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(inherited))
	for _, p := range inherited {
		ids = append(ids, p.ID)
	}
	if err := d.phenotypes.LinkSequence(dbc, entry.ID, ids); err != nil {
		return nil, err
	}

	ctxutil.Logger(dbc.Ctx, d.log).Warn("provisional variant catalogued",
		"kind", kind,
		"row", idx,
		"name", entry.Name,
		"hash", hash,
		"relative_id", relative.ID,
		"inherited_phenotypes", len(ids),
	)
	return &Registration{Sequence: entry, Relative: relative, Created: true}, nil
}

// lookup finds the entry with hash whose sequence text equals seq. Entries
// that only share the hash are collisions and do not count.
func (d *Discovery) lookup(dbc dbctx.Context, kind types.CatalogKind, hash, seq string) (*types.CatalogedSequence, error) {
	byHash, err := d.seqs.FindByHash(dbc, kind, hash)
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
