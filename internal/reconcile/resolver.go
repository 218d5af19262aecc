package reconcile

import (
	"strings"

	"github.com/yungbote/amrdb/internal/data/repos"
	types "github.com/yungbote/amrdb/internal/domain"
	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"github.com/yungbote/amrdb/internal/platform/ctxutil"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

// Resolution is the single catalog entry a hit resolved to.
type Resolution struct {
	Sequence *types.CatalogedSequence
	// Fallback is set when the accession had several entries and the hash
	// did not single one out, so the first entry by insertion order was used.
	Fallback   bool
	Candidates int
}

// Resolver maps (accession, content hash) pairs onto catalog entries.
type Resolver struct {
	seqs repos.SequenceRepo
	log  *logger.Logger
}

func NewResolver(seqs repos.SequenceRepo, baseLog *logger.Logger) *Resolver {
	return &Resolver{seqs: seqs, log: baseLog.With("service", "Resolver")}
}

// Resolve returns exactly one entry for accession or an
// *UnknownAccessionError when the catalog has none. row is only used for
// error and log context.
func (r *Resolver) Resolve(dbc dbctx.Context, kind types.CatalogKind, accession, hash string, row int) (*Resolution, error) {
	accession = strings.TrimSpace(accession)
	if accession == "" {
		return nil, &domainrec.UnknownAccessionError{Kind: string(kind), Accession: accession, Row: row}
	}
	candidates, err := r.seqs.FindByAccession(dbc, kind, accession)
	if err != nil {
		return nil, err
	}
	switch len(candidates) {
	case 0:
		return nil, &domainrec.UnknownAccessionError{Kind: string(kind), Accession: accession, Row: row}
	case 1:
		return &Resolution{Sequence: candidates[0], Candidates: 1}, nil
	}

	var exact []*types.CatalogedSequence
	for _, c := range candidates {
		if hash != "" && c.CRC32Hash == hash {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return &Resolution{Sequence: exact[0], Candidates: len(candidates)}, nil
	}

	// candidates are ordered by id, so the first is the original entry
	ctxutil.Logger(dbc.Ctx, r.log).Warn("hash did not single out a variant, using first accession match",
		"kind", kind,
		"accession", accession,
		"hash", hash,
		"row", row,
		"candidates", len(candidates),
		"hash_matches", len(exact),
		"sequence_id", candidates[0].ID,
	)
	return &Resolution{Sequence: candidates[0], Fallback: true, Candidates: len(candidates)}, nil
}
