package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yungbote/amrdb/internal/batch"
	"github.com/yungbote/amrdb/internal/data/repos"
	"github.com/yungbote/amrdb/internal/platform/dbctx"
	"github.com/yungbote/amrdb/internal/platform/logger"
)

// CanonicalLabel renders a raw phenotype label in display form: trimmed,
// underscores as spaces, each word title-cased ("beta_lactam" -> "Beta Lactam").
func CanonicalLabel(raw string) string {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
	if s == "" {
		return ""
	}
	// a Caser keeps state between calls, so each call gets its own
	return cases.Title(language.Und).String(s)
}

// SplitLabels splits a multi-label cell on delim and returns the distinct
// canonical labels in first-seen order.
func SplitLabels(cell, delim string) []string {
	if delim == "" {
		delim = ","
	}
	seen := map[string]struct{}{}
	var out []string
	for _, part := range strings.Split(cell, delim) {
		label := CanonicalLabel(part)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// MutationKey identifies one point mutation within a batch.
type MutationKey struct {
	Mutation  string
	NucChange string
}

// MutationGroup is the first row reported for a mutation key together with
// the union of labels of every row sharing the key.
type MutationGroup struct {
	Key    MutationKey
	Row    batch.Row
	Index  int
	Labels []string
}

// GroupMutations collapses rows by (mutation, nuc_change) so that each
// distinct mutation yields one result and one link set. Rows without a
// mutation are ignored. Groups keep first-seen order.
func GroupMutations(b *batch.Batch, delim string) []*MutationGroup {
	var groups []*MutationGroup
	byKey := map[MutationKey]*MutationGroup{}
	seenLabel := map[MutationKey]map[string]struct{}{}
	for i, row := range b.Rows {
		mut, ok := row.String(batch.ColMutation)
		if !ok {
			continue
		}
		nuc, _ := row.String(batch.ColNucChange)
		key := MutationKey{Mutation: mut, NucChange: nuc}
		g, ok := byKey[key]
		if !ok {
			g = &MutationGroup{Key: key, Row: row, Index: i}
			byKey[key] = g
			seenLabel[key] = map[string]struct{}{}
			groups = append(groups, g)
		}
		cell, _ := row.String(batch.ColPhenotype)
		for _, label := range SplitLabels(cell, delim) {
			if _, dup := seenLabel[key][label]; dup {
				continue
			}
			seenLabel[key][label] = struct{}{}
			g.Labels = append(g.Labels, label)
		}
	}
	return groups
}

// Linker materializes phenotype rows by label and links them to catalog
// entries and mutation results.
type Linker struct {
	phenotypes repos.PhenotypeRepo
	mutations  repos.MutationResultRepo
	delim      string
	log        *logger.Logger
}

func NewLinker(phenotypes repos.PhenotypeRepo, mutations repos.MutationResultRepo, delim string, baseLog *logger.Logger) *Linker {
	return &Linker{
		phenotypes: phenotypes,
		mutations:  mutations,
		delim:      delim,
		log:        baseLog.With("service", "PhenotypeLinker"),
	}
}

// Ensure returns phenotype ids for labels, creating missing phenotypes.
// Labels are expected in canonical form.
func (l *Linker) Ensure(dbc dbctx.Context, labels []string) ([]uint, error) {
	ids := make([]uint, 0, len(labels))
	for _, label := range labels {
		p, created, err := l.phenotypes.GetOrCreate(dbc, label, nil)
		if err != nil {
			return nil, err
		}
		if created {
			l.log.Debug("phenotype created", "label", label, "phenotype_id", p.ID)
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// LinkCell splits a raw label cell and links every label to a catalog entry.
func (l *Linker) LinkCell(dbc dbctx.Context, sequenceID uint, cell string) ([]uint, error) {
	ids, err := l.Ensure(dbc, SplitLabels(cell, l.delim))
	if err != nil {
		return nil, err
	}
	if err := l.phenotypes.LinkSequence(dbc, sequenceID, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// LinkMutation links a stored mutation result to labels.
func (l *Linker) LinkMutation(dbc dbctx.Context, resultID uint, labels []string) error {
	ids, err := l.Ensure(dbc, labels)
	if err != nil {
		return err
	}
	return l.mutations.LinkPhenotypes(dbc, resultID, ids)
}
