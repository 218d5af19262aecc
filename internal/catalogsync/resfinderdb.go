package catalogsync

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/amrdb/internal/fasta"
	"github.com/yungbote/amrdb/internal/platform/objstore"
	"github.com/yungbote/amrdb/internal/seqkit"
)

const (
	phenotypesFile = "phenotypes.txt"
	combinedFasta  = "all.fsa"

	colGeneAccession = "Gene_accession no."
	colClass         = "Class"
	colPhenotype     = "Phenotype"

	phenotypeSeparator = ", "
)

// Source lists and opens reference database files. *objstore.Store
// satisfies it, so checkouts can live on disk, in GCS or in S3.
type Source interface {
	List(ctx context.Context, raw string) ([]objstore.Location, error)
	Open(ctx context.Context, raw string) (io.ReadCloser, error)
}

// Entry is one reference sequence.
type Entry struct {
	Name     string
	Sequence string
	Hash     string
	Parts    NameParts
	// Parsed is false when Name did not follow the naming convention.
	Parsed bool
}

// PhenotypeRow is one (gene, class, phenotype) line of phenotypes.txt, with
// multi-phenotype cells already exploded.
type PhenotypeRow struct {
	Gene      string
	Accession string
	Class     string
	Label     string
}

// ResfinderDB is a loaded ResFinder database checkout.
type ResfinderDB struct {
	Entries    []Entry
	Phenotypes []PhenotypeRow
}

// LoadResfinderDB reads every *.fsa file under dir except all.fsa, plus
// phenotypes.txt. FASTA files are read concurrently; entry order follows the
// sorted file listing.
func LoadResfinderDB(ctx context.Context, src Source, dir string) (*ResfinderDB, error) {
	locs, err := src.List(ctx, dir)
	if err != nil {
		return nil, err
	}

	var fsa []objstore.Location
	var pheno *objstore.Location
	for i := range locs {
		base := locs[i].Base()
		switch {
		case base == phenotypesFile:
			pheno = &locs[i]
		case strings.HasSuffix(base, ".fsa") && base != combinedFasta:
			fsa = append(fsa, locs[i])
		}
	}
	if len(fsa) == 0 {
		return nil, fmt.Errorf("catalogsync: no .fsa files in %s", dir)
	}
	if pheno == nil {
		return nil, fmt.Errorf("catalogsync: %s missing in %s", phenotypesFile, dir)
	}

	perFile := make([][]Entry, len(fsa))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, loc := range fsa {
		i, loc := i, loc
		g.Go(func() error {
			entries, err := readFasta(gctx, src, loc)
			if err != nil {
				return fmt.Errorf("catalogsync: %s: %w", loc.Base(), err)
			}
			perFile[i] = entries
			return nil
		})
	}
	var rows []PhenotypeRow
	g.Go(func() error {
		rc, err := src.Open(gctx, pheno.String())
		if err != nil {
			return err
		}
		defer rc.Close()
		rows, err = ParsePhenotypes(rc)
		if err != nil {
			return fmt.Errorf("catalogsync: %s: %w", phenotypesFile, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &ResfinderDB{Phenotypes: rows}
	for _, entries := range perFile {
		out.Entries = append(out.Entries, entries...)
	}
	return out, nil
}

func readFasta(ctx context.Context, src Source, loc objstore.Location) ([]Entry, error) {
	rc, err := src.Open(ctx, loc.String())
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var out []Entry
	err = fasta.Scan(ctx, rc, func(rec fasta.Record) error {
		parts, ok := SplitName(rec.ID)
		out = append(out, Entry{
			Name:     rec.ID,
			Sequence: rec.Seq,
			Hash:     seqkit.Hash(rec.Seq),
			Parts:    parts,
			Parsed:   ok,
		})
		return nil
	})
	return out, err
}

// ParsePhenotypes reads the tab-separated phenotypes table. Cells listing
// several phenotypes (", "-separated) yield one row per phenotype.
func ParsePhenotypes(r io.Reader) ([]PhenotypeRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty phenotype table")
		}
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{colGeneAccession, colClass, colPhenotype} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	cell := func(rec []string, col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []PhenotypeRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		gene := cell(rec, colGeneAccession)
		if gene == "" {
			continue
		}
		parts, _ := SplitName(gene)
		class := cell(rec, colClass)
		for _, label := range strings.Split(cell(rec, colPhenotype), phenotypeSeparator) {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			out = append(out, PhenotypeRow{Gene: gene, Accession: parts.Accession, Class: class, Label: label})
		}
	}
	return out, nil
}
