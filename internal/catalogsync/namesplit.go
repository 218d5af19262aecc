// Package catalogsync refreshes the sequence catalog from a reference
// database checkout: entries are updated in place by content, unseen ones are
// inserted and phenotype links are rebuilt from scratch.
package catalogsync

import (
	"regexp"
	"strings"
)

var (
	// <gene>[-_]<allele>_<accession>[:suffix], e.g. blaTEM-1_1_AF091113
	nameRe = regexp.MustCompile(`([^_]*)[-_]([^_]*)_([A-Z]+_[A-Z0-9.]*|[A-Z0-9.]*):*.*$`)
	// blaTEM-1 -> blaTEM, 1; aac(6')-Ib -> aac, (6')-Ib
	shortRe = regexp.MustCompile(`([^\d^(]*)-*([()0-9A-Za-z'-]*)`)
)

// NameParts is the decomposition of a reference sequence name.
type NameParts struct {
	ShortName       string
	MainNumbering   string
	SubseqNumbering string
	Accession       string
}

// SplitName decomposes a reference name into gene short name, displayed
// variant number, internal allele number and accession. ok is false when the
// name does not follow the convention.
func SplitName(name string) (NameParts, bool) {
	m := nameRe.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return NameParts{}, false
	}
	parts := NameParts{SubseqNumbering: m[2], Accession: m[3]}
	parts.ShortName, parts.MainNumbering = SplitShortName(m[1])
	return parts, true
}

// SplitShortName separates a gene name from its variant number. The
// separating hyphen is dropped: blaCTX-M-15 -> blaCTX-M, 15.
func SplitShortName(gene string) (short, number string) {
	m := shortRe.FindStringSubmatch(gene)
	if m == nil {
		return gene, ""
	}
	return strings.TrimRight(m[1], "-"), m[2]
}
