// Package seqkit holds the sequence primitives shared by catalog ingestion and
// reconciliation: content hashing, reverse complement, gap stripping and the
// coding-sequence quality check.
package seqkit

import (
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

// Gap is the alignment gap character removed before any sequence comparison.
const Gap = "-"

// Hash returns the catalog content hash of seq: CRC-32 (IEEE) over the ASCII
// text, rendered as 0x-prefixed lower-case hex without zero padding.
// Collisions are expected; callers disambiguate by comparing sequence text.
func Hash(seq string) string {
	return fmt.Sprintf("0x%x", crc32.ChecksumIEEE([]byte(seq)))
}

func StripGaps(seq string) string {
	if !strings.Contains(seq, Gap) {
		return seq
	}
	return strings.ReplaceAll(seq, Gap, "")
}

// RevComp returns the reverse complement of seq over the redundant DNA
// alphabet. Case is preserved and symbols outside the alphabet become N.
func RevComp(seq string) string {
	if seq == "" {
		return ""
	}
	ls := linear.NewSeq("", alphabet.BytesToLetters([]byte(seq)), alphabet.DNAredundant)
	ls.RevComp()
	out := alphabet.LettersToBytes(ls.Seq)
	for i, b := range out {
		if !alphabet.DNAredundant.IsValid(alphabet.Letter(b)) {
			out[i] = 'N'
		}
	}
	return string(out)
}
