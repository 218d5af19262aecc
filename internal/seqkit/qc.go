package seqkit

import "strings"

const (
	IssueMissingStop   = "Missing STOP codon"
	IssueMissingStart  = "Missing START codon"
	IssueNotInTriplets = "Consensus length not in codon tripplets"
)

var (
	startCodons = map[string]struct{}{"ATG": {}, "GTG": {}, "TTG": {}}
	stopCodons  = map[string]struct{}{"TAA": {}, "TAG": {}, "TGA": {}}
)

// GeneQC checks a recovered coding sequence and returns nil when it is clean,
// otherwise a comma-joined list of issues. ignoreMissingStop is for tools that
// trim the stop codon from reported hits.
func GeneQC(seq string, ignoreMissingStop bool) *string {
	upper := strings.ToUpper(seq)
	var issues []string
	if !ignoreMissingStop {
		if _, ok := stopCodons[suffix(upper, 3)]; !ok {
			issues = append(issues, IssueMissingStop)
		}
	}
	if _, ok := startCodons[prefix(upper, 3)]; !ok {
		issues = append(issues, IssueMissingStart)
	}
	if len(StripGaps(upper))%3 != 0 {
		issues = append(issues, IssueNotInTriplets)
	}
	if len(issues) == 0 {
		return nil
	}
	joined := strings.Join(issues, ", ")
	return &joined
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func suffix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[len(s)-n:]
}
