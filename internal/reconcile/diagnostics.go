package reconcile

import (
	"encoding/json"

	"gorm.io/datatypes"
)

type DiagnosticKind string

const (
	// DiagOrientationMismatch: neither strand of the assembly region equals
	// the reported sequence. Orientation is stored as unknown.
	DiagOrientationMismatch DiagnosticKind = "orientation_mismatch"
	// DiagCollisionFallback: several catalog entries share the accession and
	// none (or several) match the hit's hash; the first entry was used.
	DiagCollisionFallback DiagnosticKind = "hash_collision_fallback"
	// DiagProvisionalVariant: a near-identical hit was catalogued with
	// phenotypes inherited from its closest relative.
	DiagProvisionalVariant DiagnosticKind = "provisional_variant"
)

// Diagnostic is a non-fatal finding recorded during a run.
type Diagnostic struct {
	Kind          DiagnosticKind `json:"kind"`
	Row           int            `json:"row"`
	Contig        string         `json:"contig,omitempty"`
	Accession     string         `json:"accession,omitempty"`
	Hash          string         `json:"hash,omitempty"`
	SequenceID    uint           `json:"sequence_id,omitempty"`
	Region        string         `json:"region,omitempty"`
	RegionRevComp string         `json:"region_revcomp,omitempty"`
	Reported      string         `json:"reported,omitempty"`
	Message       string         `json:"message,omitempty"`
}

func countKind(diags []Diagnostic, kind DiagnosticKind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func diagnosticsJSON(diags []Diagnostic) datatypes.JSON {
	if len(diags) == 0 {
		return nil
	}
	raw, err := json.Marshal(diags)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
