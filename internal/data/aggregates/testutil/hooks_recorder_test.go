package testutil

import (
	"testing"
	"time"

	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
)

func TestHooksRecorderKeepsCallOrder(t *testing.T) {
	h := &HooksRecorder{}
	h.ObserveOperation("reconcile.run", "success", 10*time.Millisecond)
	h.IncRollback("reconcile.run", domainrec.CodeUnknownAccession)
	h.IncRollback("catalog.refresh", domainrec.CodeRetryable)

	if len(h.Operations) != 1 || h.Operations[0].Status != "success" {
		t.Fatalf("operations: %+v", h.Operations)
	}
	codes := h.RollbackCodes()
	if len(codes) != 2 || codes[0] != domainrec.CodeUnknownAccession || codes[1] != domainrec.CodeRetryable {
		t.Fatalf("rollback codes: %+v", codes)
	}
}
