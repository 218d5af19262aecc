package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/amrdb/internal/data/aggregates"
	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
)

// HooksRecorder keeps every hook call so tests can assert on them.
type HooksRecorder struct {
	mu sync.Mutex

	Operations []OperationEvent
	Rollbacks  []RollbackEvent
}

type OperationEvent struct {
	Name     string
	Status   string
	Duration time.Duration
}

type RollbackEvent struct {
	Name string
	Code domainrec.ErrorCode
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) ObserveOperation(name, status string, dur time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Operations = append(h.Operations, OperationEvent{Name: name, Status: status, Duration: dur})
}

func (h *HooksRecorder) IncRollback(name string, code domainrec.ErrorCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Rollbacks = append(h.Rollbacks, RollbackEvent{Name: name, Code: code})
}

// RollbackCodes returns the recorded rollback codes in call order.
func (h *HooksRecorder) RollbackCodes() []domainrec.ErrorCode {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domainrec.ErrorCode, 0, len(h.Rollbacks))
	for _, r := range h.Rollbacks {
		out = append(out, r.Code)
	}
	return out
}
