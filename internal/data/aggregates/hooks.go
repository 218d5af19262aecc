package aggregates

import (
	"strings"
	"time"

	domainrec "github.com/yungbote/amrdb/internal/domain/reconcile"
	"github.com/yungbote/amrdb/internal/observability"
)

// Hooks receives the outcome of every write. IncRollback fires once per
// rolled-back transaction with the code the failure was mapped to.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncRollback(name string, code domainrec.ErrorCode)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncRollback(string, domainrec.ErrorCode)        {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates hooks backed by the Prometheus run metrics.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.metrics.ObserveOperation(strings.TrimSpace(name), strings.TrimSpace(status), dur)
}

func (h *observabilityHooks) IncRollback(name string, code domainrec.ErrorCode) {
	outcome := string(code)
	if outcome == "" {
		outcome = "failure"
	}
	h.metrics.IncOperationOutcome(strings.TrimSpace(name), outcome)
}
