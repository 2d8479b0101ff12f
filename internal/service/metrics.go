package service

import "github.com/phrazzld/taskr-api/internal/domain"

// Outcome labels reported to Metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics receives domain events worth counting. The Prometheus collector
// in internal/platform/metrics implements it.
type Metrics interface {
	ObserveLogin(outcome string)
	ObserveStatusChange(target domain.AccountStatus, outcome string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveLogin(string)                             {}
func (noopMetrics) ObserveStatusChange(domain.AccountStatus, string) {}
