package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the search path cannot serve requests.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in a Report.
const (
	CheckItems     = "items"
	CheckEngine    = "engine"
	CheckEmbedding = "embedding"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	items     Pinger
	engine    Pinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(items, engine Pinger, embedding EmbeddingChecker) *Service {
	return &Service{items: items, engine: engine, embedding: embedding}
}

// Check runs health checks against all components. The engine is the
// only hard dependency: without it every request degrades to an empty page.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		CheckItems:  result(s.items.Ping(ctx)),
		CheckEngine: result(s.engine.Ping(ctx)),
	}
	if s.embedding != nil {
		checks[CheckEmbedding] = result(s.embedding.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}
	if checks[CheckEngine] == CheckError {
		status = Unhealthy
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
