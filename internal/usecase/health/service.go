package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the search engine is up but an auxiliary component is down.
	Degraded Status = "degraded"
	// Unhealthy indicates the search engine is down.
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

// Component names in the report.
const (
	ComponentEngine = "search_engine"
	ComponentCache  = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	engine Pinger
	cache  Pinger
}

// New creates a Service. cache can be nil when the response cache is disabled.
func New(engine, cache Pinger) *Service {
	return &Service{engine: engine, cache: cache}
}

// Check pings every component.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{ComponentEngine: ping(ctx, s.engine)}
	if s.cache != nil {
		checks[ComponentCache] = ping(ctx, s.cache)
	}

	status := Healthy
	switch {
	case checks[ComponentEngine] == CheckError:
		status = Unhealthy
	case checks[ComponentCache] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
