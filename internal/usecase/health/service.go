package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded means search can't run but stored items are readable.
	Degraded Status = "degraded"
	// Unhealthy means the corpus store itself is unreachable.
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

const (
	checkDatabase  = "database"
	checkEmbedding = "embedding"

	defaultCheckTimeout = 3 * time.Second
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Names returns the check names in stable order.
func (r Report) Names() []string {
	names := make([]string, 0, len(r.Checks))
	for n := range r.Checks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type probe struct {
	name     string
	critical bool
	fn       CheckFunc
}

// Service runs component probes concurrently and folds them into a Report.
type Service struct {
	probes  []probe
	timeout time.Duration
}

// New creates a Service. embedding can be nil.
func New(db DBPinger, embedding EmbeddingChecker) *Service {
	s := &Service{timeout: defaultCheckTimeout}
	s.probes = append(s.probes, probe{name: checkDatabase, critical: true, fn: db.Ping})
	if embedding != nil {
		s.probes = append(s.probes, probe{name: checkEmbedding, fn: embedding.HealthCheck})
	}
	return s
}

// WithCheck adds a non-critical probe.
func (s *Service) WithCheck(name string, fn CheckFunc) *Service {
	s.probes = append(s.probes, probe{name: name, fn: fn})
	return s
}

// WithTimeout bounds each probe.
func (s *Service) WithTimeout(d time.Duration) *Service {
	s.timeout = d
	return s
}

// Check runs all probes and aggregates the results. A failing critical
// probe makes the report Unhealthy; any other failure makes it Degraded.
func (s *Service) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(s.probes))

	var wg sync.WaitGroup
	for i, p := range s.probes {
		wg.Add(1)
		go func(i int, p probe) {
			defer wg.Done()
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			if err := p.fn(pctx); err != nil {
				results[i] = CheckError
				return
			}
			results[i] = CheckOK
		}(i, p)
	}
	wg.Wait()

	checks := make(map[string]CheckResult, len(s.probes))
	status := Healthy
	for i, p := range s.probes {
		checks[p.name] = results[i]
		if results[i] != CheckError {
			continue
		}
		if p.critical {
			status = Unhealthy
		} else if status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}
