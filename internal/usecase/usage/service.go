package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/wikisearch/internal/domain"
)

// Period is the aggregation granularity of a report.
type Period string

// Supported report periods.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// Report is the embedding token usage of one budget window.
// Limit is 0 and Remaining is -1 when the window is unlimited.
type Report struct {
	Period      Period
	PeriodStart time.Time
	PeriodEnd   time.Time
	Tokens      int64
	Limit       int64
	Remaining   int64
	Exhausted   bool
}

// Service handles usage reporting.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (unlimited mode).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: func() time.Time { return time.Now().UTC() }}
}

// ParsePeriod maps a period name to a Period. Empty means the current day.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("unknown usage period %q: %w", s, domain.ErrInvalidInput)
	}
}

// GetReport builds a usage report for the current window of period.
func (s *Service) GetReport(_ context.Context, period Period) Report {
	now := s.now()

	var start, end time.Time
	var budgetPeriod string
	switch period {
	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
		budgetPeriod = "monthly"
	default:
		period = PeriodDay
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		end = start.Add(24 * time.Hour)
		budgetPeriod = "daily"
	}

	r := Report{Period: period, PeriodStart: start, PeriodEnd: end, Remaining: -1}
	if s.br == nil {
		return r
	}

	r.Tokens = s.br.Used(budgetPeriod)
	r.Limit = s.br.Limit(budgetPeriod)
	if r.Limit > 0 {
		r.Remaining = s.br.Remaining(budgetPeriod)
		r.Exhausted = r.Remaining <= 0
	}
	return r
}
