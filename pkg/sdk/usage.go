package wikisearch

import (
	"context"
	"time"

	usageuc "github.com/kailas-cloud/wikisearch/internal/usecase/usage"
)

// UsagePeriod is the budget window of a usage report.
type UsagePeriod string

// UsagePeriod constants.
const (
	PeriodDay   UsagePeriod = "day"
	PeriodMonth UsagePeriod = "month"
)

// UsageReport contains embedding token consumption for the current window.
// TokensLimit is 0 and TokensRemaining -1 when no budget is set.
type UsageReport struct {
	Period          UsagePeriod
	PeriodStart     time.Time
	PeriodEnd       time.Time
	Tokens          int64
	TokensLimit     int64
	TokensRemaining int64
	IsExhausted     bool
}

// Usage returns the embedding usage report for the given period.
// Unknown periods report the current day.
func (c *Client) Usage(ctx context.Context, period UsagePeriod) UsageReport {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, nil) }()

	r := c.usageSvc.GetReport(ctx, usageuc.Period(period))
	return UsageReport{
		Period:          UsagePeriod(r.Period),
		PeriodStart:     r.PeriodStart,
		PeriodEnd:       r.PeriodEnd,
		Tokens:          r.Tokens,
		TokensLimit:     r.Limit,
		TokensRemaining: r.Remaining,
		IsExhausted:     r.Exhausted,
	}
}

// usageUseCase is the internal interface for usage reports.
type usageUseCase interface {
	GetReport(ctx context.Context, period usageuc.Period) usageuc.Report
}
