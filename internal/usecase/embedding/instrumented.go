package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	"github.com/kailas-cloud/wikisearch/internal/metrics"
)

// BudgetChecker gates provider calls on the token budget.
type BudgetChecker interface {
	Check(ctx context.Context) error
	Record(tokens int64)
	Remaining(period string) int64
}

var budgetPeriods = [...]string{PeriodDaily, PeriodMonthly}

// InstrumentedEmbedder enforces the token budget around a provider and
// logs every call. Request, latency and token metrics live in transport/openai.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
	budget   BudgetChecker
	logger   *zap.Logger
}

// NewInstrumentedEmbedder wraps an embedder. budget may be nil.
func NewInstrumentedEmbedder(
	inner domain.Embedder, provider, model string,
	budget BudgetChecker, logger *zap.Logger,
) *InstrumentedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedEmbedder{
		inner:    inner,
		provider: provider,
		budget:   budget,
		logger:   logger.With(zap.String("provider", provider), zap.String("model", model)),
	}
}

// Embed rejects the call when the budget is spent, otherwise delegates
// and charges the consumed tokens.
func (p *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if p.budget != nil {
		if err := p.budget.Check(ctx); err != nil {
			p.logger.Error("Budget exceeded", zap.Error(err))
			return domain.EmbeddingResult{}, fmt.Errorf("budget check: %w", err)
		}
	}

	start := time.Now()
	result, err := p.inner.Embed(ctx, text)
	took := time.Since(start)
	if err != nil {
		p.logger.Error("Embedding request failed", zap.Duration("duration", took), zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}

	if p.budget != nil && result.TotalTokens > 0 {
		p.budget.Record(int64(result.TotalTokens))
		for _, period := range budgetPeriods {
			metrics.EmbeddingBudgetTokensRemaining.
				WithLabelValues(p.provider, period).
				Set(float64(p.budget.Remaining(period)))
		}
	}

	p.logger.Debug("Embedding request completed",
		zap.Duration("duration", took),
		zap.Int("dimensions", len(result.Embedding)),
		zap.Int("total_tokens", result.TotalTokens),
	)
	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports health checks.
func (p *InstrumentedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := p.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent pass-through
	}
	return nil
}
