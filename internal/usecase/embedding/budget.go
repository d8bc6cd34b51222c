package embedding

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/domain"
)

// BudgetAction defines behavior when token budget is exceeded.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the request.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject blocks the request.
	BudgetActionReject BudgetAction = "reject"
)

// Budget periods, also used as metric labels and key segments.
const (
	PeriodDaily   = "daily"
	PeriodMonthly = "monthly"
)

// BudgetStore persists budget counters. IncrBy must be additive.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// BudgetConfig configures a BudgetTracker. Zero limits mean unlimited.
type BudgetConfig struct {
	Provider     string
	DailyLimit   int64
	MonthlyLimit int64
	Action       BudgetAction
	KeyPrefix    string
}

// period is one rolling budget window.
type period struct {
	name     string
	layout   string
	limit    int64
	used     int64
	start    time.Time
	truncate func(time.Time) time.Time
}

func (p *period) roll(now time.Time) {
	if cur := p.truncate(now); cur.After(p.start) {
		p.used = 0
		p.start = cur
	}
}

func (p *period) exceeded() bool { return p.limit > 0 && p.used >= p.limit }

func (p *period) remaining() int64 {
	if p.limit == 0 {
		return -1
	}
	return max(p.limit-p.used, 0)
}

// BudgetTracker enforces token budgets in memory and writes usage behind
// to an optional store so restarts keep the counters.
type BudgetTracker struct {
	mu        sync.Mutex
	periods   []*period
	action    BudgetAction
	provider  string
	keyPrefix string
	store     BudgetStore
	logger    *zap.Logger
	now       func() time.Time
}

// NewBudgetTracker creates a budget tracker with daily and monthly windows.
func NewBudgetTracker(cfg BudgetConfig, logger *zap.Logger) *BudgetTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &BudgetTracker{
		action:    cfg.Action,
		provider:  cfg.Provider,
		keyPrefix: cfg.KeyPrefix,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	now := b.now()
	b.periods = []*period{
		{name: PeriodDaily, layout: "2006-01-02", limit: cfg.DailyLimit, truncate: truncateToDay, start: truncateToDay(now)},
		{name: PeriodMonthly, layout: "2006-01", limit: cfg.MonthlyLimit, truncate: truncateToMonth, start: truncateToMonth(now)},
	}
	return b
}

// WithStore attaches a persistence store and loads current counters.
// Load failures are logged and leave the counters at zero.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	now := b.now()
	for _, p := range b.periods {
		val, err := store.Get(ctx, b.key(p, now))
		if err != nil {
			b.logger.Warn("Failed to load budget from store",
				zap.String("period", p.name), zap.Error(err))
			continue
		}
		p.used = val
	}

	b.logger.Info("Budget loaded from store",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.periods[0].used),
		zap.Int64("monthly_used", b.periods[1].used),
	)
	return b
}

func (b *BudgetTracker) key(p *period, t time.Time) string {
	return fmt.Sprintf("%sbudget:%s:%s:%s", b.keyPrefix, b.provider, p.name, t.Format(p.layout))
}

// Check verifies the budget allows a new request. In-memory only.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	var over []string
	for _, p := range b.periods {
		p.roll(now)
		if p.exceeded() {
			over = append(over, p.name)
		}
	}
	if len(over) == 0 {
		return nil
	}

	if b.action == BudgetActionReject {
		return fmt.Errorf("%s budget: %w", over[0], domain.ErrEmbeddingQuotaExceeded)
	}

	b.logger.Warn("Token budget exceeded",
		zap.String("provider", b.provider),
		zap.Strings("periods", over),
		zap.Int64("daily_used", b.periods[0].used),
		zap.Int64("monthly_used", b.periods[1].used),
	)
	return nil
}

// Record adds consumed tokens to every window, then persists them.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	now := b.now()
	keys := make([]string, 0, len(b.periods))
	for _, p := range b.periods {
		p.roll(now)
		p.used += tokens
		keys = append(keys, b.key(p, now))
	}
	store := b.store
	b.mu.Unlock()

	if store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, key := range keys {
		if err := store.IncrBy(ctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Remaining returns tokens left in the named period, -1 when unlimited.
func (b *BudgetTracker) Remaining(name string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.period(name)
	if p == nil {
		return -1
	}
	p.roll(b.now())
	return p.remaining()
}

// Used returns tokens consumed in the named period.
func (b *BudgetTracker) Used(name string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := b.period(name)
	if p == nil {
		return 0
	}
	p.roll(b.now())
	return p.used
}

// Limit returns the configured limit of the named period, 0 when unlimited.
func (b *BudgetTracker) Limit(name string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p := b.period(name); p != nil {
		return p.limit
	}
	return 0
}

// RemainingDaily returns tokens left today (-1 if unlimited).
func (b *BudgetTracker) RemainingDaily() int64 { return b.Remaining(PeriodDaily) }

// RemainingMonthly returns tokens left this month (-1 if unlimited).
func (b *BudgetTracker) RemainingMonthly() int64 { return b.Remaining(PeriodMonthly) }

func (b *BudgetTracker) period(name string) *period {
	for _, p := range b.periods {
		if p.name == name {
			return p
		}
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
