package usage

// BudgetReader provides read-only access to token budget state.
// Period names are "daily" and "monthly".
type BudgetReader interface {
	Limit(period string) int64
	Used(period string) int64
	Remaining(period string) int64
}
