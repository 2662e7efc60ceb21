package ledger

// Summary aggregates unsettled spending for the dashboard view.
type Summary struct {
	TotalUnsettled float64            `json:"total_unsettled"`
	ByCategory     map[string]float64 `json:"by_category"`
	ByPayer        map[string]float64 `json:"by_payer"`
}

// Summarize totals the unsettled expenses overall, per category and per
// payer. Settled expenses are excluded, consistent with ComputeBalances.
func Summarize(expenses []Expense) Summary {
	s := Summary{
		ByCategory: make(map[string]float64),
		ByPayer:    make(map[string]float64),
	}
	for _, exp := range expenses {
		if exp.Settled {
			continue
		}
		s.TotalUnsettled += exp.Amount
		s.ByCategory[exp.Category] += exp.Amount
		s.ByPayer[exp.Payer] += exp.Amount
	}
	return s
}
