package ledger

// Settlement is a payment already made outside the ledger (cash handed over,
// a bank transfer) that should offset a computed debt between the same two
// members in the same direction.
type Settlement struct {
	FromUser string
	ToUser   string
	Amount   float64
}

// Reconcile applies recorded settlements against computed debts and returns
// the debts still outstanding.
//
// Each settlement reduces the first debt with an exact direction match
// (debtor == FromUser, creditor == ToUser); there is no reverse netting and
// no proportional distribution. A settlement matching no current debt, for
// example one already fully applied or whose debt direction has since
// reversed, is a no-op rather than an error. Debts reduced to within epsilon
// of zero (or below) are dropped from the result.
func Reconcile(debts []Debt, settlements []Settlement) []Debt {
	remaining := make([]Debt, len(debts))
	copy(remaining, debts)

	for _, s := range settlements {
		for k := range remaining {
			if remaining[k].Debtor == s.FromUser && remaining[k].Creditor == s.ToUser {
				remaining[k].Amount -= s.Amount
				break
			}
		}
	}

	outstanding := make([]Debt, 0, len(remaining))
	for _, d := range remaining {
		if d.Amount > epsilon {
			outstanding = append(outstanding, d)
		}
	}
	return outstanding
}

// Outstanding runs the full pipeline: balances from expenses, simplification
// into pairwise debts, then reconciliation against recorded settlements.
func Outstanding(expenses []Expense, members []string, settlements []Settlement) []Debt {
	return Reconcile(Simplify(ComputeBalances(expenses, members)), settlements)
}
