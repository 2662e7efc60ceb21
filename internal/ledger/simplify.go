package ledger

import (
	"math"
	"sort"
)

// epsilon is the tolerance band below which a balance or debt is treated as
// zero. It absorbs floating-point drift from repeated division.
const epsilon = 0.01

// Debt is a pairwise transfer that, if carried out, offsets the two members'
// balances against each other. Amount is strictly positive.
type Debt struct {
	Debtor   string  `json:"debtor"`
	Creditor string  `json:"creditor"`
	Amount   float64 `json:"amount"`
}

// Simplify reduces signed balances into a list of pairwise debts.
//
// Members within ±epsilon of zero are already settled and excluded. Debtors
// are matched against creditors largest-first with a two-pointer sweep, so
// the result has at most len(debtors)+len(creditors)-1 entries and each
// member appears in exactly one role. Names break ties in the ordering so
// output is stable across runs (map iteration order is not).
func Simplify(balances map[string]float64) []Debt {
	type party struct {
		name   string
		amount float64
	}

	var debtors, creditors []party
	for name, balance := range balances {
		switch {
		case balance < -epsilon:
			debtors = append(debtors, party{name, balance})
		case balance > epsilon:
			creditors = append(creditors, party{name, balance})
		}
	}

	sort.Slice(debtors, func(i, j int) bool {
		if debtors[i].amount != debtors[j].amount {
			return debtors[i].amount < debtors[j].amount
		}
		return debtors[i].name < debtors[j].name
	})
	sort.Slice(creditors, func(i, j int) bool {
		if creditors[i].amount != creditors[j].amount {
			return creditors[i].amount > creditors[j].amount
		}
		return creditors[i].name < creditors[j].name
	})

	var debts []Debt
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(-debtors[i].amount, creditors[j].amount)
		debts = append(debts, Debt{
			Debtor:   debtors[i].name,
			Creditor: creditors[j].name,
			Amount:   amount,
		})

		debtors[i].amount += amount
		creditors[j].amount -= amount

		if math.Abs(debtors[i].amount) < epsilon {
			i++
		}
		if creditors[j].amount < epsilon {
			j++
		}
	}

	return debts
}
