package ledger

// Expense carries the minimal fields the engine needs for balance calculation.
type Expense struct {
	Title    string
	Category string
	Amount   float64
	Payer    string
	// Involved lists the members splitting the amount equally.
	// Empty means "all members".
	Involved []string
	// Settled expenses are excluded from balance computation entirely.
	Settled bool
}

// ComputeBalances reduces expenses into one signed net balance per member.
// Positive means the group owes this member, negative means this member owes
// the group.
//
// Degenerate inputs degrade silently rather than erroring:
//   - a payer or participant not in members is excluded from the update
//     (neither credited nor debited),
//   - an expense whose involved set is empty even after defaulting to the
//     full member set is skipped (no division by zero).
func ComputeBalances(expenses []Expense, members []string) map[string]float64 {
	balances := make(map[string]float64, len(members))
	for _, m := range members {
		balances[m] = 0
	}

	for _, exp := range expenses {
		if exp.Settled {
			continue
		}

		involved := exp.Involved
		if len(involved) == 0 {
			involved = members
		}
		if len(involved) == 0 {
			continue
		}

		// Payer is credited the full amount and, if also involved, debited
		// their own share below: net amount - share.
		share := exp.Amount / float64(len(involved))
		if _, known := balances[exp.Payer]; known {
			balances[exp.Payer] += exp.Amount
		}
		for _, person := range involved {
			if _, known := balances[person]; known {
				balances[person] -= share
			}
		}
	}

	return balances
}
