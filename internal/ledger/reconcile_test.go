package ledger

import (
	"math"
	"testing"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name        string
		debts       []Debt
		settlements []Settlement
		want        []Debt
	}{
		{
			name:        "full payment clears the debt",
			debts:       []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}},
			settlements: []Settlement{{FromUser: "Bob", ToUser: "Alice", Amount: 30}},
			want:        nil,
		},
		{
			name:        "partial payment reduces the debt",
			debts:       []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}},
			settlements: []Settlement{{FromUser: "Bob", ToUser: "Alice", Amount: 10}},
			want:        []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 20}},
		},
		{
			name:        "reverse direction does not net",
			debts:       []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}},
			settlements: []Settlement{{FromUser: "Alice", ToUser: "Bob", Amount: 30}},
			want:        []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}},
		},
		{
			name:        "settlement with no matching debt is a no-op",
			debts:       []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}},
			settlements: []Settlement{{FromUser: "Charlie", ToUser: "Alice", Amount: 15}},
			want:        []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}},
		},
		{
			name:        "overpayment removes the debt without going negative",
			debts:       []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}},
			settlements: []Settlement{{FromUser: "Bob", ToUser: "Alice", Amount: 45}},
			want:        nil,
		},
		{
			name: "multiple settlements accumulate against one debt",
			debts: []Debt{
				{Debtor: "Bob", Creditor: "Alice", Amount: 50},
				{Debtor: "Charlie", Creditor: "Alice", Amount: 20},
			},
			settlements: []Settlement{
				{FromUser: "Bob", ToUser: "Alice", Amount: 20},
				{FromUser: "Bob", ToUser: "Alice", Amount: 20},
			},
			want: []Debt{
				{Debtor: "Bob", Creditor: "Alice", Amount: 10},
				{Debtor: "Charlie", Creditor: "Alice", Amount: 20},
			},
		},
		{
			name:        "residual within tolerance is dropped",
			debts:       []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}},
			settlements: []Settlement{{FromUser: "Bob", ToUser: "Alice", Amount: 29.995}},
			want:        nil,
		},
		{
			name:        "no settlements leaves debts untouched",
			debts:       []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 12.5}},
			settlements: nil,
			want:        []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 12.5}},
		},
		{
			name:        "only the first matching synthetic duplicate is reduced",
			debts:       []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 10}, {Debtor: "Bob", Creditor: "Alice", Amount: 10}},
			settlements: []Settlement{{FromUser: "Bob", ToUser: "Alice", Amount: 10}},
			want:        []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.debts, tt.settlements)
			assertDebtsEqual(t, got, tt.want)
		})
	}
}

// Reconcile never increases a debt and never introduces a pair absent from
// the input.
func TestReconcileMonotonic(t *testing.T) {
	debts := []Debt{
		{Debtor: "Bob", Creditor: "Alice", Amount: 40},
		{Debtor: "Charlie", Creditor: "Diana", Amount: 25},
	}
	settlements := []Settlement{
		{FromUser: "Bob", ToUser: "Alice", Amount: 15},
		{FromUser: "Eve", ToUser: "Frank", Amount: 99},
		{FromUser: "Diana", ToUser: "Charlie", Amount: 5},
	}

	inputAmount := make(map[[2]string]float64)
	for _, d := range debts {
		inputAmount[[2]string{d.Debtor, d.Creditor}] = d.Amount
	}

	for _, d := range Reconcile(debts, settlements) {
		before, existed := inputAmount[[2]string{d.Debtor, d.Creditor}]
		if !existed {
			t.Errorf("reconcile introduced pair %s->%s", d.Debtor, d.Creditor)
			continue
		}
		if d.Amount > before+1e-9 {
			t.Errorf("debt %s->%s grew from %v to %v", d.Debtor, d.Creditor, before, d.Amount)
		}
	}
}

// Reconcile must not mutate the debts slice it is given: callers hand over
// snapshots.
func TestReconcileDoesNotMutateInput(t *testing.T) {
	debts := []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}}
	Reconcile(debts, []Settlement{{FromUser: "Bob", ToUser: "Alice", Amount: 10}})

	if debts[0].Amount != 30 {
		t.Errorf("input debt mutated to %v, want 30", debts[0].Amount)
	}
}

func TestOutstanding(t *testing.T) {
	members := []string{"Alice", "Bob"}
	expenses := []Expense{
		{Title: "Dinner", Amount: 100, Payer: "Alice", Involved: members},
		{Title: "Taxi", Amount: 40, Payer: "Bob", Involved: members},
	}

	t.Run("without settlements", func(t *testing.T) {
		got := Outstanding(expenses, members, nil)
		assertDebtsEqual(t, got, []Debt{{Debtor: "Bob", Creditor: "Alice", Amount: 30}})
	})

	t.Run("settlement clears the pipeline output", func(t *testing.T) {
		got := Outstanding(expenses, members, []Settlement{{FromUser: "Bob", ToUser: "Alice", Amount: 30}})
		if len(got) != 0 {
			t.Errorf("outstanding = %v, want empty", got)
		}
	})
}

func TestSummarize(t *testing.T) {
	expenses := []Expense{
		{Title: "Groceries", Category: "Food", Amount: 80, Payer: "Alice"},
		{Title: "Beers", Category: "Food", Amount: 20, Payer: "Bob"},
		{Title: "Electricity", Category: "Utilities", Amount: 55.5, Payer: "Alice"},
		{Title: "Old rent", Category: "Rent", Amount: 1000, Payer: "Bob", Settled: true},
	}

	s := Summarize(expenses)

	if math.Abs(s.TotalUnsettled-155.5) > 1e-9 {
		t.Errorf("TotalUnsettled = %v, want 155.5", s.TotalUnsettled)
	}
	if math.Abs(s.ByCategory["Food"]-100) > 1e-9 {
		t.Errorf("ByCategory[Food] = %v, want 100", s.ByCategory["Food"])
	}
	if math.Abs(s.ByPayer["Alice"]-135.5) > 1e-9 {
		t.Errorf("ByPayer[Alice] = %v, want 135.5", s.ByPayer["Alice"])
	}
	if _, ok := s.ByCategory["Rent"]; ok {
		t.Error("settled expense leaked into the summary")
	}
}
