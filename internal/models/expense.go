package models

// Expense represents a shared expense fronted by one member.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Title is the free-text description (e.g., "Weekly Groceries").
	Title string

	// Category is the spending category (e.g., "Food", "Utilities").
	Category string

	// Amount is the non-negative total, in the group's ledger currency.
	Amount float64

	// Payer is the member who fronted the money.
	Payer string

	// Involved lists the members splitting the amount equally.
	// Empty means the whole group splits it; the storage layer fills in the
	// group's member list on write so reads never re-default.
	Involved []string

	// Settled marks the expense as fully resolved. Settled expenses are
	// excluded from balance computation entirely.
	Settled bool

	// Date is the calendar date of the expense ("2006-01-02"), used for
	// display and sorting only.
	Date string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
