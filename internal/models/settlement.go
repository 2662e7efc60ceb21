package models

// Settlement represents a payment made outside the ledger (cash handed over,
// a bank transfer) that offsets a computed debt. Settlements are append-only:
// the engine reads them to reduce debts but never creates or mutates them.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUser is the member who paid (debtor settling up).
	FromUser string

	// ToUser is the member who received the payment (creditor being paid).
	ToUser string

	// Amount is the payment amount in the group's ledger currency.
	Amount float64

	// Date is the calendar date of the payment ("2006-01-02").
	Date string

	// Notes is an optional description for the settlement.
	Notes string

	// OriginalAmount and OriginalCurrency record the payment as it was made
	// when it happened in a different currency; ExchangeRate is the rate used
	// to convert it into Amount. All three are zero-valued for payments made
	// directly in the ledger currency.
	OriginalAmount   float64
	OriginalCurrency string
	ExchangeRate     float64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
