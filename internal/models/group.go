package models

// Group represents a set of people sharing a ledger (a household, a trip).
// All expense amounts within a group are denominated in one ledger currency.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Lisbon Trip").
	Name string

	// Currency is the ledger currency code for the group (e.g., "USD").
	// Amounts in other currencies are converted before they are recorded.
	Currency string

	// Members is the list of member names in this group.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}
