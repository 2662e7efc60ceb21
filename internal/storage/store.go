// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitpay/internal/models"
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the handlers. Writes are serialized by the backend, so a
// read always observes a consistent snapshot of a group's records.
type Store interface {
	// CreateGroup persists a new group. ID and CreatedAt are populated by
	// the store when unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID, including its member list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroup replaces a group's name, currency and member list.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group and, via cascade, its expenses,
	// settlements and members.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers adds the given names to a group, ignoring names
	// already present.
	AddGroupMembers(ctx context.Context, groupID string, names []string) error

	// RemoveGroupMember removes one member from a group.
	RemoveGroupMember(ctx context.Context, groupID, name string) error

	// CreateExpense persists a new expense. An empty involved list is
	// expanded to the group's full member list at write time, so reads never
	// re-default.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by its ID.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves all expenses for a group, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// UpdateExpense replaces an existing expense.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// SettleExpenses marks the given expenses of a group as settled and
	// returns how many rows changed.
	SettleExpenses(ctx context.Context, groupID string, expenseIDs []string) (int, error)

	// CreateSettlement appends a settlement record. Settlements are never
	// updated in place.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup retrieves all settlements for a group, newest
	// first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns (nil, nil) when no such
	// user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
