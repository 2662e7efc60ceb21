package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitpay/internal/models"
)

// CreateExpense persists a new expense and its participant set.
// An empty involved list is expanded to the group's full member list here,
// once, so every later read sees an explicit set.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == "" {
		expense.Date = time.Now().Format("2006-01-02")
	}
	if expense.Category == "" {
		expense.Category = "Other"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if len(expense.Involved) == 0 {
		involved, err := s.groupMembers(ctx, expense.GroupID)
		if err != nil {
			return err
		}
		expense.Involved = involved
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, title, category, amount, payer, settled, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Title, expense.Category,
		expense.Amount, expense.Payer, expense.Settled, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, name := range expense.Involved {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO expense_participants (expense_id, name) VALUES (?, ?)",
			expense.ID, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its participant set.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, title, category, amount, payer, settled, date, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Title, &expense.Category,
		&expense.Amount, &expense.Payer, &expense.Settled, &expense.Date, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	involved, err := s.expenseParticipants(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	expense.Involved = involved

	return expense, nil
}

// ListExpensesByGroup retrieves all expenses for a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, title, category, amount, payer, settled, date, created_at
		 FROM expenses WHERE group_id = ? ORDER BY date DESC, created_at DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Title, &expense.Category,
			&expense.Amount, &expense.Payer, &expense.Settled, &expense.Date, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		involved, err := s.expenseParticipants(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Involved = involved
	}

	return expenses, nil
}

// UpdateExpense replaces an existing expense and its participant set.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if len(expense.Involved) == 0 {
		involved, err := s.groupMembers(ctx, expense.GroupID)
		if err != nil {
			return err
		}
		expense.Involved = involved
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET title = ?, category = ?, amount = ?, payer = ?, settled = ?, date = ?
		 WHERE id = ?`,
		expense.Title, expense.Category, expense.Amount, expense.Payer,
		expense.Settled, expense.Date, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense not found: %s", expense.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_participants WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense participants: %w", err)
	}
	for _, name := range expense.Involved {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO expense_participants (expense_id, name) VALUES (?, ?)",
			expense.ID, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense by ID; participants cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense not found: %s", expenseID)
	}
	return nil
}

// SettleExpenses marks the given expenses of a group as settled and returns
// how many rows changed. IDs belonging to another group are ignored.
func (s *SQLiteStore) SettleExpenses(ctx context.Context, groupID string, expenseIDs []string) (int, error) {
	if len(expenseIDs) == 0 {
		return 0, nil
	}

	query := "UPDATE expenses SET settled = 1 WHERE group_id = ? AND id IN (?" +
		repeatPlaceholder(len(expenseIDs)-1) + ")"

	args := make([]interface{}, 0, len(expenseIDs)+1)
	args = append(args, groupID)
	for _, id := range expenseIDs {
		args = append(args, id)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to settle expenses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check settle result: %w", err)
	}
	return int(affected), nil
}

// expenseParticipants loads the involved names of an expense, sorted by name.
func (s *SQLiteStore) expenseParticipants(ctx context.Context, expenseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM expense_participants WHERE expense_id = ? ORDER BY name",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense participants: %w", err)
	}
	defer rows.Close()

	var involved []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan expense participant: %w", err)
		}
		involved = append(involved, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense participants: %w", err)
	}

	return involved, nil
}
